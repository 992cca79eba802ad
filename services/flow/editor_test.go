package flow

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_DoesNotModifyInput(t *testing.T) {
	s := State{Graph: testGraph(), LaidOut: true}

	next, outcome, err := Reduce(s, DeleteNode{ID: "decision"})
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)
	assert.Len(t, next.Graph.Nodes, 3)
	assert.Len(t, s.Graph.Nodes, 4)
	assert.Len(t, s.Graph.Edges, 3)
}

func TestReduce_StaleReferencesAreNotFound(t *testing.T) {
	s := State{Graph: testGraph(), Selected: "email", LaidOut: true}

	actions := []Action{
		DeleteNode{ID: "missing"},
		MoveNode{ID: "missing", Position: Position{X: 1}},
		ClickNode{ID: "missing"},
		UpdateNode{ID: "missing", Data: NodeData{Payload: StartPayload{}}},
	}
	for _, a := range actions {
		next, outcome, err := Reduce(s, a)
		assert.NoError(t, err)
		assert.Equal(t, NotFound, outcome)
		assert.Equal(t, s, next)
	}
}

func TestReduce_RejectedConnect(t *testing.T) {
	s := State{Graph: testGraph()}
	next, outcome, err := Reduce(s, Connect{Source: "decision", Target: "sms", Handle: HandleTrue})

	assert.Equal(t, Rejected, outcome)
	assert.ErrorIs(t, err, ErrDuplicateBranch)
	assert.Len(t, next.Graph.Edges, 3)
}

func TestReduce_Selection(t *testing.T) {
	s := State{Graph: testGraph()}

	s, _, _ = Reduce(s, ClickNode{ID: "email"})
	assert.Equal(t, "email", s.Selected)

	s, _, _ = Reduce(s, ClickNode{ID: "sms"})
	assert.Equal(t, "sms", s.Selected)

	s, _, _ = Reduce(s, ClickNode{ID: "sms"})
	assert.Equal(t, "", s.Selected)

	s, _, _ = Reduce(s, ClickNode{ID: "email"})
	s, _, _ = Reduce(s, ClickPane{})
	assert.Equal(t, "", s.Selected)
}

func TestReduce_DeleteSelectedClearsSelection(t *testing.T) {
	s := State{Graph: testGraph(), Selected: "email"}

	s, _, _ = Reduce(s, DeleteNode{ID: "sms"})
	assert.Equal(t, "email", s.Selected)

	s, _, _ = Reduce(s, DeleteNode{ID: "email"})
	assert.Equal(t, "", s.Selected)
}

func TestReduce_MoveKeepsPositionAcrossSync(t *testing.T) {
	s := Sync(State{Graph: testGraph()})
	require.True(t, s.LaidOut)

	s, outcome, _ := Reduce(s, MoveNode{ID: "email", Position: Position{X: 7, Y: 9}})
	require.Equal(t, Applied, outcome)
	s = Sync(s)

	n, _ := s.Graph.Node("email")
	assert.Equal(t, Position{X: 7, Y: 9}, n.Position)
}

func TestReduce_AutoLayoutForcesNextSync(t *testing.T) {
	s := Sync(State{Graph: testGraph()})
	s, _, _ = Reduce(s, MoveNode{ID: "email", Position: Position{X: 7, Y: 9}})

	s, _, _ = Reduce(s, AutoLayout{})
	assert.False(t, s.LaidOut)
	s = Sync(s)

	n, _ := s.Graph.Node("email")
	assert.Equal(t, Position{X: 200, Y: 850}, n.Position)
	assert.True(t, s.LaidOut)
}

func TestReduce_ReplaceResetsSession(t *testing.T) {
	s := State{Graph: testGraph(), Selected: "email", LaidOut: true}
	s, outcome, err := Reduce(s, Replace{Graph: NewGraph()})

	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)
	assert.Equal(t, "", s.Selected)
	assert.False(t, s.LaidOut)
	assert.Len(t, s.Graph.Nodes, 1)
}

func TestSync(t *testing.T) {
	t.Run("single node is left alone", func(t *testing.T) {
		s := State{Graph: NewGraph()}
		assert.Equal(t, s, Sync(s))
	})

	t.Run("laid out state is left alone", func(t *testing.T) {
		s := State{Graph: testGraph(), LaidOut: true}
		assert.Equal(t, s, Sync(s))
	})

	t.Run("pending layout is applied once", func(t *testing.T) {
		s := Sync(State{Graph: testGraph(), Selected: "sms"})
		assert.True(t, s.LaidOut)
		assert.Equal(t, "sms", s.Selected)
		assert.Equal(t, s, Sync(s))
	})
}

func TestNodeFactory_NewNode(t *testing.T) {
	f := NewNodeFactory(rand.New(rand.NewPCG(1, 2)))

	for _, kind := range []NodeKind{KindStart, KindDecision, KindAction} {
		n, err := f.NewNode(kind, nil)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(n.ID, string(kind)+"-"))
		assert.Equal(t, kind, n.Kind())
		assert.Equal(t, PriorityMedium, n.Priority)
		assert.GreaterOrEqual(t, n.Position.X, 200.0)
		assert.Less(t, n.Position.X, 1000.0)
		assert.GreaterOrEqual(t, n.Position.Y, 300.0)
		assert.Less(t, n.Position.Y, 900.0)
	}
}

func TestNodeFactory_Names(t *testing.T) {
	f := NewNodeFactory(nil)
	d, _ := f.NewNode(KindDecision, nil)
	a, _ := f.NewNode(KindAction, nil)
	assert.Equal(t, "New Decision", d.Name)
	assert.Equal(t, "New Action", a.Name)

	p, ok := d.Decision()
	require.True(t, ok)
	assert.Equal(t, "cart_value", p.Condition.Property)
}

func TestNodeFactory_Errors(t *testing.T) {
	f := NewNodeFactory(nil)

	_, err := f.NewNode("unknown", nil)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = f.NewNode(KindAction, StartPayload{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNodeFactory_ConcurrentUse(t *testing.T) {
	f := NewNodeFactory(nil)
	ids := make(chan string, 50)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := f.NewNode(KindAction, nil)
			if err == nil {
				ids <- n.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}
