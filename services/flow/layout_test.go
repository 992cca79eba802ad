package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	levels := Levels(testGraph())
	assert.Equal(t, map[string]int{"start": 0, "decision": 1, "email": 2, "sms": 2}, levels)
}

func TestLevels_NoStart(t *testing.T) {
	g := testGraph()
	g.Nodes = g.Nodes[1:]
	assert.Nil(t, Levels(g))
}

func TestLevels_FirstVisitWins(t *testing.T) {
	// a is reachable at level 1 directly and at level 2 through b.
	g := Graph{
		Nodes: []Node{
			testNode("start", StartPayload{}),
			testAction("b", ActionEmail),
			testAction("a", ActionSMS),
		},
		Edges: []Edge{
			{ID: "e1", Source: "start", Target: "b"},
			{ID: "e2", Source: "start", Target: "a"},
			{ID: "e3", Source: "b", Target: "a"},
		},
	}
	assert.Equal(t, map[string]int{"start": 0, "b": 1, "a": 1}, Levels(g))
}

func TestLevels_Cycle(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			testNode("start", StartPayload{}),
			testAction("a", ActionEmail),
			testAction("b", ActionSMS),
		},
		Edges: []Edge{
			{ID: "e1", Source: "start", Target: "a"},
			{ID: "e2", Source: "a", Target: "b"},
			{ID: "e3", Source: "b", Target: "a"},
		},
	}
	assert.Equal(t, map[string]int{"start": 0, "a": 1, "b": 2}, Levels(g))
}

func TestLayout_Forced(t *testing.T) {
	positions := Layout(testGraph(), nil, true)

	assert.Equal(t, Position{X: 600, Y: 150}, positions["start"])
	assert.Equal(t, Position{X: 600, Y: 500}, positions["decision"])
	assert.Equal(t, Position{X: 200, Y: 850}, positions["email"])
	assert.Equal(t, Position{X: 1000, Y: 850}, positions["sms"])
}

func TestLayout_KeepsExistingUnlessForced(t *testing.T) {
	existing := map[string]Position{"start": {X: 1, Y: 2}}
	assert.Equal(t, existing, Layout(testGraph(), existing, false))
}

func TestLayout_NoStartReturnsExisting(t *testing.T) {
	g := testGraph()
	g.Nodes = g.Nodes[1:]
	existing := map[string]Position{"decision": {X: 5, Y: 5}}
	assert.Equal(t, existing, Layout(g, existing, true))
}

func TestLayout_UnreachableKeepsPosition(t *testing.T) {
	g := testGraph()
	g.Nodes = append(g.Nodes, testAction("orphan", ActionPush))
	existing := map[string]Position{"orphan": {X: 42, Y: 24}}

	positions := Layout(g, existing, true)
	assert.Equal(t, Position{X: 42, Y: 24}, positions["orphan"])
	assert.Len(t, positions, 5)
}

func TestLayout_SiblingSpread(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []float64
	}{
		{"single", 1, []float64{600}},
		{"pair", 2, []float64{200, 1000}},
		{"three", 3, []float64{200, 600, 1000}},
		{"four", 4, []float64{0, 400, 800, 1200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spread(tt.n))
		})
	}
}

func TestLayout_SiblingsCentred(t *testing.T) {
	g := Graph{Nodes: []Node{testNode("start", StartPayload{})}}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		g.Nodes = append(g.Nodes, testAction(id, ActionEmail))
		g.Edges = append(g.Edges, Edge{ID: "e-" + id, Source: "start", Target: id})
	}

	positions := Layout(g, nil, true)
	sum := 0.0
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, 500.0, positions[id].Y)
		sum += positions[id].X
	}
	assert.InDelta(t, 600, sum/5, 1e-9)
	assert.Equal(t, 400.0, positions["b"].X-positions["a"].X)
}

func TestApplyLayout_Idempotent(t *testing.T) {
	g := testGraph()
	once := ApplyLayout(g, true)
	twice := ApplyLayout(once, true)
	assert.Equal(t, once, twice)

	// The input graph is not modified.
	assert.Equal(t, Position{}, g.Nodes[0].Position)
}

func TestApplyLayout_GeneratedRule(t *testing.T) {
	g := ApplyLayout(Generate(DefaultRuleSet().Rules), true)
	require.Len(t, g.Nodes, 4)

	pos := g.Positions()
	assert.Equal(t, Position{X: 600, Y: 150}, pos[StartNodeID])
	assert.Equal(t, Position{X: 600, Y: 500}, pos["decision-3"])
	assert.Equal(t, Position{X: 200, Y: 850}, pos["action-true-3"])
	assert.Equal(t, Position{X: 1000, Y: 850}, pos["action-false-3"])
}
