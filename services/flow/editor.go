package flow

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Outcome reports what a reducer step did, so stale references are visible
// to callers instead of being swallowed.
type Outcome string

const (
	Applied  Outcome = "applied"
	NotFound Outcome = "not_found"
	Rejected Outcome = "rejected"
)

// State is everything the editor surface tracks for one editing session.
type State struct {
	Graph    Graph
	Selected string
	// LaidOut is cleared by import, generation and auto-layout requests; the
	// next Sync forces a layout and sets it again.
	LaidOut bool
}

// Action is one user gesture against the editor.
type Action interface {
	apply(s *State) (Outcome, error)
}

// Reduce applies a to s and returns the new state. The input state is never
// modified. A Rejected outcome carries the reason as err and leaves the graph
// unchanged.
func Reduce(s State, a Action) (State, Outcome, error) {
	next := State{Graph: s.Graph.Clone(), Selected: s.Selected, LaidOut: s.LaidOut}
	outcome, err := a.apply(&next)
	if outcome != Applied {
		return s, outcome, err
	}
	return next, outcome, nil
}

// Sync is the render-time layout pass. When no layout has been applied and
// the graph has more than one node, it forces a layout and marks the state as
// laid out; otherwise it returns s unchanged.
func Sync(s State) State {
	if s.LaidOut || len(s.Graph.Nodes) <= 1 {
		return s
	}
	return State{Graph: ApplyLayout(s.Graph, true), Selected: s.Selected, LaidOut: true}
}

// AddNode inserts a fully built node. Use NewNode to build one with defaults.
type AddNode struct {
	Node Node
}

func (a AddNode) apply(s *State) (Outcome, error) {
	if err := s.Graph.AddNode(a.Node); err != nil {
		return Rejected, err
	}
	return Applied, nil
}

// UpdateNode replaces the data of an existing node.
type UpdateNode struct {
	ID   string
	Data NodeData
}

func (a UpdateNode) apply(s *State) (Outcome, error) {
	if a.Data.Payload == nil {
		return Rejected, fmt.Errorf("update node %q: %w", a.ID, ErrUnknownKind)
	}
	if !s.Graph.UpdateNode(a.ID, a.Data) {
		return NotFound, nil
	}
	return Applied, nil
}

// DeleteNode removes a node and its edges.
type DeleteNode struct {
	ID string
}

func (a DeleteNode) apply(s *State) (Outcome, error) {
	if !s.Graph.DeleteNode(a.ID) {
		return NotFound, nil
	}
	if s.Selected == a.ID {
		s.Selected = ""
	}
	return Applied, nil
}

// Connect draws an edge between two nodes.
type Connect struct {
	Source string
	Target string
	Handle Handle
}

func (a Connect) apply(s *State) (Outcome, error) {
	if _, err := s.Graph.Connect(a.Source, a.Target, a.Handle); err != nil {
		return Rejected, err
	}
	return Applied, nil
}

// MoveNode records the drop position of a drag.
type MoveNode struct {
	ID       string
	Position Position
}

func (a MoveNode) apply(s *State) (Outcome, error) {
	if !s.Graph.MoveNode(a.ID, a.Position) {
		return NotFound, nil
	}
	return Applied, nil
}

// ClickNode toggles the selection of a node.
type ClickNode struct {
	ID string
}

func (a ClickNode) apply(s *State) (Outcome, error) {
	if _, ok := s.Graph.Node(a.ID); !ok {
		return NotFound, nil
	}
	s.Selected = Toggle(s.Selected, a.ID)
	return Applied, nil
}

// ClickPane clears the selection.
type ClickPane struct{}

func (ClickPane) apply(s *State) (Outcome, error) {
	s.Selected = ""
	return Applied, nil
}

// AutoLayout requests a fresh layout on the next Sync.
type AutoLayout struct{}

func (AutoLayout) apply(s *State) (Outcome, error) {
	s.LaidOut = false
	return Applied, nil
}

// Replace swaps in a whole graph, as import and generation do.
type Replace struct {
	Graph Graph
}

func (a Replace) apply(s *State) (Outcome, error) {
	s.Graph = a.Graph.Clone()
	s.Selected = ""
	s.LaidOut = false
	return Applied, nil
}

// NodeFactory builds new nodes with fresh ids and a random drop position.
// It is safe for concurrent use.
type NodeFactory struct {
	mu    sync.Mutex
	rng   *rand.Rand
	newID func() string
}

// NewNodeFactory returns a factory backed by uuid ids and the given random source.
// A nil rng uses a randomly seeded generator.
func NewNodeFactory(rng *rand.Rand) *NodeFactory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &NodeFactory{rng: rng, newID: uuid.NewString}
}

// NewNode builds a node of the given kind. A nil payload is replaced by the
// kind's default; the position lands inside the visible canvas region.
func (f *NodeFactory) NewNode(kind NodeKind, payload Payload) (Node, error) {
	if payload == nil {
		var err error
		if payload, err = DefaultPayload(kind); err != nil {
			return Node{}, err
		}
	}
	if payload.Kind() != kind {
		return Node{}, fmt.Errorf("payload for %q given to %q node: %w", payload.Kind(), kind, ErrUnknownKind)
	}

	name := "New Action"
	switch kind {
	case KindDecision:
		name = "New Decision"
	case KindStart:
		name = "Start"
	}

	f.mu.Lock()
	pos := Position{
		X: f.rng.Float64()*800 + 200,
		Y: f.rng.Float64()*600 + 300,
	}
	f.mu.Unlock()

	return Node{
		ID:       fmt.Sprintf("%s-%s", kind, f.newID()),
		Position: pos,
		NodeData: NodeData{
			Name:     name,
			Priority: PriorityMedium,
			Payload:  payload,
		},
	}, nil
}

// DefaultPayload is the payload a freshly added node of kind starts with.
func DefaultPayload(kind NodeKind) (Payload, error) {
	switch kind {
	case KindStart:
		return StartPayload{}, nil
	case KindDecision:
		return DecisionPayload{
			Type: DecisionCartProperty,
			Condition: Condition{
				Property: "cart_value",
				Operator: OpGreaterOrEqual,
				Value:    Number(100),
			},
		}, nil
	case KindAction:
		return ActionPayload{Action: ActionConfig{
			Type:            ActionEmail,
			Template:        "high_value_cart",
			Discount:        intPtr(15),
			Frequency:       FrequencyImmediate,
			CheckResponse:   true,
			ResponseTimeout: intPtr(24),
		}}, nil
	}
	return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
}

func intPtr(v int) *int { return &v }
