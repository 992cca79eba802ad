package flow

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrDuplicateBranch = errors.New("decision already has an edge for this branch")
	ErrSelfLoop        = errors.New("edge cannot connect a node to itself")
	ErrInvalidHandle   = errors.New("branch handles are only valid on decision nodes")
	ErrUnknownKind     = errors.New("unknown node kind")
)

// Branch stroke colours.
const (
	strokeTrue    = "#22c55e"
	strokeFalse   = "#ef4444"
	strokeNeutral = "#6b7280"
)

// Clone returns a copy whose slices can be mutated without affecting g.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	for i, e := range g.Edges {
		if e.Style != nil {
			style := *e.Style
			e.Style = &style
		}
		out.Edges[i] = e
	}
	return out
}

func (g Graph) indexOf(id string) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Node looks up a node by id.
func (g Graph) Node(id string) (Node, bool) {
	if i := g.indexOf(id); i >= 0 {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// StartNodes returns every start node in node order.
func (g Graph) StartNodes() []Node {
	var starts []Node
	for _, n := range g.Nodes {
		if n.Kind() == KindStart {
			starts = append(starts, n)
		}
	}
	return starts
}

// Positions snapshots the current position of every node.
func (g Graph) Positions() map[string]Position {
	positions := make(map[string]Position, len(g.Nodes))
	for _, n := range g.Nodes {
		positions[n.ID] = n.Position
	}
	return positions
}

// AddNode appends n. Ids must be unique and the payload must be set.
func (g *Graph) AddNode(n Node) error {
	if n.Payload == nil {
		return fmt.Errorf("add node %q: %w", n.ID, ErrUnknownKind)
	}
	if g.indexOf(n.ID) >= 0 {
		return fmt.Errorf("add node %q: %w", n.ID, ErrDuplicateID)
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// UpdateNode replaces the data (and so the kind) of a node in place.
// It reports false when id is absent and leaves the graph unchanged.
func (g *Graph) UpdateNode(id string, data NodeData) bool {
	i := g.indexOf(id)
	if i < 0 || data.Payload == nil {
		return false
	}
	g.Nodes[i].NodeData = data
	return true
}

// MoveNode sets a node's position. It reports false when id is absent.
func (g *Graph) MoveNode(id string, pos Position) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	g.Nodes[i].Position = pos
	return true
}

// DeleteNode removes a node and every edge touching it.
// Deleting an absent id is a no-op that reports false.
func (g *Graph) DeleteNode(id string) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	nodes := make([]Node, 0, len(g.Nodes)-1)
	nodes = append(nodes, g.Nodes[:i]...)
	g.Nodes = append(nodes, g.Nodes[i+1:]...)

	kept := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	return true
}

// Connect adds a directed edge and returns its id. Both endpoints must exist;
// a decision may carry at most one edge per branch handle.
func (g *Graph) Connect(source, target string, handle Handle) (string, error) {
	src, ok := g.Node(source)
	if !ok {
		return "", fmt.Errorf("connect source %q: %w", source, ErrNodeNotFound)
	}
	if _, ok := g.Node(target); !ok {
		return "", fmt.Errorf("connect target %q: %w", target, ErrNodeNotFound)
	}
	if source == target {
		return "", fmt.Errorf("connect %q: %w", source, ErrSelfLoop)
	}
	if handle != HandleNone {
		if src.Kind() != KindDecision {
			return "", fmt.Errorf("connect %q: %w", source, ErrInvalidHandle)
		}
		for _, e := range g.Edges {
			if e.Source == source && e.SourceHandle == handle {
				return "", fmt.Errorf("connect %q (%s): %w", source, handle, ErrDuplicateBranch)
			}
		}
	}

	id := EdgeID(source, target)
	for suffix := 2; g.hasEdge(id); suffix++ {
		id = fmt.Sprintf("%s-%d", EdgeID(source, target), suffix)
	}

	e := Edge{ID: id, Source: source, Target: target, SourceHandle: handle}
	switch handle {
	case HandleTrue:
		e.Label = "Yes"
		e.Style = &EdgeStyle{Stroke: strokeTrue}
	case HandleFalse:
		e.Label = "No"
		e.Style = &EdgeStyle{Stroke: strokeFalse}
	default:
		e.Style = &EdgeStyle{Stroke: strokeNeutral}
	}
	g.Edges = append(g.Edges, e)
	return id, nil
}

func (g Graph) hasEdge(id string) bool {
	for _, e := range g.Edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

// EdgeID is the conventional id of the edge from source to target.
func EdgeID(source, target string) string {
	return fmt.Sprintf("edge-%s-%s", source, target)
}

// outgoing builds adjacency: source node ID -> outgoing edges, in edge order.
func (g Graph) outgoing() map[string][]Edge {
	m := make(map[string][]Edge)
	for _, e := range g.Edges {
		m[e.Source] = append(m[e.Source], e)
	}
	return m
}
