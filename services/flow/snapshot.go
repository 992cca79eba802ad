package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrMalformedSnapshot = errors.New("malformed flow snapshot")

// Snapshot is the transportable form of a graph, shaped like the canvas
// library's node/edge arrays.
type Snapshot struct {
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Timestamp time.Time `json:"timestamp"`
}

// nodeJSON is the wire shape of a node.
type nodeJSON struct {
	ID       string       `json:"id"`
	Type     NodeKind     `json:"type"`
	Position Position     `json:"position"`
	Data     nodeDataJSON `json:"data"`
}

type nodeDataJSON struct {
	NodeType     NodeKind      `json:"nodeType"`
	NodeName     string        `json:"nodeName"`
	Description  string        `json:"description,omitempty"`
	Priority     Priority      `json:"priority,omitempty"`
	DecisionType DecisionType  `json:"decisionType,omitempty"`
	Condition    *Condition    `json:"condition,omitempty"`
	Action       *ActionConfig `json:"action,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		ID:       n.ID,
		Type:     n.Kind(),
		Position: n.Position,
		Data: nodeDataJSON{
			NodeType:    n.Kind(),
			NodeName:    n.Name,
			Description: n.Description,
			Priority:    n.Priority,
		},
	}
	switch p := n.Payload.(type) {
	case DecisionPayload:
		cond := p.Condition
		out.Data.DecisionType = p.Type
		out.Data.Condition = &cond
	case ActionPayload:
		action := p.Action
		out.Data.Action = &action
	case StartPayload:
	default:
		return nil, fmt.Errorf("marshal node %q: %w", n.ID, ErrUnknownKind)
	}
	return json.Marshal(out)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	kind := in.Data.NodeType
	if kind == "" {
		kind = in.Type
	}
	nd, err := in.Data.nodeData(kind)
	if err != nil {
		return fmt.Errorf("node %q: %w", in.ID, err)
	}

	*n = Node{ID: in.ID, Position: in.Position, NodeData: nd}
	return nil
}

// nodeData converts the wire data into the tagged payload for kind.
func (d nodeDataJSON) nodeData(kind NodeKind) (NodeData, error) {
	var payload Payload
	switch kind {
	case KindStart:
		payload = StartPayload{}
	case KindDecision:
		p := DecisionPayload{Type: d.DecisionType}
		if d.Condition != nil {
			p.Condition = *d.Condition
		}
		payload = p
	case KindAction:
		p := ActionPayload{}
		if d.Action != nil {
			p.Action = *d.Action
		}
		payload = p
	default:
		return NodeData{}, fmt.Errorf("type %q: %w", kind, ErrUnknownKind)
	}
	return NodeData{
		Name:        d.NodeName,
		Description: d.Description,
		Priority:    d.Priority,
		Payload:     payload,
	}, nil
}

// DecodeNodeData parses the "data" object of a node, as sent by the
// property panel, into NodeData.
func DecodeNodeData(raw []byte) (NodeData, error) {
	var d nodeDataJSON
	if err := json.Unmarshal(raw, &d); err != nil {
		return NodeData{}, err
	}
	return d.nodeData(d.NodeType)
}

// Export captures g at time now.
func Export(g Graph, now time.Time) Snapshot {
	c := g.Clone()
	return Snapshot{Nodes: c.Nodes, Edges: c.Edges, Timestamp: now.UTC()}
}

// Serialize encodes g as an indented snapshot document.
func Serialize(g Graph, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Export(g, now), "", "  ")
}

// Deserialize decodes a snapshot document. Absent node or edge arrays are
// treated as empty. Duplicate ids and edges pointing at unknown nodes make the
// whole document invalid; no partial graph is returned.
func Deserialize(data []byte) (Graph, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Graph{}, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	g := Graph{Nodes: snap.Nodes, Edges: snap.Edges}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	if err := checkIntegrity(g); err != nil {
		return Graph{}, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	return g, nil
}

func checkIntegrity(g Graph) error {
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New("node without id")
		}
		if nodes[n.ID] {
			return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateID)
		}
		nodes[n.ID] = true
	}
	edges := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if edges[e.ID] {
			return fmt.Errorf("edge %q: %w", e.ID, ErrDuplicateID)
		}
		edges[e.ID] = true
		if !nodes[e.Source] {
			return fmt.Errorf("edge %q source %q: %w", e.ID, e.Source, ErrNodeNotFound)
		}
		if !nodes[e.Target] {
			return fmt.Errorf("edge %q target %q: %w", e.ID, e.Target, ErrNodeNotFound)
		}
	}
	return nil
}

// ExportRuleSet stamps rs with now for download.
func ExportRuleSet(rs RuleSet, now time.Time) ([]byte, error) {
	rs.Timestamp = now.UTC()
	return json.MarshalIndent(rs, "", "  ")
}
