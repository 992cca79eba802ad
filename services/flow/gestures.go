package flow

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// GestureRequest replays a batch of editor gestures against a stored flow.
// Selected and LaidOut carry the client's session state between batches.
type GestureRequest struct {
	Selected string          `json:"selected"`
	LaidOut  *bool           `json:"laidOut,omitempty"`
	Actions  []GestureAction `json:"actions"`
}

// GestureAction is the wire form of one editor Action.
type GestureAction struct {
	Type         string          `json:"type"`
	ID           string          `json:"id,omitempty"`
	Kind         NodeKind        `json:"kind,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Source       string          `json:"source,omitempty"`
	Target       string          `json:"target,omitempty"`
	SourceHandle Handle          `json:"sourceHandle,omitempty"`
	Position     *Position       `json:"position,omitempty"`
}

// GestureOutcome reports the result of one gesture in a batch.
type GestureOutcome struct {
	Type    string  `json:"type"`
	Outcome Outcome `json:"outcome"`
	NodeID  string  `json:"nodeId,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type nodeViewJSON struct {
	Node          Node   `json:"node"`
	IsSelected    bool   `json:"isSelected"`
	TypeColor     string `json:"typeColor"`
	PriorityColor string `json:"priorityColor"`
}

type edgeViewJSON struct {
	Edge        Edge    `json:"edge"`
	Opacity     float64 `json:"opacity"`
	StrokeWidth int     `json:"strokeWidth"`
	ZIndex      int     `json:"zIndex"`
	Animated    bool    `json:"animated"`
	MarkerColor string  `json:"markerColor,omitempty"`
}

type viewJSON struct {
	Selected string         `json:"selected"`
	Nodes    []nodeViewJSON `json:"nodes"`
	Edges    []edgeViewJSON `json:"edges"`
}

func toViewJSON(v View) viewJSON {
	out := viewJSON{
		Selected: v.Selected,
		Nodes:    make([]nodeViewJSON, 0, len(v.Nodes)),
		Edges:    make([]edgeViewJSON, 0, len(v.Edges)),
	}
	for _, n := range v.Nodes {
		out.Nodes = append(out.Nodes, nodeViewJSON{
			Node:          n.Node,
			IsSelected:    n.IsSelected,
			TypeColor:     n.TypeColor,
			PriorityColor: n.PriorityColor,
		})
	}
	for _, e := range v.Edges {
		out.Edges = append(out.Edges, edgeViewJSON{
			Edge:        e.Edge,
			Opacity:     e.Opacity,
			StrokeWidth: e.StrokeWidth,
			ZIndex:      e.ZIndex,
			Animated:    e.Animated,
			MarkerColor: e.MarkerColor,
		})
	}
	return out
}

type gestureResponse struct {
	Flow     flowResponse     `json:"flow"`
	Selected string           `json:"selected"`
	LaidOut  bool             `json:"laidOut"`
	Outcomes []GestureOutcome `json:"outcomes"`
	View     viewJSON         `json:"view"`
}

// action converts the wire gesture into an editor Action. Add-node gestures
// get a fresh id and position from the factory.
func (s *Service) action(g GestureAction) (Action, error) {
	switch g.Type {
	case "addNode":
		var payload Payload
		if len(g.Data) > 0 {
			var d nodeDataJSON
			if err := json.Unmarshal(g.Data, &d); err != nil {
				return nil, err
			}
			nd, err := d.nodeData(g.Kind)
			if err != nil {
				return nil, err
			}
			payload = nd.Payload
		}
		n, err := s.nodes.NewNode(g.Kind, payload)
		if err != nil {
			return nil, err
		}
		if g.Position != nil {
			n.Position = *g.Position
		}
		return AddNode{Node: n}, nil
	case "updateNode":
		if g.ID == "" {
			return nil, errMissing("id")
		}
		nd, err := DecodeNodeData(g.Data)
		if err != nil {
			return nil, err
		}
		return UpdateNode{ID: g.ID, Data: nd}, nil
	case "deleteNode":
		return DeleteNode{ID: g.ID}, nil
	case "connect":
		return Connect{Source: g.Source, Target: g.Target, Handle: g.SourceHandle}, nil
	case "moveNode":
		if g.Position == nil {
			return nil, errMissing("position")
		}
		return MoveNode{ID: g.ID, Position: *g.Position}, nil
	case "clickNode":
		return ClickNode{ID: g.ID}, nil
	case "clickPane":
		return ClickPane{}, nil
	case "autoLayout":
		return AutoLayout{}, nil
	}
	return nil, fmt.Errorf("gesture %q: %w", g.Type, errInvalid("type"))
}

// HandleGestures applies a batch of gestures in order, runs the layout pass
// and returns the stored flow together with its decorated view. Gestures
// whose target no longer exists are reported, not treated as failures.
func (s *Service) HandleGestures(w http.ResponseWriter, r *http.Request) {
	var req GestureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actions := make([]Action, 0, len(req.Actions))
	for _, g := range req.Actions {
		a, err := s.action(g)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		actions = append(actions, a)
	}

	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	laidOut := true
	if req.LaidOut != nil {
		laidOut = *req.LaidOut
	}
	state := State{Graph: f.Graph, Selected: req.Selected, LaidOut: laidOut}

	outcomes := make([]GestureOutcome, 0, len(actions))
	for i, a := range actions {
		next, outcome, err := Reduce(state, a)
		result := GestureOutcome{Type: req.Actions[i].Type, Outcome: outcome}
		if add, ok := a.(AddNode); ok && outcome == Applied {
			result.NodeID = add.Node.ID
		}
		if err != nil {
			result.Error = err.Error()
		}
		if outcome != Applied {
			slog.Debug("Gesture not applied", "id", f.ID, "type", result.Type, "outcome", outcome, "error", err)
		}
		outcomes = append(outcomes, result)
		state = next
	}

	state = s.sync(state, "gesture")
	f.Graph = state.Graph

	if !s.saveFlow(w, r, f) {
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(gestureResponse{
		Flow:     toResponse(f),
		Selected: state.Selected,
		LaidOut:  state.LaidOut,
		Outcomes: outcomes,
		View:     toViewJSON(Decorate(state.Graph, state.Selected)),
	})
}
