package flow

var typeColors = map[NodeKind]string{
	KindStart:    "#22c55e",
	KindDecision: "#3b82f6",
	KindAction:   "#f59e0b",
}

var priorityColors = map[Priority]string{
	PriorityHigh:   "#ef4444",
	PriorityMedium: "#f59e0b",
	PriorityLow:    "#22c55e",
}

const defaultColor = "#6b7280"

// Toggle returns the selection after clicking node id: clicking the
// selected node clears the selection, clicking any other node selects it.
func Toggle(selected, id string) string {
	if selected == id {
		return ""
	}
	return id
}

// NodeView is a node plus the presentation fields derived from the selection.
type NodeView struct {
	Node
	IsSelected    bool
	TypeColor     string
	PriorityColor string
}

// EdgeView is an edge plus the presentation fields derived from the selection.
type EdgeView struct {
	Edge
	Opacity     float64
	StrokeWidth int
	ZIndex      int
	Animated    bool
	MarkerColor string
}

// View is the render-time derivation of a graph for one selection.
type View struct {
	Selected string
	Nodes    []NodeView
	Edges    []EdgeView
}

// Decorate derives the visual state of every node and edge from the current
// selection. It never modifies g; an empty selectedID means nothing is selected.
func Decorate(g Graph, selectedID string) View {
	if _, ok := g.Node(selectedID); !ok {
		selectedID = ""
	}

	view := View{
		Selected: selectedID,
		Nodes:    make([]NodeView, 0, len(g.Nodes)),
		Edges:    make([]EdgeView, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		priority := n.Priority
		if priority == "" {
			priority = PriorityMedium
		}
		view.Nodes = append(view.Nodes, NodeView{
			Node:          n,
			IsSelected:    selectedID != "" && n.ID == selectedID,
			TypeColor:     colorOr(typeColors[n.Kind()]),
			PriorityColor: colorOr(priorityColors[priority]),
		})
	}

	for _, e := range g.Edges {
		touching := selectedID != "" && (e.Source == selectedID || e.Target == selectedID)
		ev := EdgeView{Edge: e, Opacity: 1, StrokeWidth: 2}
		if touching {
			ev.StrokeWidth = 3
			ev.ZIndex = 5
			ev.Animated = true
		} else {
			ev.MarkerColor = "rgba(0,0,0,0.3)"
			if selectedID != "" {
				ev.Opacity = 0.3
			}
		}
		view.Edges = append(view.Edges, ev)
	}
	return view
}

func colorOr(c string) string {
	if c == "" {
		return defaultColor
	}
	return c
}
