package flow

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// Card sizes per node kind, matching the spacing the layout is tuned for.
var cardSizes = map[NodeKind][2]float64{
	KindStart:    {220, 90},
	KindDecision: {280, 150},
	KindAction:   {280, 170},
}

const canvasPadding = 60

// Bounds returns the box a node card occupies on the canvas.
func Bounds(n Node) Rect {
	size, ok := cardSizes[n.Kind()]
	if !ok {
		size = [2]float64{200, 100}
	}
	return Rect{X: n.Position.X, Y: n.Position.Y, W: size[0], H: size[1]}
}

// RenderSVG draws a decorated view: edges first, clipped to the node borders,
// then node cards on top with their labels.
func RenderSVG(w io.Writer, title string, view View) {
	boxes := make(map[string]Rect, len(view.Nodes))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range view.Nodes {
		b := Bounds(n.Node)
		boxes[n.ID] = b
		minX, minY = math.Min(minX, b.X), math.Min(minY, b.Y)
		maxX, maxY = math.Max(maxX, b.X+b.W), math.Max(maxY, b.Y+b.H)
	}
	if len(view.Nodes) == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	width := int(maxX-minX) + 2*canvasPadding
	height := int(maxY-minY) + 2*canvasPadding

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(title)

	canvas.Def()
	canvas.Marker("arrow", 10, 5, 10, 10, `orient="auto"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:#374151")
	canvas.MarkerEnd()
	canvas.DefEnd()

	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", canvasPadding-int(minX), canvasPadding-int(minY)))

	for _, e := range view.Edges {
		src, okSrc := boxes[e.Source]
		dst, okDst := boxes[e.Target]
		if !okSrc || !okDst {
			continue
		}
		ends := Endpoints(src, dst)
		stroke := strokeNeutral
		if e.Style != nil && e.Style.Stroke != "" {
			stroke = e.Style.Stroke
		}
		style := fmt.Sprintf("stroke:%s;stroke-width:%d;opacity:%g;marker-end:url(#arrow)", stroke, e.StrokeWidth, e.Opacity)
		if e.Animated {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Line(int(ends.Source.X), int(ends.Source.Y), int(ends.Target.X), int(ends.Target.Y), style)

		if e.Label != "" {
			midX := int((ends.Source.X + ends.Target.X) / 2)
			midY := int((ends.Source.Y + ends.Target.Y) / 2)
			textWidth := len(e.Label)*8 + 12
			canvas.Rect(midX-textWidth/2, midY-10, textWidth, 18, fmt.Sprintf("fill:white;stroke:%s;opacity:%g", stroke, e.Opacity))
			canvas.Text(midX, midY+3, e.Label, fmt.Sprintf("text-anchor:middle;font-size:11px;fill:%s;font-weight:bold", stroke))
		}
	}

	for _, n := range view.Nodes {
		b := boxes[n.ID]
		x, y, bw, bh := int(b.X), int(b.Y), int(b.W), int(b.H)

		border := "stroke:#d1d5db;stroke-width:1"
		if n.IsSelected {
			border = fmt.Sprintf("stroke:%s;stroke-width:3", n.TypeColor)
		}
		canvas.Roundrect(x, y, bw, bh, 10, 10, "fill:white;"+border)
		canvas.Rect(x, y, bw, 6, "fill:"+n.TypeColor)
		canvas.Text(x+14, y+30, n.Name, "font-size:14px;font-weight:bold;fill:#111827")
		if n.Kind() != KindStart {
			canvas.Circle(x+bw-16, y+24, 5, "fill:"+n.PriorityColor)
		}
		for i, line := range cardLines(n.Node) {
			canvas.Text(x+14, y+52+i*18, line, "font-size:11px;fill:#4b5563")
		}
	}

	canvas.Gend()
	canvas.End()
}

// cardLines summarises a node's payload for its card body.
func cardLines(n Node) []string {
	switch p := n.Payload.(type) {
	case DecisionPayload:
		return []string{
			string(p.Type),
			fmt.Sprintf("%s %s %s", p.Condition.Property, p.Condition.Operator, p.Condition.Value),
		}
	case ActionPayload:
		lines := []string{describeAction(p.Action)}
		if p.Action.CheckResponse && p.Action.ResponseTimeout != nil {
			lines = append(lines, fmt.Sprintf("check response within %dh", *p.Action.ResponseTimeout))
		}
		return lines
	}
	if n.Description != "" {
		return []string{n.Description}
	}
	return nil
}
