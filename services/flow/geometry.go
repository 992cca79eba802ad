package flow

import "math"

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Rect is a node's bounding box; X/Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Side is the face of a node an edge attaches to.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// EdgeEndpoints are where an edge leaves its source and meets its target.
type EdgeEndpoints struct {
	Source     Point
	Target     Point
	SourceSide Side
	TargetSide Side
}

// Endpoints connects two node boxes along the line between their centres,
// clipping the line at each box's border.
func Endpoints(source, target Rect) EdgeEndpoints {
	sp := Intersection(source, target)
	tp := Intersection(target, source)
	return EdgeEndpoints{
		Source:     sp,
		Target:     tp,
		SourceSide: SideOf(source, sp),
		TargetSide: SideOf(target, tp),
	}
}

// Intersection returns the point where the segment from the centre of box
// towards the centre of other crosses the border of box. Coincident centres
// and empty boxes yield the centre of box.
func Intersection(box, other Rect) Point {
	w := box.W / 2
	h := box.H / 2
	c := box.Center()
	o := other.Center()
	if w == 0 || h == 0 {
		return c
	}

	// Rotate into a space where the box is a unit diamond, project, rotate back.
	xx1 := (o.X-c.X)/(2*w) - (o.Y-c.Y)/(2*h)
	yy1 := (o.X-c.X)/(2*w) + (o.Y-c.Y)/(2*h)
	denom := math.Abs(xx1) + math.Abs(yy1)
	if denom == 0 {
		return c
	}
	a := 1 / denom
	xx3 := a * xx1
	yy3 := a * yy1
	return Point{
		X: w*(xx3+yy3) + c.X,
		Y: h*(-xx3+yy3) + c.Y,
	}
}

// SideOf classifies which face of box p lies on.
func SideOf(box Rect, p Point) Side {
	c := box.Center()
	dx := math.Abs(p.X - c.X)
	dy := math.Abs(p.Y - c.Y)
	if dx > dy {
		if p.X < c.X {
			return SideLeft
		}
		return SideRight
	}
	if p.Y < c.Y {
		return SideTop
	}
	return SideBottom
}
