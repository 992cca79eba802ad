package flow

// Layout constants tuned for the node card dimensions used by the renderer.
const (
	layoutTop        = 150.0
	layoutBandHeight = 350.0
	layoutCenterX    = 600.0
	layoutMinSpacing = 400.0
	layoutMaxSpacing = 800.0
)

// Levels assigns each node reachable from the first start node its BFS level.
// It returns nil when the graph has no start node.
func Levels(g Graph) map[string]int {
	levels, _ := traverse(g)
	return levels
}

// traverse walks the graph breadth-first from the first start node. The
// queue is FIFO over discovery order and the first visit wins, so a node
// reachable by several paths keeps the level at which it was first popped.
// order lists node ids in visit order.
func traverse(g Graph) (levels map[string]int, order []string) {
	starts := g.StartNodes()
	if len(starts) == 0 {
		return nil, nil
	}

	type queued struct {
		id    string
		level int
	}

	edgeMap := g.outgoing()
	levels = make(map[string]int)
	queue := []queued{{id: starts[0].ID}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, seen := levels[cur.id]; seen {
			continue
		}
		levels[cur.id] = cur.level
		order = append(order, cur.id)

		for _, e := range edgeMap[cur.id] {
			if _, seen := levels[e.Target]; !seen {
				queue = append(queue, queued{id: e.Target, level: cur.level + 1})
			}
		}
	}
	return levels, order
}

// Layout computes a top-down position for every node.
//
// Unless force is set, a non-empty existing map is returned unchanged, which
// keeps manually dragged positions. Without a start node no layout is
// performed and existing is returned as is. Nodes not reachable from start keep
// their existing position, or the origin when they have none.
func Layout(g Graph, existing map[string]Position, force bool) map[string]Position {
	if !force && len(existing) > 0 {
		return existing
	}

	levels, order := traverse(g)
	if levels == nil {
		return existing
	}

	byLevel := make(map[int][]string)
	for _, id := range order {
		byLevel[levels[id]] = append(byLevel[levels[id]], id)
	}

	positions := make(map[string]Position, len(g.Nodes))
	for level, ids := range byLevel {
		y := layoutTop + float64(level)*layoutBandHeight
		for i, x := range spread(len(ids)) {
			positions[ids[i]] = Position{X: x, Y: y}
		}
	}

	for _, n := range g.Nodes {
		if _, ok := positions[n.ID]; !ok {
			positions[n.ID] = existing[n.ID]
		}
	}
	return positions
}

// ApplyLayout runs Layout against the graph's own positions and writes the
// result back into a copy of g.
func ApplyLayout(g Graph, force bool) Graph {
	positions := Layout(g, g.Positions(), force)
	out := g.Clone()
	for i := range out.Nodes {
		if p, ok := positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out
}

// spread returns the x coordinates of n siblings centred on the canvas.
func spread(n int) []float64 {
	xs := make([]float64, n)
	switch {
	case n == 1:
		xs[0] = layoutCenterX
	case n == 2:
		xs[0] = layoutCenterX - layoutMaxSpacing/2
		xs[1] = layoutCenterX + layoutMaxSpacing/2
	case n > 2:
		total := max(layoutMinSpacing*float64(n-1), layoutMaxSpacing)
		step := total / float64(n-1)
		for i := range xs {
			xs[i] = layoutCenterX - total/2 + step*float64(i)
		}
	}
	return xs
}
