package flow

import "fmt"

// IssueCode classifies a structural problem found by Validate.
type IssueCode string

const (
	IssueMissingStart    IssueCode = "missing_start"
	IssueMultipleStarts  IssueCode = "multiple_starts"
	IssueDanglingEdge    IssueCode = "dangling_edge"
	IssueDuplicateBranch IssueCode = "duplicate_branch"
	IssueUnreachable     IssueCode = "unreachable"
)

// Issue is one finding of Validate.
type Issue struct {
	Code    IssueCode `json:"code"`
	NodeID  string    `json:"nodeId,omitempty"`
	EdgeID  string    `json:"edgeId,omitempty"`
	Message string    `json:"message"`
}

// Validate crawls the graph from its start node and reports states the
// editor can represent but should not produce. None of them stop layout or
// rendering.
func Validate(g Graph) []Issue {
	var issues []Issue

	starts := g.StartNodes()
	switch {
	case len(starts) == 0:
		issues = append(issues, Issue{Code: IssueMissingStart, Message: "graph has no start node"})
	case len(starts) > 1:
		for _, s := range starts[1:] {
			issues = append(issues, Issue{
				Code:    IssueMultipleStarts,
				NodeID:  s.ID,
				Message: fmt.Sprintf("start node %q is ignored; layout and simulation use %q", s.ID, starts[0].ID),
			})
		}
	}

	branches := make(map[string]string)
	for _, e := range g.Edges {
		for _, end := range []string{e.Source, e.Target} {
			if _, ok := g.Node(end); !ok {
				issues = append(issues, Issue{
					Code:    IssueDanglingEdge,
					EdgeID:  e.ID,
					NodeID:  end,
					Message: fmt.Sprintf("edge %q references missing node %q", e.ID, end),
				})
			}
		}
		if e.SourceHandle == HandleNone {
			continue
		}
		key := e.Source + "/" + string(e.SourceHandle)
		if first, dup := branches[key]; dup {
			issues = append(issues, Issue{
				Code:    IssueDuplicateBranch,
				NodeID:  e.Source,
				EdgeID:  e.ID,
				Message: fmt.Sprintf("edge %q duplicates the %q branch of edge %q", e.ID, e.SourceHandle, first),
			})
			continue
		}
		branches[key] = e.ID
	}

	if levels := Levels(g); levels != nil {
		for _, n := range g.Nodes {
			if _, ok := levels[n.ID]; !ok && n.Kind() != KindStart {
				issues = append(issues, Issue{
					Code:    IssueUnreachable,
					NodeID:  n.ID,
					Message: fmt.Sprintf("node %q is not reachable from start", n.ID),
				})
			}
		}
	}
	return issues
}
