package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const maxSteps = 100

var (
	ErrNoStart   = errors.New("flow has no start node")
	ErrStepLimit = errors.New("simulation step limit reached")
)

// SimulationResults is the outcome of running one cart through a flow.
type SimulationResults struct {
	SimulationID  string           `json:"simulationId"`
	Status        string           `json:"status"`
	StartTime     string           `json:"startTime"`
	EndTime       string           `json:"endTime"`
	TotalDuration int64            `json:"totalDuration"`
	Steps         []SimulationStep `json:"steps"`
	Dispatched    []ActionConfig   `json:"dispatched"`
}

// SimulationStep represents the result of evaluating a single node.
type SimulationStep struct {
	StepNumber int            `json:"stepNumber"`
	NodeID     string         `json:"nodeId"`
	NodeType   NodeKind       `json:"nodeType"`
	Label      string         `json:"label"`
	Status     string         `json:"status"`
	Duration   int64          `json:"duration"`
	Output     map[string]any `json:"output"`
	Timestamp  string         `json:"timestamp"`
	Error      string         `json:"error,omitempty"`
}

// Simulator walks a flow for one set of facts and reports what the campaign
// would dispatch.
type Simulator struct {
	registry Registry
}

// NewSimulator creates a Simulator with the given evaluator registry.
func NewSimulator(registry Registry) *Simulator {
	return &Simulator{registry: registry}
}

// Simulate traverses the graph starting from its first start node. Decisions
// follow the edge whose source handle matches their result; every other node
// follows its first outgoing edge. A node without a matching edge ends the
// run. On an evaluator error the run stops and partial results are returned
// with status "failed".
func (s *Simulator) Simulate(ctx context.Context, g Graph, facts Facts) (*SimulationResults, error) {
	state := &SimulationState{Facts: facts}
	if state.Facts == nil {
		state.Facts = Facts{}
	}

	starts := g.StartNodes()
	if len(starts) == 0 {
		return nil, ErrNoStart
	}
	current := starts[0]

	edgeMap := g.outgoing()
	startTime := time.Now()

	var steps []SimulationStep
	stepNum := 0

	for stepNum < maxSteps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		evaluator, ok := s.registry[current.Kind()]
		if !ok {
			return nil, fmt.Errorf("no evaluator registered for node type %q", current.Kind())
		}

		stepStart := time.Now()
		result, evalErr := evaluator.Evaluate(ctx, current, state)
		duration := time.Since(stepStart)

		stepNum++
		step := SimulationStep{
			StepNumber: stepNum,
			NodeID:     current.ID,
			NodeType:   current.Kind(),
			Label:      current.Name,
			Duration:   duration.Milliseconds(),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}

		if evalErr != nil {
			step.Status = "error"
			step.Error = evalErr.Error()
			step.Output = map[string]any{"message": fmt.Sprintf("Error: %s", evalErr.Error())}
			steps = append(steps, step)
			return s.results("failed", startTime, steps, state), nil
		}

		step.Status = result.Status
		step.Output = result.Output
		steps = append(steps, step)

		nextNodeID := ""
		edges := edgeMap[current.ID]
		if current.Kind() == KindDecision {
			for _, edge := range edges {
				if edge.SourceHandle == state.Branch {
					nextNodeID = edge.Target
					break
				}
			}
		} else if len(edges) > 0 {
			nextNodeID = edges[0].Target
		}

		if nextNodeID == "" {
			break
		}

		next, ok := g.Node(nextNodeID)
		if !ok {
			return nil, fmt.Errorf("edge target node %q: %w", nextNodeID, ErrNodeNotFound)
		}
		current = next
	}

	if stepNum >= maxSteps {
		return nil, fmt.Errorf("%w: %d steps, possible cycle", ErrStepLimit, maxSteps)
	}

	return s.results("completed", startTime, steps, state), nil
}

func (s *Simulator) results(status string, startTime time.Time, steps []SimulationStep, state *SimulationState) *SimulationResults {
	endTime := time.Now()
	dispatched := state.Dispatched
	if dispatched == nil {
		dispatched = []ActionConfig{}
	}
	return &SimulationResults{
		SimulationID:  uuid.New().String(),
		Status:        status,
		StartTime:     startTime.UTC().Format(time.RFC3339),
		EndTime:       endTime.UTC().Format(time.RFC3339),
		TotalDuration: endTime.Sub(startTime).Milliseconds(),
		Steps:         steps,
		Dispatched:    dispatched,
	}
}
