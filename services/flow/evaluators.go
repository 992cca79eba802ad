package flow

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Facts are the properties of one cart and its customer, keyed by the
// property names decision conditions use (cart_value, item_count, ...).
type Facts map[string]any

// SimulationState holds shared state passed between node evaluators during a run.
type SimulationState struct {
	Facts Facts
	// Branch is the handle chosen by the last decision evaluated.
	Branch     Handle
	Dispatched []ActionConfig
}

// StepResult is the output of evaluating a single node.
type StepResult struct {
	Status string         // "completed" or "error"
	Output map[string]any // Must include "message"; may include kind-specific fields
}

// NodeEvaluator defines the interface for evaluating a single node kind.
type NodeEvaluator interface {
	Evaluate(ctx context.Context, node Node, state *SimulationState) (*StepResult, error)
}

// Registry maps node kinds to their evaluator implementation.
type Registry map[NodeKind]NodeEvaluator

// NewRegistry creates a registry populated with all built-in evaluators.
func NewRegistry() Registry {
	return Registry{
		KindStart:    &StartEvaluator{},
		KindDecision: &DecisionEvaluator{},
		KindAction:   &ActionEvaluator{},
	}
}

// StartEvaluator marks the beginning of a campaign run.
type StartEvaluator struct{}

func (e *StartEvaluator) Evaluate(_ context.Context, node Node, _ *SimulationState) (*StepResult, error) {
	return &StepResult{
		Status: "completed",
		Output: map[string]any{"message": fmt.Sprintf("Campaign triggered: %s", node.Name)},
	}, nil
}

// DecisionEvaluator compares one fact against the node's condition and
// records which branch to follow.
type DecisionEvaluator struct{}

func (e *DecisionEvaluator) Evaluate(_ context.Context, node Node, state *SimulationState) (*StepResult, error) {
	p, ok := node.Decision()
	if !ok {
		return nil, fmt.Errorf("node %q carries no decision payload", node.ID)
	}
	cond := p.Condition

	fact, ok := state.Facts[cond.Property]
	if !ok {
		return nil, fmt.Errorf("fact %q not provided", cond.Property)
	}

	result, err := evaluateCondition(fact, cond.Operator, cond.Value)
	if err != nil {
		return nil, err
	}

	state.Branch = HandleFalse
	if result {
		state.Branch = HandleTrue
	}

	expression := fmt.Sprintf("%s %s %s", cond.Property, cond.Operator, cond.Value)
	message := fmt.Sprintf("%s (%v) - condition met", expression, fact)
	if !result {
		message = fmt.Sprintf("%s (%v) - condition not met", expression, fact)
	}

	return &StepResult{
		Status: "completed",
		Output: map[string]any{
			"message":      message,
			"conditionMet": result,
			"conditionResult": map[string]any{
				"expression": expression,
				"result":     result,
				"actual":     fact,
				"operator":   cond.Operator,
				"expected":   cond.Value,
			},
		},
	}, nil
}

// ActionEvaluator records the action a campaign would dispatch.
type ActionEvaluator struct{}

func (e *ActionEvaluator) Evaluate(_ context.Context, node Node, state *SimulationState) (*StepResult, error) {
	p, ok := node.Action()
	if !ok {
		return nil, fmt.Errorf("node %q carries no action payload", node.ID)
	}
	action := p.Action
	state.Dispatched = append(state.Dispatched, action)

	output := map[string]any{
		"message":   describeAction(action),
		"channel":   action.Type,
		"frequency": action.Frequency,
	}
	if action.Template != "" {
		output["template"] = action.Template
	}
	if action.Discount != nil {
		output["discount"] = *action.Discount
	}
	if action.CheckResponse && action.ResponseTimeout != nil {
		output["responseTimeoutHours"] = *action.ResponseTimeout
	}

	return &StepResult{Status: "completed", Output: output}, nil
}

func describeAction(a ActionConfig) string {
	if a.Type == ActionCustom && a.Template == "no_action" {
		return "No action taken"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dispatch %s", a.Type)
	if a.Template != "" {
		fmt.Fprintf(&sb, " %q", a.Template)
	}
	if a.Discount != nil {
		fmt.Fprintf(&sb, " with %d%% discount", *a.Discount)
	}
	if a.Frequency != "" && a.Frequency != FrequencyImmediate {
		fmt.Fprintf(&sb, " (%s)", a.Frequency)
	}
	return sb.String()
}

// evaluateCondition compares a fact against the expected value. Numbers are
// rounded to 2 decimal places to avoid floating-point precision issues;
// anything else is compared by its string form.
func evaluateCondition(actual any, op Operator, expected Value) (bool, error) {
	if !op.Valid() {
		return false, fmt.Errorf("invalid operator %q", op)
	}

	if a, ok := toFloat64(actual); ok && expected.IsNum {
		return compare(cmpFloat(round2(a), round2(expected.Num)), op), nil
	}
	if !expected.IsNum {
		if a, ok := toFloat64(actual); ok {
			if e, err := strconv.ParseFloat(expected.Str, 64); err == nil {
				return compare(cmpFloat(round2(a), round2(e)), op), nil
			}
		}
	}
	return compare(strings.Compare(fmt.Sprint(actual), expected.String()), op), nil
}

func compare(c int, op Operator) bool {
	switch op {
	case OpGreaterOrEqual:
		return c >= 0
	case OpLessOrEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpLess:
		return c < 0
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	default:
		return false
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// toFloat64 converts an any value to float64, handling the numeric types
// facts arrive as.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
