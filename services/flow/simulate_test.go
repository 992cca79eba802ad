package flow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_TrueBranch(t *testing.T) {
	sim := NewSimulator(NewRegistry())

	result, err := sim.Simulate(context.Background(), testGraph(), Facts{"cart_value": 129.97})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "start", result.Steps[0].NodeID)
	assert.Equal(t, "decision", result.Steps[1].NodeID)
	assert.Equal(t, true, result.Steps[1].Output["conditionMet"])
	assert.Equal(t, "email", result.Steps[2].NodeID)

	require.Len(t, result.Dispatched, 1)
	assert.Equal(t, ActionEmail, result.Dispatched[0].Type)
	assert.NotEmpty(t, result.SimulationID)
}

func TestSimulate_FalseBranch(t *testing.T) {
	sim := NewSimulator(NewRegistry())

	result, err := sim.Simulate(context.Background(), testGraph(), Facts{"cart_value": 47})
	require.NoError(t, err)

	require.Len(t, result.Steps, 3)
	assert.Equal(t, "sms", result.Steps[2].NodeID)
	assert.Equal(t, false, result.Steps[1].Output["conditionMet"])
}

func TestSimulate_DefaultRuleSet(t *testing.T) {
	sim := NewSimulator(NewRegistry())
	g := Generate(DefaultRuleSet().Rules)

	result, err := sim.Simulate(context.Background(), g, Facts{"abandoned_duration": 1440})
	require.NoError(t, err)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "action-true-3", result.Steps[2].NodeID)
	assert.Equal(t, `Dispatch email "urgent_reminder" with 15% discount`, result.Steps[2].Output["message"])

	result, err = sim.Simulate(context.Background(), g, Facts{"abandoned_duration": 90})
	require.NoError(t, err)
	assert.Equal(t, "action-false-3", result.Steps[2].NodeID)
	assert.Equal(t, "No action taken", result.Steps[2].Output["message"])
}

func TestSimulate_MissingFactFails(t *testing.T) {
	sim := NewSimulator(NewRegistry())

	result, err := sim.Simulate(context.Background(), testGraph(), Facts{})
	require.NoError(t, err)

	assert.Equal(t, "failed", result.Status)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "error", result.Steps[1].Status)
	assert.Contains(t, result.Steps[1].Error, `fact "cart_value" not provided`)
	assert.Empty(t, result.Dispatched)
}

func TestSimulate_NoStart(t *testing.T) {
	sim := NewSimulator(NewRegistry())
	g := testGraph()
	g.DeleteNode("start")

	_, err := sim.Simulate(context.Background(), g, nil)
	assert.ErrorIs(t, err, ErrNoStart)
}

func TestSimulate_Cycle(t *testing.T) {
	sim := NewSimulator(NewRegistry())
	g := Graph{
		Nodes: []Node{
			testNode("start", StartPayload{}),
			testAction("a", ActionEmail),
			testAction("b", ActionSMS),
		},
		Edges: []Edge{
			{ID: "e1", Source: "start", Target: "a"},
			{ID: "e2", Source: "a", Target: "b"},
			{ID: "e3", Source: "b", Target: "a"},
		},
	}

	_, err := sim.Simulate(context.Background(), g, nil)
	assert.ErrorIs(t, err, ErrStepLimit)
}

func TestSimulate_Cancelled(t *testing.T) {
	sim := NewSimulator(NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Simulate(ctx, testGraph(), Facts{"cart_value": 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		actual   any
		op       Operator
		expected Value
		want     bool
	}{
		{100.0, OpGreaterOrEqual, Number(100), true},
		{99.999, OpGreaterOrEqual, Number(100), true},
		{99.98, OpGreaterOrEqual, Number(100), false},
		{3, OpLess, Number(5), true},
		{int64(5), OpLessOrEqual, Number(5), true},
		{7.5, OpGreater, Text("7"), true},
		{"vip", OpEqual, Text("vip"), true},
		{"vip", OpNotEqual, Text("at_risk"), true},
		{true, OpEqual, Text("true"), true},
		{false, OpEqual, Text("true"), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %s %s", tt.actual, tt.op, tt.expected), func(t *testing.T) {
			got, err := evaluateCondition(tt.actual, tt.op, tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateCondition_InvalidOperator(t *testing.T) {
	_, err := evaluateCondition(1.0, "~", Number(1))
	assert.ErrorContains(t, err, "invalid operator")
}
