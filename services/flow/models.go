package flow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NodeKind identifies which payload a node carries.
type NodeKind string

const (
	KindStart    NodeKind = "start"
	KindDecision NodeKind = "decision"
	KindAction   NodeKind = "action"
)

// Priority is the optional urgency attached to a node.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DecisionType tags what a decision node inspects.
type DecisionType string

const (
	DecisionCustomerProperty DecisionType = "customer_property"
	DecisionCartProperty     DecisionType = "cart_property"
	DecisionEventOccurred    DecisionType = "event_occurred"
	DecisionCustomCondition  DecisionType = "custom_condition"
)

// Operator is a comparison used by a decision condition.
type Operator string

const (
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
)

// Valid reports whether op is one of the supported comparison operators.
func (op Operator) Valid() bool {
	switch op {
	case OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess, OpEqual, OpNotEqual:
		return true
	}
	return false
}

// ActionType is the channel an action dispatches through.
type ActionType string

const (
	ActionEmail       ActionType = "email"
	ActionSMS         ActionType = "sms"
	ActionPush        ActionType = "push"
	ActionRetargeting ActionType = "retargeting"
	ActionCustom      ActionType = "custom"
)

// Frequency is the delivery delay of an action.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyAfter1h   Frequency = "after_1h"
	FrequencyAfter24h  Frequency = "after_24h"
	FrequencyAfter72h  Frequency = "after_72h"
)

// Handle is the source handle of an edge leaving a decision node.
type Handle string

const (
	HandleNone  Handle = ""
	HandleTrue  Handle = "true"
	HandleFalse Handle = "false"
)

// Value is a condition operand: either a number or a string.
type Value struct {
	Num   float64
	Str   string
	IsNum bool
}

// Number returns a numeric Value.
func Number(n float64) Value { return Value{Num: n, IsNum: true} }

// Text returns a string Value.
func Text(s string) Value { return Value{Str: s} }

func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNum {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Number(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("condition value must be a number or a string: %w", err)
	}
	*v = Text(s)
	return nil
}

// UnmarshalYAML accepts scalar numbers and strings from rule-set files.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch n := raw.(type) {
	case int:
		*v = Number(float64(n))
	case float64:
		*v = Number(n)
	case string:
		*v = Text(n)
	default:
		return fmt.Errorf("condition value must be a number or a string, got %T", raw)
	}
	return nil
}

// Condition is the (property, operator, value) triple a decision evaluates.
type Condition struct {
	Property string   `json:"property" yaml:"property"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    Value    `json:"value" yaml:"value"`
}

// ActionConfig describes what an action node dispatches.
type ActionConfig struct {
	Type            ActionType `json:"type" yaml:"type"`
	Template        string     `json:"template,omitempty" yaml:"template,omitempty"`
	Discount        *int       `json:"discount,omitempty" yaml:"discount,omitempty"`
	Frequency       Frequency  `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	CheckResponse   bool       `json:"checkResponse" yaml:"checkResponse"`
	ResponseTimeout *int       `json:"responseTimeout,omitempty" yaml:"responseTimeout,omitempty"`
	Description     string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// Payload is the kind-specific part of a node. Exactly one implementation
// exists per NodeKind.
type Payload interface {
	Kind() NodeKind
}

// StartPayload marks the entry node; it carries nothing beyond name and description.
type StartPayload struct{}

func (StartPayload) Kind() NodeKind { return KindStart }

// DecisionPayload is carried by branching nodes.
type DecisionPayload struct {
	Type      DecisionType
	Condition Condition
}

func (DecisionPayload) Kind() NodeKind { return KindDecision }

// ActionPayload is carried by leaf nodes that dispatch a campaign action.
type ActionPayload struct {
	Action ActionConfig
}

func (ActionPayload) Kind() NodeKind { return KindAction }

// Position holds x/y coordinates for rendering the node on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData holds the editable, kind-independent fields of a node together with its payload.
type NodeData struct {
	Name        string
	Description string
	Priority    Priority
	Payload     Payload
}

// Node is a vertex of the decision tree.
type Node struct {
	ID       string
	Position Position
	NodeData
}

// Kind returns the node kind implied by its payload.
func (n Node) Kind() NodeKind {
	if n.Payload == nil {
		return ""
	}
	return n.Payload.Kind()
}

// Decision returns the decision payload, if the node is a decision.
func (n Node) Decision() (DecisionPayload, bool) {
	p, ok := n.Payload.(DecisionPayload)
	return p, ok
}

// Action returns the action payload, if the node is an action.
func (n Node) Action() (ActionPayload, bool) {
	p, ok := n.Payload.(ActionPayload)
	return p, ok
}

// EdgeStyle is the persisted stroke of an edge, chosen when it was connected.
type EdgeStyle struct {
	Stroke string `json:"stroke,omitempty"`
}

// Edge represents a directed connection between two nodes.
type Edge struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	SourceHandle Handle     `json:"sourceHandle,omitempty"`
	Label        string     `json:"label,omitempty"`
	Style        *EdgeStyle `json:"style,omitempty"`
}

// Graph is the ordered node and edge collections of one decision tree.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Flow is a persisted graph with its identity.
type Flow struct {
	ID        string
	Name      string
	Graph     Graph
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rule is a declarative (condition, true-action, false-action) triple
// consumed by the generator.
type Rule struct {
	ID           string       `json:"id" yaml:"id"`
	NodeName     string       `json:"nodeName" yaml:"nodeName"`
	DecisionType DecisionType `json:"decisionType" yaml:"decisionType"`
	Property     string       `json:"property" yaml:"property"`
	Operator     Operator     `json:"operator" yaml:"operator"`
	Value        Value        `json:"value" yaml:"value"`
	Priority     Priority     `json:"priority" yaml:"priority"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	TrueAction   ActionConfig `json:"trueAction" yaml:"trueAction"`
	FalseAction  ActionConfig `json:"falseAction" yaml:"falseAction"`
}

// RuleSet is the form builder's export format.
type RuleSet struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Rules       []Rule    `json:"rules" yaml:"rules"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp,omitempty"`
}
