package flow

import "fmt"

// StartNodeID is the id of the fixed entry node of generated trees.
const StartNodeID = "start-1"

// Generator row geometry.
const (
	generatorFirstRowY = 500.0
	generatorRowHeight = 450.0
	generatorActionGap = 250.0
	generatorTrueX     = 200.0
	generatorFalseX    = 1000.0
)

// StartNode is the entry node every editing session and generated tree begins with.
func StartNode() Node {
	return Node{
		ID:       StartNodeID,
		Position: Position{X: 600, Y: 100},
		NodeData: NodeData{
			Name:        "Cart Abandoned",
			Description: "A customer has abandoned their cart",
			Payload:     StartPayload{},
		},
	}
}

// NewGraph returns a graph holding only the start node.
func NewGraph() Graph {
	return Graph{Nodes: []Node{StartNode()}, Edges: []Edge{}}
}

// Generate expands rules into a chain: start → decision₀ → decision₁ …, each
// decision branching to a true action on the left and a false action on the
// right. Action nodes are leaves.
func Generate(rules []Rule) Graph {
	g := NewGraph()
	previous := StartNodeID

	for i, rule := range rules {
		y := generatorFirstRowY + generatorRowHeight*float64(i)
		decisionID := "decision-" + rule.ID
		trueID := "action-true-" + rule.ID
		falseID := "action-false-" + rule.ID

		g.Nodes = append(g.Nodes,
			Node{
				ID:       decisionID,
				Position: Position{X: layoutCenterX, Y: y},
				NodeData: NodeData{
					Name:        rule.NodeName,
					Description: rule.Description,
					Priority:    rule.Priority,
					Payload: DecisionPayload{
						Type: rule.DecisionType,
						Condition: Condition{
							Property: rule.Property,
							Operator: rule.Operator,
							Value:    rule.Value,
						},
					},
				},
			},
			actionNode(trueID, Position{X: generatorTrueX, Y: y + generatorActionGap}, rule.TrueAction, "True Action"),
			actionNode(falseID, Position{X: generatorFalseX, Y: y + generatorActionGap}, rule.FalseAction, "False Action"),
		)

		g.Edges = append(g.Edges,
			Edge{ID: EdgeID(previous, decisionID), Source: previous, Target: decisionID},
			Edge{
				ID: EdgeID(decisionID, trueID), Source: decisionID, Target: trueID,
				SourceHandle: HandleTrue, Label: "Yes", Style: &EdgeStyle{Stroke: strokeTrue},
			},
			Edge{
				ID: EdgeID(decisionID, falseID), Source: decisionID, Target: falseID,
				SourceHandle: HandleFalse, Label: "No", Style: &EdgeStyle{Stroke: strokeFalse},
			},
		)
		previous = decisionID
	}
	return g
}

func actionNode(id string, pos Position, action ActionConfig, fallbackName string) Node {
	name := action.Description
	if name == "" {
		name = fallbackName
	}
	return Node{
		ID:       id,
		Position: pos,
		NodeData: NodeData{
			Name:        name,
			Description: action.Description,
			Priority:    PriorityMedium,
			Payload:     ActionPayload{Action: action},
		},
	}
}

// ValidateRules checks the fields the generator relies on. Rule ids become
// node ids, so they must be present and unique.
func ValidateRules(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.ID == "" {
			return fmt.Errorf("rule %d: id is required", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("rule %q: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = true
		if !r.Operator.Valid() {
			return fmt.Errorf("rule %q: invalid operator %q", r.ID, r.Operator)
		}
	}
	return nil
}

// DefaultActions are the canned actions offered by the rule form.
var DefaultActions = struct {
	FirstHour, TwentyFourHours, SeventyTwoHours, NoAction ActionConfig
}{
	FirstHour: ActionConfig{
		Type: ActionEmail, Template: "gentle_reminder", Discount: intPtr(10),
		Frequency: FrequencyImmediate, CheckResponse: true, ResponseTimeout: intPtr(6),
		Description: "Gentle reminder email with small discount",
	},
	TwentyFourHours: ActionConfig{
		Type: ActionEmail, Template: "urgent_reminder", Discount: intPtr(15),
		Frequency: FrequencyImmediate, CheckResponse: true, ResponseTimeout: intPtr(12),
		Description: "Urgent reminder with increased discount",
	},
	SeventyTwoHours: ActionConfig{
		Type: ActionSMS, Template: "last_chance", Discount: intPtr(20),
		Frequency: FrequencyImmediate, CheckResponse: true, ResponseTimeout: intPtr(24),
		Description: "Last chance SMS with maximum discount",
	},
	NoAction: ActionConfig{
		Type: ActionCustom, Template: "no_action",
		Frequency: FrequencyImmediate, CheckResponse: false,
		Description: "No action - too early or too late",
	},
}

// DefaultRuleSet is the rule set the form opens with.
func DefaultRuleSet() RuleSet {
	falseAction := DefaultActions.NoAction
	falseAction.Description = "Still in first day window"
	return RuleSet{
		Title:       "Abandoned Cart Recovery Flow",
		Description: "Time-based automated cart recovery campaign with escalating incentives",
		Rules: []Rule{{
			ID:           "3",
			NodeName:     "24 Hours After Abandonment",
			DecisionType: DecisionCartProperty,
			Property:     "abandoned_duration",
			Operator:     OpGreaterOrEqual,
			Value:        Number(1440),
			Priority:     PriorityMedium,
			Description:  "Check if cart abandoned for 24+ hours",
			TrueAction:   DefaultActions.TwentyFourHours,
			FalseAction:  falseAction,
		}},
	}
}
