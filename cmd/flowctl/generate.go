package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"campaign-flow/api/services/flow"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [rules.yaml]",
		Short: "Generate a flow snapshot from a rule set",
		Long: `Reads a rule set in YAML or JSON and writes the generated flow as a snapshot document.
Without an argument the built-in abandoned cart rule set is used; "-" reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := flow.DefaultRuleSet()
			if len(args) > 0 {
				data, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				if rs, err = parseRuleSet(data); err != nil {
					return err
				}
			}

			if err := flow.ValidateRules(rs.Rules); err != nil {
				return fmt.Errorf("invalid rule set: %w", err)
			}

			if rulesOnly, _ := cmd.Flags().GetBool("rules"); rulesOnly {
				data, err := flow.ExportRuleSet(rs, time.Now())
				if err != nil {
					return err
				}
				return writeOutput(cmd, append(data, '\n'))
			}

			g := flow.Generate(rs.Rules)
			if layout, _ := cmd.Flags().GetBool("layout"); layout {
				g = flow.ApplyLayout(g, true)
			}

			data, err := flow.Serialize(g, time.Now())
			if err != nil {
				return err
			}
			return writeOutput(cmd, append(data, '\n'))
		},
	}
	cmd.Flags().Bool("layout", true, "Apply the automatic layout to the generated flow")
	cmd.Flags().Bool("rules", false, "Write the timestamped rule set instead of the flow")
	return cmd
}

// parseRuleSet decodes a rule set. YAML is a superset of JSON, so one decoder
// handles both formats.
func parseRuleSet(data []byte) (flow.RuleSet, error) {
	var rs flow.RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return flow.RuleSet{}, fmt.Errorf("parse rule set: %w", err)
	}
	return rs, nil
}
