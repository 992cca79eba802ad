package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"campaign-flow/api/services/flow"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [snapshot.json]",
		Short: "Check a flow snapshot for consistency",
		Long:  `Reports missing or duplicate start nodes, dangling edges, duplicate decision branches and nodes unreachable from the start.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadSnapshot(cmd, args)
			if err != nil {
				return err
			}

			issues := flow.Validate(g)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "Flow is valid")
				return nil
			}
			for _, is := range issues {
				fmt.Fprintf(out, "%s: %s\n", is.Code, is.Message)
			}
			return fmt.Errorf("validation failed: %d issue(s)", len(issues))
		},
	}
}
