package main

import (
	"time"

	"github.com/spf13/cobra"

	"campaign-flow/api/services/flow"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Lay out a flow snapshot",
		Long:  `Reads a snapshot document and writes it back with level-based positions. Without --force existing positions are kept.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadSnapshot(cmd, args)
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			data, err := flow.Serialize(flow.ApplyLayout(g, force), time.Now())
			if err != nil {
				return err
			}
			return writeOutput(cmd, append(data, '\n'))
		},
	}
	cmd.Flags().Bool("force", true, "Recompute positions even when nodes already have them")
	return cmd
}

func loadSnapshot(cmd *cobra.Command, args []string) (flow.Graph, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return flow.Graph{}, err
	}
	return flow.Deserialize(data)
}
