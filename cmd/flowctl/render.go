package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"campaign-flow/api/services/flow"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render a flow snapshot as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadSnapshot(cmd, args)
			if err != nil {
				return err
			}

			selected, _ := cmd.Flags().GetString("selected")
			title, _ := cmd.Flags().GetString("title")

			var buf bytes.Buffer
			flow.RenderSVG(&buf, title, flow.Decorate(flow.ApplyLayout(g, false), selected))
			return writeOutput(cmd, buf.Bytes())
		},
	}
	cmd.Flags().String("selected", "", "Node id to highlight")
	cmd.Flags().String("title", "Campaign Flow", "Document title")
	return cmd
}
