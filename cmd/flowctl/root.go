package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "flowctl builds and inspects campaign decision flows",
		Long:          `flowctl generates campaign flows from rule sets, lays them out, renders them to SVG and checks them for structural problems.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("out", "o", "-", "Output file, - for stdout")

	root.AddCommand(newGenerateCmd(), newLayoutCmd(), newRenderCmd(), newValidateCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

// writeOutput writes data to the --out target.
func writeOutput(cmd *cobra.Command, data []byte) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
