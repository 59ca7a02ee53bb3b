package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-hgvs/internal/report"
)

func newTerminalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminals",
		Short: "List grammar terminals and their descriptions",
		Long:  "List the terminal names that can appear in parse errors, with the text shown for each under \"Expecting:\".",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range report.TerminalNames() {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", name, report.Terminals[name]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
