package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gokanconflict/pkg/conflict"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := conflict.GetVersionInfo(commit, date)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "conflictcheck %s (%s)\n", info.Version, info.GoVersion)
			if info.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
			}
			if info.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
			}
			return nil
		},
	}
}
