package main

import (
	"fmt"

	"esmlex/internal/shared/version"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of esmlex",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "esmlex %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", version.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", version.BuildDate)
		},
	}
}
