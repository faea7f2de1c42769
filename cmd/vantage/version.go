package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; "dev" for local builds.
var version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vantage version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "vantage "+version)
		},
	}
}
