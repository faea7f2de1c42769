package main

import (
	"github.com/spf13/cobra"

	"vantage/internal/app"
)

// rootFlags carry the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	prefsPath  string
	pollEvery  int
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "vantage",
		Short:         "Terminal console for tailing live pod and job logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				PollEvery:  flags.pollEvery,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file path")
	rootCmd.Flags().IntVar(&flags.pollEvery, "poll", 0, "refresh interval in seconds")

	rootCmd.AddCommand(newTailCommand(flags))
	rootCmd.AddCommand(newTargetsCommand(flags))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
