package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linctl/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "linctl",
		Short: "Linctl is a typed command-line client for the Linear API",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel); err != nil {
				fmt.Fprintln(os.Stderr, err)
			} else if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newIssueCmd(cfg, &jsonOutput),
		newMetaCmd(cfg, &jsonOutput),
		newTeamCmd(cfg, &jsonOutput),
		newUserCmd(cfg, &jsonOutput),
		newProjectCmd(cfg, &jsonOutput),
		newExportCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
