package main

import (
	"os"

	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
	"linctl/internal/format"
	"linctl/internal/models"
)

func newExportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		formatName string
		outputPath string
		team       string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export issues as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := format.ByName(formatName)
			if err != nil {
				return err
			}

			return withClient(cfg, func(c *client.Client) error {
				if team == "" && !all {
					team = cfg.Team
				}

				var issues []models.Issue
				if team != "" {
					issues, err = c.Issues.ListByTeam(cmd.Context(), team)
				} else {
					issues, err = c.Issues.ListAll(cmd.Context())
				}
				if err != nil {
					return err
				}

				w := os.Stdout
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return formatter.Write(w, issues)
			})
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "json", "output format (json or yaml)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&team, "team", "", "export issues of a team (default: configured team)")
	cmd.Flags().BoolVar(&all, "all", false, "export issues across all teams")

	return cmd
}
