package main

import (
	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
	"linctl/internal/models"
)

func newProjectCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Work with Linear projects",
	}

	cmd.AddCommand(
		newProjectListCmd(cfg, jsonOutput),
		newProjectCreateCmd(cfg, jsonOutput),
		newProjectUpdateCmd(cfg, jsonOutput),
		newProjectDeleteCmd(cfg),
	)
	return cmd
}

func newProjectListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				projects, err := c.Projects.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(projects)
				}
				for _, project := range projects {
					if err := writePlain("%s [%s] %s\n", project.ID, project.State, project.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newProjectCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		team        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  requireExactlyArgs(1, "project name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamName, err := resolveTeamName(cfg, team)
			if err != nil {
				return err
			}
			input := models.ProjectCreateInput{
				Name:        args[0],
				TeamName:    teamName,
				Description: description,
			}
			return withClient(cfg, func(c *client.Client) error {
				project, err := c.Projects.Create(cmd.Context(), input)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(project)
				}
				return writePlain("%s\n", project.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&team, "team", "t", "", "team name (default: configured team)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")
	return cmd
}

func newProjectUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		name        string
		description string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project's name, description, or state",
		Args:  requireExactlyArgs(1, "project id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input models.ProjectUpdateInput
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("description") {
				input.Description = &description
			}
			if cmd.Flags().Changed("state") {
				input.State = &state
			}
			if !input.HasFields() {
				return errNoFields
			}
			return withClient(cfg, func(c *client.Client) error {
				project, err := c.Projects.Update(cmd.Context(), args[0], input)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(project)
				}
				return writePlain("%s\n", project.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new project name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new project description")
	cmd.Flags().StringVarP(&state, "state", "s", "", "new project state")
	return cmd
}

func newProjectDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  requireExactlyArgs(1, "project id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				return c.Projects.Delete(cmd.Context(), args[0])
			})
		},
	}
}
