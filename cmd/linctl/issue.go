package main

import (
	"errors"

	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
	"linctl/internal/models"
)

func newIssueCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Work with Linear issues",
	}

	cmd.AddCommand(
		newIssueShowCmd(cfg, jsonOutput),
		newIssueCreateCmd(cfg, jsonOutput),
		newIssueUpdateCmd(cfg, jsonOutput),
		newIssueDeleteCmd(cfg),
		newIssueListCmd(cfg, jsonOutput),
		newIssueCommentsCmd(cfg, jsonOutput),
		newIssueHistoryCmd(cfg, jsonOutput),
		newIssueAttachmentsCmd(cfg, jsonOutput),
	)
	return cmd
}

func newIssueShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show issue details",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				issue, err := c.Issues.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(issue)
				}
				return writeIssueDetail(issue)
			})
		},
	}
}

func newIssueDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an issue",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				return c.Issues.Delete(cmd.Context(), args[0])
			})
		},
	}
}

func newIssueListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		team    string
		project string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				if team == "" && !all && project == "" {
					team = cfg.Team
				}

				var issues []models.Issue
				var err error
				switch {
				case project != "":
					issues, err = c.Issues.ListByProject(cmd.Context(), project)
				case team != "":
					issues, err = c.Issues.ListByTeam(cmd.Context(), team)
				default:
					issues, err = c.Issues.ListAll(cmd.Context())
				}
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(issues)
				}
				return writeIssueList(issues)
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "list issues of a team (default: configured team)")
	cmd.Flags().StringVar(&project, "project", "", "list issues of a project (by id)")
	cmd.Flags().BoolVar(&all, "all", false, "list issues across all teams")

	return cmd
}

func newIssueCommentsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <id>",
		Short: "List comments on an issue",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				comments, err := c.Issues.GetComments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(comments)
				}
				for _, comment := range comments {
					author := ""
					if comment.User != nil {
						author = comment.User.Name
					}
					if err := writePlain("%s %s: %s\n", formatTime(comment.CreatedAt), author, comment.Body); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newIssueHistoryCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show an issue's state transitions",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				entries, err := c.Issues.GetHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(entries)
				}
				for _, entry := range entries {
					from, to := "-", "-"
					if entry.FromState != nil {
						from = entry.FromState.Name
					}
					if entry.ToState != nil {
						to = entry.ToState.Name
					}
					if err := writePlain("%s %s -> %s\n", formatTime(entry.CreatedAt), from, to); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newIssueAttachmentsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "attachments <id>",
		Short: "List attachments on an issue",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				attachments, err := c.Issues.ListAttachments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(attachments)
				}
				for _, att := range attachments {
					if err := writePlain("%s %s %s\n", att.ID, att.Title, att.URL); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func resolveTeamName(cfg *config.Config, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Team != "" {
		return cfg.Team, nil
	}
	return "", errors.New("no team given: pass --team or set team in the config")
}

var errNoFields = errors.New("no fields to update")
