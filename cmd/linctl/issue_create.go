package main

import (
	"time"

	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
	"linctl/internal/models"
)

type issueCreateOptions struct {
	team          string
	description   string
	priority      string
	state         string
	assigneeID    string
	assigneeEmail string
	project       string
	labelIDs      []string
	dueDate       string
	parentID      string
	estimate      int
	sortOrder     float64
	metaKV        []string
	metaJSON      string
}

func newIssueCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &issueCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create an issue",
		Args:  requireExactlyArgs(1, "title is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssueCreate(cmd, cfg, opts, jsonOutput, args[0])
		},
	}

	bindIssueCreateFlags(cmd, opts)
	return cmd
}

func runIssueCreate(cmd *cobra.Command, cfg *config.Config, opts *issueCreateOptions, jsonOutput *bool, title string) error {
	input, err := buildIssueCreateInput(cmd, cfg, opts, title)
	if err != nil {
		return err
	}

	return withClient(cfg, func(c *client.Client) error {
		issue, err := c.Issues.Create(cmd.Context(), input)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(issue)
		}
		return writePlain("%s\n", issue.ID)
	})
}

func buildIssueCreateInput(cmd *cobra.Command, cfg *config.Config, opts *issueCreateOptions, title string) (models.IssueCreateInput, error) {
	team, err := resolveTeamName(cfg, opts.team)
	if err != nil {
		return models.IssueCreateInput{}, err
	}

	input := models.IssueCreateInput{
		Title:         title,
		TeamName:      team,
		Description:   opts.description,
		StateName:     opts.state,
		AssigneeID:    opts.assigneeID,
		AssigneeEmail: opts.assigneeEmail,
		ProjectName:   opts.project,
		LabelIDs:      opts.labelIDs,
		ParentID:      opts.parentID,
	}

	if opts.priority != "" {
		priority, err := models.ParsePriority(opts.priority)
		if err != nil {
			return models.IssueCreateInput{}, err
		}
		input.Priority = &priority
	}
	if opts.dueDate != "" {
		due, err := time.Parse(models.DateLayout, opts.dueDate)
		if err != nil {
			return models.IssueCreateInput{}, err
		}
		input.DueDate = &due
	}
	if cmd.Flags().Changed("estimate") {
		input.Estimate = &opts.estimate
	}
	if cmd.Flags().Changed("sort-order") {
		input.SortOrder = &opts.sortOrder
	}
	if len(opts.metaKV) > 0 || opts.metaJSON != "" {
		meta, err := parseMetaFlags(opts.metaKV, opts.metaJSON)
		if err != nil {
			return models.IssueCreateInput{}, err
		}
		input.Metadata = meta
	}

	return input, nil
}

func bindIssueCreateFlags(cmd *cobra.Command, opts *issueCreateOptions) {
	cmd.Flags().StringVarP(&opts.team, "team", "t", "", "team name (default: configured team)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "issue description")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority (urgent, high, medium, low, none, or 0-4)")
	cmd.Flags().StringVar(&opts.state, "state", "", "workflow state name")
	cmd.Flags().StringVar(&opts.assigneeID, "assignee-id", "", "assignee user id")
	cmd.Flags().StringVar(&opts.assigneeEmail, "assignee", "", "assignee email")
	cmd.Flags().StringVar(&opts.project, "project", "", "project name")
	cmd.Flags().StringSliceVarP(&opts.labelIDs, "label-id", "l", nil, "label id (repeatable)")
	cmd.Flags().StringVar(&opts.dueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.parentID, "parent", "", "parent issue id")
	cmd.Flags().IntVar(&opts.estimate, "estimate", 0, "estimate points")
	cmd.Flags().Float64Var(&opts.sortOrder, "sort-order", 0, "sort order")
	cmd.Flags().StringSliceVar(&opts.metaKV, "meta", nil, "metadata key=value (repeatable)")
	cmd.Flags().StringVar(&opts.metaJSON, "meta-json", "", "metadata as JSON object")
}
