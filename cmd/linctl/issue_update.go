package main

import (
	"time"

	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
	"linctl/internal/models"
)

type issueUpdateOptions struct {
	title       string
	description string
	team        string
	priority    string
	state       string
	assigneeID  string
	project     string
	labelIDs    []string
	dueDate     string
	parentID    string
	estimate    int
	sortOrder   float64
	trashed     bool
	metaKV      []string
	metaJSON    string
	clearMeta   bool
}

func newIssueUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &issueUpdateOptions{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an issue",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssueUpdate(cmd, cfg, opts, jsonOutput, args[0])
		},
	}

	bindIssueUpdateFlags(cmd, opts)
	return cmd
}

func runIssueUpdate(cmd *cobra.Command, cfg *config.Config, opts *issueUpdateOptions, jsonOutput *bool, issueID string) error {
	input, err := buildIssueUpdateInput(cmd, opts)
	if err != nil {
		return err
	}
	if !hasIssueUpdateFields(input) {
		return errNoFields
	}

	return withClient(cfg, func(c *client.Client) error {
		issue, err := c.Issues.Update(cmd.Context(), issueID, input)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(issue)
		}
		return writePlain("%s\n", issue.ID)
	})
}

func buildIssueUpdateInput(cmd *cobra.Command, opts *issueUpdateOptions) (models.IssueUpdateInput, error) {
	input := models.IssueUpdateInput{}

	if cmd.Flags().Changed("title") {
		input.Title = &opts.title
	}
	if cmd.Flags().Changed("description") {
		input.Description = &opts.description
	}
	if cmd.Flags().Changed("team") {
		input.TeamName = &opts.team
	}
	if opts.priority != "" {
		priority, err := models.ParsePriority(opts.priority)
		if err != nil {
			return models.IssueUpdateInput{}, err
		}
		input.Priority = &priority
	}
	if cmd.Flags().Changed("state") {
		input.StateName = &opts.state
	}
	if cmd.Flags().Changed("assignee-id") {
		input.AssigneeID = &opts.assigneeID
	}
	if cmd.Flags().Changed("project") {
		input.ProjectName = &opts.project
	}
	if len(opts.labelIDs) > 0 {
		input.LabelIDs = opts.labelIDs
	}
	if opts.dueDate != "" {
		due, err := time.Parse(models.DateLayout, opts.dueDate)
		if err != nil {
			return models.IssueUpdateInput{}, err
		}
		input.DueDate = &due
	}
	if cmd.Flags().Changed("parent") {
		input.ParentID = &opts.parentID
	}
	if cmd.Flags().Changed("estimate") {
		input.Estimate = &opts.estimate
	}
	if cmd.Flags().Changed("sort-order") {
		input.SortOrder = &opts.sortOrder
	}
	if cmd.Flags().Changed("trashed") {
		input.Trashed = &opts.trashed
	}

	// --clear-meta sends an explicit empty mapping; --meta/--meta-json
	// replace the stored mapping wholesale. Leaving all three unset
	// leaves the stored metadata untouched.
	switch {
	case opts.clearMeta:
		input.Metadata = map[string]any{}
	case len(opts.metaKV) > 0 || opts.metaJSON != "":
		meta, err := parseMetaFlags(opts.metaKV, opts.metaJSON)
		if err != nil {
			return models.IssueUpdateInput{}, err
		}
		input.Metadata = meta
	}

	return input, nil
}

func hasIssueUpdateFields(input models.IssueUpdateInput) bool {
	return input.Title != nil ||
		input.Description != nil ||
		input.TeamName != nil ||
		input.Priority != nil ||
		input.StateName != nil ||
		input.AssigneeID != nil ||
		input.ProjectName != nil ||
		len(input.LabelIDs) > 0 ||
		input.DueDate != nil ||
		input.ParentID != nil ||
		input.Estimate != nil ||
		input.SortOrder != nil ||
		input.Trashed != nil ||
		input.Metadata != nil
}

func bindIssueUpdateFlags(cmd *cobra.Command, opts *issueUpdateOptions) {
	cmd.Flags().StringVar(&opts.title, "title", "", "new title")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&opts.team, "team", "t", "", "move to team")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority (urgent, high, medium, low, none, or 0-4)")
	cmd.Flags().StringVar(&opts.state, "state", "", "workflow state name")
	cmd.Flags().StringVar(&opts.assigneeID, "assignee-id", "", "assignee user id")
	cmd.Flags().StringVar(&opts.project, "project", "", "project name")
	cmd.Flags().StringSliceVarP(&opts.labelIDs, "label-id", "l", nil, "label id (repeatable)")
	cmd.Flags().StringVar(&opts.dueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.parentID, "parent", "", "parent issue id")
	cmd.Flags().IntVar(&opts.estimate, "estimate", 0, "estimate points")
	cmd.Flags().Float64Var(&opts.sortOrder, "sort-order", 0, "sort order")
	cmd.Flags().BoolVar(&opts.trashed, "trashed", false, "move to or out of trash")
	cmd.Flags().StringSliceVar(&opts.metaKV, "meta", nil, "metadata key=value (repeatable, replaces stored mapping)")
	cmd.Flags().StringVar(&opts.metaJSON, "meta-json", "", "metadata as JSON object (replaces stored mapping)")
	cmd.Flags().BoolVar(&opts.clearMeta, "clear-meta", false, "clear stored metadata")
}
