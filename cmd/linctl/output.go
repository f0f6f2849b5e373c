package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"linctl/internal/format"
	"linctl/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeIssueList(issues []models.Issue) error {
	for _, issue := range issues {
		if err := writePlain("%s\n", formatIssueLine(issue)); err != nil {
			return err
		}
	}
	return nil
}

func writeIssueDetail(issue *models.Issue) error {
	lines := []string{
		fmt.Sprintf("id: %s", issue.ID),
		fmt.Sprintf("identifier: %s", issue.Identifier),
		fmt.Sprintf("title: %s", issue.Title),
		fmt.Sprintf("priority: %s", issue.Priority.Label()),
		fmt.Sprintf("created_at: %s", formatTime(issue.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(issue.UpdatedAt)),
	}

	if issue.State != nil {
		lines = append(lines, fmt.Sprintf("state: %s", issue.State.Name))
	}
	if issue.Team != nil {
		lines = append(lines, fmt.Sprintf("team: %s", issue.Team.Name))
	}
	if issue.Assignee != nil {
		lines = append(lines, fmt.Sprintf("assignee: %s", issue.Assignee.DisplayName))
	}
	if issue.Project != nil {
		lines = append(lines, fmt.Sprintf("project: %s", issue.Project.Name))
	}
	if issue.Parent != nil {
		lines = append(lines, fmt.Sprintf("parent: %s", issue.Parent.ID))
	}
	if issue.DueDate != nil {
		lines = append(lines, fmt.Sprintf("due_date: %s", issue.DueDate.Format(models.DateLayout)))
	}
	if issue.URL != "" {
		lines = append(lines, fmt.Sprintf("url: %s", issue.URL))
	}
	if issue.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", issue.Description))
	}

	if len(issue.Labels) > 0 {
		names := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			names = append(names, label.Name)
		}
		lines = append(lines, fmt.Sprintf("labels: %s", strings.Join(names, ", ")))
	}
	if len(issue.Metadata) > 0 {
		lines = append(lines, "metadata:")
		lines = append(lines, formatMetadataLines(issue.Metadata, "  ")...)
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatMetadataLines(meta map[string]any, indent string) []string {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		value, err := json.Marshal(meta[key])
		if err != nil {
			value = []byte(fmt.Sprintf("%v", meta[key]))
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", indent, key, value))
	}
	return lines
}

func formatIssueLine(issue models.Issue) string {
	ref := issue.Identifier
	if ref == "" {
		ref = issue.ID
	}
	state := ""
	if issue.State != nil {
		state = issue.State.Name
	}
	return fmt.Sprintf("○ %s [%s] [%s] - %s", ref, priorityTag(issue.Priority), state, issue.Title)
}

func priorityTag(priority models.Priority) string {
	label := strings.ToUpper(priority.Label())
	switch priority {
	case models.PriorityUrgent:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case models.PriorityHigh:
		return color.New(color.FgYellow).Sprint(label)
	case models.PriorityMedium:
		return color.New(color.FgCyan).Sprint(label)
	default:
		return label
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
