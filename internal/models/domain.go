package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority is Linear's issue priority scale. Lower values are more
// urgent, except PriorityNone which means no priority was assigned.
type Priority int

const (
	PriorityUrgent Priority = 0
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
	PriorityNone   Priority = 4
)

var priorityLabels = map[Priority]string{
	PriorityUrgent: "urgent",
	PriorityHigh:   "high",
	PriorityMedium: "medium",
	PriorityLow:    "low",
	PriorityNone:   "none",
}

// Label returns the human-readable name of the priority.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Valid reports whether p is one of Linear's priority values.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// ParsePriority accepts either a priority name ("urgent".."none") or the
// numeric value Linear uses on the wire.
func ParsePriority(raw string) (Priority, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("priority is required")
	}
	for priority, label := range priorityLabels {
		if value == label {
			return priority, nil
		}
	}
	if numeric, err := strconv.Atoi(value); err == nil {
		priority := Priority(numeric)
		if priority.Valid() {
			return priority, nil
		}
	}
	return 0, fmt.Errorf("invalid priority: %s", raw)
}

// WorkflowState is one state in a team's issue workflow.
type WorkflowState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

// IssueLabel is a label attached to an issue.
type IssueLabel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}
