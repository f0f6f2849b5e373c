package models

import (
	"fmt"
	"strings"
	"time"
)

// Issue is a Linear issue as exposed to callers. Metadata is synthesized
// by the metadata reconciler from the issue's attachment list; it does
// not exist on the remote schema and is never sent upstream as-is.
type Issue struct {
	ID            string            `json:"id"`
	Identifier    string            `json:"identifier,omitempty"`
	Number        int               `json:"number,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	URL           string            `json:"url,omitempty"`
	BranchName    string            `json:"branchName,omitempty"`
	State         *WorkflowState    `json:"state,omitempty"`
	Priority      Priority          `json:"priority"`
	PriorityLabel string            `json:"priorityLabel,omitempty"`
	Estimate      *int              `json:"estimate,omitempty"`
	SortOrder     float64           `json:"sortOrder,omitempty"`
	Team          *Team             `json:"team,omitempty"`
	Assignee      *User             `json:"assignee,omitempty"`
	Creator       *User             `json:"creator,omitempty"`
	Project       *Project          `json:"project,omitempty"`
	Parent        *IssueRef         `json:"parent,omitempty"`
	Labels        Nodes[IssueLabel] `json:"labels,omitempty"`
	Attachments   Nodes[Attachment] `json:"attachments,omitempty"`
	DueDate       *Date             `json:"dueDate,omitempty"`
	CreatedAt     time.Time         `json:"createdAt,omitzero"`
	UpdatedAt     time.Time         `json:"updatedAt,omitzero"`
	ArchivedAt    *time.Time        `json:"archivedAt,omitempty"`
	StartedAt     *time.Time        `json:"startedAt,omitempty"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty"`
	CanceledAt    *time.Time        `json:"canceledAt,omitempty"`
	TriagedAt     *time.Time        `json:"triagedAt,omitempty"`
	SnoozedUntil  *time.Time        `json:"snoozedUntilAt,omitempty"`
	Trashed       bool              `json:"trashed,omitempty"`

	// Metadata is the client-defined key-value mapping persisted through
	// the reserved metadata attachment.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// IssueRef is a minimal reference to another issue.
type IssueRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// IssueCreateInput is the payload for creating an issue. Name-valued
// fields (TeamName, StateName, ProjectName, AssigneeEmail) are resolved
// to IDs before the mutation is issued.
type IssueCreateInput struct {
	Title         string
	TeamName      string
	Description   string
	Priority      *Priority
	StateName     string
	AssigneeID    string
	AssigneeEmail string
	ProjectName   string
	LabelIDs      []string
	DueDate       *time.Time
	ParentID      string
	Estimate      *int
	SortOrder     *float64

	// Metadata, when non-nil, is persisted as the issue's metadata
	// attachment after the create mutation. An empty non-nil mapping
	// still creates the attachment, with an empty-object body.
	Metadata map[string]any
}

// Validate checks required issue creation fields.
func (i *IssueCreateInput) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("issue title is required")
	}
	if strings.TrimSpace(i.TeamName) == "" {
		return fmt.Errorf("issue team name is required")
	}
	if i.Priority != nil && !i.Priority.Valid() {
		return fmt.Errorf("invalid priority: %d", int(*i.Priority))
	}
	return nil
}

// IssueUpdateInput is the payload for updating an issue. Only non-nil
// fields are sent.
type IssueUpdateInput struct {
	Title         *string
	Description   *string
	TeamName      *string
	Priority      *Priority
	StateName     *string
	AssigneeID    *string
	ProjectName   *string
	LabelIDs      []string
	DueDate       *time.Time
	ParentID      *string
	Estimate      *int
	SortOrder     *float64
	Trashed       *bool

	// Metadata follows write-or-skip semantics: nil leaves the stored
	// mapping untouched, a non-nil mapping replaces it wholesale, and an
	// empty non-nil mapping clears it to an explicit empty object.
	Metadata map[string]any
}

// Validate checks update fields for basic consistency.
func (i *IssueUpdateInput) Validate() error {
	if i.Title != nil && strings.TrimSpace(*i.Title) == "" {
		return fmt.Errorf("issue title cannot be empty")
	}
	if i.Priority != nil && !i.Priority.Valid() {
		return fmt.Errorf("invalid priority: %d", int(*i.Priority))
	}
	return nil
}

// Comment is a comment on an issue.
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// HistoryEntry is one state transition in an issue's change history.
type HistoryEntry struct {
	ID        string         `json:"id"`
	FromState *WorkflowState `json:"fromState,omitempty"`
	ToState   *WorkflowState `json:"toState,omitempty"`
	Actor     *User          `json:"actor,omitempty"`
	CreatedAt time.Time      `json:"createdAt,omitzero"`
}
