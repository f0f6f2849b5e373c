package models

import (
	"fmt"
	"strings"
	"time"
)

// Project is a Linear project.
type Project struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	State       string      `json:"state,omitempty"`
	Progress    float64     `json:"progress,omitempty"`
	Teams       Nodes[Team] `json:"teams,omitempty"`
	CreatedAt   time.Time   `json:"createdAt,omitzero"`
	UpdatedAt   time.Time   `json:"updatedAt,omitzero"`
}

// ProjectCreateInput is the payload for creating a project. TeamName is
// resolved to a team ID before the mutation is issued.
type ProjectCreateInput struct {
	Name        string
	TeamName    string
	Description string
}

// Validate checks required project creation fields.
func (p *ProjectCreateInput) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if strings.TrimSpace(p.TeamName) == "" {
		return fmt.Errorf("project team name is required")
	}
	return nil
}

// ProjectUpdateInput is the payload for updating a project. Only non-nil
// fields are sent.
type ProjectUpdateInput struct {
	Name        *string
	Description *string
	State       *string
}

// Validate checks update fields for basic consistency.
func (p *ProjectUpdateInput) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	return nil
}

// HasFields reports whether the update carries anything to send.
func (p *ProjectUpdateInput) HasFields() bool {
	return p.Name != nil || p.Description != nil || p.State != nil
}
