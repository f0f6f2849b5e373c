package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"linctl/internal/api"
	"linctl/internal/metadata"
	"linctl/internal/models"
)

// issueFields is the field selection shared by every query or mutation
// that returns a full issue. Attachments ride along so metadata can be
// reconciled from the same round trip.
const issueFields = `
	id
	identifier
	number
	title
	description
	url
	branchName
	state { id name type color }
	priority
	priorityLabel
	estimate
	sortOrder
	team { id name key description }
	assignee { id name displayName email avatarUrl createdAt updatedAt }
	creator { id name displayName email avatarUrl createdAt updatedAt }
	project { id name description state }
	parent { id title }
	labels { nodes { id name color } }
	attachments { nodes { id title subtitle url createdAt updatedAt } }
	dueDate
	createdAt
	updatedAt
	archivedAt
	startedAt
	completedAt
	canceledAt
	triagedAt
	snoozedUntilAt
	trashed
`

const attachmentFields = `id title subtitle url createdAt updatedAt`

// IssueManager provides CRUD operations on issues, including the
// transparent metadata-attachment handling on create, update, and read.
type IssueManager struct {
	client *Client
	rec    *metadata.Reconciler
}

// Get fetches an issue by ID. The returned issue's Metadata field is
// reconstructed from its attachment list in the same round trip.
func (m *IssueManager) Get(ctx context.Context, issueID string) (*models.Issue, error) {
	query := fmt.Sprintf(`
query GetIssue($issueId: String!) {
	issue(id: $issueId) { %s }
}`, issueFields)

	var resp struct {
		Issue *models.Issue `json:"issue"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"issueId": issueID}, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, fmt.Errorf("issue %q: %w", issueID, ErrNotFound)
	}

	m.reconcile(resp.Issue)
	return resp.Issue, nil
}

// Create creates an issue and, when input.Metadata is non-nil, persists
// the mapping as the issue's metadata attachment. The issue ID is
// generated client-side so the create mutation returns the fully
// populated issue without a verification refetch.
//
// The issue mutation and the metadata attachment call are not atomic:
// when the second call fails, the created issue is returned together
// with the error, and the issue exists remotely without its intended
// metadata.
func (m *IssueManager) Create(ctx context.Context, input models.IssueCreateInput) (*models.Issue, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	// Reject unencodable metadata before any remote call is made.
	if err := metadata.Validate(input.Metadata); err != nil {
		return nil, err
	}

	vars, err := m.buildCreateVars(ctx, input)
	if err != nil {
		return nil, err
	}

	mutation := fmt.Sprintf(`
mutation CreateIssue($input: IssueCreateInput!) {
	issueCreate(input: $input) {
		success
		issue { %s }
	}
}`, issueFields)

	var resp struct {
		IssueCreate struct {
			Success bool          `json:"success"`
			Issue   *models.Issue `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := m.client.api.Do(ctx, mutation, map[string]any{"input": vars}, &resp); err != nil {
		return nil, err
	}
	if !resp.IssueCreate.Success || resp.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("failed to create issue %q", input.Title)
	}
	issue := resp.IssueCreate.Issue

	if input.ParentID != "" {
		if err := m.SetParent(ctx, issue.ID, input.ParentID); err != nil {
			return issue, err
		}
		issue.Parent = &models.IssueRef{ID: input.ParentID}
	}

	if err := m.applyMetadata(ctx, issue, input.Metadata); err != nil {
		return issue, fmt.Errorf("issue %s created, but persisting metadata failed: %w", issue.ID, err)
	}
	m.reconcileAfterWrite(issue, input.Metadata)

	return issue, nil
}

// Update updates an issue and applies the metadata write-or-skip rules:
// nil input.Metadata leaves the stored mapping untouched, a non-nil
// mapping replaces it wholesale. Like Create, the two remote calls are
// not atomic; on a metadata failure the updated issue is returned with
// the error.
func (m *IssueManager) Update(ctx context.Context, issueID string, input models.IssueUpdateInput) (*models.Issue, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := metadata.Validate(input.Metadata); err != nil {
		return nil, err
	}

	vars, err := m.buildUpdateVars(ctx, issueID, input)
	if err != nil {
		return nil, err
	}

	mutation := fmt.Sprintf(`
mutation UpdateIssue($id: String!, $input: IssueUpdateInput!) {
	issueUpdate(id: $id, input: $input) {
		success
		issue { %s }
	}
}`, issueFields)

	var resp struct {
		IssueUpdate struct {
			Success bool          `json:"success"`
			Issue   *models.Issue `json:"issue"`
		} `json:"issueUpdate"`
	}
	if err := m.client.api.Do(ctx, mutation, map[string]any{"id": issueID, "input": vars}, &resp); err != nil {
		return nil, err
	}
	if !resp.IssueUpdate.Success || resp.IssueUpdate.Issue == nil {
		return nil, fmt.Errorf("failed to update issue %s", issueID)
	}
	issue := resp.IssueUpdate.Issue

	if err := m.applyMetadata(ctx, issue, input.Metadata); err != nil {
		return issue, fmt.Errorf("issue %s updated, but persisting metadata failed: %w", issue.ID, err)
	}
	m.reconcileAfterWrite(issue, input.Metadata)

	return issue, nil
}

// Delete deletes an issue. Linear cascades attachment deletion, so the
// metadata attachment goes with it.
func (m *IssueManager) Delete(ctx context.Context, issueID string) error {
	mutation := `
mutation DeleteIssue($issueId: String!) {
	issueDelete(id: $issueId) { success }
}`

	var resp struct {
		IssueDelete struct {
			Success bool `json:"success"`
		} `json:"issueDelete"`
	}
	if err := m.client.api.Do(ctx, mutation, map[string]any{"issueId": issueID}, &resp); err != nil {
		return err
	}
	if !resp.IssueDelete.Success {
		return fmt.Errorf("failed to delete issue %s", issueID)
	}
	return nil
}

// ListByTeam returns all issues of the named team, paginated through and
// metadata-reconciled.
func (m *IssueManager) ListByTeam(ctx context.Context, teamName string) ([]models.Issue, error) {
	teamID, err := m.client.Teams.GetIDByName(ctx, teamName)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
query TeamIssues($teamId: ID!, $cursor: String) {
	issues(filter: { team: { id: { eq: $teamId } } }, first: 50, after: $cursor) {
		nodes { %s }
		pageInfo { hasNextPage endCursor }
	}
}`, issueFields)

	return m.listIssues(ctx, query, map[string]any{"teamId": teamID}, func(resp issuesConnResponse) api.Page[models.Issue] {
		return api.Page[models.Issue]{Nodes: resp.Issues.Nodes, PageInfo: resp.Issues.PageInfo}
	})
}

// ListByProject returns all issues of a project.
func (m *IssueManager) ListByProject(ctx context.Context, projectID string) ([]models.Issue, error) {
	query := fmt.Sprintf(`
query ProjectIssues($projectId: String!, $cursor: String) {
	project(id: $projectId) {
		issues(first: 100, after: $cursor) {
			nodes { %s }
			pageInfo { hasNextPage endCursor }
		}
	}
}`, issueFields)

	fetch := func(ctx context.Context, cursor string) (api.Page[models.Issue], error) {
		vars := map[string]any{"projectId": projectID}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		var resp struct {
			Project *struct {
				Issues issuesConn `json:"issues"`
			} `json:"project"`
		}
		if err := m.client.api.Do(ctx, query, vars, &resp); err != nil {
			return api.Page[models.Issue]{}, err
		}
		if resp.Project == nil {
			return api.Page[models.Issue]{}, fmt.Errorf("project %q: %w", projectID, ErrNotFound)
		}
		return api.Page[models.Issue]{Nodes: resp.Project.Issues.Nodes, PageInfo: resp.Project.Issues.PageInfo}, nil
	}

	issues, err := api.Paginate(ctx, fetch)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		m.reconcile(&issues[i])
	}
	return issues, nil
}

// ListAll returns every issue visible to the API key, across all teams.
func (m *IssueManager) ListAll(ctx context.Context) ([]models.Issue, error) {
	query := fmt.Sprintf(`
query AllIssues($cursor: String) {
	issues(first: 100, after: $cursor) {
		nodes { %s }
		pageInfo { hasNextPage endCursor }
	}
}`, issueFields)

	return m.listIssues(ctx, query, map[string]any{}, func(resp issuesConnResponse) api.Page[models.Issue] {
		return api.Page[models.Issue]{Nodes: resp.Issues.Nodes, PageInfo: resp.Issues.PageInfo}
	})
}

// SetParent links an issue under a parent issue.
func (m *IssueManager) SetParent(ctx context.Context, childID, parentID string) error {
	mutation := `
mutation SetParent($id: String!, $input: IssueUpdateInput!) {
	issueUpdate(id: $id, input: $input) { success }
}`

	var resp struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	vars := map[string]any{"id": childID, "input": map[string]any{"parentId": parentID}}
	if err := m.client.api.Do(ctx, mutation, vars, &resp); err != nil {
		return err
	}
	if !resp.IssueUpdate.Success {
		return fmt.Errorf("failed to set parent of issue %s", childID)
	}
	return nil
}

// GetComments returns the comments on an issue.
func (m *IssueManager) GetComments(ctx context.Context, issueID string) ([]models.Comment, error) {
	query := `
query IssueComments($issueId: String!) {
	issue(id: $issueId) {
		comments { nodes { id body user { id name } createdAt } }
	}
}`

	var resp struct {
		Issue *struct {
			Comments models.Nodes[models.Comment] `json:"comments"`
		} `json:"issue"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"issueId": issueID}, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, fmt.Errorf("issue %q: %w", issueID, ErrNotFound)
	}
	return resp.Issue.Comments, nil
}

// GetHistory returns an issue's state transition history.
func (m *IssueManager) GetHistory(ctx context.Context, issueID string) ([]models.HistoryEntry, error) {
	query := `
query IssueHistory($issueId: String!) {
	issue(id: $issueId) {
		history(first: 50) {
			nodes {
				id
				createdAt
				fromState { id name type }
				toState { id name type }
				actor { ... on User { id name } }
			}
		}
	}
}`

	var resp struct {
		Issue *struct {
			History models.Nodes[models.HistoryEntry] `json:"history"`
		} `json:"issue"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"issueId": issueID}, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, fmt.Errorf("issue %q: %w", issueID, ErrNotFound)
	}
	return resp.Issue.History, nil
}

// ListAttachments returns an issue's attachments in remote order,
// including the metadata attachment if present.
func (m *IssueManager) ListAttachments(ctx context.Context, issueID string) ([]models.Attachment, error) {
	query := fmt.Sprintf(`
query IssueAttachments($issueId: String!) {
	issue(id: $issueId) {
		attachments { nodes { %s } }
	}
}`, attachmentFields)

	var resp struct {
		Issue *struct {
			Attachments models.Nodes[models.Attachment] `json:"attachments"`
		} `json:"issue"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"issueId": issueID}, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, fmt.Errorf("issue %q: %w", issueID, ErrNotFound)
	}
	return resp.Issue.Attachments, nil
}

// CreateAttachment creates an attachment on an issue.
func (m *IssueManager) CreateAttachment(ctx context.Context, issueID string, input models.AttachmentInput) (models.Attachment, error) {
	mutation := fmt.Sprintf(`
mutation CreateAttachment($input: AttachmentCreateInput!) {
	attachmentCreate(input: $input) {
		success
		attachment { %s }
	}
}`, attachmentFields)

	vars := map[string]any{"input": map[string]any{
		"issueId":  issueID,
		"title":    input.Title,
		"subtitle": input.Body,
		"url":      input.URL,
	}}

	var resp struct {
		AttachmentCreate struct {
			Success    bool               `json:"success"`
			Attachment *models.Attachment `json:"attachment"`
		} `json:"attachmentCreate"`
	}
	if err := m.client.api.Do(ctx, mutation, vars, &resp); err != nil {
		return models.Attachment{}, err
	}
	if !resp.AttachmentCreate.Success || resp.AttachmentCreate.Attachment == nil {
		return models.Attachment{}, fmt.Errorf("failed to create attachment on issue %s", issueID)
	}
	return *resp.AttachmentCreate.Attachment, nil
}

// UpdateAttachment overwrites an attachment's title and body.
func (m *IssueManager) UpdateAttachment(ctx context.Context, attachmentID string, input models.AttachmentInput) (models.Attachment, error) {
	mutation := fmt.Sprintf(`
mutation UpdateAttachment($id: String!, $input: AttachmentUpdateInput!) {
	attachmentUpdate(id: $id, input: $input) {
		success
		attachment { %s }
	}
}`, attachmentFields)

	vars := map[string]any{"id": attachmentID, "input": map[string]any{
		"title":    input.Title,
		"subtitle": input.Body,
	}}

	var resp struct {
		AttachmentUpdate struct {
			Success    bool               `json:"success"`
			Attachment *models.Attachment `json:"attachment"`
		} `json:"attachmentUpdate"`
	}
	if err := m.client.api.Do(ctx, mutation, vars, &resp); err != nil {
		return models.Attachment{}, err
	}
	if !resp.AttachmentUpdate.Success || resp.AttachmentUpdate.Attachment == nil {
		return models.Attachment{}, fmt.Errorf("failed to update attachment %s", attachmentID)
	}
	return *resp.AttachmentUpdate.Attachment, nil
}

// DeleteAttachment deletes an attachment.
func (m *IssueManager) DeleteAttachment(ctx context.Context, attachmentID string) error {
	mutation := `
mutation DeleteAttachment($id: String!) {
	attachmentDelete(id: $id) { success }
}`

	var resp struct {
		AttachmentDelete struct {
			Success bool `json:"success"`
		} `json:"attachmentDelete"`
	}
	if err := m.client.api.Do(ctx, mutation, map[string]any{"id": attachmentID}, &resp); err != nil {
		return err
	}
	if !resp.AttachmentDelete.Success {
		return fmt.Errorf("failed to delete attachment %s", attachmentID)
	}
	return nil
}

var _ metadata.AttachmentAPI = (*IssueManager)(nil)

type issuesConn struct {
	Nodes    []models.Issue `json:"nodes"`
	PageInfo api.PageInfo   `json:"pageInfo"`
}

type issuesConnResponse struct {
	Issues issuesConn `json:"issues"`
}

func (m *IssueManager) listIssues(ctx context.Context, query string, baseVars map[string]any, page func(issuesConnResponse) api.Page[models.Issue]) ([]models.Issue, error) {
	fetch := func(ctx context.Context, cursor string) (api.Page[models.Issue], error) {
		vars := make(map[string]any, len(baseVars)+1)
		for k, v := range baseVars {
			vars[k] = v
		}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		var resp issuesConnResponse
		if err := m.client.api.Do(ctx, query, vars, &resp); err != nil {
			return api.Page[models.Issue]{}, err
		}
		return page(resp), nil
	}

	issues, err := api.Paginate(ctx, fetch)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		m.reconcile(&issues[i])
	}
	return issues, nil
}

// reconcile populates issue.Metadata from the issue's attachment list.
func (m *IssueManager) reconcile(issue *models.Issue) {
	result := m.rec.Extract(issue.ID, issue.Attachments)
	issue.Metadata = result.Metadata
}

// applyMetadata plans and executes the attachment mutation for a
// metadata write. A nil mapping skips the attachment call entirely.
func (m *IssueManager) applyMetadata(ctx context.Context, issue *models.Issue, meta map[string]any) error {
	plan, err := m.rec.Plan(issue.ID, meta, issue.Attachments)
	if err != nil {
		return err
	}
	return metadata.ExecutePlan(ctx, m, plan)
}

// reconcileAfterWrite sets the exposed metadata field after a write
// without an extra round trip: the written mapping if one was supplied,
// the mapping reconstructed from the response's attachments otherwise.
func (m *IssueManager) reconcileAfterWrite(issue *models.Issue, written map[string]any) {
	if written != nil {
		issue.Metadata = written
		return
	}
	m.reconcile(issue)
}

func (m *IssueManager) buildCreateVars(ctx context.Context, input models.IssueCreateInput) (map[string]any, error) {
	teamID, err := m.client.Teams.GetIDByName(ctx, input.TeamName)
	if err != nil {
		return nil, err
	}

	vars := map[string]any{
		// A client-generated ID makes the create idempotent to retry and
		// lets the mutation response stand in for a follow-up fetch.
		"id":     uuid.NewString(),
		"title":  input.Title,
		"teamId": teamID,
	}

	if input.Description != "" {
		vars["description"] = input.Description
	}
	if input.Priority != nil {
		vars["priority"] = int(*input.Priority)
	}
	if input.StateName != "" {
		stateID, err := m.client.Teams.GetStateIDByName(ctx, input.StateName, teamID)
		if err != nil {
			return nil, err
		}
		vars["stateId"] = stateID
	}
	if input.AssigneeID != "" {
		vars["assigneeId"] = input.AssigneeID
	} else if input.AssigneeEmail != "" {
		assigneeID, err := m.client.Users.GetIDByEmail(ctx, input.AssigneeEmail)
		if err != nil {
			return nil, err
		}
		vars["assigneeId"] = assigneeID
	}
	if input.ProjectName != "" {
		projectID, err := m.client.Projects.GetIDByName(ctx, input.ProjectName, teamID)
		if err != nil {
			return nil, err
		}
		vars["projectId"] = projectID
	}
	if len(input.LabelIDs) > 0 {
		vars["labelIds"] = input.LabelIDs
	}
	if input.DueDate != nil {
		vars["dueDate"] = input.DueDate.Format(models.DateLayout)
	}
	if input.Estimate != nil {
		vars["estimate"] = *input.Estimate
	}
	if input.SortOrder != nil {
		vars["sortOrder"] = *input.SortOrder
	}

	return vars, nil
}

func (m *IssueManager) buildUpdateVars(ctx context.Context, issueID string, input models.IssueUpdateInput) (map[string]any, error) {
	vars := map[string]any{}

	// State and project names resolve within a team, so a team ID is
	// needed as soon as either is present: the new team if the update
	// moves the issue, the issue's current team otherwise.
	teamID := ""
	if input.TeamName != nil {
		id, err := m.client.Teams.GetIDByName(ctx, *input.TeamName)
		if err != nil {
			return nil, err
		}
		teamID = id
		vars["teamId"] = id
	} else if input.StateName != nil || input.ProjectName != nil {
		issue, err := m.Get(ctx, issueID)
		if err != nil {
			return nil, err
		}
		if issue.Team == nil {
			return nil, fmt.Errorf("issue %s has no team; cannot resolve state or project names", issueID)
		}
		teamID = issue.Team.ID
	}

	if input.Title != nil {
		vars["title"] = *input.Title
	}
	if input.Description != nil {
		vars["description"] = *input.Description
	}
	if input.Priority != nil {
		vars["priority"] = int(*input.Priority)
	}
	if input.StateName != nil {
		stateID, err := m.client.Teams.GetStateIDByName(ctx, *input.StateName, teamID)
		if err != nil {
			return nil, err
		}
		vars["stateId"] = stateID
	}
	if input.AssigneeID != nil {
		vars["assigneeId"] = *input.AssigneeID
	}
	if input.ProjectName != nil {
		projectID, err := m.client.Projects.GetIDByName(ctx, *input.ProjectName, teamID)
		if err != nil {
			return nil, err
		}
		vars["projectId"] = projectID
	}
	if len(input.LabelIDs) > 0 {
		vars["labelIds"] = input.LabelIDs
	}
	if input.DueDate != nil {
		vars["dueDate"] = input.DueDate.Format(models.DateLayout)
	}
	if input.ParentID != nil {
		vars["parentId"] = *input.ParentID
	}
	if input.Estimate != nil {
		vars["estimate"] = *input.Estimate
	}
	if input.SortOrder != nil {
		vars["sortOrder"] = *input.SortOrder
	}
	if input.Trashed != nil {
		vars["trashed"] = *input.Trashed
	}

	return vars, nil
}
