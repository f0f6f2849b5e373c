package client

import (
	"context"
	"fmt"

	"linctl/internal/api"
	"linctl/internal/models"
)

const projectFields = `id name description state progress createdAt updatedAt`

// ProjectManager provides project lookups and mutations.
type ProjectManager struct {
	client *Client
}

// Get fetches a project by ID.
func (m *ProjectManager) Get(ctx context.Context, projectID string) (*models.Project, error) {
	query := fmt.Sprintf(`
query GetProject($projectId: String!) {
	project(id: $projectId) { %s teams { nodes { id name key } } }
}`, projectFields)

	var resp struct {
		Project *models.Project `json:"project"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"projectId": projectID}, &resp); err != nil {
		return nil, err
	}
	if resp.Project == nil {
		return nil, fmt.Errorf("project %q: %w", projectID, ErrNotFound)
	}
	return resp.Project, nil
}

// GetAll returns all projects in the workspace.
func (m *ProjectManager) GetAll(ctx context.Context) ([]models.Project, error) {
	query := fmt.Sprintf(`
query AllProjects($cursor: String) {
	projects(first: 100, after: $cursor) {
		nodes { %s }
		pageInfo { hasNextPage endCursor }
	}
}`, projectFields)

	fetch := func(ctx context.Context, cursor string) (api.Page[models.Project], error) {
		vars := map[string]any{}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		var resp struct {
			Projects struct {
				Nodes    []models.Project `json:"nodes"`
				PageInfo api.PageInfo     `json:"pageInfo"`
			} `json:"projects"`
		}
		if err := m.client.api.Do(ctx, query, vars, &resp); err != nil {
			return api.Page[models.Project]{}, err
		}
		return api.Page[models.Project]{Nodes: resp.Projects.Nodes, PageInfo: resp.Projects.PageInfo}, nil
	}

	return api.Paginate(ctx, fetch)
}

// GetIDByName resolves a project name to its ID within a team.
func (m *ProjectManager) GetIDByName(ctx context.Context, name, teamID string) (string, error) {
	key := cacheKey("project_id", teamID, name)
	if cached, ok := m.client.cache.get(key); ok {
		return cached.(string), nil
	}

	query := `
query TeamProjects($teamId: String!) {
	team(id: $teamId) {
		projects { nodes { id name } }
	}
}`

	var resp struct {
		Team *struct {
			Projects models.Nodes[models.Project] `json:"projects"`
		} `json:"team"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"teamId": teamID}, &resp); err != nil {
		return "", err
	}
	if resp.Team == nil {
		return "", fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}

	for _, project := range resp.Team.Projects {
		m.client.cache.set(cacheKey("project_id", teamID, project.Name), project.ID)
	}
	for _, project := range resp.Team.Projects {
		if project.Name == name {
			return project.ID, nil
		}
	}
	return "", fmt.Errorf("project %q in team %s: %w", name, teamID, ErrNotFound)
}

// Create creates a project attached to the input's team.
func (m *ProjectManager) Create(ctx context.Context, input models.ProjectCreateInput) (*models.Project, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	teamID, err := m.client.Teams.GetIDByName(ctx, input.TeamName)
	if err != nil {
		return nil, err
	}

	mutation := fmt.Sprintf(`
mutation CreateProject($input: ProjectCreateInput!) {
	projectCreate(input: $input) {
		success
		project { %s }
	}
}`, projectFields)

	vars := map[string]any{"input": map[string]any{
		"name":    input.Name,
		"teamIds": []string{teamID},
	}}
	if input.Description != "" {
		vars["input"].(map[string]any)["description"] = input.Description
	}

	var resp struct {
		ProjectCreate struct {
			Success bool            `json:"success"`
			Project *models.Project `json:"project"`
		} `json:"projectCreate"`
	}
	if err := m.client.api.Do(ctx, mutation, vars, &resp); err != nil {
		return nil, err
	}
	if !resp.ProjectCreate.Success || resp.ProjectCreate.Project == nil {
		return nil, fmt.Errorf("failed to create project %q", input.Name)
	}
	return resp.ProjectCreate.Project, nil
}

// Update updates a project's name, description, or state. Stale
// name-to-ID cache entries after a rename only degrade lookups and age
// out with the TTL.
func (m *ProjectManager) Update(ctx context.Context, projectID string, input models.ProjectUpdateInput) (*models.Project, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !input.HasFields() {
		return nil, fmt.Errorf("no fields to update for project %s", projectID)
	}

	mutation := fmt.Sprintf(`
mutation UpdateProject($id: String!, $input: ProjectUpdateInput!) {
	projectUpdate(id: $id, input: $input) {
		success
		project { %s }
	}
}`, projectFields)

	vars := map[string]any{}
	if input.Name != nil {
		vars["name"] = *input.Name
	}
	if input.Description != nil {
		vars["description"] = *input.Description
	}
	if input.State != nil {
		vars["state"] = *input.State
	}

	var resp struct {
		ProjectUpdate struct {
			Success bool            `json:"success"`
			Project *models.Project `json:"project"`
		} `json:"projectUpdate"`
	}
	if err := m.client.api.Do(ctx, mutation, map[string]any{"id": projectID, "input": vars}, &resp); err != nil {
		return nil, err
	}
	if !resp.ProjectUpdate.Success || resp.ProjectUpdate.Project == nil {
		return nil, fmt.Errorf("failed to update project %s", projectID)
	}
	return resp.ProjectUpdate.Project, nil
}

// Delete deletes a project.
func (m *ProjectManager) Delete(ctx context.Context, projectID string) error {
	mutation := `
mutation DeleteProject($id: String!) {
	projectDelete(id: $id) { success }
}`

	var resp struct {
		ProjectDelete struct {
			Success bool `json:"success"`
		} `json:"projectDelete"`
	}
	if err := m.client.api.Do(ctx, mutation, map[string]any{"id": projectID}, &resp); err != nil {
		return err
	}
	if !resp.ProjectDelete.Success {
		return fmt.Errorf("failed to delete project %s", projectID)
	}
	return nil
}
