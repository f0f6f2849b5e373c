package client

import (
	"context"
	"fmt"

	"linctl/internal/models"
)

// TeamManager provides team lookups. Reads go through the advisory
// lookup cache; teams change rarely and staleness is harmless here.
type TeamManager struct {
	client *Client
}

// Get fetches a team by ID, including its workflow states.
func (m *TeamManager) Get(ctx context.Context, teamID string) (*models.Team, error) {
	key := cacheKey("team", teamID)
	if cached, ok := m.client.cache.get(key); ok {
		team := cached.(models.Team)
		return &team, nil
	}

	query := `
query GetTeam($teamId: String!) {
	team(id: $teamId) {
		id
		name
		key
		description
		states { nodes { id name type color } }
	}
}`

	var resp struct {
		Team *models.Team `json:"team"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"teamId": teamID}, &resp); err != nil {
		return nil, err
	}
	if resp.Team == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}

	m.client.cache.set(key, *resp.Team)
	m.cacheStates(teamID, resp.Team.States)
	return resp.Team, nil
}

// GetAll returns all teams in the workspace.
func (m *TeamManager) GetAll(ctx context.Context) ([]models.Team, error) {
	query := `
query {
	teams {
		nodes { id name key description }
	}
}`

	var resp struct {
		Teams models.Nodes[models.Team] `json:"teams"`
	}
	if err := m.client.api.Do(ctx, query, nil, &resp); err != nil {
		return nil, err
	}

	for _, team := range resp.Teams {
		m.client.cache.set(cacheKey("team", team.ID), team)
		m.client.cache.set(cacheKey("team_id", team.Name), team.ID)
	}
	return resp.Teams, nil
}

// GetIDByName resolves a team name to its ID.
func (m *TeamManager) GetIDByName(ctx context.Context, name string) (string, error) {
	key := cacheKey("team_id", name)
	if cached, ok := m.client.cache.get(key); ok {
		return cached.(string), nil
	}

	teams, err := m.GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, team := range teams {
		if team.Name == name {
			return team.ID, nil
		}
	}
	return "", fmt.Errorf("team %q: %w", name, ErrNotFound)
}

// GetStates returns a team's workflow states.
func (m *TeamManager) GetStates(ctx context.Context, teamID string) ([]models.WorkflowState, error) {
	key := cacheKey("states", teamID)
	if cached, ok := m.client.cache.get(key); ok {
		return cached.([]models.WorkflowState), nil
	}

	query := `
query GetStates($teamId: ID!) {
	workflowStates(filter: { team: { id: { eq: $teamId } } }) {
		nodes { id name type color }
	}
}`

	var resp struct {
		WorkflowStates models.Nodes[models.WorkflowState] `json:"workflowStates"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"teamId": teamID}, &resp); err != nil {
		return nil, err
	}

	states := []models.WorkflowState(resp.WorkflowStates)
	m.cacheStates(teamID, states)
	return states, nil
}

// GetStateIDByName resolves a workflow state name within a team.
func (m *TeamManager) GetStateIDByName(ctx context.Context, stateName, teamID string) (string, error) {
	key := cacheKey("state_id", teamID, stateName)
	if cached, ok := m.client.cache.get(key); ok {
		return cached.(string), nil
	}

	states, err := m.GetStates(ctx, teamID)
	if err != nil {
		return "", err
	}
	for _, state := range states {
		if state.Name == stateName {
			return state.ID, nil
		}
	}
	return "", fmt.Errorf("state %q in team %s: %w", stateName, teamID, ErrNotFound)
}

func (m *TeamManager) cacheStates(teamID string, states []models.WorkflowState) {
	m.client.cache.set(cacheKey("states", teamID), []models.WorkflowState(states))
	for _, state := range states {
		m.client.cache.set(cacheKey("state_id", teamID, state.Name), state.ID)
	}
}
