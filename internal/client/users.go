package client

import (
	"context"
	"fmt"
	"strings"

	"linctl/internal/api"
	"linctl/internal/models"
)

const userFields = `id name displayName email avatarUrl active admin timezone createdAt updatedAt archivedAt`

// UserManager provides user lookups.
type UserManager struct {
	client *Client
}

// Get fetches a user by ID.
func (m *UserManager) Get(ctx context.Context, userID string) (*models.User, error) {
	key := cacheKey("user", userID)
	if cached, ok := m.client.cache.get(key); ok {
		user := cached.(models.User)
		return &user, nil
	}

	query := fmt.Sprintf(`
query GetUser($userId: String!) {
	user(id: $userId) { %s }
}`, userFields)

	var resp struct {
		User *models.User `json:"user"`
	}
	if err := m.client.api.Do(ctx, query, map[string]any{"userId": userID}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
	}

	m.cacheUser(*resp.User)
	return resp.User, nil
}

// GetMe returns the user who owns the API key, via the viewer query.
func (m *UserManager) GetMe(ctx context.Context) (*models.User, error) {
	key := cacheKey("me")
	if cached, ok := m.client.cache.get(key); ok {
		user := cached.(models.User)
		return &user, nil
	}

	query := fmt.Sprintf(`
query Me {
	viewer { %s }
}`, userFields)

	var resp struct {
		Viewer *models.User `json:"viewer"`
	}
	if err := m.client.api.Do(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Viewer == nil {
		return nil, fmt.Errorf("viewer: %w", ErrNotFound)
	}

	m.client.cache.set(key, *resp.Viewer)
	m.cacheUser(*resp.Viewer)
	return resp.Viewer, nil
}

// GetAll returns all users in the workspace.
func (m *UserManager) GetAll(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`
query AllUsers($cursor: String) {
	users(first: 100, after: $cursor) {
		nodes { %s }
		pageInfo { hasNextPage endCursor }
	}
}`, userFields)

	fetch := func(ctx context.Context, cursor string) (api.Page[models.User], error) {
		vars := map[string]any{}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		var resp struct {
			Users struct {
				Nodes    []models.User `json:"nodes"`
				PageInfo api.PageInfo  `json:"pageInfo"`
			} `json:"users"`
		}
		if err := m.client.api.Do(ctx, query, vars, &resp); err != nil {
			return api.Page[models.User]{}, err
		}
		return api.Page[models.User]{Nodes: resp.Users.Nodes, PageInfo: resp.Users.PageInfo}, nil
	}

	users, err := api.Paginate(ctx, fetch)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		m.cacheUser(user)
	}
	return users, nil
}

// EmailMap returns a mapping of user IDs to email addresses.
func (m *UserManager) EmailMap(ctx context.Context) (map[string]string, error) {
	users, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	emails := make(map[string]string, len(users))
	for _, user := range users {
		if user.Email != "" {
			emails[user.ID] = user.Email
		}
	}
	return emails, nil
}

// GetIDByEmail resolves a user's email address to their ID.
func (m *UserManager) GetIDByEmail(ctx context.Context, email string) (string, error) {
	key := cacheKey("user_id_email", strings.ToLower(email))
	if cached, ok := m.client.cache.get(key); ok {
		return cached.(string), nil
	}

	users, err := m.GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user.ID, nil
		}
	}
	return "", fmt.Errorf("user with email %q: %w", email, ErrNotFound)
}

// GetIDByName resolves a user name or display name to an ID. Matching
// is case-insensitive but otherwise exact.
func (m *UserManager) GetIDByName(ctx context.Context, name string) (string, error) {
	key := cacheKey("user_id_name", strings.ToLower(name))
	if cached, ok := m.client.cache.get(key); ok {
		return cached.(string), nil
	}

	users, err := m.GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, user := range users {
		if strings.EqualFold(user.Name, name) || strings.EqualFold(user.DisplayName, name) {
			return user.ID, nil
		}
	}
	return "", fmt.Errorf("user %q: %w", name, ErrNotFound)
}

func (m *UserManager) cacheUser(user models.User) {
	m.client.cache.set(cacheKey("user", user.ID), user)
	if user.Email != "" {
		m.client.cache.set(cacheKey("user_id_email", strings.ToLower(user.Email)), user.ID)
	}
	if user.Name != "" {
		m.client.cache.set(cacheKey("user_id_name", strings.ToLower(user.Name)), user.ID)
	}
	if user.DisplayName != "" {
		m.client.cache.set(cacheKey("user_id_name", strings.ToLower(user.DisplayName)), user.ID)
	}
}
