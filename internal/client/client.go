// Package client exposes Linear resources (issues, teams, users,
// projects) as typed managers over one shared GraphQL transport, and
// wires issue metadata persistence behind the metadata.Store interface.
package client

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"linctl/internal/api"
	"linctl/internal/config"
	"linctl/internal/metadata"
)

// ErrNotFound marks lookups for resources the remote does not know.
var ErrNotFound = errors.New("not found")

// Client is the typed entry point to the Linear API. Resource managers
// hang off it and share one transport and one advisory lookup cache.
type Client struct {
	api   *api.Client
	cache *lookupCache
	log   *slog.Logger

	Issues   *IssueManager
	Teams    *TeamManager
	Users    *UserManager
	Projects *ProjectManager

	// Metadata persists per-issue metadata mappings: attachment-backed
	// against Linear by default, local SQLite when configured.
	Metadata metadata.Store

	local *metadata.LocalStore
}

// New builds a client from resolved configuration. The API key must be
// present; it is checked here, once, rather than on each call.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("no API key configured: set api_key in the config file or the LINEAR_API_KEY environment variable")
	}

	c := &Client{
		api:   api.NewClient(cfg.Endpoint, cfg.APIKey),
		cache: newLookupCache(cfg.CacheTTLDuration()),
		log:   slog.Default(),
	}

	reconciler := metadata.NewReconciler(c.log)
	c.Issues = &IssueManager{client: c, rec: reconciler}
	c.Teams = &TeamManager{client: c}
	c.Users = &UserManager{client: c}
	c.Projects = &ProjectManager{client: c}

	if cfg.LocalMetadataDB != "" {
		local, err := metadata.OpenLocal(cfg.LocalMetadataDB)
		if err != nil {
			return nil, err
		}
		c.local = local
		c.Metadata = local
	} else {
		c.Metadata = metadata.NewAttachmentStore(c.Issues, reconciler)
	}

	return c, nil
}

// Close releases client-held resources. Only the local metadata store
// holds any; the transport is stateless.
func (c *Client) Close() error {
	if c.local != nil {
		return c.local.Close()
	}
	return nil
}

// InvalidateCache drops all cached name-to-ID lookups. Call after
// mutating teams, users, or projects outside this client.
func (c *Client) InvalidateCache() {
	c.cache.invalidate()
}
