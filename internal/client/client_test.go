package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linctl/internal/config"
)

// gqlRequest mirrors the transport's wire shape for test-side decoding.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestClient starts a GraphQL stub and returns a client pointed at
// it. The handler receives each decoded request and returns the JSON
// value of the response's data field.
func newTestClient(t *testing.T, handle func(req gqlRequest) string) (*Client, *requestLog) {
	t.Helper()

	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		log.record(req)
		fmt.Fprintf(w, `{"data":%s}`, handle(req))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIKey = "lin_api_test"
	cfg.Endpoint = srv.URL

	c, err := New(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, log
}

type requestLog struct {
	requests []gqlRequest
}

func (l *requestLog) record(req gqlRequest) {
	l.requests = append(l.requests, req)
}

func (l *requestLog) count(substr string) int {
	n := 0
	for _, req := range l.requests {
		if containsQuery(req, substr) {
			n++
		}
	}
	return n
}

func (l *requestLog) find(substr string) (gqlRequest, bool) {
	for _, req := range l.requests {
		if containsQuery(req, substr) {
			return req, true
		}
	}
	return gqlRequest{}, false
}

func containsQuery(req gqlRequest, substr string) bool {
	return strings.Contains(req.Query, substr)
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	_, err := New(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key configured")
}

func TestNewWiresLocalMetadataStore(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "key"
	cfg.LocalMetadataDB = t.TempDir() + "/meta.db"

	c, err := New(&cfg)
	require.NoError(t, err)
	defer c.Close()

	_, isLocal := c.Metadata.(interface{ Close() error })
	assert.True(t, isLocal, "expected local store behind Metadata")
}
