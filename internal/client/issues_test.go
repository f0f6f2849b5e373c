package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linctl/internal/metadata"
	"linctl/internal/models"
)

const teamsJSON = `{"teams":{"nodes":[{"id":"team-1","name":"Platform","key":"PLT"}]}}`

func issueJSON(id, title, attachments string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"identifier": "PLT-1",
		"title": %q,
		"priority": 2,
		"team": {"id": "team-1", "name": "Platform", "key": "PLT"},
		"attachments": {"nodes": [%s]}
	}`, id, title, attachments)
}

// metaAttachmentJSON renders a metadata attachment node. The subtitle
// carries the mapping as JSON text, not as a nested object, so the
// encoded mapping is marshaled once more into a string literal.
func metaAttachmentJSON(attID, issueID string, body map[string]any) string {
	inner, _ := json.Marshal(body)
	quoted, _ := json.Marshal(string(inner))
	return fmt.Sprintf(`{"id": %q, "title": %q, "url": %q, "subtitle": %s}`,
		attID, metadata.Title, metadata.AttachmentURL(issueID), quoted)
}

func TestIssueGetReconcilesMetadata(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) string {
		return fmt.Sprintf(`{"issue":%s}`,
			issueJSON("issue-1", "Fix login", metaAttachmentJSON("meta-1", "issue-1", map[string]any{"sprint": "2026-Q3"})))
	})

	issue, err := c.Issues.Get(context.Background(), "issue-1")
	require.NoError(t, err)
	assert.Equal(t, "PLT-1", issue.Identifier)
	assert.Equal(t, map[string]any{"sprint": "2026-Q3"}, issue.Metadata)
}

func TestIssueGetWithoutMetadata(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) string {
		return fmt.Sprintf(`{"issue":%s}`, issueJSON("issue-1", "Fix login", ""))
	})

	issue, err := c.Issues.Get(context.Background(), "issue-1")
	require.NoError(t, err)
	assert.NotNil(t, issue.Metadata)
	assert.Empty(t, issue.Metadata)
}

func TestIssueGetNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) string {
		return `{"issue":null}`
	})

	_, err := c.Issues.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueCreateWithMetadata(t *testing.T) {
	c, log := newTestClient(t, func(req gqlRequest) string {
		switch {
		case strings.Contains(req.Query, "teams {"):
			return teamsJSON
		case strings.Contains(req.Query, "issueCreate"):
			input := req.Variables["input"].(map[string]any)
			return fmt.Sprintf(`{"issueCreate":{"success":true,"issue":%s}}`,
				issueJSON(input["id"].(string), input["title"].(string), ""))
		case strings.Contains(req.Query, "attachmentCreate"):
			return `{"attachmentCreate":{"success":true,"attachment":{"id":"att-1","title":"` + metadata.Title + `","url":"u","subtitle":"{}"}}}`
		default:
			return "{}"
		}
	})

	issue, err := c.Issues.Create(context.Background(), models.IssueCreateInput{
		Title:    "Fix login",
		TeamName: "Platform",
		Metadata: map[string]any{"sprint": "2026-Q3"},
	})
	require.NoError(t, err)

	// The mutation response stands in for a refetch: no extra GetIssue
	// round trip, and the metadata mapping is already populated.
	assert.Equal(t, 0, log.count("query GetIssue"))
	assert.Equal(t, map[string]any{"sprint": "2026-Q3"}, issue.Metadata)

	createReq, ok := log.find("issueCreate")
	require.True(t, ok)
	input := createReq.Variables["input"].(map[string]any)
	assert.NotEmpty(t, input["id"], "issue id must be generated client-side")
	assert.Equal(t, "team-1", input["teamId"])

	attReq, ok := log.find("attachmentCreate")
	require.True(t, ok)
	attInput := attReq.Variables["input"].(map[string]any)
	assert.Equal(t, metadata.Title, attInput["title"])
	assert.Equal(t, metadata.AttachmentURL(issue.ID), attInput["url"])
	assert.JSONEq(t, `{"sprint":"2026-Q3"}`, attInput["subtitle"].(string))
}

func TestIssueCreateWithoutMetadataSkipsAttachment(t *testing.T) {
	c, log := newTestClient(t, func(req gqlRequest) string {
		switch {
		case strings.Contains(req.Query, "teams {"):
			return teamsJSON
		case strings.Contains(req.Query, "issueCreate"):
			input := req.Variables["input"].(map[string]any)
			return fmt.Sprintf(`{"issueCreate":{"success":true,"issue":%s}}`,
				issueJSON(input["id"].(string), input["title"].(string), ""))
		default:
			return "{}"
		}
	})

	issue, err := c.Issues.Create(context.Background(), models.IssueCreateInput{
		Title:    "No metadata",
		TeamName: "Platform",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, log.count("attachmentCreate"))
	assert.Empty(t, issue.Metadata)
}

func TestIssueCreateRejectsBadMetadataBeforeRemote(t *testing.T) {
	c, log := newTestClient(t, func(req gqlRequest) string {
		return "{}"
	})

	_, err := c.Issues.Create(context.Background(), models.IssueCreateInput{
		Title:    "Bad",
		TeamName: "Platform",
		Metadata: map[string]any{"bad": make(chan int)},
	})

	var encErr *metadata.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "bad", encErr.Key)
	assert.Empty(t, log.requests, "no remote call may precede metadata validation")
}

func TestIssueCreateMetadataFailureReturnsIssue(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) string {
		switch {
		case strings.Contains(req.Query, "teams {"):
			return teamsJSON
		case strings.Contains(req.Query, "issueCreate"):
			input := req.Variables["input"].(map[string]any)
			return fmt.Sprintf(`{"issueCreate":{"success":true,"issue":%s}}`,
				issueJSON(input["id"].(string), input["title"].(string), ""))
		case strings.Contains(req.Query, "attachmentCreate"):
			return `{"attachmentCreate":{"success":false}}`
		default:
			return "{}"
		}
	})

	issue, err := c.Issues.Create(context.Background(), models.IssueCreateInput{
		Title:    "Half done",
		TeamName: "Platform",
		Metadata: map[string]any{"k": "v"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persisting metadata failed")
	require.NotNil(t, issue, "the created issue must be returned alongside the error")
	assert.Equal(t, "Half done", issue.Title)
}

func TestIssueUpdateReplacesMetadata(t *testing.T) {
	existing := metaAttachmentJSON("meta-1", "issue-1", map[string]any{"old": "v"})

	c, log := newTestClient(t, func(req gqlRequest) string {
		switch {
		case strings.Contains(req.Query, "issueUpdate"):
			return fmt.Sprintf(`{"issueUpdate":{"success":true,"issue":%s}}`,
				issueJSON("issue-1", "Updated", existing))
		case strings.Contains(req.Query, "attachmentUpdate"):
			return `{"attachmentUpdate":{"success":true,"attachment":{"id":"meta-1","title":"` + metadata.Title + `","url":"u","subtitle":"{}"}}}`
		default:
			return "{}"
		}
	})

	title := "Updated"
	issue, err := c.Issues.Update(context.Background(), "issue-1", models.IssueUpdateInput{
		Title:    &title,
		Metadata: map[string]any{"new": "v"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, log.count("attachmentCreate"))
	attReq, ok := log.find("attachmentUpdate")
	require.True(t, ok)
	assert.Equal(t, "meta-1", attReq.Variables["id"])
	attInput := attReq.Variables["input"].(map[string]any)
	assert.JSONEq(t, `{"new":"v"}`, attInput["subtitle"].(string))

	assert.Equal(t, map[string]any{"new": "v"}, issue.Metadata)
}

func TestIssueUpdateNilMetadataSkips(t *testing.T) {
	existing := metaAttachmentJSON("meta-1", "issue-1", map[string]any{"kept": true})

	c, log := newTestClient(t, func(req gqlRequest) string {
		if strings.Contains(req.Query, "issueUpdate") {
			return fmt.Sprintf(`{"issueUpdate":{"success":true,"issue":%s}}`,
				issueJSON("issue-1", "Renamed", existing))
		}
		return "{}"
	})

	title := "Renamed"
	issue, err := c.Issues.Update(context.Background(), "issue-1", models.IssueUpdateInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, 0, log.count("attachmentCreate"))
	assert.Equal(t, 0, log.count("attachmentUpdate"))
	// The stored mapping is untouched and still visible on the result.
	assert.Equal(t, map[string]any{"kept": true}, issue.Metadata)
}

func TestIssueUpdateEmptyMapClearsToEmptyObject(t *testing.T) {
	existing := metaAttachmentJSON("meta-1", "issue-1", map[string]any{"old": "v"})

	c, log := newTestClient(t, func(req gqlRequest) string {
		switch {
		case strings.Contains(req.Query, "issueUpdate"):
			return fmt.Sprintf(`{"issueUpdate":{"success":true,"issue":%s}}`,
				issueJSON("issue-1", "Cleared", existing))
		case strings.Contains(req.Query, "attachmentUpdate"):
			return `{"attachmentUpdate":{"success":true,"attachment":{"id":"meta-1","title":"` + metadata.Title + `","url":"u","subtitle":"{}"}}}`
		default:
			return "{}"
		}
	})

	issue, err := c.Issues.Update(context.Background(), "issue-1", models.IssueUpdateInput{
		Metadata: map[string]any{},
	})
	require.NoError(t, err)

	attReq, ok := log.find("attachmentUpdate")
	require.True(t, ok)
	attInput := attReq.Variables["input"].(map[string]any)
	assert.JSONEq(t, "{}", attInput["subtitle"].(string))

	assert.NotNil(t, issue.Metadata)
	assert.Empty(t, issue.Metadata)
}

func TestIssueDelete(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) string {
		return `{"issueDelete":{"success":true}}`
	})
	require.NoError(t, c.Issues.Delete(context.Background(), "issue-1"))
}

func TestIssueDeleteFailure(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) string {
		return `{"issueDelete":{"success":false}}`
	})
	assert.Error(t, c.Issues.Delete(context.Background(), "issue-1"))
}

func TestIssueListByTeamPaginates(t *testing.T) {
	page := 0
	c, log := newTestClient(t, func(req gqlRequest) string {
		switch {
		case strings.Contains(req.Query, "teams {"):
			return teamsJSON
		case strings.Contains(req.Query, "TeamIssues"):
			page++
			if page == 1 {
				return fmt.Sprintf(`{"issues":{"nodes":[%s],"pageInfo":{"hasNextPage":true,"endCursor":"c1"}}}`,
					issueJSON("issue-1", "First", metaAttachmentJSON("meta-1", "issue-1", map[string]any{"n": float64(1)})))
			}
			return fmt.Sprintf(`{"issues":{"nodes":[%s],"pageInfo":{"hasNextPage":false}}}`,
				issueJSON("issue-2", "Second", ""))
		default:
			return "{}"
		}
	})

	issues, err := c.Issues.ListByTeam(context.Background(), "Platform")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, 2, log.count("TeamIssues"))

	secondReq := log.requests[len(log.requests)-1]
	assert.Equal(t, "c1", secondReq.Variables["cursor"])

	// Metadata is reconciled per listed issue.
	assert.Equal(t, map[string]any{"n": float64(1)}, issues[0].Metadata)
	assert.Empty(t, issues[1].Metadata)
}
