package metadata

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linctl/internal/models"
)

// fakeAttachmentAPI records mutations against an in-memory attachment
// list keyed by issue.
type fakeAttachmentAPI struct {
	attachments map[string][]models.Attachment
	listErr     error
	nextID      int

	created []models.AttachmentInput
	updated map[string]models.AttachmentInput
	deleted []string
}

func newFakeAttachmentAPI() *fakeAttachmentAPI {
	return &fakeAttachmentAPI{
		attachments: make(map[string][]models.Attachment),
		updated:     make(map[string]models.AttachmentInput),
	}
}

func (f *fakeAttachmentAPI) ListAttachments(_ context.Context, issueID string) ([]models.Attachment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.attachments[issueID], nil
}

func (f *fakeAttachmentAPI) CreateAttachment(_ context.Context, issueID string, input models.AttachmentInput) (models.Attachment, error) {
	f.created = append(f.created, input)
	f.nextID++
	att := models.Attachment{
		ID:    fmt.Sprintf("att-%d", f.nextID),
		Title: input.Title,
		URL:   input.URL,
		Body:  input.Body,
	}
	f.attachments[issueID] = append(f.attachments[issueID], att)
	return att, nil
}

func (f *fakeAttachmentAPI) UpdateAttachment(_ context.Context, attachmentID string, input models.AttachmentInput) (models.Attachment, error) {
	f.updated[attachmentID] = input
	for issueID, atts := range f.attachments {
		for i, att := range atts {
			if att.ID == attachmentID {
				att.Title = input.Title
				att.Body = input.Body
				f.attachments[issueID][i] = att
				return att, nil
			}
		}
	}
	return models.Attachment{}, fmt.Errorf("attachment %s not found", attachmentID)
}

func (f *fakeAttachmentAPI) DeleteAttachment(_ context.Context, attachmentID string) error {
	f.deleted = append(f.deleted, attachmentID)
	for issueID, atts := range f.attachments {
		for i, att := range atts {
			if att.ID == attachmentID {
				f.attachments[issueID] = append(atts[:i], atts[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("attachment %s not found", attachmentID)
}

func newTestStore(api *fakeAttachmentAPI) *AttachmentStore {
	return NewAttachmentStore(api, testReconciler())
}

func TestAttachmentStoreSaveCreates(t *testing.T) {
	api := newFakeAttachmentAPI()
	store := newTestStore(api)

	err := store.Save(context.Background(), "issue-1", map[string]any{"sprint": "2026-Q3"})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, Title, api.created[0].Title)
	assert.Equal(t, AttachmentURL("issue-1"), api.created[0].URL)
	assert.JSONEq(t, `{"sprint":"2026-Q3"}`, api.created[0].Body)
	assert.Empty(t, api.updated)
}

func TestAttachmentStoreSaveReplaces(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = []models.Attachment{
		{ID: "user-1", Title: "design doc", URL: "https://example.com/doc"},
		metaAttachment("meta-1", "issue-1", `{"old":"v"}`),
	}
	store := newTestStore(api)

	err := store.Save(context.Background(), "issue-1", map[string]any{"new": "v"})
	require.NoError(t, err)

	assert.Empty(t, api.created)
	require.Contains(t, api.updated, "meta-1")
	assert.JSONEq(t, `{"new":"v"}`, api.updated["meta-1"].Body)
}

func TestAttachmentStoreSaveNilIsNoop(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.listErr = errors.New("must not be called")
	store := newTestStore(api)

	require.NoError(t, store.Save(context.Background(), "issue-1", nil))
}

func TestAttachmentStoreSaveEmptyClearsToEmptyObject(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = []models.Attachment{
		metaAttachment("meta-1", "issue-1", `{"k":"v"}`),
	}
	store := newTestStore(api)

	err := store.Save(context.Background(), "issue-1", map[string]any{})
	require.NoError(t, err)
	assert.JSONEq(t, "{}", api.updated["meta-1"].Body)
}

func TestAttachmentStoreSaveRejectsBadValues(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = nil
	store := newTestStore(api)

	err := store.Save(context.Background(), "issue-1", map[string]any{"bad": make(chan int)})

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Empty(t, api.created)
	assert.Empty(t, api.updated)
}

func TestAttachmentStoreSavePropagatesListError(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.listErr = errors.New("boom")
	store := newTestStore(api)

	err := store.Save(context.Background(), "issue-1", map[string]any{"k": "v"})
	assert.ErrorContains(t, err, "boom")
}

func TestAttachmentStoreLoad(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = []models.Attachment{
		{ID: "user-1", Title: "design doc", URL: "https://example.com/doc"},
		metaAttachment("meta-1", "issue-1", `{"sprint":"2026-Q3"}`),
	}
	store := newTestStore(api)

	meta, err := store.Load(context.Background(), "issue-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sprint": "2026-Q3"}, meta)
}

func TestAttachmentStoreLoadMissing(t *testing.T) {
	store := newTestStore(newFakeAttachmentAPI())

	meta, err := store.Load(context.Background(), "issue-1")
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
}

func TestAttachmentStoreLoadCorruptDegrades(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = []models.Attachment{
		metaAttachment("meta-1", "issue-1", "{broken"),
	}
	store := newTestStore(api)

	meta, err := store.Load(context.Background(), "issue-1")
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestAttachmentStoreClear(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = []models.Attachment{
		{ID: "user-1", Title: "design doc", URL: "https://example.com/doc"},
		metaAttachment("meta-1", "issue-1", `{"k":"v"}`),
	}
	store := newTestStore(api)

	require.NoError(t, store.Clear(context.Background(), "issue-1"))
	assert.Equal(t, []string{"meta-1"}, api.deleted)

	// Ordinary attachments survive.
	require.Len(t, api.attachments["issue-1"], 1)
	assert.Equal(t, "user-1", api.attachments["issue-1"][0].ID)
}

func TestAttachmentStoreClearWithoutMetadata(t *testing.T) {
	api := newFakeAttachmentAPI()
	api.attachments["issue-1"] = []models.Attachment{
		{ID: "user-1", Title: "design doc", URL: "https://example.com/doc"},
	}
	store := newTestStore(api)

	require.NoError(t, store.Clear(context.Background(), "issue-1"))
	assert.Empty(t, api.deleted)
}

func TestExecutePlanNil(t *testing.T) {
	api := newFakeAttachmentAPI()
	require.NoError(t, ExecutePlan(context.Background(), api, nil))
	assert.Empty(t, api.created)
	assert.Empty(t, api.updated)
}

func TestExecutePlanUnknownOp(t *testing.T) {
	err := ExecutePlan(context.Background(), newFakeAttachmentAPI(), &MutationPlan{Op: Op("upsert")})
	assert.Error(t, err)
}
