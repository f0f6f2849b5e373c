package metadata

import (
	"context"
	"fmt"

	"linctl/internal/models"
)

// AttachmentAPI is the remote surface the attachment-backed store needs.
// It is satisfied by the issue manager; the sequence returned by
// ListAttachments must be fully materialized, in remote-defined order.
// Remote failures (network, auth, validation) are propagated unchanged.
type AttachmentAPI interface {
	ListAttachments(ctx context.Context, issueID string) ([]models.Attachment, error)
	CreateAttachment(ctx context.Context, issueID string, input models.AttachmentInput) (models.Attachment, error)
	UpdateAttachment(ctx context.Context, attachmentID string, input models.AttachmentInput) (models.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
}

// AttachmentStore persists metadata mappings through Linear issue
// attachments. Every operation is a fresh read-then-decide round trip;
// the two remote calls a Save performs are not atomic, and a failure
// between them leaves the issue without its intended metadata. Callers
// needing atomicity must verify and retry the save independently.
type AttachmentStore struct {
	api AttachmentAPI
	rec *Reconciler
}

var _ Store = (*AttachmentStore)(nil)

// NewAttachmentStore creates the attachment-backed metadata store.
func NewAttachmentStore(api AttachmentAPI, rec *Reconciler) *AttachmentStore {
	if rec == nil {
		rec = NewReconciler(nil)
	}
	return &AttachmentStore{api: api, rec: rec}
}

// Load fetches the issue's attachments and extracts the metadata
// mapping. Corrupt or duplicated metadata attachments degrade to an
// empty mapping (logged by the reconciler); remote errors propagate.
func (s *AttachmentStore) Load(ctx context.Context, issueID string) (map[string]any, error) {
	attachments, err := s.api.ListAttachments(ctx, issueID)
	if err != nil {
		return nil, err
	}
	return s.rec.Extract(issueID, attachments).Metadata, nil
}

// Save replaces the issue's metadata wholesale: fetch the current
// attachment list, plan a create-or-replace, execute it.
func (s *AttachmentStore) Save(ctx context.Context, issueID string, meta map[string]any) error {
	if meta == nil {
		return nil
	}
	attachments, err := s.api.ListAttachments(ctx, issueID)
	if err != nil {
		return err
	}
	plan, err := s.rec.Plan(issueID, meta, attachments)
	if err != nil {
		return err
	}
	return ExecutePlan(ctx, s.api, plan)
}

// Clear deletes the backing metadata attachment if one exists. Unlike
// Save with an empty mapping, this removes the mapping's existence
// marker entirely.
func (s *AttachmentStore) Clear(ctx context.Context, issueID string) error {
	attachments, err := s.api.ListAttachments(ctx, issueID)
	if err != nil {
		return err
	}
	for _, att := range attachments {
		if IsMetadataAttachment(att) {
			return s.api.DeleteAttachment(ctx, att.ID)
		}
	}
	return nil
}

// ExecutePlan performs the attachment mutation a plan describes. A nil
// plan is a no-op (the SKIP outcome).
func ExecutePlan(ctx context.Context, api AttachmentAPI, plan *MutationPlan) error {
	if plan == nil {
		return nil
	}
	input := models.AttachmentInput{
		Title: plan.Payload.Title,
		URL:   plan.Payload.URL,
		Body:  plan.Payload.Body,
	}
	switch plan.Op {
	case OpCreate:
		_, err := api.CreateAttachment(ctx, plan.IssueID, input)
		return err
	case OpReplace:
		_, err := api.UpdateAttachment(ctx, plan.AttachmentID, input)
		return err
	default:
		return fmt.Errorf("unknown mutation plan op %q", plan.Op)
	}
}
