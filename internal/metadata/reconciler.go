package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"linctl/internal/models"
)

// Op distinguishes the attachment mutation a plan describes.
type Op string

const (
	OpCreate  Op = "create"
	OpReplace Op = "replace"
)

// MutationPlan describes one attachment create-or-replace call that will
// persist a metadata mapping. Building a plan has no side effects; the
// caller executes it against the remote API (see ExecutePlan).
type MutationPlan struct {
	Op           Op
	IssueID      string
	AttachmentID string // target of OpReplace
	Payload      Payload
}

// ConsistencyAnomaly reports more than one metadata attachment on a
// single issue, usually the residue of two concurrent writes racing
// through the create path. The first attachment in fetch order remains
// authoritative; nothing is dropped silently.
type ConsistencyAnomaly struct {
	IssueID       string
	AttachmentIDs []string
}

func (e *ConsistencyAnomaly) Error() string {
	return fmt.Sprintf("issue %s has %d metadata attachments (keeping %s)",
		e.IssueID, len(e.AttachmentIDs), strings.Join(e.AttachmentIDs[:1], ""))
}

// Result is the outcome of extracting metadata from an issue's
// attachment list. Extraction is total: corrupt or duplicated metadata
// attachments degrade to an empty mapping plus a non-nil Anomaly rather
// than a failed issue read.
type Result struct {
	Metadata map[string]any
	// Anomaly carries a *ConsistencyAnomaly and/or *DecodingError when
	// the attachment list was inconsistent; the mapping is still usable.
	Anomaly error
}

// Reconciler maps between issue metadata mappings and their backing
// attachments.
type Reconciler struct {
	log *slog.Logger
}

// NewReconciler creates a reconciler. A nil logger falls back to the
// process default.
func NewReconciler(log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{log: log}
}

// Extract locates the metadata attachment among attachments (in the
// order the remote returned them) and decodes it. Absence of metadata is
// a normal state: no match yields an empty mapping and no anomaly.
func (r *Reconciler) Extract(issueID string, attachments []models.Attachment) Result {
	var matches []models.Attachment
	for _, att := range attachments {
		if IsMetadataAttachment(att) {
			matches = append(matches, att)
		}
	}
	if len(matches) == 0 {
		return Result{Metadata: map[string]any{}}
	}

	var result Result
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, att := range matches {
			ids[i] = att.ID
		}
		result.Anomaly = &ConsistencyAnomaly{IssueID: issueID, AttachmentIDs: ids}
		r.log.Warn("issue has more than one metadata attachment, keeping the first",
			"issue_id", issueID, "attachment_ids", ids)
	}

	meta, err := Decode(matches[0])
	if err != nil {
		r.log.Warn("metadata attachment body is not valid JSON",
			"issue_id", issueID, "attachment_id", matches[0].ID, "error", err)
		result.Metadata = map[string]any{}
		result.Anomaly = errors.Join(result.Anomaly, err)
		return result
	}

	result.Metadata = meta
	return result
}

// Plan decides how to persist meta for issueID given the attachment list
// fetched at this moment (read-then-decide; nothing is cached across
// calls). A nil mapping means the caller did not touch metadata: the
// plan is nil and no attachment call is issued. A non-nil empty mapping
// is an explicit clear and still yields a plan carrying an empty-object
// body.
//
// The plan and the issue mutation it accompanies are separate remote
// calls with no transaction between them. Two concurrent writers can
// both observe no existing attachment and both create one; the
// duplicate surfaces as a ConsistencyAnomaly on the next Extract.
func (r *Reconciler) Plan(issueID string, meta map[string]any, existing []models.Attachment) (*MutationPlan, error) {
	if meta == nil {
		return nil, nil
	}

	payload, err := Encode(issueID, meta)
	if err != nil {
		return nil, err
	}

	plan := &MutationPlan{Op: OpCreate, IssueID: issueID, Payload: payload}
	for _, att := range existing {
		if IsMetadataAttachment(att) {
			plan.Op = OpReplace
			plan.AttachmentID = att.ID
			break
		}
	}
	return plan, nil
}
