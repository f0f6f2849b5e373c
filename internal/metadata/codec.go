// Package metadata layers structured key-value metadata on top of Linear
// issue attachments. Linear has no extensible issue fields, so one
// reserved attachment per issue carries the mapping as a JSON body; the
// codec handles (de)serialization and identification of that attachment,
// the reconciler decides create-vs-replace on writes and reconstructs
// the mapping on reads.
package metadata

import (
	"encoding/json"
	"fmt"
	"sort"

	"linctl/internal/models"
)

// Title is the reserved attachment title that marks the metadata
// attachment for an issue. Matching is exact and case-sensitive so user
// attachments with similar titles are never misread as metadata.
const Title = "linctl:metadata"

// AttachmentURL returns the placeholder URL stored on an issue's
// metadata attachment. Linear requires a URL on every attachment and
// deduplicates attachments by URL within an issue; a per-issue URN
// satisfies both without carrying any meaning of its own.
func AttachmentURL(issueID string) string {
	return "urn:linctl:metadata:" + issueID
}

// Payload is the attachment-shaped form of one metadata mapping.
type Payload struct {
	Title string
	URL   string
	Body  string
}

// EncodingError reports a metadata value that cannot be represented as
// JSON. It is raised before any remote call; the caller can fix the
// input and retry.
type EncodingError struct {
	Key string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("metadata key %q is not JSON-representable: %v", e.Key, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError reports a metadata attachment whose body is not valid
// JSON. Readers treat the attachment as unreadable rather than failing
// the issue read.
type DecodingError struct {
	AttachmentID string
	Err          error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("metadata attachment %s has an unparsable body: %v", e.AttachmentID, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Validate checks that every value in meta is JSON-representable,
// reporting the same EncodingError Encode would. It exists so writers
// can reject bad input before issuing any remote call. A nil mapping is
// valid (it means "metadata untouched").
func Validate(meta map[string]any) error {
	// Marshal per key so a failure names the offending key.
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := json.Marshal(meta[key]); err != nil {
			return &EncodingError{Key: key, Err: err}
		}
	}
	return nil
}

// Encode serializes meta into the attachment fields for issueID. An
// empty mapping encodes to an empty-object body, so an explicit clear
// remains distinguishable from metadata never having been set.
func Encode(issueID string, meta map[string]any) (Payload, error) {
	if meta == nil {
		meta = map[string]any{}
	}
	if err := Validate(meta); err != nil {
		return Payload{}, err
	}

	body, err := json.Marshal(meta)
	if err != nil {
		return Payload{}, &EncodingError{Err: err}
	}

	return Payload{
		Title: Title,
		URL:   AttachmentURL(issueID),
		Body:  string(body),
	}, nil
}

// Decode parses the metadata body carried by att.
func Decode(att models.Attachment) (map[string]any, error) {
	var meta map[string]any
	if err := json.Unmarshal([]byte(att.Body), &meta); err != nil {
		return nil, &DecodingError{AttachmentID: att.ID, Err: err}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// IsMetadataAttachment reports whether att is the reserved metadata
// attachment for its issue. The exact title match is the sole
// discriminator between metadata and ordinary attachments.
func IsMetadataAttachment(att models.Attachment) bool {
	return att.Title == Title
}
