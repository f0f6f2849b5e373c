package models

import "time"

// Attachment is a resource linked to an issue. Linear uses attachments
// to reference external URLs; this client additionally repurposes one
// reserved attachment per issue as the carrier for client-defined issue
// metadata (see internal/metadata).
type Attachment struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
	// Body is the attachment's free-text payload. On the wire it maps to
	// Linear's subtitle field; for metadata attachments it holds the
	// JSON-encoded mapping.
	Body      string    `json:"subtitle,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// AttachmentInput is the payload for creating or updating an attachment.
type AttachmentInput struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
	Body  string `json:"subtitle,omitempty"`
}
