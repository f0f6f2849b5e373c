package metadata

import "context"

// Store persists per-issue metadata mappings.
//
// Two implementations exist: AttachmentStore layers mappings onto Linear
// issue attachments (the production path) and LocalStore keeps them in a
// local SQLite database for tests and offline tooling. Which one a
// client uses is an injection decision, not a hardcoded remote call.
type Store interface {
	// Load returns the stored mapping for an issue. A missing mapping is
	// not an error; it loads as an empty map.
	Load(ctx context.Context, issueID string) (map[string]any, error)
	// Save replaces the stored mapping wholesale. A nil mapping is a
	// no-op; an empty non-nil mapping stores an explicit empty object.
	Save(ctx context.Context, issueID string, meta map[string]any) error
	// Clear removes the stored mapping entirely, including the
	// "explicitly empty" marker state.
	Clear(ctx context.Context, issueID string) error
}
