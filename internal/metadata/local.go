package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const localBusyTimeoutMS = 5000

const localSchema = `
CREATE TABLE IF NOT EXISTS issue_metadata (
  issue_id TEXT PRIMARY KEY,
  body TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`

// LocalStore keeps metadata mappings in a local SQLite database. It
// mirrors the attachment-backed store's semantics (wholesale replace,
// explicit-empty vs absent) without a remote dependency, which makes it
// the injection point for tests and offline tooling.
type LocalStore struct {
	db *sql.DB
}

var _ Store = (*LocalStore)(nil)

// OpenLocal opens (and if needed bootstraps) the SQLite database at path.
func OpenLocal(path string) (*LocalStore, error) {
	dsn, err := localDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", localBusyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(localSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &LocalStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *LocalStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the stored mapping for issueID; a missing row loads as an
// empty map.
func (s *LocalStore) Load(ctx context.Context, issueID string) (map[string]any, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM issue_metadata WHERE issue_id = ?", issueID).Scan(&body)
	if err == sql.ErrNoRows {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(body), &meta); err != nil {
		return nil, &DecodingError{AttachmentID: issueID, Err: err}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// Save replaces the stored mapping wholesale. The mapping goes through
// the same codec as the attachment path, so non-JSON-representable
// values fail with an EncodingError before touching the database.
func (s *LocalStore) Save(ctx context.Context, issueID string, meta map[string]any) error {
	if meta == nil {
		return nil
	}
	payload, err := Encode(issueID, meta)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO issue_metadata (issue_id, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(issue_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		issueID, payload.Body, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Clear removes the stored mapping for issueID.
func (s *LocalStore) Clear(ctx context.Context, issueID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM issue_metadata WHERE issue_id = ?", issueID)
	return err
}

func localDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
