package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"retitle/internal/config"
)

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database and verifies the
// schema version.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.Database)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: cfg.Paths.Database}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

const attachmentColumns = "id, title, alt_text, slug, parent_id, mime_type, uploaded_at, storage_path, url"

// CandidateIDs returns one ascending-id page of attachment ids. An empty
// result means the table is exhausted.
func (s *Store) CandidateIDs(ctx context.Context, limit, offset int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM attachments ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query candidate ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan candidate id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Attachment fetches one attachment by id. Returns nil when the id no longer
// resolves to a record.
func (s *Store) Attachment(ctx context.Context, id int64) (*Attachment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	att, err := scanAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return att, nil
}

// Attachments returns one ascending-id page of full attachment rows.
func (s *Store) Attachments(ctx context.Context, limit, offset int) ([]*Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attachmentColumns+` FROM attachments ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var atts []*Attachment
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}

// UpdateTitle sets a new title while re-asserting the slug the caller read,
// so a repair can never change the record's public address.
func (s *Store) UpdateTitle(ctx context.Context, id int64, title, slug string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET title = ?, slug = ? WHERE id = ?`, title, slug, id)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update title result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update title: attachment %d not found", id)
	}
	return nil
}

// UpdateAltText sets a new alt text.
func (s *Store) UpdateAltText(ctx context.Context, id int64, alt string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET alt_text = ? WHERE id = ?`, alt, id)
	if err != nil {
		return fmt.Errorf("update alt text: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update alt text result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update alt text: attachment %d not found", id)
	}
	return nil
}

// AddAttachment inserts an attachment. A positive ID is preserved (imports
// carry library ids); otherwise one is assigned.
func (s *Store) AddAttachment(ctx context.Context, att *Attachment) (int64, error) {
	if att == nil {
		return 0, errors.New("attachment is nil")
	}
	uploaded := att.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now().UTC()
	}

	var altText any
	if att.AltText != "" {
		altText = att.AltText
	}

	if att.ID > 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO attachments (id, title, alt_text, slug, parent_id, mime_type, uploaded_at, storage_path, url)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			att.ID, att.Title, altText, att.Slug, att.ParentID, att.MIMEType,
			uploaded.Format(time.RFC3339Nano), att.StoragePath, att.URL)
		if err != nil {
			return 0, fmt.Errorf("insert attachment: %w", err)
		}
		return att.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (title, alt_text, slug, parent_id, mime_type, uploaded_at, storage_path, url)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		att.Title, altText, att.Slug, att.ParentID, att.MIMEType,
		uploaded.Format(time.RFC3339Nano), att.StoragePath, att.URL)
	if err != nil {
		return 0, fmt.Errorf("insert attachment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func scanAttachment(scanner interface{ Scan(dest ...any) error }) (*Attachment, error) {
	var (
		att         Attachment
		altText     sql.NullString
		uploadedRaw string
	)
	if err := scanner.Scan(
		&att.ID,
		&att.Title,
		&altText,
		&att.Slug,
		&att.ParentID,
		&att.MIMEType,
		&uploadedRaw,
		&att.StoragePath,
		&att.URL,
	); err != nil {
		return nil, err
	}
	att.AltText = altText.String
	if uploadedRaw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, uploadedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse uploaded_at %q: %w", uploadedRaw, err)
		}
		att.UploadedAt = parsed
	}
	return &att, nil
}
