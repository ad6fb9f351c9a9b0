package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// containerTypes are the content types that can hold an embedded attachment.
var containerTypes = []string{"post", "page"}

// visibleStatuses are the statuses a parent candidate may be in. Trashed and
// auto-draft content never counts as a parent.
var visibleStatuses = []string{"publish", "future", "draft", "pending", "private"}

const contentColumns = "id, content_type, status, title, body, created_at"

// Content fetches one content record by id. Returns nil when missing.
func (s *Store) Content(ctx context.Context, id int64) (*Content, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)
	content, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return content, nil
}

// SearchContent returns the newest post or page in a visible or pending
// status whose body contains needle, or nil when nothing matches.
func (s *Store) SearchContent(ctx context.Context, needle string) (*Content, error) {
	if strings.TrimSpace(needle) == "" {
		return nil, nil
	}

	query := `SELECT ` + contentColumns + ` FROM contents
        WHERE content_type IN (` + placeholders(len(containerTypes)) + `)
          AND status IN (` + placeholders(len(visibleStatuses)) + `)
          AND body LIKE ? ESCAPE '\'
        ORDER BY created_at DESC, id DESC
        LIMIT 1`

	args := make([]any, 0, len(containerTypes)+len(visibleStatuses)+1)
	for _, t := range containerTypes {
		args = append(args, t)
	}
	for _, st := range visibleStatuses {
		args = append(args, st)
	}
	args = append(args, "%"+escapeLike(needle)+"%")

	row := s.db.QueryRowContext(ctx, query, args...)
	content, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	return content, nil
}

// Categories returns the category identifiers assigned to a content record.
func (s *Store) Categories(ctx context.Context, contentID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category FROM content_categories WHERE content_id = ? ORDER BY category`, contentID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// AddContent inserts a content record. A positive ID is preserved.
func (s *Store) AddContent(ctx context.Context, content *Content) (int64, error) {
	if content == nil {
		return 0, errors.New("content is nil")
	}
	created := content.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	if content.ID > 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO contents (id, content_type, status, title, body, created_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			content.ID, content.Type, content.Status, content.Title, content.Body,
			created.Format(time.RFC3339Nano))
		if err != nil {
			return 0, fmt.Errorf("insert content: %w", err)
		}
		return content.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contents (content_type, status, title, body, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		content.Type, content.Status, content.Title, content.Body,
		created.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// AssignCategory adds a category membership; assigning twice is a no-op.
func (s *Store) AssignCategory(ctx context.Context, contentID int64, category string) error {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return errors.New("category is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO content_categories (content_id, category) VALUES (?, ?)`,
		contentID, category)
	if err != nil {
		return fmt.Errorf("assign category: %w", err)
	}
	return nil
}

func scanContent(scanner interface{ Scan(dest ...any) error }) (*Content, error) {
	var (
		content    Content
		createdRaw string
	)
	if err := scanner.Scan(
		&content.ID,
		&content.Type,
		&content.Status,
		&content.Title,
		&content.Body,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	if createdRaw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
		}
		content.CreatedAt = parsed
	}
	return &content, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
