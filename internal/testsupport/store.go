package testsupport

import (
	"context"
	"testing"
	"time"

	"retitle/internal/config"
	"retitle/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddAttachment inserts an attachment and returns its id.
func AddAttachment(t testing.TB, store *library.Store, att library.Attachment) int64 {
	t.Helper()

	if att.Slug == "" {
		att.Slug = "attachment-slug"
	}
	if att.MIMEType == "" {
		att.MIMEType = "image/jpeg"
	}
	id, err := store.AddAttachment(context.Background(), &att)
	if err != nil {
		t.Fatalf("store.AddAttachment: %v", err)
	}
	return id
}

// AddContent inserts a published post and returns its id.
func AddContent(t testing.TB, store *library.Store, content library.Content) int64 {
	t.Helper()

	if content.Type == "" {
		content.Type = "post"
	}
	if content.Status == "" {
		content.Status = "publish"
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	id, err := store.AddContent(context.Background(), &content)
	if err != nil {
		t.Fatalf("store.AddContent: %v", err)
	}
	return id
}
