package parentfind

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"retitle/internal/library"
)

// Searcher is the content search capability the resolver needs.
type Searcher interface {
	SearchContent(ctx context.Context, needle string) (*library.Content, error)
}

// Resolve returns the best-matching parent for an orphaned attachment, or
// nil when neither the embed token nor the filename base appears in any
// visible content body.
func Resolve(ctx context.Context, att *library.Attachment, search Searcher) (*library.Content, error) {
	hit, err := search.SearchContent(ctx, library.EmbedToken(att.ID))
	if err != nil {
		return nil, fmt.Errorf("search by embed token: %w", err)
	}
	if hit != nil {
		return hit, nil
	}

	base := FilenameBase(att)
	if base == "" {
		return nil, nil
	}
	hit, err = search.SearchContent(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("search by filename: %w", err)
	}
	return hit, nil
}

// FilenameBase derives the attachment's canonical filename without directory
// or extension, from the storage path when present, else the public URL.
func FilenameBase(att *library.Attachment) string {
	name := att.Filename()
	if strings.TrimSpace(name) == "" {
		return ""
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
