package fix

import (
	"strings"
	"time"

	"retitle/internal/titlecheck"
)

// minBatchSize is the floor for the candidate page size; smaller values make
// the offset pagination degenerate.
const minBatchSize = 10

// defaultFallbackTitle is used when neither a parent title nor a readable
// filename exists.
const defaultFallbackTitle = "Image"

// keywordSeparator joins a repaired title and the configured keyword.
const keywordSeparator = " – "

// Options is the immutable run configuration, constructed once at run start.
type Options struct {
	// Execute persists decisions; when false the run is a dry run.
	Execute bool
	// UpdateAlt enables alt-text repair in addition to titles.
	UpdateAlt bool
	// SearchParents enables content-body search for orphaned attachments.
	SearchParents bool
	// Keyword, when set, is appended to parent-derived titles, gated by
	// KeywordCategories.
	Keyword string
	// KeywordCategories restricts keyword appending to parents holding at
	// least one of these categories. Empty means always append.
	KeywordCategories []string
	// Limit stops the run after this many scanned records; zero means no
	// limit.
	Limit int
	// BatchSize is the candidate page size.
	BatchSize int
	// MinTitleLength is the minimum acceptable title length.
	MinTitleLength int
	// FallbackTitle replaces the built-in "Image" fallback when set.
	FallbackTitle string
	// IncludeMIME, when non-empty, restricts the run to these MIME types.
	IncludeMIME []string
	// ExcludeMIME skips these MIME types.
	ExcludeMIME []string
	// UploadedAfter passes only records uploaded strictly after it.
	UploadedAfter time.Time
	// UploadedBefore passes only records uploaded strictly before it.
	UploadedBefore time.Time
}

// normalized returns a copy with floors and defaults applied; the original
// value is never mutated mid-run.
func (o Options) normalized() Options {
	if o.BatchSize < minBatchSize {
		o.BatchSize = minBatchSize
	}
	if o.MinTitleLength < 1 {
		o.MinTitleLength = titlecheck.DefaultMinLength
	}
	o.FallbackTitle = strings.TrimSpace(o.FallbackTitle)
	if o.FallbackTitle == "" {
		o.FallbackTitle = defaultFallbackTitle
	}
	o.Keyword = strings.TrimSpace(o.Keyword)
	o.IncludeMIME = lowerAll(o.IncludeMIME)
	o.ExcludeMIME = lowerAll(o.ExcludeMIME)
	o.KeywordCategories = lowerAll(o.KeywordCategories)
	return o
}

func lowerAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
