package fix

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"retitle/internal/library"
	"retitle/internal/mapping"
	"retitle/internal/parentfind"
	"retitle/internal/titlecheck"
)

// Library is the record-store capability the engine needs.
type Library interface {
	CandidateIDs(ctx context.Context, limit, offset int) ([]int64, error)
	Attachment(ctx context.Context, id int64) (*library.Attachment, error)
	Content(ctx context.Context, id int64) (*library.Content, error)
	SearchContent(ctx context.Context, needle string) (*library.Content, error)
	Categories(ctx context.Context, contentID int64) ([]string, error)
	UpdateTitle(ctx context.Context, id int64, title, slug string) error
	UpdateAltText(ctx context.Context, id int64, alt string) error
}

// Engine runs one reconciliation pass over the attachment table.
type Engine struct {
	lib     Library
	mapping *mapping.Table
	opts    Options
	logger  *slog.Logger
	summary Summary
}

// New constructs an engine for a single run. The mapping table may be nil.
func New(lib Library, table *mapping.Table, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		lib:     lib,
		mapping: table,
		opts:    opts.normalized(),
		logger:  logger,
	}
}

// Run scans every candidate attachment and applies per-record decisions
// sequentially. It stops when the store is exhausted or the configured limit
// is reached. On a store failure the partial summary is returned with the
// error.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	offset := 0
	for {
		ids, err := e.lib.CandidateIDs(ctx, e.opts.BatchSize, offset)
		if err != nil {
			return e.summary, fmt.Errorf("list candidates: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			if e.opts.Limit > 0 && e.summary.Scanned >= e.opts.Limit {
				e.logger.Info("item limit reached", "limit", e.opts.Limit)
				return e.summary, nil
			}
			if err := e.processRecord(ctx, id); err != nil {
				return e.summary, err
			}
		}
		offset += len(ids)
	}
	return e.summary, nil
}

// processRecord runs the full decision procedure for one attachment. Only
// store failures return an error; every per-record condition is handled by
// skipping or logging.
func (e *Engine) processRecord(ctx context.Context, id int64) error {
	e.summary.Scanned++

	att, err := e.lib.Attachment(ctx, id)
	if err != nil {
		return fmt.Errorf("read attachment %d: %w", id, err)
	}
	if att == nil {
		e.logger.Debug("attachment vanished", "id", id)
		return nil
	}
	if !e.opts.passesFilters(att) {
		return nil
	}

	entry, mapped := e.mapping.Get(id)
	if e.mapping.Len() > 0 && !mapped {
		// A non-empty mapping is an allow-list: unlisted records get no
		// writes regardless of how weird their text is.
		return nil
	}

	hint := titlecheck.Humanize(att.Filename())

	var (
		target     string
		needsTitle bool
	)
	switch {
	case mapped && entry.Title != "":
		target = entry.Title
		needsTitle = !strings.EqualFold(target, att.Title)
	case titlecheck.IsWeird(att.Title, hint, e.opts.MinTitleLength):
		needsTitle = true
		parent, err := e.resolveParent(ctx, att)
		if err != nil {
			return err
		}
		if parent == nil {
			e.summary.SkippedNoParent++
			e.logger.Info("no parent found, skipping", "id", id, "title", att.Title)
			return nil
		}
		target, err = e.buildTitle(ctx, parent, hint)
		if err != nil {
			return err
		}
	}

	if needsTitle {
		e.applyTitle(ctx, att, target)
	} else {
		e.summary.SkippedOK++
	}

	if e.opts.UpdateAlt {
		e.decideAlt(ctx, att, entry, mapped, hint, target, needsTitle)
	}
	return nil
}

// resolveParent prefers an existing parent reference and falls back to
// content search when enabled.
func (e *Engine) resolveParent(ctx context.Context, att *library.Attachment) (*library.Content, error) {
	if !att.Orphaned() {
		parent, err := e.lib.Content(ctx, att.ParentID)
		if err != nil {
			return nil, fmt.Errorf("read parent %d: %w", att.ParentID, err)
		}
		return parent, nil
	}
	if !e.opts.SearchParents {
		return nil, nil
	}
	parent, err := parentfind.Resolve(ctx, att, e.lib)
	if err != nil {
		return nil, fmt.Errorf("resolve parent of %d: %w", att.ID, err)
	}
	return parent, nil
}

// buildTitle derives the replacement title from the parent, appending the
// configured keyword when the parent passes the category gate.
func (e *Engine) buildTitle(ctx context.Context, parent *library.Content, hint string) (string, error) {
	base := strings.TrimSpace(parent.Title)
	if base == "" {
		base = hint
	}
	if base == "" {
		base = e.opts.FallbackTitle
	}
	if e.opts.Keyword == "" {
		return base, nil
	}

	allowed := true
	if len(e.opts.KeywordCategories) > 0 {
		categories, err := e.lib.Categories(ctx, parent.ID)
		if err != nil {
			return "", fmt.Errorf("read categories of %d: %w", parent.ID, err)
		}
		allowed = false
		for _, category := range categories {
			if slices.Contains(e.opts.KeywordCategories, strings.ToLower(category)) {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return base, nil
	}
	return base + keywordSeparator + e.opts.Keyword, nil
}

func (e *Engine) applyTitle(ctx context.Context, att *library.Attachment, target string) {
	if e.opts.Execute {
		if err := e.lib.UpdateTitle(ctx, att.ID, target, att.Slug); err != nil {
			e.logger.Warn("title update rejected", "id", att.ID, "error", err)
			return
		}
		e.summary.UpdatedTitles++
		e.logger.Info("updated title",
			"id", att.ID, "old", att.Title, "new", target, "slug", att.Slug)
		return
	}
	e.summary.UpdatedTitles++
	e.logger.Info("would update title",
		"id", att.ID, "old", att.Title, "new", target, "slug", att.Slug)
}

// decideAlt repairs the alt text: mapping override first, then weird-alt
// replacement derived from the title decision, current title, filename, or
// the fallback.
func (e *Engine) decideAlt(ctx context.Context, att *library.Attachment, entry mapping.Entry, mapped bool, hint, target string, titleSet bool) {
	var altTarget string
	switch {
	case mapped && entry.Alt != "":
		altTarget = entry.Alt
	case titlecheck.IsWeird(att.AltText, hint, e.opts.MinTitleLength):
		switch {
		case titleSet:
			altTarget = target
		case strings.TrimSpace(att.Title) != "":
			altTarget = att.Title
		case hint != "":
			altTarget = hint
		default:
			altTarget = e.opts.FallbackTitle
		}
	default:
		return
	}

	if e.opts.Execute {
		if err := e.lib.UpdateAltText(ctx, att.ID, altTarget); err != nil {
			e.logger.Warn("alt update rejected", "id", att.ID, "error", err)
			return
		}
		e.summary.UpdatedAlts++
		e.logger.Info("updated alt text",
			"id", att.ID, "old", att.AltText, "new", altTarget)
		return
	}
	e.summary.UpdatedAlts++
	e.logger.Info("would update alt text",
		"id", att.ID, "old", att.AltText, "new", altTarget)
}
