package fix_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"retitle/internal/fix"
	"retitle/internal/library"
	"retitle/internal/mapping"
	"retitle/internal/testsupport"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runEngine(t *testing.T, store *library.Store, table *mapping.Table, opts fix.Options) fix.Summary {
	t.Helper()
	summary, err := fix.New(store, table, opts, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("engine run: %v", err)
	}
	return summary
}

func TestOrphanRepairedFromEmbeddedReference(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddContent(t, store, library.Content{
		ID:    10,
		Title: "Salmon Recipe",
		Body:  "<p>Dinner idea <img " + library.EmbedToken(501) + "></p>",
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID:          501,
		Title:       "IMG_9999",
		Slug:        "img_9999",
		StoragePath: "/uploads/2024/07/IMG_9999.jpg",
	})

	summary := runEngine(t, store, nil, fix.Options{
		Execute:       true,
		UpdateAlt:     true,
		SearchParents: true,
	})

	if summary.UpdatedTitles != 1 || summary.UpdatedAlts != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	att, err := store.Attachment(ctx, 501)
	if err != nil {
		t.Fatalf("Attachment: %v", err)
	}
	if att.Title != "Salmon Recipe" {
		t.Fatalf("title = %q, want Salmon Recipe", att.Title)
	}
	if att.AltText != "Salmon Recipe" {
		t.Fatalf("alt = %q, want Salmon Recipe", att.AltText)
	}
	if att.Slug != "img_9999" {
		t.Fatalf("slug changed to %q", att.Slug)
	}
}

func TestKeywordGatedByCategories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	parentID := testsupport.AddContent(t, store, library.Content{
		Title: "Salmon Recipe",
		Body:  library.EmbedToken(501),
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 501, Title: "IMG_9999", Slug: "img_9999",
		StoragePath: "/uploads/IMG_9999.jpg",
	})

	opts := fix.Options{
		Execute:           true,
		SearchParents:     true,
		Keyword:           "Fresh Dog Food",
		KeywordCategories: []string{"food"},
	}

	// Parent lacks the category: keyword is not appended.
	runEngine(t, store, nil, opts)
	att, _ := store.Attachment(ctx, 501)
	if att.Title != "Salmon Recipe" {
		t.Fatalf("title = %q, want bare parent title", att.Title)
	}

	// With the category present the keyword lands.
	if err := store.AssignCategory(ctx, parentID, "food"); err != nil {
		t.Fatalf("AssignCategory: %v", err)
	}
	if err := store.UpdateTitle(ctx, 501, "IMG_9999", "img_9999"); err != nil {
		t.Fatalf("reset title: %v", err)
	}
	runEngine(t, store, nil, opts)
	att, _ = store.Attachment(ctx, 501)
	if att.Title != "Salmon Recipe – Fresh Dog Food" {
		t.Fatalf("title = %q, want keyword appended", att.Title)
	}
}

func TestHealthyTitleWeirdAlt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 777, Title: "Golden Gate Bridge", AltText: "IMG_0001",
		Slug: "golden-gate", StoragePath: "/uploads/bridge.jpg",
	})

	summary := runEngine(t, store, nil, fix.Options{Execute: true, UpdateAlt: true})

	if summary.SkippedOK != 1 || summary.UpdatedTitles != 0 || summary.UpdatedAlts != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	att, _ := store.Attachment(ctx, 777)
	if att.Title != "Golden Gate Bridge" {
		t.Fatalf("title should be untouched, got %q", att.Title)
	}
	if att.AltText != "Golden Gate Bridge" {
		t.Fatalf("alt = %q, want title copy", att.AltText)
	}
}

func TestExecuteRunsConverge(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	testsupport.AddContent(t, store, library.Content{
		Title: "Harbour Walk", Body: library.EmbedToken(5),
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 5, Title: "DSC_0042", Slug: "dsc-0042",
		StoragePath: "/uploads/DSC_0042.jpg",
	})

	opts := fix.Options{Execute: true, UpdateAlt: true, SearchParents: true}
	first := runEngine(t, store, nil, opts)
	if first.UpdatedTitles != 1 || first.UpdatedAlts != 1 {
		t.Fatalf("first run summary: %#v", first)
	}

	second := runEngine(t, store, nil, opts)
	if second.UpdatedTitles != 0 || second.UpdatedAlts != 0 {
		t.Fatalf("second run should be a no-op: %#v", second)
	}
	if second.SkippedOK != 1 {
		t.Fatalf("second run should classify the record as ok: %#v", second)
	}
}

func TestDryRunComputesButNeverWrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddContent(t, store, library.Content{
		Title: "Harbour Walk", Body: library.EmbedToken(5),
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 5, Title: "DSC_0042", Slug: "dsc-0042",
		StoragePath: "/uploads/DSC_0042.jpg",
	})

	summary := runEngine(t, store, nil, fix.Options{
		UpdateAlt:     true,
		SearchParents: true,
	})
	if summary.UpdatedTitles != 1 || summary.UpdatedAlts != 1 {
		t.Fatalf("dry run should count would-be updates: %#v", summary)
	}

	att, _ := store.Attachment(ctx, 5)
	if att.Title != "DSC_0042" || att.AltText != "" {
		t.Fatalf("dry run persisted changes: %#v", att)
	}
}

func TestMappingActsAsAllowList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 1, Title: "IMG_1111", Slug: "img-1111", StoragePath: "/u/IMG_1111.jpg",
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 2, Title: "IMG_2222", Slug: "img-2222", StoragePath: "/u/IMG_2222.jpg",
	})

	table := mapping.Load([]mapping.Entry{{AttachmentID: 2, Title: "Listed Record"}})
	summary := runEngine(t, store, table, fix.Options{Execute: true, UpdateAlt: true})

	if summary.Scanned != 2 {
		t.Fatalf("scanned = %d, want 2", summary.Scanned)
	}
	if summary.UpdatedTitles != 1 {
		t.Fatalf("only the listed record should update: %#v", summary)
	}
	att, _ := store.Attachment(ctx, 1)
	if att.Title != "IMG_1111" || att.AltText != "" {
		t.Fatalf("unlisted record was written: %#v", att)
	}
	att, _ = store.Attachment(ctx, 2)
	if att.Title != "Listed Record" {
		t.Fatalf("listed record not updated: %#v", att)
	}
}

func TestMappingTitleEqualityIsCaseInsensitive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 9, Title: "Salmon Recipe", Slug: "salmon",
	})
	table := mapping.Load([]mapping.Entry{{AttachmentID: 9, Title: "SALMON RECIPE"}})

	summary := runEngine(t, store, table, fix.Options{Execute: true})
	if summary.UpdatedTitles != 0 || summary.SkippedOK != 1 {
		t.Fatalf("case-equal mapping title should not rewrite: %#v", summary)
	}
}

func TestMappingAltOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 3, Title: "Good Enough Title", AltText: "Perfectly fine alt",
		Slug: "good",
	})
	table := mapping.Load([]mapping.Entry{{AttachmentID: 3, Alt: "Curated alt text"}})

	summary := runEngine(t, store, table, fix.Options{Execute: true, UpdateAlt: true})
	if summary.UpdatedAlts != 1 {
		t.Fatalf("mapping alt override should always apply: %#v", summary)
	}
	att, _ := store.Attachment(ctx, 3)
	if att.AltText != "Curated alt text" {
		t.Fatalf("alt = %q", att.AltText)
	}
	if att.Title != "Good Enough Title" {
		t.Fatalf("title should be untouched: %q", att.Title)
	}
}

func TestNoParentAbandonsTitleAndAlt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 8, Title: "IMG_8888", AltText: "untitled", Slug: "img-8888",
		StoragePath: "/uploads/IMG_8888.jpg",
	})

	summary := runEngine(t, store, nil, fix.Options{
		Execute:       true,
		UpdateAlt:     true,
		SearchParents: true, // enabled, but nothing references the file
	})

	if summary.SkippedNoParent != 1 {
		t.Fatalf("expected skipped_no_parent: %#v", summary)
	}
	if summary.UpdatedTitles != 0 || summary.UpdatedAlts != 0 {
		t.Fatalf("no-parent record must receive no writes: %#v", summary)
	}
	att, _ := store.Attachment(ctx, 8)
	if att.AltText != "untitled" {
		t.Fatalf("alt repair should be abandoned with the title: %q", att.AltText)
	}
}

func TestExistingParentReferenceIsUsed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	parentID := testsupport.AddContent(t, store, library.Content{Title: "Autumn Walks", Body: "no tokens here"})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 21, Title: "PHOTO_77", Slug: "photo-77", ParentID: parentID,
		StoragePath: "/uploads/PHOTO_77.jpg",
	})

	// Parent search is off; the stored parent reference alone must suffice.
	summary := runEngine(t, store, nil, fix.Options{Execute: true})
	if summary.UpdatedTitles != 1 {
		t.Fatalf("expected title repair from stored parent: %#v", summary)
	}
	att, _ := store.Attachment(ctx, 21)
	if att.Title != "Autumn Walks" {
		t.Fatalf("title = %q", att.Title)
	}
}

func TestEmptyParentTitleFallsBackToFilenameThenDefault(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	blankParent := testsupport.AddContent(t, store, library.Content{Title: "  ", Body: "x"})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 31, Title: "IMG_3131", Slug: "a", ParentID: blankParent,
		StoragePath: "/uploads/harbour-lights.jpg",
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 32, Title: "IMG_3232", Slug: "b", ParentID: blankParent,
	})

	summary := runEngine(t, store, nil, fix.Options{Execute: true})
	if summary.UpdatedTitles != 2 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	att, _ := store.Attachment(ctx, 31)
	if att.Title != "Harbour Lights" {
		t.Fatalf("expected humanized filename, got %q", att.Title)
	}
	att, _ = store.Attachment(ctx, 32)
	if att.Title != "Image" {
		t.Fatalf("expected fallback title, got %q", att.Title)
	}
}

func TestLimitStopsMidBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	for i := 0; i < 5; i++ {
		testsupport.AddAttachment(t, store, library.Attachment{Title: "Fine Title Here", Slug: "s"})
	}

	summary := runEngine(t, store, nil, fix.Options{Execute: true, Limit: 2})
	if summary.Scanned != 2 {
		t.Fatalf("scanned = %d, want 2", summary.Scanned)
	}
}

func TestDateAndMIMEFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	bound := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 1, Title: "IMG_0001", Slug: "a", UploadedAt: bound, // exactly at bound: excluded
		StoragePath: "/u/IMG_0001.jpg",
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 2, Title: "IMG_0002", Slug: "b", UploadedAt: bound.Add(time.Hour),
		MIMEType: "image/png", StoragePath: "/u/IMG_0002.png",
	})
	testsupport.AddAttachment(t, store, library.Attachment{
		ID: 3, Title: "IMG_0003", Slug: "c", UploadedAt: bound.Add(2 * time.Hour),
		MIMEType: "image/gif", StoragePath: "/u/IMG_0003.gif",
	})

	summary := runEngine(t, store, nil, fix.Options{
		Execute:       true,
		SearchParents: true,
		UploadedAfter: bound,
		ExcludeMIME:   []string{"image/gif"},
	})

	// All three are scanned; only #2 survives the filters, and with no
	// parent anywhere it lands in skipped_no_parent.
	if summary.Scanned != 3 {
		t.Fatalf("scanned = %d, want 3", summary.Scanned)
	}
	if summary.SkippedNoParent != 1 {
		t.Fatalf("expected exactly one filtered-in record: %#v", summary)
	}

	include := runEngine(t, store, nil, fix.Options{
		Execute:     true,
		IncludeMIME: []string{"image/gif"},
	})
	if include.SkippedNoParent+include.SkippedOK+include.UpdatedTitles != 1 {
		t.Fatalf("include filter should pass one record: %#v", include)
	}
}

func TestRunReturnsPartialSummaryOnStoreFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	testsupport.AddAttachment(t, store, library.Attachment{Title: "Fine Title Here", Slug: "s"})
	store.Close()

	summary, err := fix.New(store, nil, fix.Options{}, quietLogger()).Run(context.Background())
	if err == nil {
		t.Fatal("expected error from closed store")
	}
	if summary.Scanned != 0 {
		t.Fatalf("unexpected partial summary: %#v", summary)
	}
}
