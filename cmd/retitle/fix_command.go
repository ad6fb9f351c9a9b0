package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"retitle/internal/fix"
	"retitle/internal/library"
	"retitle/internal/logging"
	"retitle/internal/mapping"
)

func newFixCommand(ctx *commandContext) *cobra.Command {
	var (
		execute       bool
		updateAlt     bool
		searchParents bool
		keyword       string
		categories    []string
		limit         int
		batchSize     int
		minLength     int
		includeMIME   []string
		excludeMIME   []string
		afterRaw      string
		beforeRaw     string
		mappingPath   string
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Repair weird attachment titles and alt text",
		Long: `Scans every attachment, classifies titles (and optionally alt text) with
placeholder heuristics, and replaces flagged values. Replacement precedence:
an explicit CSV mapping entry, then the title of the containing content
record, then the humanized filename. Without --execute the run is a dry run
that reports what it would change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			logger = logger.With("run_id", uuid.NewString())

			flags := cmd.Flags()
			if !flags.Changed("batch-size") {
				batchSize = cfg.Fix.BatchSize
			}
			if !flags.Changed("min-length") {
				minLength = cfg.Fix.MinTitleLength
			}
			if !flags.Changed("keyword") {
				keyword = cfg.Fix.Keyword
			}
			if !flags.Changed("categories") {
				categories = cfg.Fix.KeywordCategories
			}

			opts := fix.Options{
				Execute:           execute,
				UpdateAlt:         updateAlt,
				SearchParents:     searchParents,
				Keyword:           keyword,
				KeywordCategories: categories,
				Limit:             limit,
				BatchSize:         batchSize,
				MinTitleLength:    minLength,
				FallbackTitle:     cfg.Fix.FallbackTitle,
				IncludeMIME:       includeMIME,
				ExcludeMIME:       excludeMIME,
				UploadedAfter:     parseDateBound(logger, "after", afterRaw),
				UploadedBefore:    parseDateBound(logger, "before", beforeRaw),
			}

			table := loadMapping(logger, mappingPath)

			if execute {
				lock := flock.New(cfg.Paths.Database + ".lock")
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire run lock: %w", err)
				}
				if !locked {
					return fmt.Errorf("another retitle run is writing to %s", cfg.Paths.Database)
				}
				defer func() { _ = lock.Unlock() }()
			}

			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			engine := fix.New(store, table, opts, logger)
			summary, runErr := engine.Run(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummaryTable(summary))
			if !execute {
				fmt.Fprintln(out, "Dry run only. Re-run with --execute to apply these changes.")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Persist changes instead of reporting them")
	cmd.Flags().BoolVar(&updateAlt, "update-alt", false, "Also repair weird alt text")
	cmd.Flags().BoolVar(&searchParents, "search-parents", false, "Search content bodies for parents of orphaned attachments")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Keyword appended to repaired titles")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Only append the keyword when the parent has one of these categories")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after scanning this many attachments (0 = no limit)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Attachment page size")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum acceptable title length")
	cmd.Flags().StringSliceVar(&includeMIME, "mime", nil, "Only process these MIME types")
	cmd.Flags().StringSliceVar(&excludeMIME, "exclude-mime", nil, "Skip these MIME types")
	cmd.Flags().StringVar(&afterRaw, "after", "", "Only process uploads strictly after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&beforeRaw, "before", "", "Only process uploads strictly before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "CSV file with per-attachment title/alt overrides")

	return cmd
}

// parseDateBound turns a YYYY-MM-DD flag into a bound. A malformed value is
// warned about and ignored so the run continues unfiltered on that axis.
func parseDateBound(logger *slog.Logger, name, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	bound, err := time.Parse("2006-01-02", raw)
	if err != nil {
		logger.Warn("ignoring malformed date filter", "flag", name, "value", raw)
		return time.Time{}
	}
	return bound
}

// loadMapping reads the override CSV. Load failures downgrade to a warning
// and an empty table so the run proceeds without an allow-list.
func loadMapping(logger *slog.Logger, path string) *mapping.Table {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	table, err := mapping.LoadCSV(path)
	if err != nil {
		logger.Warn("ignoring mapping file", "path", path, "error", err)
		return nil
	}
	logger.Info("loaded mapping", "path", path, "entries", table.Len())
	return table
}

func renderSummaryTable(summary fix.Summary) string {
	rows := [][]string{
		{"Scanned", strconv.Itoa(summary.Scanned)},
		{"Updated titles", strconv.Itoa(summary.UpdatedTitles)},
		{"Updated alt texts", strconv.Itoa(summary.UpdatedAlts)},
		{"Skipped (no parent)", strconv.Itoa(summary.SkippedNoParent)},
		{"Skipped (ok)", strconv.Itoa(summary.SkippedOK)},
	}
	return renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}
