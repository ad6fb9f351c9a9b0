package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/library"
	"retitle/internal/titlecheck"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var (
		minLength int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report attachments with weird titles or alt text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				if !cmd.Flags().Changed("min-length") {
					minLength = cfg.Fix.MinTitleLength
				}

				var (
					rows    [][]string
					scanned int
					flagged int
					offset  int
				)
			scan:
				for {
					atts, err := store.Attachments(cmd.Context(), cfg.Fix.BatchSize, offset)
					if err != nil {
						return err
					}
					if len(atts) == 0 {
						break
					}
					for _, att := range atts {
						if limit > 0 && scanned >= limit {
							break scan
						}
						scanned++
						hint := titlecheck.Humanize(att.Filename())
						weirdTitle := titlecheck.IsWeird(att.Title, hint, minLength)
						weirdAlt := titlecheck.IsWeird(att.AltText, hint, minLength)
						if !weirdTitle && !weirdAlt {
							continue
						}
						flagged++
						rows = append(rows, []string{
							strconv.FormatInt(att.ID, 10),
							att.Title,
							att.AltText,
							flagLabel(weirdTitle),
							flagLabel(weirdAlt),
						})
					}
					offset += len(atts)
				}

				out := cmd.OutOrStdout()
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Title", "Alt Text", "Weird Title", "Weird Alt"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
					))
				}
				fmt.Fprintf(out, "%d of %d attachments flagged\n", flagged, scanned)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum acceptable title length")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after scanning this many attachments (0 = no limit)")

	return cmd
}

func flagLabel(flagged bool) string {
	if flagged {
		return "yes"
	}
	return ""
}
