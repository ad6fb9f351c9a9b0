package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/library"
)

// importFile mirrors the JSON dump layout produced by library exports.
type importFile struct {
	Attachments []importAttachment `json:"attachments"`
	Contents    []importContent    `json:"contents"`
	Categories  []importCategory   `json:"categories"`
}

type importAttachment struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	AltText     string    `json:"alt_text"`
	Slug        string    `json:"slug"`
	ParentID    int64     `json:"parent_id"`
	MIMEType    string    `json:"mime_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
	StoragePath string    `json:"storage_path"`
	URL         string    `json:"url"`
}

type importContent struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type importCategory struct {
	ContentID int64  `json:"content_id"`
	Category  string `json:"category"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dump.json>",
		Short: "Seed the library database from a JSON dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read dump: %w", err)
			}
			var dump importFile
			if err := json.Unmarshal(data, &dump); err != nil {
				return fmt.Errorf("parse dump: %w", err)
			}

			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				for i := range dump.Contents {
					c := dump.Contents[i]
					if _, err := store.AddContent(cmd.Context(), &library.Content{
						ID:        c.ID,
						Type:      c.Type,
						Status:    c.Status,
						Title:     c.Title,
						Body:      c.Body,
						CreatedAt: c.CreatedAt,
					}); err != nil {
						return fmt.Errorf("import content %d: %w", c.ID, err)
					}
				}
				for i := range dump.Attachments {
					a := dump.Attachments[i]
					if _, err := store.AddAttachment(cmd.Context(), &library.Attachment{
						ID:          a.ID,
						Title:       a.Title,
						AltText:     a.AltText,
						Slug:        a.Slug,
						ParentID:    a.ParentID,
						MIMEType:    a.MIMEType,
						UploadedAt:  a.UploadedAt,
						StoragePath: a.StoragePath,
						URL:         a.URL,
					}); err != nil {
						return fmt.Errorf("import attachment %d: %w", a.ID, err)
					}
				}
				for _, membership := range dump.Categories {
					if err := store.AssignCategory(cmd.Context(), membership.ContentID, membership.Category); err != nil {
						return fmt.Errorf("import category for %d: %w", membership.ContentID, err)
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contents, %d attachments, %d category memberships\n",
					len(dump.Contents), len(dump.Attachments), len(dump.Categories))
				return nil
			})
		},
	}
}
