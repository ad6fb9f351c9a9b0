package library

import (
	"fmt"
	"time"
)

// Attachment is a media record under audit. AltText is empty both for an
// empty alt and for one that was never set; the distinction does not affect
// repair decisions.
type Attachment struct {
	ID          int64
	Title       string
	AltText     string
	Slug        string
	ParentID    int64
	MIMEType    string
	UploadedAt  time.Time
	StoragePath string
	URL         string
}

// Orphaned reports whether the attachment has no parent content record.
func (a *Attachment) Orphaned() bool {
	return a.ParentID <= 0
}

// Filename returns the stored filename used for humanized titles: the
// storage path when present, else the public URL path.
func (a *Attachment) Filename() string {
	if a.StoragePath != "" {
		return a.StoragePath
	}
	return a.URL
}

// Content is a post or page that may contain attachments.
type Content struct {
	ID        int64
	Type      string
	Status    string
	Title     string
	Body      string
	CreatedAt time.Time
}

// EmbedToken is the marker an editor writes into a content body when an
// attachment is embedded. Parent discovery searches for it first because an
// id reference is authoritative where a filename match is only suggestive.
func EmbedToken(id int64) string {
	return fmt.Sprintf(`data-media-id="%d"`, id)
}
