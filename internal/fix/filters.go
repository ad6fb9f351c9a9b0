package fix

import (
	"slices"
	"strings"

	"retitle/internal/library"
)

// passesFilters applies the date-range and MIME filters. Date bounds are
// strict on both ends: a record uploaded exactly at a bound is excluded.
func (o Options) passesFilters(att *library.Attachment) bool {
	if !o.UploadedAfter.IsZero() && !att.UploadedAt.After(o.UploadedAfter) {
		return false
	}
	if !o.UploadedBefore.IsZero() && !att.UploadedAt.Before(o.UploadedBefore) {
		return false
	}

	mime := strings.ToLower(strings.TrimSpace(att.MIMEType))
	if len(o.IncludeMIME) > 0 && !slices.Contains(o.IncludeMIME, mime) {
		return false
	}
	if slices.Contains(o.ExcludeMIME, mime) {
		return false
	}
	return true
}
