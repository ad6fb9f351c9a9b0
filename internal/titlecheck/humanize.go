package titlecheck

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Humanize turns a stored filename or URL path into display text: the base
// name without extension, separators collapsed to single spaces, title-cased.
// Returns "" when nothing readable remains.
func Humanize(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	lastSpace := true
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}
