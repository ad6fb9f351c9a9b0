package titlecheck

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinLength is the minimum acceptable rune count for a title or alt
// text when no threshold is configured.
const DefaultMinLength = 5

var (
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)
	hexBlob    = regexp.MustCompile(`^[0-9a-fA-F]{8,}$`)
	cameraName = regexp.MustCompile(`(?i)^(?:img|image|dsc|photo|screenshot)[\s_-]*[0-9]{1,6}$`)
	stampName  = regexp.MustCompile(`^[0-9]{8}[\s_-][0-9]{6}$`)
	copyOfName = regexp.MustCompile(`(?i)^copy of `)
)

// IsWeird reports whether text reads like an auto-generated placeholder
// rather than a human title. filenameHint is the humanized filename; a text
// that merely echoes its own filename is judged by the filename instead.
// minLength values below 1 fall back to DefaultMinLength.
func IsWeird(text, filenameHint string, minLength int) bool {
	if minLength < 1 {
		minLength = DefaultMinLength
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < minLength {
		return true
	}
	if matchesPlaceholder(trimmed) {
		return true
	}
	if filenameHint != "" && strings.EqualFold(filenameHint, trimmed) {
		return matchesPlaceholder(filenameHint)
	}
	return false
}

// matchesPlaceholder applies the pattern ladder in order; the first hit wins.
func matchesPlaceholder(text string) bool {
	switch {
	case digitsOnly.MatchString(text):
		return true
	case hexBlob.MatchString(text):
		return true
	case cameraName.MatchString(text):
		return true
	case stampName.MatchString(text):
		return true
	case strings.EqualFold(text, "untitled"):
		return true
	case copyOfName.MatchString(text):
		return true
	}
	return false
}
