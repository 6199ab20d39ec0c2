package helpers

import (
	"regexp"
	"strings"
)

var (
	slugStripRe      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespaceRe = regexp.MustCompile(`\s+`)
	slugHyphensRe    = regexp.MustCompile(`-+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// GenerateSlug converts a title into a lowercase, hyphen separated identifier
// made of [a-z0-9-] only. An empty result is possible and must be rejected by
// the caller.
func GenerateSlug(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugWhitespaceRe.ReplaceAllString(s, "-")
	s = slugHyphensRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is already in canonical slug form.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
