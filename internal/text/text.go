// Package text holds the pure normalization functions shared by the
// registry and router: identifier normalization for service ids and option
// keys, and input sanitation for synthesis text.
package text

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	reSoundTag   = regexp.MustCompile(`(?i)\[sound:[^\]]+\]`)
	reMarkupTag  = regexp.MustCompile(`<[^>]+>`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize reduces an identifier to lowercase letters and digits. Service
// ids, aliases, and option keys all pass through here before any lookup.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Sanitize prepares caller input for synthesis: embedded [sound:...] tags
// and HTML markup are stripped, entities are decoded, and runs of
// whitespace collapse to single spaces. The result may be empty.
func Sanitize(s string) string {
	s = reSoundTag.ReplaceAllString(s, "")
	s = reMarkupTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
