package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// EscapeYAML escapes special YAML characters in strings
func EscapeYAML(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// German compound letters expand before normalization, otherwise NFD
// would reduce them to the bare vowel.
var germanReplacer = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify creates a URL-friendly slug from a title. It lowercases,
// expands German special characters, strips diacritics and collapses
// everything else into single hyphens. Slugify never fails and is
// idempotent on its own output.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = germanReplacer.Replace(slug)

	// Decompose and drop combining marks
	slug = norm.NFD.String(slug)
	slug = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, slug)

	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	return slug
}
