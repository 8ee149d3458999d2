// Package slug turns free-form titles into lowercase URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const separator = "-"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases title, folds accented letters to their base form and
// collapses every run of other characters into a single separator.
func Make(title string) string {
	folded := fold(title)
	lowered := strings.ToLower(folded)
	out := nonAlphanumeric.ReplaceAllString(lowered, separator)
	return strings.Trim(out, separator)
}

func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
