package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug converts s into a lowercase, URL-safe id segment: accents are folded
// to their base letters and every run of other characters becomes a single
// '-', with none at either end.
func Slug(s string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	sep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

// JoinSegments slugs each segment and joins them with '_'.
func JoinSegments(segments ...string) string {
	slugs := make([]string, len(segments))
	for i, s := range segments {
		slugs[i] = Slug(s)
	}
	return strings.Join(slugs, "_")
}
