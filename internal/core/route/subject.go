package route

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// boilerplatePrefixes are stripped from the front of the first sentence
// before it becomes a subject slug. Checked in order, first match wins,
// so "meeting notes:" must precede "meeting notes"
var boilerplatePrefixes = []string{
	"this is a note about",
	"note about",
	"regarding",
	"re:",
	"meeting notes:",
	"meeting notes",
}

// subjectSlug derives a filename part from the transcript's first sentence.
// The cleaned sentence is used only when its length sits strictly between
// 3 and 50 characters; anything else falls back to the source filename
func subjectSlug(transcript, sourceFile string) string {
	s := strings.TrimSpace(firstSentence(transcript))
	s = stripBoilerplate(s)
	if n := utf8.RuneCountInString(s); n > 3 && n < 50 {
		return slugify(s, 40)
	}
	return fileSlug(sourceFile)
}

// firstSentence cuts at the first sentence terminator
func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		return s[:i]
	}
	return s
}

// stripBoilerplate removes one leading filler phrase, case insensitively
func stripBoilerplate(s string) string {
	lower := strings.ToLower(s)
	for _, p := range boilerplatePrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return s
}

// slugify lowercases, collapses non alphanumeric runs to single dashes,
// trims the edges, and caps the length
func slugify(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if isAlnum(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// fileSlug turns a source path into a lowercase dashed name with the
// extension stripped. No length cap: this is the last resort fallback
// and must stay deterministic for any input
func fileSlug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	b.Grow(len(base))
	for _, r := range strings.ToLower(base) {
		if isAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
