package hebrew

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripNikud removes every Hebrew vowel point and cantillation mark from s.
// Letters, maqaf and non-Hebrew characters pass through unchanged, so
// StripNikud(StripNikud(s)) == StripNikud(s).
func StripNikud(s string) string {
	if !HasNikud(s) {
		return s
	}
	out, _, err := transform.String(runes.Remove(runes.Predicate(IsNikud)), s)
	if err != nil {
		return s
	}
	return out
}

// HasNikud reports whether s contains any vowel point or cantillation mark.
func HasNikud(s string) bool {
	return strings.IndexFunc(s, IsNikud) >= 0
}

// isZeroWidth matches the invisible formatting characters OCR and copy/paste
// leave behind: zero-width space, non-joiner, joiner, LTR/RTL marks and word joiner.
func isZeroWidth(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F', '\u2060':
		return true
	}
	return false
}

// NormalizeZeroWidth removes zero-width and directional-mark characters.
func NormalizeZeroWidth(s string) string {
	if strings.IndexFunc(s, isZeroWidth) < 0 {
		return s
	}
	out, _, err := transform.String(runes.Remove(runes.Predicate(isZeroWidth)), s)
	if err != nil {
		return s
	}
	return out
}

// Normalize prepares raw input for segmentation: invisible characters are
// removed and the result is put in Unicode NFC so that marks stacked on the
// same letter compare equal regardless of input order. Nikud is preserved.
func Normalize(s string) string {
	return norm.NFC.String(NormalizeZeroWidth(s))
}
