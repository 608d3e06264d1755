// Package hebrew provides character-level helpers for Hebrew text: letter and
// vowel-point classification, nikud stripping, removal of invisible formatting
// characters and transliteration.
//
// Every function is a pure transform over its input and is safe for concurrent use.
package hebrew

import (
	"strings"
	"unicode"
)

// IsLetter reports whether r is a Hebrew letter, including final forms and the
// presentation forms block. Points, cantillation marks and punctuation such as
// maqaf or sof pasuq are not letters.
func IsLetter(r rune) bool {
	return unicode.Is(unicode.Hebrew, r) && unicode.IsLetter(r)
}

// IsNikud reports whether r is a Hebrew vowel point or cantillation mark.
func IsNikud(r rune) bool {
	return unicode.Is(unicode.Hebrew, r) && unicode.Is(unicode.Mn, r)
}

// IsLetters reports whether s is non-empty and made only of Hebrew letters.
func IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsLetter(r) {
			return false
		}
	}
	return true
}

// ContainsLetter reports whether s holds at least one Hebrew letter.
func ContainsLetter(s string) bool {
	return strings.IndexFunc(s, IsLetter) >= 0
}

// ContainsHebrew reports whether s holds any character from the Hebrew script,
// letters or marks.
func ContainsHebrew(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return unicode.Is(unicode.Hebrew, r) }) >= 0
}

// Direction returns "rtl" for text containing Hebrew and "ltr" otherwise.
func Direction(s string) string {
	if ContainsHebrew(s) {
		return "rtl"
	}
	return "ltr"
}

// Len returns the number of characters (runes) in s.
func Len(s string) int {
	return len([]rune(s))
}
