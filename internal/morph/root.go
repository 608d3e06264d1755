// Package morph recovers consonant roots from Hebrew words.
//
// Extraction tries, in order: an exact dictionary match, removal of one prefix
// and one suffix, the template table, and finally the bare word when it is
// already two or three letters long. A miss is an ordinary result, reported as
// ok == false, never as an error.
//
// Every function in this package is pure and reads only immutable tables, so
// an Extractor may be shared between goroutines.
package morph

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/lexicon"
)

// Method names the strategy that produced a root.
type Method string

const (
	MethodDictionary Method = "dictionary"
	MethodAffix      Method = "affix"
	MethodPattern    Method = "pattern"
	MethodBare       Method = "bare"
	MethodNone       Method = "none"
)

// Analysis explains how a root was found.
type Analysis struct {
	Word     string `json:"word"`
	Root     string `json:"root,omitempty"`
	Method   Method `json:"method"`
	EntryID  string `json:"entry_id,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Suffix   string `json:"suffix,omitempty"`
	Template string `json:"template,omitempty"`
}

// Found reports whether a root was recovered.
func (a Analysis) Found() bool {
	return a.Method != MethodNone
}

// Extractor runs root extraction against a lexicon.
type Extractor struct {
	lex *lexicon.Lexicon
}

// NewExtractor returns an Extractor over lex, or over the embedded lexicon
// when lex is nil.
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{lex: lex}
}

// Lexicon returns the dictionary the extractor consults.
func (e *Extractor) Lexicon() *lexicon.Lexicon {
	return e.lex
}

var defaultExtractor = sync.OnceValue(func() *Extractor {
	return NewExtractor(nil)
})

// Default returns an Extractor over the embedded lexicon.
func Default() *Extractor {
	return defaultExtractor()
}

// ExtractRoot extracts a root with the default extractor.
func ExtractRoot(word string) (string, bool) {
	return Default().ExtractRoot(word)
}

// ExtractRoot returns the root of word, if one can be determined.
func (e *Extractor) ExtractRoot(word string) (string, bool) {
	a := e.Analyze(word)
	return a.Root, a.Found()
}

// Analyze extracts the root of word and records which strategy produced it.
// Nikud is ignored, as is punctuation clinging to either end of the word.
func (e *Extractor) Analyze(word string) Analysis {
	a := Analysis{Word: word, Method: MethodNone}

	w := trimNonLetters(hebrew.StripNikud(word))
	if utf8.RuneCountInString(w) < 2 || !hebrew.ContainsLetter(w) {
		return a
	}

	if entry, ok := e.lex.Lookup(w); ok {
		a.Root, a.Method, a.EntryID = entry.Root, MethodDictionary, entry.ID
		return a
	}

	if root, prefix, suffix, ok := stripAffixes(w); ok {
		a.Root, a.Method, a.Prefix, a.Suffix = root, MethodAffix, prefix, suffix
		return a
	}

	if root, tmpl, ok := matchTemplate(w); ok {
		a.Root, a.Method, a.Template = root, MethodPattern, tmpl.Form
		return a
	}

	if n := utf8.RuneCountInString(w); (n == 2 || n == 3) && hebrew.IsLetters(w) {
		a.Root, a.Method = w, MethodBare
		return a
	}

	return a
}

// stripAffixes removes at most one prefix and then at most one suffix, each
// only when more than one letter would remain. It succeeds when something was
// removed and the remainder is two or three Hebrew letters.
func stripAffixes(word string) (root, prefix, suffix string, ok bool) {
	rest := word
	for _, p := range prefixes {
		if strings.HasPrefix(rest, p) && utf8.RuneCountInString(rest) > utf8.RuneCountInString(p)+1 {
			prefix = p
			rest = rest[len(p):]
			break
		}
	}
	for _, s := range suffixes {
		if strings.HasSuffix(rest, s) && utf8.RuneCountInString(rest) > utf8.RuneCountInString(s)+1 {
			suffix = s
			rest = rest[:len(rest)-len(s)]
			break
		}
	}

	if prefix == "" && suffix == "" {
		return "", "", "", false
	}
	if n := utf8.RuneCountInString(rest); n < 2 || n > 3 || !hebrew.IsLetters(rest) {
		return "", "", "", false
	}
	return rest, prefix, suffix, true
}

// matchTemplate returns the root read off the first template word fits.
func matchTemplate(word string) (string, Template, bool) {
	rs := []rune(word)
	for _, t := range templates {
		root, ok := t.match(rs)
		if ok && hebrew.IsLetters(root) {
			return root, t, true
		}
	}
	return "", Template{}, false
}

// trimNonLetters drops leading and trailing runes that are not Hebrew letters,
// such as quotes and punctuation left by whitespace tokenization.
func trimNonLetters(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return !hebrew.IsLetter(r) })
}
