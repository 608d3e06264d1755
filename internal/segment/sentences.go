// Package segment splits Hebrew text into sentence and phrase chunks and
// tokenizes them, separating one-letter clitics from their host words.
//
// Segmentation is pure: it reads only the immutable lexicon and template
// tables, so one Segmenter may serve any number of goroutines.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/michaperki/mila/internal/hebrew"
)

// sentenceBreak matches a run of terminal punctuation followed by whitespace
// or the end of the text, or a blank line.
var sentenceBreak = regexp.MustCompile(`[.?!…]+(?:\s|$)|\n\s*\n`)

// Sentences splits text into sentences. Terminal punctuation is consumed,
// whitespace runs inside a sentence collapse to one space and empty results
// are dropped.
func Sentences(text string) []string {
	var out []string
	for _, part := range sentenceBreak.Split(text, -1) {
		if s := collapseSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Phrases splits a sentence on commas, maqaf and before a word carrying an
// attached conjunction ו. The ו stays with the phrase it opens. A sentence
// with nothing to split comes back as a single phrase.
func Phrases(sentence string) []string {
	var out []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(current, " ")); p != "" {
			out = append(out, p)
		}
		current = nil
	}

	for _, piece := range strings.FieldsFunc(sentence, isPhrasePunct) {
		for _, w := range strings.Fields(piece) {
			if len(current) > 0 && opensWithConjunction(w) {
				flush()
			}
			current = append(current, w)
		}
		flush()
	}

	if len(out) == 0 {
		if s := strings.TrimSpace(sentence); s != "" {
			return []string{s}
		}
		return nil
	}
	return out
}

func isPhrasePunct(r rune) bool {
	return r == ',' || r == '،' || r == '־'
}

// opensWithConjunction reports whether w is ו attached to a following letter.
func opensWithConjunction(w string) bool {
	rs := []rune(hebrew.StripNikud(w))
	return len(rs) > 1 && rs[0] == 'ו' && hebrew.IsLetter(rs[1])
}

func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
