package lexicon

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"github.com/kljensen/snowball/english"
)

// Match is an entry found by SearchGloss. Supplementary entries have no ID.
type Match struct {
	Entry
	Score int `json:"score"`
}

type glossDoc struct {
	entry Entry
	stems map[string]struct{}
}

// buildGlossIndex stems every gloss once: lexicon entries in identifier order
// first, then supplementary roots in root order.
func buildGlossIndex(l *Lexicon) []glossDoc {
	docs := make([]glossDoc, 0, len(l.ids)+len(l.supplement))
	for _, id := range l.ids {
		e := l.entries[id]
		docs = append(docs, glossDoc{entry: e, stems: stemSet(e.Gloss)})
	}

	roots := make([]string, 0, len(l.supplement))
	for r := range l.supplement {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	for _, r := range roots {
		e := Entry{Root: r, Gloss: l.supplement[r]}
		docs = append(docs, glossDoc{entry: e, stems: stemSet(e.Gloss)})
	}
	return docs
}

// SearchGloss finds entries whose English gloss shares words with query.
// Words are compared after lower-casing, stop-word removal and Snowball
// stemming, so "houses" finds "house". Results are ordered by the number of
// shared stems, then by lexicon order. limit <= 0 means 20.
func (l *Lexicon) SearchGloss(query string, limit int) []Match {
	if limit <= 0 {
		limit = 20
	}
	terms := stemWords(query)
	if len(terms) == 0 {
		return nil
	}

	var out []Match
	for _, d := range l.index {
		score := 0
		for _, t := range terms {
			if _, ok := d.stems[t]; ok {
				score++
			}
		}
		if score > 0 {
			out = append(out, Match{Entry: d.entry, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func stemSet(text string) map[string]struct{} {
	words := stemWords(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// stemWords splits text into lower-case words, drops English stop words and
// returns the distinct Snowball stems in order of first appearance.
func stemWords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if english.IsStopWord(w) {
			continue
		}
		stem, err := snowball.Stem(w, "english", false)
		if err != nil || stem == "" {
			stem = w
		}
		if !seen[stem] {
			seen[stem] = true
			out = append(out, stem)
		}
	}
	return out
}
