package morph

import (
	"strings"
	"unicode/utf8"

	"github.com/michaperki/mila/internal/hebrew"
)

// Category is a coarse morphological shape guessed from a word's affixes.
type Category string

const (
	CategoryInfinitive      Category = "infinitive"
	CategoryParticiple      Category = "participle"
	CategoryFuture          Category = "future"
	CategoryPastReflexive   Category = "past_reflexive"
	CategoryPastCausative   Category = "past_causative"
	CategoryPluralMasculine Category = "plural_masculine"
	CategoryPluralFeminine  Category = "plural_feminine"
	CategoryFeminine        Category = "feminine"
	CategoryBase            Category = "base"
)

// Categorize guesses the shape of word from its first and last letters. It is
// a reading hint, not a tagger.
func Categorize(word string) Category {
	w := trimNonLetters(hebrew.StripNikud(word))
	n := utf8.RuneCountInString(w)

	switch {
	case strings.HasPrefix(w, "ל") && n > 3:
		return CategoryInfinitive
	case strings.HasPrefix(w, "מ") && n > 3:
		return CategoryParticiple
	case strings.HasPrefix(w, "י") && n > 3:
		return CategoryFuture
	case strings.HasPrefix(w, "הת") && n > 4:
		return CategoryPastReflexive
	case strings.HasPrefix(w, "ה") && n > 4:
		return CategoryPastCausative
	case strings.HasSuffix(w, "ים"):
		return CategoryPluralMasculine
	case strings.HasSuffix(w, "ות"):
		return CategoryPluralFeminine
	case strings.HasSuffix(w, "ה") && n > 2:
		return CategoryFeminine
	}
	return CategoryBase
}
