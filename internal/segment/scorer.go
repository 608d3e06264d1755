package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/michaperki/mila/internal/hebrew"
)

// ScorerConfig holds the weights of the clitic-split scorer. A word is split
// when the score of its base (the word without its first letter) reaches
// Threshold.
type ScorerConfig struct {
	// DefiniteArticle is added when the base starts with ה.
	DefiniteArticle int `json:"definite_article"`
	// Infinitive is added when the base starts with ל and has more than three letters.
	Infinitive int `json:"infinitive"`
	// Pronoun is added when the base is a pronoun or pronoun-suffixed particle.
	Pronoun int `json:"pronoun"`
	// VerbAffix is added when the base carries a verb suffix or prefix shape.
	VerbAffix int `json:"verb_affix"`
	// PluralPenalty is added (normally negative) for ים or ות endings.
	PluralPenalty int `json:"plural_penalty"`
	// ShortBaseMin is the score a three-letter base needs before it may split.
	ShortBaseMin int `json:"short_base_min"`
	Threshold    int `json:"threshold"`
}

// DefaultScorerConfig returns the hand-tuned baseline weights.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		DefiniteArticle: 3,
		Infinitive:      2,
		Pronoun:         3,
		VerbAffix:       2,
		PluralPenalty:   -1,
		ShortBaseMin:    3,
		Threshold:       2,
	}
}

// pronouns are independent pronouns and pronoun-suffixed particles.
var pronouns = toSet(
	"אני", "אתה", "את", "הוא", "היא", "אנחנו", "אתם", "אתן", "הם", "הן",
	"אותי", "אותך", "אותו", "אותה", "אותנו", "אתכם", "אותם", "אותן",
	"לי", "לך", "לו", "לה", "לנו", "לכם", "להם", "להן",
	"ממני", "ממך", "ממנו", "ממנה", "מכם", "מהם",
	"עליי", "עליך", "עליו", "עליה", "עלינו",
	"איתי", "איתך", "איתו", "איתה", "איתנו",
	"שלי", "שלך", "שלו", "שלה",
)

var (
	verbSuffixes = []string{"תי", "נו", "תם", "תן", "ני", "ו", "ן"}
	verbPrefixes = []string{"הת", "מת", "ית", "ת", "י", "נ", "א"}
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsPronoun reports whether base is in the closed pronoun table.
func IsPronoun(base string) bool {
	return pronouns[base]
}

// Score rates how likely base is a host word with a clitic removed from its
// front. ok is false when base is rejected outright: it is not all Hebrew
// letters, it has one letter, it has two letters and is not a pronoun, or it
// has three letters and scores below ShortBaseMin.
func Score(base string, cfg ScorerConfig) (score int, ok bool) {
	if !hebrew.IsLetters(base) {
		return 0, false
	}
	n := utf8.RuneCountInString(base)
	if n <= 1 || (n == 2 && !pronouns[base]) {
		return 0, false
	}

	if strings.HasPrefix(base, "ה") {
		score += cfg.DefiniteArticle
	}
	if strings.HasPrefix(base, "ל") && n > 3 {
		score += cfg.Infinitive
	}
	if pronouns[base] {
		score += cfg.Pronoun
	}
	if hasVerbAffix(base, n) {
		score += cfg.VerbAffix
	}
	if strings.HasSuffix(base, "ים") || strings.HasSuffix(base, "ות") {
		score += cfg.PluralPenalty
	}

	if n == 3 && score < cfg.ShortBaseMin {
		return score, false
	}
	return score, true
}

// ShouldSplit reports whether base scores at or above the threshold.
func ShouldSplit(base string, cfg ScorerConfig) bool {
	score, ok := Score(base, cfg)
	return ok && score >= cfg.Threshold
}

func hasVerbAffix(base string, n int) bool {
	for _, s := range verbSuffixes {
		if !strings.HasSuffix(base, s) {
			continue
		}
		// ה+X+ו is a possessive, not a verb ending.
		if s == "ו" && strings.HasSuffix(base, "הו") {
			continue
		}
		return true
	}
	for _, p := range verbPrefixes {
		if strings.HasPrefix(base, p) && n > utf8.RuneCountInString(p)+1 {
			return true
		}
	}
	return false
}
