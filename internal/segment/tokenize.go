package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/model"
	"github.com/michaperki/mila/internal/morph"
)

// POSClitic marks the clitic half of a split word.
const POSClitic = "clitic"

// clitics are the one-letter bound prefixes the tokenizer may split off.
var clitics = map[rune]string{
	'ו': "and",
	'ה': "the",
	'ב': "in",
	'כ': "like",
	'ל': "to",
	'מ': "from",
	'ש': "that",
}

// CliticGloss returns the English meaning of a clitic letter.
func CliticGloss(clitic string) (string, bool) {
	r, size := utf8.DecodeRuneInString(hebrew.StripNikud(clitic))
	if size == 0 {
		return "", false
	}
	g, ok := clitics[r]
	return g, ok
}

// Tokenizer splits sentences into tokens and annotates each with its root.
type Tokenizer struct {
	extractor *morph.Extractor
	scorer    ScorerConfig
}

// NewTokenizer returns a Tokenizer. A nil extractor uses the embedded lexicon.
func NewTokenizer(ex *morph.Extractor, cfg ScorerConfig) *Tokenizer {
	if ex == nil {
		ex = morph.Default()
	}
	return &Tokenizer{extractor: ex, scorer: cfg}
}

// Extractor returns the root extractor used for token roots.
func (t *Tokenizer) Extractor() *morph.Extractor {
	return t.extractor
}

// Tokenize splits sentence on whitespace and emits one token per word, or a
// clitic token followed by a host token when the word's first letter is a
// clitic and the rest scores high enough. Idx runs from 0 without gaps.
func (t *Tokenizer) Tokenize(sentence string) []model.Token {
	var tokens []model.Token
	emit := func(tok model.Token) {
		tok.Idx = len(tokens)
		tokens = append(tokens, tok)
	}

	for _, w := range strings.Fields(sentence) {
		clitic, host, ok := t.splitClitic(w)
		if !ok {
			emit(t.wordToken(w))
			continue
		}
		emit(model.Token{
			Surface: clitic,
			Lemma:   clitic,
			Root:    hebrew.StripNikud(clitic),
			POS:     POSClitic,
		})
		emit(t.wordToken(host))
	}
	return tokens
}

// splitClitic decides whether w is a clitic attached to a host word. The
// clitic keeps any vowel points written on its letter.
func (t *Tokenizer) splitClitic(w string) (clitic, host string, ok bool) {
	plain := []rune(strings.TrimRightFunc(hebrew.StripNikud(w), unicode.IsPunct))
	if len(plain) <= 2 {
		return "", "", false
	}
	if _, isClitic := clitics[plain[0]]; !isClitic || !hebrew.IsLetter(plain[1]) {
		return "", "", false
	}
	if !ShouldSplit(string(plain[1:]), t.scorer) {
		return "", "", false
	}

	cut := firstLetterEnd(w)
	if cut <= 0 || cut >= len(w) {
		return "", "", false
	}
	return w[:cut], w[cut:], true
}

// firstLetterEnd returns the byte offset just past the first rune of w and
// the marks that follow it.
func firstLetterEnd(w string) int {
	_, size := utf8.DecodeRuneInString(w)
	i := size
	for i < len(w) {
		r, n := utf8.DecodeRuneInString(w[i:])
		if !hebrew.IsNikud(r) {
			break
		}
		i += n
	}
	return i
}

func (t *Tokenizer) wordToken(surface string) model.Token {
	tok := model.Token{
		Surface: surface,
		Lemma:   lemmaOf(surface),
		POS:     string(morph.Categorize(surface)),
	}
	if root, ok := t.extractor.ExtractRoot(surface); ok {
		tok.Root = root
	}
	return tok
}

// lemmaOf is the surface without punctuation clinging to its ends.
func lemmaOf(surface string) string {
	lemma := strings.TrimFunc(surface, unicode.IsPunct)
	if lemma == "" {
		return surface
	}
	return lemma
}
