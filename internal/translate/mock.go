package translate

import (
	"bufio"
	"bytes"
	"context"
	"embed"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/lexicon"
	"github.com/michaperki/mila/internal/segment"
)

//go:embed data/*.tsv
var phrasebookFS embed.FS

type phrasebook struct {
	words     map[string]string
	sentences map[string]string
}

var loadPhrasebook = sync.OnceValue(func() phrasebook {
	return phrasebook{
		words:     readPairs("data/words.tsv"),
		sentences: readPairs("data/sentences.tsv"),
	}
})

func readPairs(name string) map[string]string {
	b, err := phrasebookFS.ReadFile(name)
	if err != nil {
		panic("translate: embedded " + name + ": " + err.Error())
	}
	m := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}

// Mock is a deterministic dictionary translator. It needs no network and is
// the fallback for every remote provider.
type Mock struct {
	book phrasebook
	lex  *lexicon.Lexicon
}

// NewMock returns a Mock over the bundled phrasebook and lex. A nil lex uses
// the embedded lexicon.
func NewMock(lex *lexicon.Lexicon) *Mock {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Mock{book: loadPhrasebook(), lex: lex}
}

// Translate answers every sentence and token from the phrasebook and lexicon.
func (m *Mock) Translate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &Response{SentenceTranslations: make([]string, len(req.Sentences))}
	for i, s := range req.Sentences {
		resp.SentenceTranslations[i] = m.Sentence(s)
	}
	if len(req.Tokens) > 0 {
		resp.TokenGlosses = make([][]string, len(req.Tokens))
		for i, toks := range req.Tokens {
			glosses := make([]string, len(toks))
			for j, tok := range toks {
				glosses[j] = m.Gloss(tok)
			}
			resp.TokenGlosses[i] = glosses
		}
	}
	return resp, nil
}

// Gloss returns an English gloss for one token: the phrasebook entry, else the
// first sense of its lexicon entry, else the gloss of the word without its
// clitic written as "(and-)house", else the placeholder.
func (m *Mock) Gloss(token string) string {
	w := normalizeWord(token)
	if w == "" {
		return Placeholder
	}
	if g, ok := m.lookup(w); ok {
		return g
	}

	first, size := utf8.DecodeRuneInString(w)
	if rest := w[size:]; utf8.RuneCountInString(rest) > 1 {
		if cg, ok := segment.CliticGloss(string(first)); ok {
			if g, ok := m.lookup(rest); ok {
				return "(" + cg + "-)" + g
			}
		}
	}
	return Placeholder
}

// Sentence translates a sentence: an exact phrasebook match, else word by
// word with unknown words kept, capitalized and closed with a period.
func (m *Mock) Sentence(text string) string {
	key := strings.TrimRightFunc(hebrew.StripNikud(strings.TrimSpace(text)), unicode.IsPunct)
	if t, ok := m.book.sentences[key]; ok {
		return t
	}

	var out []string
	for _, word := range strings.Fields(text) {
		g, ok := m.lookup(normalizeWord(word))
		if !ok {
			g = word
		}
		if len(out) > 0 && out[len(out)-1] == g {
			continue
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		return ""
	}

	s := strings.Join(out, " ")
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return s
}

func (m *Mock) lookup(w string) (string, bool) {
	if w == "" {
		return "", false
	}
	if g, ok := m.book.words[w]; ok {
		return g, true
	}
	if e, ok := m.lex.Lookup(w); ok {
		return firstSense(e.Gloss), true
	}
	return "", false
}

func firstSense(gloss string) string {
	sense, _, _ := strings.Cut(gloss, ",")
	return strings.TrimSpace(sense)
}

// normalizeWord strips nikud and surrounding punctuation.
func normalizeWord(w string) string {
	return strings.TrimFunc(hebrew.StripNikud(w), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}
