package segment

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/model"
)

// Options configures a Segmenter.
type Options struct {
	// Phrases adds phrase chunks after every sentence that splits into more
	// than one phrase.
	Phrases bool
	Scorer  ScorerConfig
}

// DefaultOptions returns sentence-only segmentation with the default scorer.
func DefaultOptions() Options {
	return Options{Scorer: DefaultScorerConfig()}
}

// Segmenter turns raw text into tokenized chunks.
type Segmenter struct {
	tok   *Tokenizer
	opts  Options
	newID func() string
}

// New returns a Segmenter. A nil tokenizer is built from the embedded lexicon
// and opts.Scorer.
func New(tok *Tokenizer, opts Options) *Segmenter {
	if tok == nil {
		tok = NewTokenizer(nil, opts.Scorer)
	}
	return &Segmenter{tok: tok, opts: opts, newID: shortID}
}

// Tokenizer returns the tokenizer the segmenter uses.
func (s *Segmenter) Tokenizer() *Tokenizer {
	return s.tok
}

func shortID() string {
	return uuid.NewString()[:8]
}

var defaultSegmenter = sync.OnceValue(func() *Segmenter {
	return New(nil, DefaultOptions())
})

// Segment segments raw with the default segmenter.
func Segment(raw string) []model.Chunk {
	return defaultSegmenter().Segment(raw)
}

// Segment removes invisible formatting characters, composes raw to NFC,
// splits it into sentences and tokenizes each one. Nikud is preserved. Chunk
// ids are "sentence-<i>-<id>" and "phrase-<i>.<j>-<id>".
func (s *Segmenter) Segment(raw string) []model.Chunk {
	text := hebrew.Normalize(raw)

	var chunks []model.Chunk
	for i, sentence := range Sentences(text) {
		chunks = append(chunks, model.Chunk{
			ID:     fmt.Sprintf("sentence-%d-%s", i, s.newID()),
			Kind:   model.KindSentence,
			Text:   sentence,
			Tokens: s.tok.Tokenize(sentence),
		})

		if !s.opts.Phrases {
			continue
		}
		phrases := Phrases(sentence)
		if len(phrases) < 2 {
			continue
		}
		for j, phrase := range phrases {
			chunks = append(chunks, model.Chunk{
				ID:     fmt.Sprintf("phrase-%d.%d-%s", i, j, s.newID()),
				Kind:   model.KindPhrase,
				Text:   phrase,
				Tokens: s.tok.Tokenize(phrase),
			})
		}
	}
	return chunks
}
