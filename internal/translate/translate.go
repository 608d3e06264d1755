// Package translate is the translation collaborator: it sends chunk text and
// token surfaces out for translation and applies the answers back onto the
// chunks.
package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/michaperki/mila/internal/config"
	"github.com/michaperki/mila/internal/lexicon"
	"github.com/michaperki/mila/internal/model"
)

// Placeholder is the gloss given to a token nobody could translate.
const Placeholder = "—"

// Request carries one string per chunk and, optionally, the token surfaces of
// each chunk.
type Request struct {
	SourceLang string     `json:"sourceLang"`
	TargetLang string     `json:"targetLang"`
	Sentences  []string   `json:"sentences"`
	Tokens     [][]string `json:"tokens,omitempty"`
}

// Response is parallel to its Request: one translation per sentence, one
// gloss list per token list.
type Response struct {
	SentenceTranslations []string   `json:"sentenceTranslations"`
	TokenGlosses         [][]string `json:"tokenGlosses,omitempty"`
}

// Translator translates a batch of sentences and tokens.
type Translator interface {
	Translate(ctx context.Context, req Request) (*Response, error)
}

// NewRequest builds a Request from chunks.
func NewRequest(chunks []model.Chunk, sourceLang, targetLang string) Request {
	req := Request{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Sentences:  make([]string, len(chunks)),
		Tokens:     make([][]string, len(chunks)),
	}
	for i, c := range chunks {
		req.Sentences[i] = c.Text
		req.Tokens[i] = c.Surfaces()
	}
	return req
}

// Validate checks that req has sentences and that its token lists, if any,
// line up with them.
func (r Request) Validate() error {
	var errs []model.FieldError
	if len(r.Sentences) == 0 {
		errs = append(errs, model.FieldError{Field: "sentences", Message: "at least one sentence is required"})
	}
	if len(r.Tokens) > 0 && len(r.Tokens) != len(r.Sentences) {
		errs = append(errs, model.FieldError{
			Field:   "tokens",
			Message: fmt.Sprintf("got %d token lists for %d sentences", len(r.Tokens), len(r.Sentences)),
		})
	}
	if len(errs) > 0 {
		return &model.ValidationError{Errors: errs}
	}
	return nil
}

// checkShape verifies that resp is parallel to req.
func checkShape(req Request, resp *Response) error {
	if resp == nil {
		return fmt.Errorf("empty response")
	}
	if len(resp.SentenceTranslations) != len(req.Sentences) {
		return fmt.Errorf("got %d translations for %d sentences", len(resp.SentenceTranslations), len(req.Sentences))
	}
	if len(req.Tokens) == 0 {
		return nil
	}
	if len(resp.TokenGlosses) != len(req.Tokens) {
		return fmt.Errorf("got %d gloss lists for %d token lists", len(resp.TokenGlosses), len(req.Tokens))
	}
	for i := range req.Tokens {
		if len(resp.TokenGlosses[i]) != len(req.Tokens[i]) {
			return fmt.Errorf("gloss list %d has %d entries for %d tokens", i, len(resp.TokenGlosses[i]), len(req.Tokens[i]))
		}
	}
	return nil
}

// Apply copies translations and glosses from resp onto chunks. Empty values
// and the placeholder gloss leave the existing field untouched; chunks and
// tokens beyond the response are skipped.
func Apply(chunks []model.Chunk, resp *Response) {
	if resp == nil {
		return
	}
	for i := range chunks {
		if i < len(resp.SentenceTranslations) && resp.SentenceTranslations[i] != "" {
			chunks[i].Translation = resp.SentenceTranslations[i]
		}
		if i >= len(resp.TokenGlosses) {
			continue
		}
		glosses := resp.TokenGlosses[i]
		for j := range chunks[i].Tokens {
			if j < len(glosses) && glosses[j] != "" && glosses[j] != Placeholder {
				chunks[i].Tokens[j].Gloss = glosses[j]
			}
		}
	}
}

// New builds the Translator selected by cfg.Provider. Remote providers are
// cached and fall back to the dictionary translator when they fail.
func New(cfg config.TranslateConfig, lex *lexicon.Lexicon, logger *slog.Logger) (Translator, error) {
	mock := NewMock(lex)

	var remote Translator
	switch cfg.Provider {
	case config.ProviderMock, "":
		return mock, nil
	case config.ProviderHTTP:
		remote = NewHTTPTranslator(cfg.URL, cfg.Timeout, cfg.RetryDelay, cfg.MaxRetries, logger)
	case config.ProviderOpenAI:
		t, err := NewOpenAITranslator(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.URL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, logger)
		if err != nil {
			return nil, err
		}
		remote = t
	default:
		return nil, fmt.Errorf("translate: unknown provider %q", cfg.Provider)
	}

	return NewFallback(NewCached(remote, cfg.CacheTTL), mock, logger), nil
}
