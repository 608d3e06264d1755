// Package app wires configuration, logging, the text pipeline, translation
// and storage together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/michaperki/mila/internal/config"
	"github.com/michaperki/mila/internal/lexicon"
	"github.com/michaperki/mila/internal/model"
	"github.com/michaperki/mila/internal/morph"
	"github.com/michaperki/mila/internal/segment"
	"github.com/michaperki/mila/internal/store"
	"github.com/michaperki/mila/internal/translate"
)

// App holds the shared, immutable pipeline components.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Lexicon    *lexicon.Lexicon
	Extractor  *morph.Extractor
	Tokenizer  *segment.Tokenizer
	Translator translate.Translator
}

// New builds an App from cfg. The logger is installed as the slog default.
func New(cfg *config.Config) (*App, error) {
	return newApp(cfg, NewLogger(cfg.Log))
}

func newApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	lex, err := loadLexicon(cfg.Lexicon, logger)
	if err != nil {
		return nil, err
	}

	tr, err := translate.New(cfg.Translate, lex, logger)
	if err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}

	ex := morph.NewExtractor(lex)
	return &App{
		Config:     cfg,
		Logger:     logger,
		Lexicon:    lex,
		Extractor:  ex,
		Tokenizer:  segment.NewTokenizer(ex, ScorerConfig(cfg.Scorer)),
		Translator: tr,
	}, nil
}

func loadLexicon(cfg config.LexiconConfig, logger *slog.Logger) (*lexicon.Lexicon, error) {
	log := logger.With("component", "lexicon")
	if cfg.Path == "" {
		st := lexicon.DefaultStats()
		log.Debug("embedded lexicon loaded",
			slog.Int("roots", st.RootLines),
			slog.Int("forms", st.FormLines),
			slog.Int("skipped", st.Skipped),
		)
		return lexicon.Default(), nil
	}

	lex, st, err := lexicon.LoadDir(cfg.Path)
	if err != nil {
		log.Error("lexicon load failed", slog.String("path", cfg.Path), slog.String("error", err.Error()))
		return nil, fmt.Errorf("load lexicon %s: %w", cfg.Path, err)
	}
	log.Info("lexicon loaded",
		slog.String("path", cfg.Path),
		slog.Int("roots", st.RootLines),
		slog.Int("forms", st.FormLines),
		slog.Int("supplement", st.SupplementLines),
		slog.Int("skipped", st.Skipped),
	)
	return lex, nil
}

// ScorerConfig converts the configured weights to the segmenter's form.
func ScorerConfig(c config.ScorerConfig) segment.ScorerConfig {
	return segment.ScorerConfig{
		DefiniteArticle: c.DefiniteArticle,
		Infinitive:      c.Infinitive,
		Pronoun:         c.Pronoun,
		VerbAffix:       c.VerbAffix,
		PluralPenalty:   c.PluralPenalty,
		ShortBaseMin:    c.ShortBaseMin,
		Threshold:       c.Threshold,
	}
}

// OpenStore opens the configured SQLite store.
func (a *App) OpenStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(a.Config.DB.Path, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.Config.DB.Path, err)
	}
	return s, nil
}

// ProcessOptions selects the optional pipeline stages.
type ProcessOptions struct {
	Phrases   bool
	Translate bool
}

// Segmenter returns a segmenter over the app's tokenizer.
func (a *App) Segmenter(phrases bool) *segment.Segmenter {
	return segment.New(a.Tokenizer, segment.Options{
		Phrases: phrases,
		Scorer:  ScorerConfig(a.Config.Scorer),
	})
}

// Process segments raw and, when asked, translates the chunks. Translation
// failures are returned with the untranslated chunks.
func (a *App) Process(ctx context.Context, raw string, opts ProcessOptions) ([]model.Chunk, error) {
	chunks := a.Segmenter(opts.Phrases).Segment(raw)
	if !opts.Translate || len(chunks) == 0 {
		return chunks, nil
	}

	req := translate.NewRequest(chunks, a.Config.Translate.SourceLang, a.Config.Translate.TargetLang)
	resp, err := a.Translator.Translate(ctx, req)
	if err != nil {
		return chunks, fmt.Errorf("translate: %w", err)
	}
	translate.Apply(chunks, resp)
	return chunks, nil
}

// IngestParams holds parameters for Ingest.
type IngestParams struct {
	Title     string
	Source    string
	Phrases   bool
	Translate bool
}

// Ingest processes raw and saves it as a text.
func (a *App) Ingest(ctx context.Context, s store.Store, raw string, p IngestParams) (*model.TextDoc, error) {
	chunks, err := a.Process(ctx, raw, ProcessOptions{Phrases: p.Phrases, Translate: p.Translate})
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, model.NewValidationError("text", "no sentences found")
	}
	return s.SaveText(ctx, store.SaveTextParams{Source: p.Source, Title: p.Title, Chunks: chunks})
}
