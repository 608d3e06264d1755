package translate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/michaperki/mila/internal/model"
)

// Fallback asks a primary Translator and, when it fails, a secondary one.
// Validation errors and cancellation are returned as they are.
type Fallback struct {
	primary   Translator
	secondary Translator
	log       *slog.Logger
}

// NewFallback creates a Fallback.
func NewFallback(primary, secondary Translator, logger *slog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		log:       logger.With("component", "translate.fallback"),
	}
}

func (f *Fallback) Translate(ctx context.Context, req Request) (*Response, error) {
	resp, err := f.primary.Translate(ctx, req)
	if err == nil {
		return resp, nil
	}
	if errors.Is(err, model.ErrValidation) || ctx.Err() != nil {
		return nil, err
	}

	f.log.WarnContext(ctx, "translation failed, using dictionary fallback", slog.String("error", err.Error()))
	return f.secondary.Translate(ctx, req)
}
