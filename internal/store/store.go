// Package store provides the text and vocabulary storage interface and its
// SQLite implementation.
package store

import (
	"context"

	"github.com/michaperki/mila/internal/model"
)

// SaveTextParams holds parameters for saving a segmented text.
type SaveTextParams struct {
	Source string
	Title  string
	Chunks []model.Chunk
}

// ListTextsParams holds parameters for listing texts.
type ListTextsParams struct {
	Source string
	Limit  int
}

// StarParams holds parameters for starring a lemma. TextID and ChunkID are
// given together or not at all.
type StarParams struct {
	Lemma   string
	Root    string
	Gloss   string
	TextID  string
	ChunkID string
}

// ListVocabParams holds parameters for listing vocabulary.
type ListVocabParams struct {
	Root  string
	Limit int
}

// Store defines the persistence interface for texts and vocabulary.
type Store interface {
	// SaveText stores a text and its chunks. Returns the stored document.
	SaveText(ctx context.Context, p SaveTextParams) (*model.TextDoc, error)

	// GetText retrieves a text with its chunks in order.
	GetText(ctx context.Context, id string) (*model.TextDoc, error)

	// ListTexts lists texts, newest first.
	ListTexts(ctx context.Context, p ListTextsParams) ([]model.TextSummary, error)

	// DeleteText removes a text, its chunks and the occurrences recorded in it.
	DeleteText(ctx context.Context, id string) error

	// Star adds a lemma to the vocabulary or bumps its frequency.
	Star(ctx context.Context, p StarParams) (*model.StarredItem, error)

	// GetVocab retrieves a vocabulary item by id or lemma.
	GetVocab(ctx context.Context, idOrLemma string) (*model.StarredItem, error)

	// ListVocab lists vocabulary, most frequent first.
	ListVocab(ctx context.Context, p ListVocabParams) ([]model.StarredItem, error)

	// Unstar removes a vocabulary item by id or lemma.
	Unstar(ctx context.Context, idOrLemma string) error

	// Close closes the store.
	Close() error
}
