package store

import (
	"context"
	"fmt"
	"time"

	"github.com/michaperki/mila/internal/model"
)

// Occurrences returns the places a vocabulary item was starred from, newest
// first.
func (s *SQLiteStore) Occurrences(ctx context.Context, idOrLemma string) ([]model.Occurrence, error) {
	item, err := s.GetVocab(ctx, idOrLemma)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vocab_id, text_id, chunk_id, created_at FROM occurrences
		 WHERE vocab_id = ? ORDER BY created_at DESC, id DESC`, item.ID)
	if err != nil {
		return nil, fmt.Errorf("query occurrences: %w", err)
	}
	defer rows.Close()

	var out []model.Occurrence
	for rows.Next() {
		var o model.Occurrence
		var createdAt string
		if err := rows.Scan(&o.ID, &o.VocabID, &o.TextID, &o.ChunkID, &createdAt); err != nil {
			return nil, err
		}
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// TextVocab returns the vocabulary items starred from a text.
func (s *SQLiteStore) TextVocab(ctx context.Context, textID string) ([]model.StarredItem, error) {
	return s.queryVocab(ctx,
		`SELECT `+vocabColumns+` FROM vocab
		 WHERE id IN (SELECT vocab_id FROM occurrences WHERE text_id = ?)
		 ORDER BY frequency DESC, lemma`, textID)
}
