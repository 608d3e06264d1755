package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/michaperki/mila/internal/model"
)

// VocabExport is the JSON document written by ExportVocab.
type VocabExport struct {
	Version int                 `json:"version"`
	Items   []model.StarredItem `json:"items"`
}

const exportVersion = 1

// ExportVocab writes all vocabulary as JSON to w, oldest first.
func (s *SQLiteStore) ExportVocab(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.queryVocab(ctx, `SELECT `+vocabColumns+` FROM vocab ORDER BY created_at, id`)
	if err != nil {
		return 0, err
	}
	if items == nil {
		items = []model.StarredItem{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(VocabExport{Version: exportVersion, Items: items}); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	return len(items), nil
}

// ImportVocab reads an export from r and merges it into the vocabulary.
// Existing lemmas keep their id; their frequency becomes the larger of the two
// and their root and gloss are filled in when missing. Returns the number of
// items read.
func (s *SQLiteStore) ImportVocab(ctx context.Context, r io.Reader) (int, error) {
	var doc VocabExport
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode export: %w", err)
	}
	if doc.Version != exportVersion {
		return 0, model.NewValidationError("version", fmt.Sprintf("unsupported export version %d", doc.Version))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, it := range doc.Items {
		if it.Lemma == "" {
			continue
		}
		freq := max(it.Frequency, 1)
		var textID, chunkID *string
		if it.SourceRef != nil {
			textID, chunkID = &it.SourceRef.TextID, &it.SourceRef.ChunkID
		}

		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM vocab WHERE lemma = ?`, it.Lemma).Scan(&existing)
		switch {
		case err == nil:
			_, err = tx.ExecContext(ctx,
				`UPDATE vocab SET
				   frequency = MAX(frequency, ?),
				   root      = CASE WHEN root = '' THEN ? ELSE root END,
				   gloss     = CASE WHEN gloss = '' THEN ? ELSE gloss END
				 WHERE id = ?`,
				freq, it.Root, it.Gloss, existing)
		case errors.Is(err, sql.ErrNoRows):
			id := it.ID
			var taken int
			if id == "" || tx.QueryRowContext(ctx, `SELECT 1 FROM vocab WHERE id = ?`, id).Scan(&taken) == nil {
				id = s.newID()
			}
			createdAt := it.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO vocab (id, lemma, root, gloss, text_id, chunk_id, created_at, frequency)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id, it.Lemma, it.Root, it.Gloss, textID, chunkID,
				createdAt.UTC().Format(time.RFC3339), freq)
		}
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", it.Lemma, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
