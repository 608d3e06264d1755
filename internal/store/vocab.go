package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/michaperki/mila/internal/model"
)

const vocabColumns = `id, lemma, root, gloss, text_id, chunk_id, created_at, frequency`

func (p StarParams) validate() error {
	var errs []model.FieldError
	if strings.TrimSpace(p.Lemma) == "" {
		errs = append(errs, model.FieldError{Field: "lemma", Message: "is required"})
	}
	if (p.TextID == "") != (p.ChunkID == "") {
		errs = append(errs, model.FieldError{Field: "source_ref", Message: "text and chunk must be given together"})
	}
	if len(errs) > 0 {
		return &model.ValidationError{Errors: errs}
	}
	return nil
}

// Star upserts a vocabulary item by lemma. A repeat star increments its
// frequency and refreshes created_at, plus root, gloss and source reference
// when they are given; the id is kept. Stars with a source reference also
// record an occurrence.
func (s *SQLiteStore) Star(ctx context.Context, p StarParams) (*model.StarredItem, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	lemma := strings.TrimSpace(p.Lemma)
	now := time.Now().UTC().Format(time.RFC3339)

	var textID, chunkID *string
	if p.TextID != "" {
		textID, chunkID = &p.TextID, &p.ChunkID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM vocab WHERE lemma = ?`, lemma).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = s.newID()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO vocab (id, lemma, root, gloss, text_id, chunk_id, created_at, frequency)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
			id, lemma, p.Root, p.Gloss, textID, chunkID, now)
		if err != nil {
			return nil, fmt.Errorf("insert vocab: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("find vocab: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE vocab SET
			   frequency  = frequency + 1,
			   created_at = ?,
			   root       = CASE WHEN ? = '' THEN root ELSE ? END,
			   gloss      = CASE WHEN ? = '' THEN gloss ELSE ? END,
			   text_id    = COALESCE(?, text_id),
			   chunk_id   = COALESCE(?, chunk_id)
			 WHERE id = ?`,
			now, p.Root, p.Root, p.Gloss, p.Gloss, textID, chunkID, id)
		if err != nil {
			return nil, fmt.Errorf("update vocab: %w", err)
		}
	}

	if textID != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO occurrences (id, vocab_id, text_id, chunk_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.newID(), id, *textID, *chunkID, now)
		if err != nil {
			return nil, fmt.Errorf("insert occurrence: %w", err)
		}
	}

	item, err := scanVocab(tx.QueryRowContext(ctx, `SELECT `+vocabColumns+` FROM vocab WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "starred", slog.String("lemma", lemma), slog.Int("frequency", item.Frequency))
	return &item, nil
}

// GetVocab retrieves a vocabulary item by id or lemma.
func (s *SQLiteStore) GetVocab(ctx context.Context, idOrLemma string) (*model.StarredItem, error) {
	item, err := scanVocab(s.db.QueryRowContext(ctx,
		`SELECT `+vocabColumns+` FROM vocab WHERE id = ? OR lemma = ? LIMIT 1`, idOrLemma, idOrLemma))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vocab %s: %w", idOrLemma, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vocab: %w", err)
	}
	return &item, nil
}

// ListVocab lists vocabulary, most frequent first, optionally for one root.
func (s *SQLiteStore) ListVocab(ctx context.Context, p ListVocabParams) ([]model.StarredItem, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.Root != "" {
		where = append(where, "root = ?")
		args = append(args, p.Root)
	}

	query := fmt.Sprintf(`SELECT %s FROM vocab WHERE %s
		ORDER BY frequency DESC, created_at DESC, id DESC LIMIT ?`,
		vocabColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryVocab(ctx, query, args...)
}

// Unstar removes a vocabulary item and its occurrences.
func (s *SQLiteStore) Unstar(ctx context.Context, idOrLemma string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM vocab WHERE id = ? OR lemma = ? LIMIT 1`, idOrLemma, idOrLemma).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("vocab %s: %w", idOrLemma, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find vocab: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrences WHERE vocab_id = ?`, id); err != nil {
		return fmt.Errorf("delete occurrences: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vocab WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete vocab: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) queryVocab(ctx context.Context, query string, args ...interface{}) ([]model.StarredItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vocab: %w", err)
	}
	defer rows.Close()

	var items []model.StarredItem
	for rows.Next() {
		v, err := scanVocab(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
