package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/model"
)

// SearchParams holds parameters for searching chunks or vocabulary.
type SearchParams struct {
	Query string
	Limit int
}

// ChunkHit is a chunk that matched a search, with the text it belongs to.
type ChunkHit struct {
	TextID    string      `json:"text_id"`
	TextTitle string      `json:"text_title,omitempty"`
	Chunk     model.Chunk `json:"chunk"`
}

// SearchChunks finds chunks whose text matches the query, ignoring nikud.
// Whole words are matched through the FTS index; when that finds nothing, or
// the query is not valid FTS syntax, the query is matched as a substring so
// that words carrying clitics are found too.
func (s *SQLiteStore) SearchChunks(ctx context.Context, p SearchParams) ([]ChunkHit, error) {
	q := strings.TrimSpace(hebrew.StripNikud(p.Query))
	if q == "" {
		return nil, model.NewValidationError("query", "is required")
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	hits, err := s.searchChunksFTS(ctx, q, limit)
	if err != nil {
		s.log.DebugContext(ctx, "fts query rejected, using substring match",
			slog.String("query", q), slog.String("error", err.Error()))
	}
	if err == nil && len(hits) > 0 {
		return hits, nil
	}
	return s.searchChunksLike(ctx, q, limit)
}

const chunkHitColumns = `c.text_id, t.title, c.id, c.kind, c.text, c.translation, c.tokens`

func (s *SQLiteStore) searchChunksFTS(ctx context.Context, q string, limit int) ([]ChunkHit, error) {
	return s.queryChunkHits(ctx, `
		SELECT `+chunkHitColumns+`
		FROM chunks_fts f
		JOIN chunks c ON c.rowid = f.rowid
		JOIN texts t ON t.id = c.text_id
		WHERE chunks_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?`, ftsQuery(q), limit)
}

func (s *SQLiteStore) searchChunksLike(ctx context.Context, q string, limit int) ([]ChunkHit, error) {
	return s.queryChunkHits(ctx, `
		SELECT `+chunkHitColumns+`
		FROM chunks c
		JOIN texts t ON t.id = c.text_id
		WHERE c.plain LIKE ? ESCAPE '\'
		ORDER BY t.created_at DESC, c.seq
		LIMIT ?`, "%"+escapeLike(q)+"%", limit)
}

func (s *SQLiteStore) queryChunkHits(ctx context.Context, query string, args ...interface{}) ([]ChunkHit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ChunkHit
	for rows.Next() {
		var h ChunkHit
		var id, kind, text, translation, tokens string
		if err := rows.Scan(&h.TextID, &h.TextTitle, &id, &kind, &text, &translation, &tokens); err != nil {
			return nil, err
		}
		c, err := decodeChunk(id, kind, text, translation, tokens)
		if err != nil {
			return nil, err
		}
		h.Chunk = c
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// SearchVocab finds vocabulary items whose lemma, root or gloss contains the
// query, most frequent first.
func (s *SQLiteStore) SearchVocab(ctx context.Context, p SearchParams) ([]model.StarredItem, error) {
	q := strings.TrimSpace(p.Query)
	if q == "" {
		return nil, model.NewValidationError("query", "is required")
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + escapeLike(q) + "%"
	plain := "%" + escapeLike(hebrew.StripNikud(q)) + "%"
	return s.queryVocab(ctx,
		`SELECT `+vocabColumns+` FROM vocab
		 WHERE lemma LIKE ? ESCAPE '\' OR lemma LIKE ? ESCAPE '\'
		    OR root LIKE ? ESCAPE '\' OR gloss LIKE ? ESCAPE '\'
		 ORDER BY frequency DESC, lemma
		 LIMIT ?`, pattern, plain, plain, pattern, limit)
}

// ftsQuery quotes every term so that FTS5 operators in user input are taken
// literally. Terms are ANDed.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
