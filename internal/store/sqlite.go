package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/model"
)

const previewRunes = 60

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *slog.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		path:    dbPath,
		log:     logger.With("component", "store"),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Debug("store opened", slog.String("path", dbPath))
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS texts (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_texts_created ON texts(created_at DESC);

	CREATE TABLE IF NOT EXISTS chunks (
		text_id     TEXT NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
		id          TEXT NOT NULL,
		seq         INTEGER NOT NULL,
		kind        TEXT NOT NULL,
		text        TEXT NOT NULL,
		plain       TEXT NOT NULL,
		translation TEXT NOT NULL DEFAULT '',
		tokens      TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (text_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_text ON chunks(text_id, seq);

	CREATE TABLE IF NOT EXISTS vocab (
		id          TEXT PRIMARY KEY,
		lemma       TEXT NOT NULL UNIQUE,
		root        TEXT NOT NULL DEFAULT '',
		gloss       TEXT NOT NULL DEFAULT '',
		text_id     TEXT,
		chunk_id    TEXT,
		created_at  TEXT NOT NULL,
		frequency   INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_vocab_root ON vocab(root);
	CREATE INDEX IF NOT EXISTS idx_vocab_frequency ON vocab(frequency DESC);

	CREATE TABLE IF NOT EXISTS occurrences (
		id          TEXT PRIMARY KEY,
		vocab_id    TEXT NOT NULL REFERENCES vocab(id) ON DELETE CASCADE,
		text_id     TEXT NOT NULL,
		chunk_id    TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_occurrences_vocab ON occurrences(vocab_id);
	CREATE INDEX IF NOT EXISTS idx_occurrences_text ON occurrences(text_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
		plain,
		content=chunks,
		content_rowid=rowid
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 triggers keep the index in sync with chunks.
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
			INSERT INTO chunks_fts(rowid, plain) VALUES (new.rowid, new.plain);
		END`,
		`CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
			INSERT INTO chunks_fts(chunks_fts, rowid, plain) VALUES('delete', old.rowid, old.plain);
		END`,
		`CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
			INSERT INTO chunks_fts(chunks_fts, rowid, plain) VALUES('delete', old.rowid, old.plain);
			INSERT INTO chunks_fts(rowid, plain) VALUES (new.rowid, new.plain);
		END`,
	}
	for _, t := range triggers {
		if _, err := s.db.Exec(t); err != nil {
			return fmt.Errorf("create trigger: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveText(ctx context.Context, p SaveTextParams) (*model.TextDoc, error) {
	source := p.Source
	if source == "" {
		source = model.SourcePaste
	}
	var errs []model.FieldError
	if !model.ValidSources[source] {
		errs = append(errs, model.FieldError{Field: "source", Message: fmt.Sprintf("must be %q or %q", model.SourceOCR, model.SourcePaste)})
	}
	if len(p.Chunks) == 0 {
		errs = append(errs, model.FieldError{Field: "chunks", Message: "at least one chunk is required"})
	}
	if len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	now := time.Now().UTC().Truncate(time.Second)
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO texts (id, source, title, created_at) VALUES (?, ?, ?, ?)`,
		id, source, p.Title, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert text: %w", err)
	}

	for i, c := range p.Chunks {
		tokens := c.Tokens
		if tokens == nil {
			tokens = []model.Token{}
		}
		b, err := json.Marshal(tokens)
		if err != nil {
			return nil, fmt.Errorf("encode tokens: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chunks (text_id, id, seq, kind, text, plain, translation, tokens)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, c.ID, i, string(c.Kind), c.Text, hebrew.StripNikud(c.Text), c.Translation, string(b))
		if err != nil {
			return nil, fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "text saved", slog.String("id", id), slog.Int("chunks", len(p.Chunks)))

	return &model.TextDoc{
		ID:        id,
		Source:    source,
		Title:     p.Title,
		Chunks:    p.Chunks,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetText(ctx context.Context, id string) (*model.TextDoc, error) {
	doc := &model.TextDoc{}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, title, created_at FROM texts WHERE id = ?`, id).
		Scan(&doc.ID, &doc.Source, &doc.Title, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("text %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get text: %w", err)
	}
	doc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	chunks, err := s.textChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Chunks = chunks
	return doc, nil
}

func (s *SQLiteStore) textChunks(ctx context.Context, textID string) ([]model.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, text, translation, tokens FROM chunks WHERE text_id = ? ORDER BY seq`, textID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	defer rows.Close()

	chunks := []model.Chunk{}
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) ListTexts(ctx context.Context, p ListTextsParams) ([]model.TextSummary, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.Source != "" {
		where = append(where, "t.source = ?")
		args = append(args, p.Source)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.source, t.title, t.created_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.text_id = t.id),
		       COALESCE((SELECT c.text FROM chunks c WHERE c.text_id = t.id ORDER BY c.seq LIMIT 1), '')
		FROM texts t
		WHERE %s
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list texts: %w", err)
	}
	defer rows.Close()

	var texts []model.TextSummary
	for rows.Next() {
		var t model.TextSummary
		var createdAt, first string
		if err := rows.Scan(&t.ID, &t.Source, &t.Title, &createdAt, &t.ChunkCount, &first); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		t.Preview = preview(first)
		texts = append(texts, t)
	}
	return texts, rows.Err()
}

func (s *SQLiteStore) DeleteText(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Delete chunks first so the FTS delete trigger fires.
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE text_id = ?`, id); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrences WHERE text_id = ?`, id); err != nil {
		return fmt.Errorf("delete occurrences: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM texts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete text: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("text %s: %w", id, model.ErrNotFound)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanChunk(row scanner) (model.Chunk, error) {
	var id, kind, text, translation, tokens string
	if err := row.Scan(&id, &kind, &text, &translation, &tokens); err != nil {
		return model.Chunk{}, err
	}
	return decodeChunk(id, kind, text, translation, tokens)
}

func decodeChunk(id, kind, text, translation, tokens string) (model.Chunk, error) {
	c := model.Chunk{ID: id, Kind: model.ChunkKind(kind), Text: text, Translation: translation}
	if err := json.Unmarshal([]byte(tokens), &c.Tokens); err != nil {
		return c, fmt.Errorf("decode tokens of chunk %s: %w", id, err)
	}
	return c, nil
}

func scanVocab(row scanner) (model.StarredItem, error) {
	var v model.StarredItem
	var textID, chunkID sql.NullString
	var createdAt string

	err := row.Scan(&v.ID, &v.Lemma, &v.Root, &v.Gloss, &textID, &chunkID, &createdAt, &v.Frequency)
	if err != nil {
		return v, err
	}
	v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if textID.Valid && chunkID.Valid {
		v.SourceRef = &model.SourceRef{TextID: textID.String, ChunkID: chunkID.String}
	}
	return v, nil
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	r := []rune(text)
	return string(r[:previewRunes]) + "…"
}
