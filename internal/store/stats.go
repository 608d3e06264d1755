package store

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string        `json:"db_path"`
	DBSizeBytes int64         `json:"db_size_bytes"`
	DBSize      string        `json:"db_size"`
	Texts       int           `json:"texts"`
	Chunks      int           `json:"chunks"`
	Vocab       int           `json:"vocab"`
	Occurrences int           `json:"occurrences"`
	Sources     []SourceStats `json:"sources"`
	TopRoots    []RootStats   `json:"top_roots,omitempty"`
}

// SourceStats holds per-source text counts.
type SourceStats struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// RootStats counts the starred lemmas sharing a root.
type RootStats struct {
	Root   string `json:"root"`
	Lemmas int    `json:"lemmas"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: s.path}

	// Recent writes live in the WAL file until a checkpoint.
	for _, p := range []string{s.path, s.path + "-wal"} {
		if info, err := os.Stat(p); err == nil {
			st.DBSizeBytes += info.Size()
		}
	}
	st.DBSize = humanize.Bytes(uint64(st.DBSizeBytes))

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM texts`, &st.Texts},
		{`SELECT COUNT(*) FROM chunks`, &st.Chunks},
		{`SELECT COUNT(*) FROM vocab`, &st.Vocab},
		{`SELECT COUNT(*) FROM occurrences`, &st.Occurrences},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*) AS cnt FROM texts GROUP BY source ORDER BY cnt DESC, source`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var ss SourceStats
		if err := rows.Scan(&ss.Source, &ss.Count); err != nil {
			return st, err
		}
		st.Sources = append(st.Sources, ss)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	rootRows, err := s.db.QueryContext(ctx,
		`SELECT root, COUNT(*) AS cnt FROM vocab WHERE root != ''
		 GROUP BY root ORDER BY cnt DESC, root LIMIT 10`)
	if err != nil {
		return st, err
	}
	defer rootRows.Close()
	for rootRows.Next() {
		var rs RootStats
		if err := rootRows.Scan(&rs.Root, &rs.Lemmas); err != nil {
			return st, err
		}
		st.TopRoots = append(st.TopRoots, rs)
	}

	return st, rootRows.Err()
}
