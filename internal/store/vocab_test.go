package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaperki/mila/internal/model"
)

func TestStar_New(t *testing.T) {
	s := newTestStore(t)

	item, err := s.Star(context.Background(), StarParams{Lemma: "שלום", Root: "שלם", Gloss: "peace"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 1, item.Frequency)
	assert.Nil(t, item.SourceRef)
	assert.Equal(t, "שלם", item.Root)
	assert.Equal(t, "peace", item.Gloss)
}

func TestStar_RepeatIncrementsFrequency(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Star(ctx, StarParams{Lemma: "ספר", Root: "ספר", Gloss: "book"})
	require.NoError(t, err)
	second, err := s.Star(ctx, StarParams{Lemma: "ספר", Gloss: "book, letter", TextID: "t1", ChunkID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "id is kept")
	assert.Equal(t, 2, second.Frequency)
	assert.Equal(t, "book, letter", second.Gloss)
	assert.Equal(t, "ספר", second.Root, "root kept when not given")
	require.NotNil(t, second.SourceRef)
	assert.Equal(t, model.SourceRef{TextID: "t1", ChunkID: "c1"}, *second.SourceRef)

	third, err := s.Star(ctx, StarParams{Lemma: "ספר"})
	require.NoError(t, err)
	assert.Equal(t, 3, third.Frequency)
	require.NotNil(t, third.SourceRef)
	assert.Equal(t, "t1", third.SourceRef.TextID, "old source ref kept")

	all, err := s.ListVocab(ctx, ListVocabParams{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStar_Validation(t *testing.T) {
	s := newTestStore(t)
	tests := []struct {
		name string
		p    StarParams
	}{
		{"empty lemma", StarParams{Lemma: "  "}},
		{"text without chunk", StarParams{Lemma: "ספר", TextID: "t1"}},
		{"chunk without text", StarParams{Lemma: "ספר", ChunkID: "c1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Star(context.Background(), tt.p)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestOccurrences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, p := range []StarParams{
		{Lemma: "בית"},
		{Lemma: "בית", TextID: "t1", ChunkID: "c1"},
		{Lemma: "בית", TextID: "t2", ChunkID: "c9"},
	} {
		_, err := s.Star(ctx, p)
		require.NoError(t, err)
	}

	occ, err := s.Occurrences(ctx, "בית")
	require.NoError(t, err)
	require.Len(t, occ, 2)
	assert.Equal(t, "t2", occ[0].TextID, "newest first")
	assert.Equal(t, "t1", occ[1].TextID)

	vocab, err := s.TextVocab(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, vocab, 1)
	assert.Equal(t, "בית", vocab[0].Lemma)

	_, err = s.Occurrences(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetVocab(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	item, err := s.Star(ctx, StarParams{Lemma: "מלך", Root: "מלך", Gloss: "king"})
	require.NoError(t, err)

	byID, err := s.GetVocab(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "מלך", byID.Lemma)

	byLemma, err := s.GetVocab(ctx, "מלך")
	require.NoError(t, err)
	assert.Equal(t, item.ID, byLemma.ID)

	_, err = s.GetVocab(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListVocab(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, p := range []StarParams{
		{Lemma: "מלך", Root: "מלך"},
		{Lemma: "מלכה", Root: "מלך"},
		{Lemma: "מלכה", Root: "מלך"},
		{Lemma: "ספר", Root: "ספר"},
	} {
		_, err := s.Star(ctx, p)
		require.NoError(t, err)
	}

	all, err := s.ListVocab(ctx, ListVocabParams{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "מלכה", all[0].Lemma, "most frequent first")

	byRoot, err := s.ListVocab(ctx, ListVocabParams{Root: "מלך"})
	require.NoError(t, err)
	assert.Len(t, byRoot, 2)
}

func TestUnstar(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Star(ctx, StarParams{Lemma: "ספר", TextID: "t1", ChunkID: "c1"})
	require.NoError(t, err)

	require.NoError(t, s.Unstar(ctx, "ספר"))
	_, err = s.GetVocab(ctx, "ספר")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Unstar(ctx, "ספר"), model.ErrNotFound)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Occurrences)
}

func TestExportImportVocab(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	for _, p := range []StarParams{
		{Lemma: "שלום", Root: "שלם", Gloss: "peace", TextID: "t1", ChunkID: "c1"},
		{Lemma: "שלום"},
		{Lemma: "ספר", Root: "ספר", Gloss: "book"},
	} {
		_, err := src.Star(ctx, p)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	n, err := src.ExportVocab(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var doc VocabExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, exportVersion, doc.Version)
	assert.Len(t, doc.Items, 2)

	dst := newTestStore(t)
	_, err = dst.Star(ctx, StarParams{Lemma: "ספר"})
	require.NoError(t, err)

	n, err = dst.ImportVocab(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	shalom, err := dst.GetVocab(ctx, "שלום")
	require.NoError(t, err)
	assert.Equal(t, 2, shalom.Frequency)
	assert.Equal(t, "peace", shalom.Gloss)
	require.NotNil(t, shalom.SourceRef)
	assert.Equal(t, "t1", shalom.SourceRef.TextID)

	book, err := dst.GetVocab(ctx, "ספר")
	require.NoError(t, err)
	assert.Equal(t, "book", book.Gloss, "merge fills gloss")
	assert.Equal(t, "ספר", book.Root, "merge fills root")
	assert.Equal(t, 1, book.Frequency)

	// Importing the same export twice is idempotent.
	_, err = dst.ImportVocab(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	all, err := dst.ListVocab(ctx, ListVocabParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportVocab_Rejects(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ImportVocab(context.Background(), strings.NewReader(`{`))
	assert.Error(t, err)

	_, err = s.ImportVocab(context.Background(), strings.NewReader(`{"version": 9, "items": []}`))
	assert.ErrorIs(t, err, model.ErrValidation)
}
