// Package model defines the study data types: segmented chunks and their
// tokens, saved texts and starred vocabulary.
package model

import "time"

// ChunkKind distinguishes sentence chunks from phrase chunks.
type ChunkKind string

const (
	KindSentence ChunkKind = "sentence"
	KindPhrase   ChunkKind = "phrase"
)

// Token is one morphological unit of a chunk: a whole word, or the clitic or
// host half of a split word.
type Token struct {
	Idx     int    `json:"idx"`
	Surface string `json:"surface"`
	Lemma   string `json:"lemma"`
	Root    string `json:"root,omitempty"`
	Gloss   string `json:"gloss,omitempty"`
	POS     string `json:"pos,omitempty"`
}

// Chunk is one segmented sentence or phrase. Tokens are in storage order.
type Chunk struct {
	ID          string    `json:"id"`
	Kind        ChunkKind `json:"type"`
	Text        string    `json:"text"`
	Tokens      []Token   `json:"tokens"`
	Translation string    `json:"translation,omitempty"`
}

// Surfaces returns the token surfaces of c in order.
func (c Chunk) Surfaces() []string {
	out := make([]string, len(c.Tokens))
	for i, t := range c.Tokens {
		out[i] = t.Surface
	}
	return out
}

// Text sources.
const (
	SourceOCR   = "ocr"
	SourcePaste = "paste"
)

// ValidSources are the allowed TextDoc sources.
var ValidSources = map[string]bool{
	SourceOCR:   true,
	SourcePaste: true,
}

// TextDoc is a captured text with its chunks.
type TextDoc struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title,omitempty"`
	Chunks    []Chunk   `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// TextSummary is a TextDoc without its chunks, as listed.
type TextSummary struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Title      string    `json:"title,omitempty"`
	ChunkCount int       `json:"chunks"`
	Preview    string    `json:"preview,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SourceRef points at the chunk a vocabulary item was starred from.
type SourceRef struct {
	TextID  string `json:"text_id"`
	ChunkID string `json:"chunk_id"`
}

// StarredItem is a vocabulary entry keyed by lemma.
type StarredItem struct {
	ID        string     `json:"id"`
	Lemma     string     `json:"lemma"`
	Root      string     `json:"root,omitempty"`
	Gloss     string     `json:"gloss,omitempty"`
	SourceRef *SourceRef `json:"source_ref,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Frequency int        `json:"frequency"`
}

// Occurrence records one place a starred lemma was seen.
type Occurrence struct {
	ID        string    `json:"id"`
	VocabID   string    `json:"vocab_id"`
	TextID    string    `json:"text_id"`
	ChunkID   string    `json:"chunk_id"`
	CreatedAt time.Time `json:"created_at"`
}
