// Package lexicon holds the root dictionary: word form to identifier, identifier
// to root and gloss, and a small supplementary gloss table for modern words.
//
// A Lexicon is built once (from the embedded data asset or from files on disk)
// and never mutated afterwards, so a single instance may be shared by any number
// of goroutines without locking.
package lexicon

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/michaperki/mila/internal/hebrew"
)

// Entry is one lexicon record.
type Entry struct {
	ID    string `json:"id"`
	Root  string `json:"root"`
	Gloss string `json:"gloss"`
}

// Lexicon is an immutable root dictionary.
type Lexicon struct {
	forms      map[string]string // normalized form -> id
	entries    map[string]Entry  // id -> entry
	byRoot     map[string]string // root -> lowest id carrying it
	supplement map[string]string // root -> gloss
	ids        []string          // all ids, ascending
	index      []glossDoc
}

// Len returns the number of identifier entries.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Lookup finds the entry for a word form. Nikud is stripped before the lookup.
func (l *Lexicon) Lookup(word string) (Entry, bool) {
	id, ok := l.forms[hebrew.StripNikud(word)]
	if !ok {
		return Entry{}, false
	}
	e, ok := l.entries[id]
	return e, ok
}

// Entry returns the record for an identifier.
func (l *Lexicon) Entry(id string) (Entry, bool) {
	e, ok := l.entries[id]
	return e, ok
}

// RootOf returns the root of a word form when the form is in the dictionary.
func (l *Lexicon) RootOf(word string) (string, bool) {
	e, ok := l.Lookup(word)
	if !ok {
		return "", false
	}
	return e.Root, true
}

// GlossForRoot returns the English gloss for a root. The supplementary table
// is consulted first, then the entry with the lowest identifier whose root
// equals the argument.
func (l *Lexicon) GlossForRoot(root string) (string, bool) {
	root = hebrew.StripNikud(strings.TrimSpace(root))
	if root == "" {
		return "", false
	}
	if g, ok := l.supplement[root]; ok {
		return g, true
	}
	id, ok := l.byRoot[root]
	if !ok {
		return "", false
	}
	return l.entries[id].Gloss, true
}

// IDs returns all identifiers in ascending order.
func (l *Lexicon) IDs() []string {
	out := make([]string, len(l.ids))
	copy(out, l.ids)
	return out
}

// idLess orders identifiers by their alphabetic prefix, then numerically,
// so that H426 sorts before H1004.
func idLess(a, b string) bool {
	pa, na := splitID(a)
	pb, nb := splitID(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitID(id string) (string, int) {
	i := strings.IndexFunc(id, unicode.IsDigit)
	if i < 0 {
		return id, 0
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return id, 0
	}
	return id[:i], n
}

func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
}
