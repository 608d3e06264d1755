package lexicon

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/michaperki/mila/internal/hebrew"
)

// File names inside a lexicon directory (and the embedded asset).
const (
	RootsFile      = "roots.tsv"
	FormsFile      = "forms.tsv"
	SupplementFile = "supplement.tsv"
)

//go:embed data/*.tsv
var embedded embed.FS

// errSkipLine signals that a line carries no record (comment or blank).
var errSkipLine = errors.New("skip line")

// errBadRecord signals a line that is well formed but unusable.
var errBadRecord = errors.New("bad record")

// LoadStats counts what a load accepted and rejected.
type LoadStats struct {
	RootLines       int `json:"root_lines"`
	FormLines       int `json:"form_lines"`
	SupplementLines int `json:"supplement_lines"`
	Skipped         int `json:"skipped"`
}

var defaultLexicon = sync.OnceValues(func() (*Lexicon, LoadStats) {
	open := func(name string) io.Reader {
		b, err := embedded.ReadFile("data/" + name)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded %s: %v", name, err))
		}
		return bytes.NewReader(b)
	}
	lex, st, err := Parse(open(RootsFile), open(FormsFile), open(SupplementFile))
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded data: %v", err))
	}
	return lex, st
})

// Default returns the lexicon built from the embedded data asset. It is parsed
// on first use and shared afterwards.
func Default() *Lexicon {
	lex, _ := defaultLexicon()
	return lex
}

// DefaultStats reports the load statistics of the embedded lexicon.
func DefaultStats() LoadStats {
	_, st := defaultLexicon()
	return st
}

// Parse builds a Lexicon from the three tab-separated sources. supplement may
// be nil. Malformed lines are skipped and counted, never fatal; only read
// errors are returned.
func Parse(roots, forms, supplement io.Reader) (*Lexicon, LoadStats, error) {
	b := newBuilder()
	var st LoadStats

	if err := scanRecords(roots, 3, b.addRoot, &st.RootLines, &st.Skipped); err != nil {
		return nil, st, fmt.Errorf("read roots: %w", err)
	}
	if err := scanRecords(forms, 2, b.addForm, &st.FormLines, &st.Skipped); err != nil {
		return nil, st, fmt.Errorf("read forms: %w", err)
	}
	if supplement != nil {
		if err := scanRecords(supplement, 2, b.addSupplement, &st.SupplementLines, &st.Skipped); err != nil {
			return nil, st, fmt.Errorf("read supplement: %w", err)
		}
	}

	return b.build(), st, nil
}

// LoadDir builds a Lexicon from roots.tsv, forms.tsv and an optional
// supplement.tsv in dir. The files are memory-mapped read-only for the
// duration of the parse.
func LoadDir(dir string) (*Lexicon, LoadStats, error) {
	roots, err := openMapped(filepath.Join(dir, RootsFile))
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer roots.Close()

	forms, err := openMapped(filepath.Join(dir, FormsFile))
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer forms.Close()

	var supplement io.Reader
	sup, err := openMapped(filepath.Join(dir, SupplementFile))
	switch {
	case err == nil:
		defer sup.Close()
		supplement = sup.Reader()
	case !errors.Is(err, os.ErrNotExist):
		return nil, LoadStats{}, err
	}

	return Parse(roots.Reader(), forms.Reader(), supplement)
}

// mappedFile is a read-only memory mapping of a whole file.
type mappedFile struct {
	f *os.File
	m mmap.MMap
}

func openMapped(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		return &mappedFile{f: f}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mappedFile{f: f, m: m}, nil
}

func (mf *mappedFile) Reader() io.Reader {
	return bytes.NewReader(mf.m)
}

func (mf *mappedFile) Close() error {
	if mf.m != nil {
		if err := mf.m.Unmap(); err != nil {
			mf.f.Close()
			return err
		}
	}
	return mf.f.Close()
}

// scanRecords feeds every record line of r to add. Lines with the wrong field
// count or rejected by add are counted as skipped.
func scanRecords(r io.Reader, fields int, add func([]string) error, accepted, skipped *int) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rec, err := parseLine(scanner.Text(), fields)
		if err == errSkipLine {
			continue
		}
		if err != nil {
			*skipped++
			continue
		}
		if err := add(rec); err != nil {
			if errors.Is(err, errBadRecord) {
				*skipped++
				continue
			}
			return err
		}
		*accepted++
	}
	return scanner.Err()
}

func parseLine(line string, fields int) ([]string, error) {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, errSkipLine
	}
	parts := strings.Split(line, "\t")
	if len(parts) != fields {
		return nil, fmt.Errorf("expected %d fields, got %d", fields, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// builder accumulates records before the Lexicon is frozen.
type builder struct {
	forms      map[string]string
	entries    map[string]Entry
	supplement map[string]string
}

func newBuilder() *builder {
	return &builder{
		forms:      make(map[string]string),
		entries:    make(map[string]Entry),
		supplement: make(map[string]string),
	}
}

func (b *builder) addRoot(rec []string) error {
	id, root, gloss := rec[0], hebrew.StripNikud(rec[1]), rec[2]
	if id == "" || gloss == "" || !hebrew.IsLetters(root) {
		return errBadRecord
	}
	if _, dup := b.entries[id]; dup {
		return errBadRecord
	}
	b.entries[id] = Entry{ID: id, Root: root, Gloss: gloss}
	return nil
}

func (b *builder) addForm(rec []string) error {
	form, id := hebrew.StripNikud(rec[0]), rec[1]
	if !hebrew.IsLetters(form) {
		return errBadRecord
	}
	if _, ok := b.entries[id]; !ok {
		return errBadRecord
	}
	b.forms[form] = id
	return nil
}

func (b *builder) addSupplement(rec []string) error {
	root, gloss := hebrew.StripNikud(rec[0]), rec[1]
	if !hebrew.IsLetters(root) || gloss == "" {
		return errBadRecord
	}
	b.supplement[root] = gloss
	return nil
}

func (b *builder) build() *Lexicon {
	ids := make([]string, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	sortIDs(ids)

	byRoot := make(map[string]string, len(ids))
	for _, id := range ids {
		root := b.entries[id].Root
		if _, ok := byRoot[root]; !ok {
			byRoot[root] = id
		}
		// A root is a form of its own entry unless a form line says otherwise.
		if _, ok := b.forms[root]; !ok {
			b.forms[root] = byRoot[root]
		}
	}

	lex := &Lexicon{
		forms:      b.forms,
		entries:    b.entries,
		byRoot:     byRoot,
		supplement: b.supplement,
		ids:        ids,
	}
	lex.index = buildGlossIndex(lex)
	return lex
}
