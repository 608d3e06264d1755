package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	lex := Default()
	require.NotNil(t, lex)
	assert.Greater(t, lex.Len(), 50)
	assert.Same(t, lex, Default(), "Default should return the shared instance")

	st := DefaultStats()
	assert.Equal(t, lex.Len(), st.RootLines)
	assert.Positive(t, st.FormLines)
	assert.Equal(t, 5, st.SupplementLines)
	// The multi-word Strong's entry "אבי גבעון" is not a root.
	assert.GreaterOrEqual(t, st.Skipped, 1)
}

func TestLookup_DictionaryHit(t *testing.T) {
	t.Parallel()
	lex := Default()

	e, ok := lex.Lookup("אֱלֹהִים")
	require.True(t, ok)
	assert.Equal(t, "אלה", e.Root)
	assert.Equal(t, "H426", e.ID)

	e, ok = lex.Lookup("הבית")
	require.True(t, ok)
	assert.Equal(t, "בית", e.Root)
}

func TestLookup_RootIsOwnForm(t *testing.T) {
	t.Parallel()
	lex := Default()

	root, ok := lex.RootOf("כתב")
	require.True(t, ok)
	assert.Equal(t, "כתב", root)

	e, ok := lex.Lookup("שָׁלוֹם")
	require.True(t, ok)
	assert.Equal(t, "H7965", e.ID)
}

func TestLookup_FormLineOverridesSpelling(t *testing.T) {
	t.Parallel()
	lex := Default()

	root, ok := lex.RootOf("עתה")
	require.True(t, ok)
	assert.Equal(t, "עת", root)

	root, ok = lex.RootOf("לב")
	require.True(t, ok)
	assert.Equal(t, "לבב", root)
}

func TestLookup_Miss(t *testing.T) {
	t.Parallel()
	lex := Default()

	for _, w := range []string{"", "hello", "123", "מכתב"} {
		_, ok := lex.Lookup(w)
		assert.False(t, ok, "Lookup(%q)", w)
	}
}

func TestGlossForRoot(t *testing.T) {
	t.Parallel()
	lex := Default()

	g, ok := lex.GlossForRoot("אלה")
	require.True(t, ok)
	assert.Contains(t, g, "God")

	g, ok = lex.GlossForRoot("עת")
	require.True(t, ok)
	assert.Equal(t, "time, period, season", g, "supplement wins over the lexicon")

	g, ok = lex.GlossForRoot("עכשיו")
	require.True(t, ok)
	assert.Equal(t, "now, at present, currently", g)

	g, ok = lex.GlossForRoot("בַּיִת")
	require.True(t, ok)
	assert.Contains(t, g, "house")

	_, ok = lex.GlossForRoot("")
	assert.False(t, ok)
	_, ok = lex.GlossForRoot("קקק")
	assert.False(t, ok)
}

func TestParse_SkipsBadLines(t *testing.T) {
	t.Parallel()

	roots := strings.Join([]string{
		"# comment",
		"",
		"H1\tאָב\tfather",
		"H2\tאב\textra\tfield",
		"H3\tabc\tlatin root",
		"H4\tשני מילים\ttwo words",
		"H1\tאם\tduplicate id",
		"H5\tאֵם\tmother",
		"H6\tבן\t",
	}, "\n")
	forms := "אבא\tH1\nאמא\tH5\nבנים\tH99\nxyz\tH1\n"
	supplement := "זמן\ttime\n"

	lex, st, err := Parse(strings.NewReader(roots), strings.NewReader(forms), strings.NewReader(supplement))
	require.NoError(t, err)

	assert.Equal(t, 2, st.RootLines)
	assert.Equal(t, 2, st.FormLines)
	assert.Equal(t, 1, st.SupplementLines)
	assert.Equal(t, 7, st.Skipped)
	assert.Equal(t, 2, lex.Len())

	root, ok := lex.RootOf("אבא")
	require.True(t, ok)
	assert.Equal(t, "אב", root)

	g, ok := lex.GlossForRoot("זמן")
	require.True(t, ok)
	assert.Equal(t, "time", g)
}

func TestParse_LowestIDWinsForSharedRoot(t *testing.T) {
	t.Parallel()

	roots := "H1004\tדבר\tlater\nH426\tדבר\tearlier\n"
	lex, _, err := Parse(strings.NewReader(roots), strings.NewReader(""), nil)
	require.NoError(t, err)

	g, ok := lex.GlossForRoot("דבר")
	require.True(t, ok)
	assert.Equal(t, "earlier", g)

	e, ok := lex.Lookup("דבר")
	require.True(t, ok)
	assert.Equal(t, "H426", e.ID)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, RootsFile), []byte("H1\tאב\tfather\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FormsFile), nil, 0o644))

	lex, st, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, lex.Len())
	assert.Equal(t, 0, st.FormLines)
	assert.Equal(t, 0, st.SupplementLines)

	root, ok := lex.RootOf("אב")
	require.True(t, ok)
	assert.Equal(t, "אב", root)
}

func TestLoadDir_MissingRoots(t *testing.T) {
	t.Parallel()

	_, _, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSearchGloss(t *testing.T) {
	t.Parallel()
	lex := Default()

	got := lex.SearchGloss("houses", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "בית", got[0].Root)

	got = lex.SearchGloss("season time", 10)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "H2165", got[0].ID)
	assert.Equal(t, "H6256", got[1].ID)
	assert.Equal(t, 2, got[0].Score)

	got = lex.SearchGloss("time", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "H865", got[0].ID)

	assert.Empty(t, lex.SearchGloss("the", 5))
	assert.Empty(t, lex.SearchGloss("", 5))
}

func TestSearchGloss_FindsSupplement(t *testing.T) {
	t.Parallel()

	var roots []string
	for _, m := range Default().SearchGloss("duration", 10) {
		roots = append(roots, m.Root)
	}
	assert.Contains(t, roots, "זמן")
}

func TestIDOrder(t *testing.T) {
	t.Parallel()

	ids := []string{"H1004", "M1", "H426", "H3"}
	sortIDs(ids)
	assert.Equal(t, []string{"H3", "H426", "H1004", "M1"}, ids)
}

func TestLexicon_ConcurrentReads(t *testing.T) {
	lex := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				lex.Lookup("הבית")
				lex.GlossForRoot("אלה")
				lex.SearchGloss("king", 3)
			}
		}()
	}
	wg.Wait()
}
