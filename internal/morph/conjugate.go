package morph

import (
	"github.com/michaperki/mila/internal/hebrew"
)

// connector is the mater lectionis placed between root letters in example
// forms.
const connector = 'ו'

// Conjugations returns example words built on root: for a three-letter root
// the qal past, qal participle, hifil and infinitive shapes, for a defective
// two-letter root the bare, feminine and infinitive shapes. Other inputs give
// nil. The output is the same on every call.
func Conjugations(root string) []string {
	r := []rune(hebrew.StripNikud(root))
	if !hebrew.IsLetters(string(r)) {
		return nil
	}

	var forms []string
	switch len(r) {
	case 3:
		forms = []string{
			string(r),
			string([]rune{r[0], connector, r[1], r[2]}),
			string([]rune{'ה', r[0], r[1], connector, r[2]}),
			string([]rune{'ל', r[0], r[1], connector, r[2]}),
		}
	case 2:
		forms = []string{
			string(r),
			string(r) + "ה",
			"ל" + string(r) + "ות",
		}
	default:
		return nil
	}
	return dedupe(forms)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
