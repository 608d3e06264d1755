package morph

// prefixes are tried in order and at most one is removed. Two-letter
// combinations come first so that וה is not mistaken for a bare ו.
var prefixes = []string{
	"כש", "שה", "לה", "מה", "וה", "וכ", "ול", "ומ", "וש",
	"ו", "ה", "ב", "כ", "ל", "מ", "ש",
}

// suffixes are tried in order and at most one is removed.
var suffixes = []string{
	"ים", "ות", "תי", "נו", "תם", "תן",
	"ה", "ת", "י", "ו", "ן",
	"כם", "כן", "הם", "הן", "יו", "יה",
}

// Template classes.
const (
	ClassVerb = "verb"
	ClassNoun = "noun"
)

// Placeholder letters marking the three root consonants in a template form.
const (
	placeholderP = 'פ'
	placeholderA = 'ע'
	placeholderL = 'ל'
)

// Template is a morphological pattern such as הפעיל. The placeholders פ, ע
// and ל mark where the root consonants sit; every other letter of the form
// must appear literally in a matching word.
type Template struct {
	Form  string `json:"form"`
	Class string `json:"class"`
	Name  string `json:"name"`

	form  []rune
	slots [3]int
}

// Slots returns the rune indices of the three root consonants.
func (t Template) Slots() [3]int {
	return t.slots
}

func newTemplate(form, class, name string) Template {
	rs := []rune(form)
	slots := [3]int{-1, -1, -1}
	next := 0
	want := [3]rune{placeholderP, placeholderA, placeholderL}
	for i, r := range rs {
		if next < 3 && r == want[next] {
			slots[next] = i
			next++
		}
	}
	if next != 3 {
		panic("morph: template " + form + " lacks root placeholders")
	}
	return Template{Form: form, Class: class, Name: name, form: rs, slots: slots}
}

// match extracts the root letters of word if it has the template's length and
// carries the template's fixed letters at their positions.
func (t Template) match(word []rune) (string, bool) {
	if len(word) != len(t.form) {
		return "", false
	}
	for i, r := range t.form {
		if i == t.slots[0] || i == t.slots[1] || i == t.slots[2] {
			continue
		}
		if word[i] != r {
			return "", false
		}
	}
	return string([]rune{word[t.slots[0]], word[t.slots[1]], word[t.slots[2]]}), true
}

// templates is tried in order; the first match wins. Root positions come
// from the placeholders, not a separate position list, so הפעיל reads its
// root from {1,2,4} and התפעל from {2,3,4}, and a word must also carry the
// template's fixed letters, not just its length.
var templates = []Template{
	newTemplate("פעל", ClassVerb, "qal past"),
	newTemplate("פועל", ClassVerb, "qal participle"),
	newTemplate("פעלה", ClassVerb, "qal past feminine"),
	newTemplate("פעלו", ClassVerb, "qal past plural"),
	newTemplate("יפעל", ClassVerb, "qal future"),
	newTemplate("תפעל", ClassVerb, "qal future feminine"),
	newTemplate("לפעול", ClassVerb, "qal infinitive"),
	newTemplate("פיעל", ClassVerb, "piel past"),
	newTemplate("מפעל", ClassVerb, "piel participle"),
	newTemplate("לפעל", ClassVerb, "piel infinitive"),
	newTemplate("הפעיל", ClassVerb, "hifil past"),
	newTemplate("מפעיל", ClassVerb, "hifil participle"),
	newTemplate("יפעיל", ClassVerb, "hifil future"),
	newTemplate("להפעיל", ClassVerb, "hifil infinitive"),
	newTemplate("התפעל", ClassVerb, "hitpael past"),
	newTemplate("מתפעל", ClassVerb, "hitpael participle"),
	newTemplate("יתפעל", ClassVerb, "hitpael future"),
	newTemplate("להתפעל", ClassVerb, "hitpael infinitive"),
	newTemplate("פעלון", ClassNoun, "diminutive"),
	newTemplate("פעלן", ClassNoun, "agent noun"),
	newTemplate("פעלות", ClassNoun, "abstract noun"),
	newTemplate("תפעיל", ClassNoun, "hifil noun"),
	newTemplate("פעלי", ClassNoun, "construct"),
	newTemplate("פעילה", ClassNoun, "feminine adjective"),
}

// Templates returns a copy of the template table in matching order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}
