package hebrew

import "strings"

// latin maps each Hebrew letter to a Latin approximation.
var latin = map[rune]string{
	'א': "ʾ",
	'ב': "b",
	'ג': "g",
	'ד': "d",
	'ה': "h",
	'ו': "v",
	'ז': "z",
	'ח': "ḥ",
	'ט': "ṭ",
	'י': "y",
	'כ': "k",
	'ך': "kh",
	'ל': "l",
	'מ': "m",
	'ם': "m",
	'נ': "n",
	'ן': "n",
	'ס': "s",
	'ע': "ʿ",
	'פ': "p",
	'ף': "f",
	'צ': "ts",
	'ץ': "ts",
	'ק': "q",
	'ר': "r",
	'ש': "sh",
	'ת': "t",
}

// Transliterate replaces each Hebrew letter in s with its Latin approximation.
// Nikud and non-Hebrew characters are copied through unchanged; there is no
// context sensitivity.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if l, ok := latin[r]; ok {
			b.WriteString(l)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
