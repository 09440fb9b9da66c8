package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// isPictograph matches runes outside the Basic Multilingual Plane plus the
// Miscellaneous Symbols and Dingbats blocks, and the emoji variation selector.
func isPictograph(r rune) bool {
	return r >= 0x10000 || (r >= 0x2600 && r <= 0x27BF) || r == 0xFE0F
}

// StripEmoji removes pictographic runes and normalizes the result to NFC.
// Leading indentation is kept; whitespace a removed pictograph leaves at the
// start of the text is dropped, as is trailing whitespace.
func StripEmoji(value string) string {
	indent := value[:len(value)-len(strings.TrimLeftFunc(value, unicode.IsSpace))]
	rest := value[len(indent):]
	t := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(isPictograph)))
	if out, _, err := transform.String(t, rest); err == nil {
		rest = strings.TrimLeftFunc(out, unicode.IsSpace)
	}
	return strings.TrimRightFunc(indent+rest, unicode.IsSpace)
}

// CleanLines prepares reel text for rendering. Each line is NFC normalized and
// loses trailing whitespace; leading indentation survives so continuation
// lines stay indented. Pictographs are dropped when stripEmoji is set. Line
// count and order are preserved so blank separators survive.
func CleanLines(lines []string, stripEmoji bool) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if stripEmoji {
			out[i] = StripEmoji(line)
			continue
		}
		out[i] = strings.TrimRightFunc(norm.NFC.String(line), unicode.IsSpace)
	}
	return out
}

// TitleCase converts API labels such as "abhijit muhurat" to display form.
func TitleCase(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return ""
	}
	return cases.Title(language.English).String(value)
}
