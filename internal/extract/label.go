package extract

import (
	"strings"

	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

// match is a value found for a field together with the tokens it came from.
type match struct {
	value  string
	tokens []int
}

// matchLabel tries the field's labels in declared order. For each label it
// first searches the spaced blob for label, filler and value; failing that it
// looks for a token containing the label whose next token is exactly a value.
func matchLabel(f *tagspec.Field, toks []Token, b blobs) (match, bool) {
	for _, l := range f.Labels {
		if m, ok := labelRegex(f, l, b); ok {
			return m, true
		}
		if m, ok := labelAdjacent(f, l, toks); ok {
			return m, true
		}
	}
	return match{}, false
}

func labelRegex(f *tagspec.Field, l tagspec.Label, b blobs) (match, bool) {
	for _, loc := range l.Re.FindAllStringSubmatchIndex(b.spaced, -1) {
		if len(loc) < 4 || loc[2] < 0 {
			continue
		}
		v := b.spaced[loc[2]:loc[3]]
		if !f.Matches(v) {
			continue
		}
		return match{value: v, tokens: b.tokensIn(loc[2], loc[3])}, true
	}
	return match{}, false
}

func labelAdjacent(f *tagspec.Field, l tagspec.Label, toks []Token) (match, bool) {
	for i := 0; i+1 < len(toks); i++ {
		if !strings.Contains(toks[i].Normalized, l.Key) {
			continue
		}
		next := toks[i+1]
		if f.Matches(next.Normalized) {
			return match{value: cleanOriginal(next.Original), tokens: []int{i + 1}}, true
		}
	}
	return match{}, false
}

// cleanOriginal trims the separators OCR tends to attach to a value.
func cleanOriginal(s string) string {
	return strings.Trim(s, " \t:.|[]")
}
