package extract

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

// Token is a word from the OCR stream in both its original and canonical form.
type Token struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	Index      int    `json:"index"` // emission index of the source fragment
}

// Normalize canonicalizes one fragment for pattern matching: upper case, with
// whitespace and : . | [ ] removed. It accepts any input, including "".
func Normalize(raw tag.RawToken) Token {
	norm := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case ':', '.', '|', '[', ']':
			return -1
		}
		return r
	}, strings.ToUpper(raw.Text))
	return Token{Original: raw.Text, Normalized: norm, Index: raw.Index}
}

// Tokenize orders fragments by emission index, splits multi-word fragments
// into words and normalizes each word. Words that normalize to nothing are
// dropped. The input slice is not modified.
func Tokenize(raw []tag.RawToken) []Token {
	ordered := make([]tag.RawToken, len(raw))
	copy(ordered, raw)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	out := make([]Token, 0, len(ordered))
	for _, r := range ordered {
		for _, w := range strings.Fields(r.Text) {
			tok := Normalize(tag.RawToken{Text: w, Index: r.Index})
			if tok.Normalized == "" {
				continue
			}
			out = append(out, tok)
		}
	}
	return out
}
