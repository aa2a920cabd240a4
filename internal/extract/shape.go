package extract

import (
	"strings"

	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

// maxRun bounds how many fragments a split value may have been broken into.
const maxRun = 3

// matchShape is the fallback for fields without a label match. It scans the
// packed blob for values OCR split across fragments, then whole tokens of the
// spaced blob, then (for standalone fields) bare numbers. Tokens in used are
// skipped so one number is never claimed by two fields.
func matchShape(f *tagspec.Field, toks []Token, b blobs, used map[int]bool) (match, bool) {
	if f.Spec.LabelOnly {
		return match{}, false
	}
	if m, ok := shapePacked(f, toks, b, used); ok {
		return m, true
	}
	if m, ok := shapeSpaced(f, toks, used); ok {
		return m, true
	}
	if f.Spec.Standalone {
		return shapeStandalone(f, toks, used)
	}
	return match{}, false
}

// shapePacked joins runs of adjacent fragments that are each too short to be
// a value on their own, are of the right character class and carry a digit.
// Runs always start and end on token boundaries, so digits are never sliced
// out of a longer number, and label words never leak into a value.
func shapePacked(f *tagspec.Field, toks []Token, b blobs, used map[int]bool) (match, bool) {
	piece := func(i int) bool {
		n := toks[i].Normalized
		return !used[i] && len(n) < f.Spec.Shape.MinLen && f.InClass(n) && hasDigit(n)
	}
	for i := range toks {
		if !piece(i) {
			continue
		}
		for j := i + 1; j < len(toks) && j < i+maxRun; j++ {
			if !piece(j) {
				break
			}
			v := b.packedRun(i, j)
			if len(v) > f.Spec.Shape.MaxLen {
				break
			}
			if f.Matches(v) {
				return match{value: v, tokens: indexRange(i, j)}, true
			}
		}
	}
	return match{}, false
}

func shapeSpaced(f *tagspec.Field, toks []Token, used map[int]bool) (match, bool) {
	for i, t := range toks {
		if used[i] {
			continue
		}
		if f.Matches(t.Normalized) {
			return match{value: t.Normalized, tokens: []int{i}}, true
		}
	}
	return match{}, false
}

// shapeStandalone accepts a token whose raw text is purely numeric and no
// longer than the field allows, even when shorter than its minimum.
func shapeStandalone(f *tagspec.Field, toks []Token, used map[int]bool) (match, bool) {
	for i, t := range toks {
		if used[i] {
			continue
		}
		v := cleanOriginal(t.Original)
		if v == "" || len(v) > f.Spec.Shape.MaxLen || !allDigits(v) {
			continue
		}
		return match{value: v, tokens: []int{i}}, true
	}
	return match{}, false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func indexRange(i, j int) []int {
	out := make([]int, 0, j-i+1)
	for k := i; k <= j; k++ {
		out = append(out, k)
	}
	return out
}
