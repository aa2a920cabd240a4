package extract

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

// minFuzzyLen keeps very short tokens (NO, SR, 30) out of edit-distance
// matching, where nearly everything is within one edit of everything else.
const minFuzzyLen = 3

// correct scans every token for sightings of the field's canonical sub-codes,
// through known misread substrings or within MaxEdits edits of a whole token.
// The first known value whose parts were all seen is returned.
func correct(f *tagspec.Field, toks []Token) (string, bool) {
	if !f.HasCorrections() {
		return "", false
	}
	seen := observedParts(f, toks)
	for _, kv := range f.Spec.KnownValues {
		all := true
		for _, p := range kv.Parts {
			if !seen[p] {
				all = false
				break
			}
		}
		if all {
			return kv.Value, true
		}
	}
	return "", false
}

func observedParts(f *tagspec.Field, toks []Token) map[string]bool {
	seen := make(map[string]bool)
	for _, t := range toks {
		n := t.Normalized
		for _, c := range f.Corrections {
			if strings.Contains(n, c.Raw) {
				seen[c.Canonical] = true
			}
		}
		for _, p := range f.Parts {
			if strings.Contains(n, p) {
				seen[p] = true
				continue
			}
			if withinEdits(n, p, f.Spec.MaxEdits) {
				seen[p] = true
			}
		}
	}
	return seen
}

// withinEdits reports whether token is a misread of part. The first
// character must survive the misread: on three-letter codes a free first
// edit would let unrelated words like TIP stand in for WIP.
func withinEdits(token, part string, max int) bool {
	if max <= 0 || len(token) < minFuzzyLen || len(part) < minFuzzyLen {
		return false
	}
	if token[0] != part[0] {
		return false
	}
	if d := len(token) - len(part); d > max || -d > max {
		return false
	}
	return levenshtein.Distance(token, part, nil) <= max
}
