package extract

import "strings"

// span is a token's byte range inside a blob.
type span struct{ start, end int }

// blobs are the two joined views of one scan's tokens.
type blobs struct {
	spaced string // tokens joined by a single space
	packed string // tokens concatenated with no separator

	spacedSpans []span
	packedSpans []span
}

func buildBlobs(toks []Token) blobs {
	var sp, pk strings.Builder
	b := blobs{
		spacedSpans: make([]span, len(toks)),
		packedSpans: make([]span, len(toks)),
	}
	for i, t := range toks {
		if i > 0 {
			sp.WriteByte(' ')
		}
		b.spacedSpans[i] = span{sp.Len(), sp.Len() + len(t.Normalized)}
		sp.WriteString(t.Normalized)

		b.packedSpans[i] = span{pk.Len(), pk.Len() + len(t.Normalized)}
		pk.WriteString(t.Normalized)
	}
	b.spaced = sp.String()
	b.packed = pk.String()
	return b
}

// tokensIn returns the indexes of tokens overlapping [start, end) of the
// spaced blob.
func (b blobs) tokensIn(start, end int) []int {
	var out []int
	for i, s := range b.spacedSpans {
		if s.start < end && start < s.end {
			out = append(out, i)
		}
	}
	return out
}

// packedRun returns the packed text of tokens i..j inclusive.
func (b blobs) packedRun(i, j int) string {
	return b.packed[b.packedSpans[i].start:b.packedSpans[j].end]
}
