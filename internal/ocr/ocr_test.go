package ocr

import (
	"math"
	"testing"
)

func TestMeanConfidence(t *testing.T) {
	tests := []struct {
		name string
		res  *Result
		want float64
	}{
		{"nil", nil, 0},
		{"no words", &Result{}, 0},
		{"single", &Result{Words: []Word{{Text: "QTY", Confidence: 0.8}}}, 0.8},
		{"mean", &Result{Words: []Word{{Confidence: 0.9}, {Confidence: 0.5}}}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.MeanConfidence(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MeanConfidence() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	res := &Result{Words: []Word{
		{Text: "BOOK", Confidence: 0.9},
		{Text: "  ", Confidence: 0.9},
		{Text: "~", Confidence: 0.1},
		{Text: "NO", Confidence: 0.6},
		{Text: "1940", Confidence: 0.95},
	}}

	got := res.Tokens(0.5)
	want := []string{"BOOK", "NO", "1940"}
	if len(got) != len(want) {
		t.Fatalf("Tokens: got %d tokens, want %d", len(got), len(want))
	}
	for i, tok := range got {
		if tok.Text != want[i] || tok.Index != i {
			t.Errorf("token %d: got %+v, want %q at %d", i, tok, want[i], i)
		}
	}

	if all := res.Tokens(0); len(all) != 4 {
		t.Errorf("Tokens(0): got %d tokens, want 4", len(all))
	}
}

func TestTokens_Nil(t *testing.T) {
	var res *Result
	if got := res.Tokens(0); got != nil {
		t.Errorf("nil result: got %v", got)
	}
}
