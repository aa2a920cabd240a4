package extract

import (
	"errors"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

// Source tells where a field value came from.
type Source string

const (
	SourceLabel      Source = "label_match"
	SourceShape      Source = "shape_match"
	SourceCorrection Source = "correction"
	SourceNone       Source = "none"
)

// FieldResult is the outcome for one field of one scan. Value is "" exactly
// when Source is SourceNone.
type FieldResult struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Source Source `json:"source"`
}

// Result is the assembled record plus how each field was obtained.
type Result struct {
	Record tag.Record    `json:"record"`
	Fields []FieldResult `json:"fields"`
}

// Field returns the result for the named field.
func (r Result) Field(name string) FieldResult {
	for _, f := range r.Fields {
		if f.Field == name {
			return f
		}
	}
	return FieldResult{Field: name, Source: SourceNone}
}

// Engine applies a compiled layout to token streams. It is immutable.
type Engine struct {
	spec *tagspec.Compiled
}

// New returns an engine for a compiled layout.
func New(spec *tagspec.Compiled) (*Engine, error) {
	if spec == nil || len(spec.Fields) == 0 {
		return nil, errors.New("extract: nil tag spec")
	}
	return &Engine{spec: spec}, nil
}

// Spec returns the layout the engine was built with.
func (e *Engine) Spec() *tagspec.Compiled {
	return e.spec
}

// Extract runs the engine over plain fragments in emission order.
func (e *Engine) Extract(fragments []string) Result {
	return e.ExtractTokens(tag.Tokens(fragments))
}

// ExtractTokens runs the engine over indexed fragments. It always returns a
// result with one FieldResult per layout field.
func (e *Engine) ExtractTokens(raw []tag.RawToken) Result {
	toks := Tokenize(raw)
	b := buildBlobs(toks)

	found := make([]FieldResult, len(e.spec.Fields))
	used := make(map[int]bool)
	claim := func(m match) {
		for _, i := range m.tokens {
			used[i] = true
		}
	}

	for i, f := range e.spec.Fields {
		found[i] = FieldResult{Field: f.Spec.Name, Source: SourceNone}
		if m, ok := matchLabel(f, toks, b); ok {
			found[i].Value, found[i].Source = m.value, SourceLabel
			claim(m)
		}
	}
	// Earlier fields claim shape matches first, so field order settles
	// conflicts between fields of overlapping shape.
	for i, f := range e.spec.Fields {
		if found[i].Source != SourceNone {
			continue
		}
		if m, ok := matchShape(f, toks, b, used); ok {
			found[i].Value, found[i].Source = m.value, SourceShape
			claim(m)
		}
	}
	for i, f := range e.spec.Fields {
		if v, ok := correct(f, toks); ok {
			found[i].Value, found[i].Source = v, SourceCorrection
		}
	}

	res := Result{Fields: found}
	for _, fr := range found {
		res.Record.Set(fr.Field, fr.Value)
	}
	return res
}
