// Package tagspec holds the declarative field rules of the tag extractor.
//
// A FieldSpec names the labels printed next to a value on the tag, the shape
// the value must have, and (for fixed-vocabulary fields) the known OCR
// misreads of that vocabulary. Specs are plain data: new tag layouts are
// supported by editing a YAML file, not matcher code. A Set is validated and
// compiled once at startup; a compiled Set is read-only and shared.
package tagspec

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

// ErrInvalidSpec is returned for configuration that cannot be compiled.
var ErrInvalidSpec = errors.New("invalid tag spec")

// ShapeKind selects the character class of a field value.
type ShapeKind string

const (
	// Digits matches values made only of 0-9.
	Digits ShapeKind = "digits"
	// Alnum matches A-Z/0-9 values that contain at least one digit.
	Alnum ShapeKind = "alnum"
	// Code matches A-Z/0-9 segments joined by '-' or '/'.
	Code ShapeKind = "code"
)

// Shape describes the expected form of a value after normalization.
type Shape struct {
	Kind   ShapeKind `yaml:"kind" json:"kind"`
	MinLen int       `yaml:"min_len" json:"min_len"`
	MaxLen int       `yaml:"max_len" json:"max_len"`
}

// KnownValue is a canonical value assembled from sub-codes that OCR tends to
// emit as separate fragments, e.g. a site code and a zone code.
type KnownValue struct {
	Value string   `yaml:"value" json:"value"`
	Parts []string `yaml:"parts" json:"parts"`
}

// FieldSpec is the static rule set of one record field.
type FieldSpec struct {
	Name string `yaml:"name" json:"name"`

	// Labels are tried in order; put the most specific first.
	Labels []string `yaml:"labels" json:"labels"`

	Shape Shape `yaml:"shape" json:"shape"`

	// LabelOnly disables the shape fallback for free-form fields whose shape
	// would match almost any word.
	LabelOnly bool `yaml:"label_only,omitempty" json:"label_only,omitempty"`

	// Standalone also accepts, as a last resort, any token whose raw text is
	// a bare number of at most MaxLen digits. Only meaningful for digits.
	Standalone bool `yaml:"standalone,omitempty" json:"standalone,omitempty"`

	// Corrections maps a raw substring seen in a normalized token to the
	// canonical sub-code it stands for.
	Corrections map[string]string `yaml:"corrections,omitempty" json:"corrections,omitempty"`

	KnownValues []KnownValue `yaml:"known_values,omitempty" json:"known_values,omitempty"`

	// MaxEdits is the edit distance within which a whole token still counts
	// as a sighting of a canonical sub-code.
	MaxEdits int `yaml:"max_edits,omitempty" json:"max_edits,omitempty"`
}

func (fs FieldSpec) clone() FieldSpec {
	out := fs
	out.Labels = append([]string(nil), fs.Labels...)
	if fs.Corrections != nil {
		out.Corrections = make(map[string]string, len(fs.Corrections))
		for k, v := range fs.Corrections {
			out.Corrections[k] = v
		}
	}
	out.KnownValues = make([]KnownValue, len(fs.KnownValues))
	for i, kv := range fs.KnownValues {
		out.KnownValues[i] = KnownValue{Value: kv.Value, Parts: append([]string(nil), kv.Parts...)}
	}
	return out
}

// Set is the full field configuration of one tag layout.
type Set struct {
	Layout string      `yaml:"layout" json:"layout"`
	Fields []FieldSpec `yaml:"fields" json:"fields"`
}

// Label is a compiled field label.
type Label struct {
	Text string // as declared, upper case
	Key  string // with separators removed, for substring checks on tokens
	Re   *regexp.Regexp
}

// Correction is one raw substring and the sub-code it maps to.
type Correction struct {
	Raw       string
	Canonical string
}

// Field is a compiled FieldSpec.
type Field struct {
	Spec        FieldSpec
	Labels      []Label
	Corrections []Correction // longest raw first, then lexical
	Parts       []string     // every canonical sub-code, sorted

	whole *regexp.Regexp
	class *regexp.Regexp
}

// Compiled is an immutable, validated Set ready for extraction.
type Compiled struct {
	Layout string
	Fields []*Field
}

// Field returns the compiled field with the given name, or nil.
func (c *Compiled) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Spec.Name == name {
			return f
		}
	}
	return nil
}

// Matches reports whether a normalized value fully satisfies the shape.
func (f *Field) Matches(s string) bool {
	if !f.whole.MatchString(s) {
		return false
	}
	n := len(s)
	if n < f.Spec.Shape.MinLen || n > f.Spec.Shape.MaxLen {
		return false
	}
	if f.Spec.Shape.Kind == Alnum && !strings.ContainsAny(s, "0123456789") {
		return false
	}
	return true
}

// InClass reports whether every character of s belongs to the shape's
// character class, regardless of length.
func (f *Field) InClass(s string) bool {
	return s != "" && f.class.MatchString(s)
}

// HasCorrections reports whether the field takes part in known-value
// correction.
func (f *Field) HasCorrections() bool {
	return len(f.Spec.KnownValues) > 0
}

// capturePattern returns the regex fragment that captures a value of this
// shape inside a larger blob.
func capturePattern(s Shape) string {
	switch s.Kind {
	case Digits:
		if s.MinLen == s.MaxLen {
			return fmt.Sprintf(`\d{%d}`, s.MinLen)
		}
		return fmt.Sprintf(`\d{%d,%d}`, s.MinLen, s.MaxLen)
	case Alnum:
		return fmt.Sprintf(`[A-Z0-9]{%d,%d}`, s.MinLen, s.MaxLen)
	default:
		return `[A-Z0-9]+(?:[-/][A-Z0-9]+)*`
	}
}

func classPattern(k ShapeKind) string {
	switch k {
	case Digits:
		return `^\d+$`
	case Alnum:
		return `^[A-Z0-9]+$`
	default:
		return `^[A-Z0-9][A-Z0-9/-]*$`
	}
}

// labelKey strips the characters that token normalization removes, plus
// spaces, so a label can be searched for inside a single token.
func labelKey(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':', '.', '|', '[', ']':
			return -1
		}
		return r
	}, strings.ToUpper(label))
}

// labelPattern builds "LABEL <lazy non-alnum filler> (VALUE) <boundary>".
// Words of a multi-word label may be separated by one space or merged.
//
// A digits value may follow its label directly (QTY30). A value that can
// hold letters needs at least one separator, otherwise a short label such
// as LOC would read the rest of LOCATION as its value.
func labelPattern(label string, s Shape) string {
	words := strings.Fields(strings.ToUpper(label))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(labelKey(w))
	}
	filler := `[^A-Z0-9]*?`
	if s.Kind != Digits {
		filler = `[^A-Z0-9]+?`
	}
	return `(?:^|[^A-Z0-9])` + strings.Join(words, ` ?`) +
		filler + `(` + capturePattern(s) + `)(?:[^A-Z0-9/-]|$)`
}

// Compile validates a Set and prepares its regular expressions. It is the
// only place configuration errors surface.
func Compile(set Set) (*Compiled, error) {
	if len(set.Fields) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrInvalidSpec)
	}
	seen := make(map[string]bool)
	out := &Compiled{Layout: set.Layout}
	for i, fs := range set.Fields {
		f, err := compileField(fs)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, fs.Name, err)
		}
		if seen[fs.Name] {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidSpec, fs.Name)
		}
		seen[fs.Name] = true
		out.Fields = append(out.Fields, f)
	}
	for _, name := range tag.Fields {
		if !seen[name] {
			return nil, fmt.Errorf("%w: missing field %q", ErrInvalidSpec, name)
		}
	}
	return out, nil
}

func compileField(fs FieldSpec) (*Field, error) {
	if !tag.IsKnownField(fs.Name) {
		return nil, fmt.Errorf("%w: unknown field name %q", ErrInvalidSpec, fs.Name)
	}
	switch fs.Shape.Kind {
	case Digits, Alnum, Code:
	default:
		return nil, fmt.Errorf("%w: unknown shape kind %q", ErrInvalidSpec, fs.Shape.Kind)
	}
	if fs.Shape.MinLen < 1 || fs.Shape.MaxLen < fs.Shape.MinLen {
		return nil, fmt.Errorf("%w: shape length range %d..%d", ErrInvalidSpec, fs.Shape.MinLen, fs.Shape.MaxLen)
	}
	if fs.Standalone && fs.Shape.Kind != Digits {
		return nil, fmt.Errorf("%w: standalone requires a digits shape", ErrInvalidSpec)
	}
	if fs.MaxEdits < 0 {
		return nil, fmt.Errorf("%w: negative max_edits", ErrInvalidSpec)
	}

	fs = fs.clone()
	f := &Field{Spec: fs}
	var err error
	if f.whole, err = regexp.Compile(`^(?:` + capturePattern(fs.Shape) + `)$`); err != nil {
		return nil, fmt.Errorf("%w: shape: %v", ErrInvalidSpec, err)
	}
	f.class = regexp.MustCompile(classPattern(fs.Shape.Kind))

	for _, l := range fs.Labels {
		key := labelKey(l)
		if key == "" {
			return nil, fmt.Errorf("%w: empty label", ErrInvalidSpec)
		}
		re, err := regexp.Compile(labelPattern(l, fs.Shape))
		if err != nil {
			return nil, fmt.Errorf("%w: label %q: %v", ErrInvalidSpec, l, err)
		}
		f.Labels = append(f.Labels, Label{Text: strings.ToUpper(l), Key: key, Re: re})
	}

	parts := make(map[string]bool)
	for raw, canon := range fs.Corrections {
		r, c := labelKey(raw), strings.ToUpper(canon)
		if r == "" || c == "" {
			return nil, fmt.Errorf("%w: empty correction %q -> %q", ErrInvalidSpec, raw, canon)
		}
		f.Corrections = append(f.Corrections, Correction{Raw: r, Canonical: c})
		parts[c] = true
	}
	sort.Slice(f.Corrections, func(i, j int) bool {
		a, b := f.Corrections[i], f.Corrections[j]
		if len(a.Raw) != len(b.Raw) {
			return len(a.Raw) > len(b.Raw)
		}
		return a.Raw < b.Raw
	})
	for i, kv := range fs.KnownValues {
		if kv.Value == "" || len(kv.Parts) == 0 {
			return nil, fmt.Errorf("%w: known value %d needs a value and parts", ErrInvalidSpec, i)
		}
		for j, p := range kv.Parts {
			p = strings.ToUpper(p)
			fs.KnownValues[i].Parts[j] = p
			parts[p] = true
		}
	}
	for p := range parts {
		f.Parts = append(f.Parts, p)
	}
	sort.Strings(f.Parts)
	return f, nil
}
