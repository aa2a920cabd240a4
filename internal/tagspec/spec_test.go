package tagspec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

func TestCompile_Default(t *testing.T) {
	c, err := Compile(Default())
	if err != nil {
		t.Fatalf("Compile(Default()) failed: %v", err)
	}
	if len(c.Fields) != len(tag.Fields) {
		t.Fatalf("got %d fields, want %d", len(c.Fields), len(tag.Fields))
	}
	for _, name := range tag.Fields {
		if c.Field(name) == nil {
			t.Errorf("field %s missing", name)
		}
	}
	if c.Field("serial") != nil {
		t.Error("Field(serial) should be nil")
	}
}

func TestField_Matches(t *testing.T) {
	c := MustDefault()
	tests := []struct {
		field string
		value string
		want  bool
	}{
		{tag.Book, "1940", true},
		{tag.Book, "194", false},
		{tag.Book, "19401", false},
		{tag.Book, "9940X", false},
		{tag.Tag, "48490", true},
		{tag.Tag, "4849", false},
		{tag.Material, "ABC1234567", true},
		{tag.Material, "DESCRIPTION", false},
		{tag.Material, "AB12", false},
		{tag.Quantity, "30", true},
		{tag.Quantity, "0", true},
		{tag.Quantity, "30000", false},
		{tag.Location, "WIP-UBC", true},
		{tag.Location, "A/12", true},
		{tag.Location, "-A", false},
	}
	for _, tt := range tests {
		t.Run(tt.field+"_"+tt.value, func(t *testing.T) {
			if got := c.Field(tt.field).Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%q): got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestField_InClass(t *testing.T) {
	f := MustDefault().Field(tag.Book)
	if !f.InClass("19") {
		t.Error("InClass(19) should be true")
	}
	if f.InClass("1A") {
		t.Error("InClass(1A) should be false")
	}
	if f.InClass("") {
		t.Error("InClass(\"\") should be false")
	}
}

func TestLabelPattern_Separators(t *testing.T) {
	c := MustDefault()
	loc := c.Field(tag.Location)
	qty := c.Field(tag.Quantity)

	var short Label
	for _, l := range loc.Labels {
		if l.Text == "LOC" {
			short = l
		}
	}
	if short.Re == nil {
		t.Fatal("default layout has no LOC label")
	}

	tests := []struct {
		name string
		re   Label
		blob string
		want string
	}{
		{"code after separator", short, "LOC B-07", "B-07"},
		{"code never taken from the label word", short, "LOCATION", ""},
		{"code never taken from a longer label", short, "STORAGE LOCATION", ""},
		{"digits may follow directly", qty.Labels[1], "QTY30", "30"},
		{"digits after separator", qty.Labels[1], "QTY 30", "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			if m := tt.re.Re.FindStringSubmatch(tt.blob); len(m) > 1 {
				got = m[1]
			}
			if got != tt.want {
				t.Errorf("%s on %q: got %q, want %q", tt.re.Text, tt.blob, got, tt.want)
			}
		})
	}
}

func TestCompile_LabelsAndCorrections(t *testing.T) {
	c := MustDefault()

	tg := c.Field(tag.Tag)
	if tg.Labels[0].Text != "TAG SR NO" || tg.Labels[0].Key != "TAGSRNO" {
		t.Errorf("first tag label: got %+v", tg.Labels[0])
	}
	m := tg.Labels[0].Re.FindStringSubmatch("BOOK NO 1940 TAG SR NO 48490 QTY 30")
	if len(m) < 2 || m[1] != "48490" {
		t.Errorf("label regex: got %v, want capture 48490", m)
	}
	if tg.Labels[0].Re.MatchString("TAG SR NO 484901") {
		t.Error("label regex should not slice a longer number")
	}

	loc := c.Field(tag.Location)
	if !loc.HasCorrections() {
		t.Fatal("location should have corrections")
	}
	if want := []string{"UBC", "WIP"}; strings.Join(loc.Parts, ",") != strings.Join(want, ",") {
		t.Errorf("parts: got %v, want %v", loc.Parts, want)
	}
	for i := 1; i < len(loc.Corrections); i++ {
		if len(loc.Corrections[i-1].Raw) < len(loc.Corrections[i].Raw) {
			t.Errorf("corrections not sorted longest first: %v", loc.Corrections)
		}
	}
	if c.Field(tag.Book).HasCorrections() {
		t.Error("book should not have corrections")
	}
}

func TestCompile_DoesNotMutateInput(t *testing.T) {
	set := Default()
	set.Fields[4].KnownValues[0].Parts = []string{"wip", "ubc"}
	if _, err := Compile(set); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if set.Fields[4].KnownValues[0].Parts[0] != "wip" {
		t.Errorf("input mutated: %v", set.Fields[4].KnownValues[0].Parts)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Set)
	}{
		{"no fields", func(s *Set) { s.Fields = nil }},
		{"unknown name", func(s *Set) { s.Fields[0].Name = "serial" }},
		{"duplicate", func(s *Set) { s.Fields[1].Name = tag.Book }},
		{"missing", func(s *Set) { s.Fields = s.Fields[:4] }},
		{"bad kind", func(s *Set) { s.Fields[0].Shape.Kind = "hex" }},
		{"bad range", func(s *Set) { s.Fields[0].Shape.MinLen = 5 }},
		{"zero min", func(s *Set) { s.Fields[0].Shape.MinLen = 0 }},
		{"empty label", func(s *Set) { s.Fields[0].Labels = []string{" : "} }},
		{"standalone alnum", func(s *Set) { s.Fields[2].Standalone = true }},
		{"negative edits", func(s *Set) { s.Fields[4].MaxEdits = -1 }},
		{"empty known value", func(s *Set) { s.Fields[4].KnownValues = []KnownValue{{Value: "X"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Default()
			tt.mutate(&set)
			_, err := Compile(set)
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("got %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Layout != "physical-inventory" {
		t.Errorf("layout: got %q", c.Layout)
	}
	if got := c.Field(tag.Location).Spec.KnownValues[0].Value; got != "WIP-UBC" {
		t.Errorf("known value: got %q", got)
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "fields: [\n"},
		{"missing fields", "layout: x\n"},
		{"unknown key", "fields: []\nextra: 1\n"},
		{"bad kind", `fields:
  - name: book
    shape: {kind: hex, min_len: 4, max_len: 4}
`},
		{"string length", `fields:
  - name: book
    shape: {kind: digits, min_len: four, max_len: 4}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("got %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil || c == nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}
	if c.Field(tag.Quantity) == nil {
		t.Error("quantity field missing after reload")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("fields: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Load(bad): got %v, want ErrInvalidSpec", err)
	}
}
