// Package tag defines the values that flow between the OCR collaborator,
// the field extraction engine and the inventory ledger.
package tag

import "strings"

// Field names, in ledger column order.
const (
	Book     = "book"
	Tag      = "tag"
	Material = "material"
	Quantity = "quantity"
	Location = "location"
)

// Fields lists every record field in ledger column order.
var Fields = []string{Book, Tag, Material, Quantity, Location}

// RawToken is one text fragment as emitted by the OCR pass.
//
// Index reflects emission order. It is the best available proxy for reading
// order, not a guarantee of it.
type RawToken struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Tokens wraps plain fragments as RawTokens numbered in slice order.
func Tokens(fragments []string) []RawToken {
	out := make([]RawToken, len(fragments))
	for i, f := range fragments {
		out[i] = RawToken{Text: f, Index: i}
	}
	return out
}

// Record is one inventory tag, one row of the ledger.
//
// All fields are strings and independently editable before commit; an empty
// field means no evidence was found and a human has to fill it in.
type Record struct {
	Book     string `json:"book"`
	Tag      string `json:"tag"`
	Material string `json:"material"`
	Quantity string `json:"quantity"`
	Location string `json:"location"`
}

// Get returns the value of the named field, or "" for an unknown name.
func (r Record) Get(field string) string {
	switch field {
	case Book:
		return r.Book
	case Tag:
		return r.Tag
	case Material:
		return r.Material
	case Quantity:
		return r.Quantity
	case Location:
		return r.Location
	}
	return ""
}

// Set assigns the named field. It reports false for an unknown name.
func (r *Record) Set(field, value string) bool {
	switch field {
	case Book:
		r.Book = value
	case Tag:
		r.Tag = value
	case Material:
		r.Material = value
	case Quantity:
		r.Quantity = value
	case Location:
		r.Location = value
	default:
		return false
	}
	return true
}

// Values returns the field values in ledger column order.
func (r Record) Values() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = r.Get(f)
	}
	return out
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r Record) Trimmed() Record {
	var out Record
	for _, f := range Fields {
		out.Set(f, strings.TrimSpace(r.Get(f)))
	}
	return out
}

// IsEmpty reports whether no field carries a value.
func (r Record) IsEmpty() bool {
	for _, f := range Fields {
		if r.Get(f) != "" {
			return false
		}
	}
	return true
}

// IsKnownField reports whether name is one of the record fields.
func IsKnownField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
