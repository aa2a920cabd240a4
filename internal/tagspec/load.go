package tagspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML (or JSON) layout document, validates it against the
// schema and compiles it.
func Parse(data []byte) (*Compiled, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse: %v", ErrInvalidSpec, err)
	}
	doc, err := toJSONValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to convert document: %v", ErrInvalidSpec, err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: failed to decode: %v", ErrInvalidSpec, err)
	}
	return Compile(set)
}

// Load reads a layout file. An empty path selects the built-in layout.
func Load(path string) (*Compiled, error) {
	if path == "" {
		return Compile(Default())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag spec: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes a layout as YAML.
func Marshal(set Set) ([]byte, error) {
	return yaml.Marshal(set)
}

// WriteDefault writes the built-in layout to path so it can be edited.
func WriteDefault(path string) error {
	data, err := Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal tag spec: %w", err)
	}
	header := []byte(`# Inventory tag layout
# Labels are tried in order, most specific first.
# Shape kinds: digits | alnum (must contain a digit) | code (segments joined by - or /)

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
