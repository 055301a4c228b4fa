package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema the model output must satisfy. It compiles on
// first use.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewSchema returns a schema with the given kebab-case name.
func NewSchema(name, description string, definition map[string]any) *Schema {
	return &Schema{Name: name, Description: description, Definition: definition}
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		// The compiler wants decoded JSON, not Go maps with typed slices.
		raw, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			s.err = err
			return
		}
		url := fmt.Sprintf("mem://%s.json", s.Name)
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = err
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}

// Check decodes raw and validates it.
func (s *Schema) Check(raw json.RawMessage) error {
	compiled, err := s.compile()
	if err != nil {
		return invalidOutput(raw, "compile schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalidOutput(raw, "not JSON: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return invalidOutput(raw, "schema %s: %w", s.Name, err)
	}
	return nil
}
