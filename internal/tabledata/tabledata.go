// Package tabledata reads braille table documents: YAML decoded through
// yaml.Node so duplicate keys are reported with positions, then checked
// against an embedded JSON Schema.
package tabledata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tables.yaml
var defaultTables []byte

//go:embed tables.schema.json
var schemaJSON []byte

const schemaURL = "tables.schema.json"

// Default returns the embedded table document.
func Default() []byte { return append([]byte(nil), defaultTables...) }

// Schema returns the embedded JSON Schema for table documents.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

var (
	schemaOnce sync.Once
	compiled   *jsonschema.Schema
	compileErr error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// SchemaError lists the schema violations of a document, one per leaf.
type SchemaError struct {
	Violations []Violation
}

// Violation is a single schema failure at an instance location.
type Violation struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Path+": "+v.Message)
	}
	return "table document does not match schema: " + strings.Join(msgs, "; ")
}

// Read decodes one table document and validates it against the schema. The
// result uses map[string]any for mappings, []any for sequences and string
// for every scalar.
func Read(r io.Reader) (map[string]any, error) {
	v, err := decodeStrict(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("table document is empty")
		}
		return nil, err
	}
	if err := Validate(v); err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("table document must be a mapping")
	}
	return doc, nil
}

// ReadDefault decodes the embedded table document.
func ReadDefault() (map[string]any, error) { return Read(bytes.NewReader(defaultTables)) }

// Validate checks a decoded document against the schema.
func Validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &SchemaError{Violations: leaves(ve, nil)}
		}
		return err
	}
	return nil
}

func leaves(ve *jsonschema.ValidationError, out []Violation) []Violation {
	if len(ve.Causes) == 0 {
		path := ve.InstanceLocation
		if path == "" {
			path = "/"
		}
		return append(out, Violation{Path: path, Message: ve.Message})
	}
	for _, c := range ve.Causes {
		out = leaves(c, out)
	}
	return out
}
