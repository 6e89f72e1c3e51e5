package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pior/eshttp/document"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// useColor resolves a color mode for w. In auto mode, only terminals get colors.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
}

// SchemaError lists the violations of a document against a JSON schema.
type SchemaError struct {
	Err *jsonschema.ValidationError
}

func (e *SchemaError) Error() string {
	return "document does not match schema: " + e.Err.Error()
}

// Schema validates documents against a compiled JSON schema.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles the schema text.
func CompileSchema(text []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(text)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// LoadSchema reads and compiles a schema file.
func LoadSchema(path string) (*Schema, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return CompileSchema(text)
}

// Validate checks doc, including its status member.
func (s *Schema) Validate(doc *document.Object) error {
	dec := json.NewDecoder(strings.NewReader(doc.String()))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	if err := s.schema.Validate(v); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return &SchemaError{Err: verr}
		}
		return err
	}
	return nil
}
