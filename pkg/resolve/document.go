package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a structured data syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Document is a parsed top-level object.
type Document map[string]any

// ParseError reports that a side of a conflict is not valid structured data.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errEmptyDocument = errors.New("empty document")

// ParseDocument parses lines as a single object in the given format.
// Failures are always *ParseError.
func ParseDocument(lines []string, format Format) (Document, error) {
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Format: format, Err: errEmptyDocument}
	}

	var (
		doc map[string]any
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(text)
	case FormatYAML:
		err = yaml.Unmarshal([]byte(text), &doc)
	case FormatTOML:
		err = toml.Unmarshal([]byte(text), &doc)
	default:
		err = fmt.Errorf("unsupported format")
	}

	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	if doc == nil {
		return nil, &ParseError{Format: format, Err: errEmptyDocument}
	}
	return Document(doc), nil
}

func decodeJSON(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	return obj, nil
}

// Encode renders the document in the given format, two-space indented.
func (d Document) Encode(format Format) ([]string, error) {
	var buf bytes.Buffer

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any(d)); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(d)); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatTOML:
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(map[string]any(d)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DeepMerge merges override into base and returns a new document. When both
// sides hold an object under the same key the objects are merged
// recursively, otherwise the override value wins. Arrays are replaced, not
// concatenated. Neither input is modified.
func DeepMerge(base, override Document) Document {
	out := base.Clone()

	for k, ov := range override {
		om, overrideIsMap := ov.(map[string]any)
		bm, baseIsMap := out[k].(map[string]any)
		if overrideIsMap && baseIsMap {
			out[k] = map[string]any(DeepMerge(bm, om))
			continue
		}
		out[k] = ov
	}

	return out
}
