package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/UTD-JLA/odict/pkg/orderedmap"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat = errors.New("unknown document format")
	ErrNotObject     = errors.New("top level must be an object")
	ErrTrailingData  = errors.New("trailing data after document")
)

type Mapping = orderedmap.OrderedMap[string, any]

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Read decodes a document whose top level is an object. The returned mapping
// keeps the document's key order; nested objects are plain maps. JSON numbers
// are kept as json.Number so writing the mapping back does not round them.
// A null or empty top level reads as an empty mapping.
func Read(r io.Reader, format Format) (*Mapping, error) {
	m := orderedmap.New[string, any]()

	var err error
	switch format {
	case FormatJSON:
		err = readJSON(r, m)
	case FormatYAML:
		err = readYAML(r, m)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}

	return m, nil
}

func readJSON(r io.Reader, m *Mapping) error {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	token, err := decoder.Token()
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return err
	}

	switch token {
	case nil:
	case json.Delim('{'):
		for decoder.More() {
			if token, err = decoder.Token(); err != nil {
				return err
			}

			key, ok := token.(string)
			if !ok {
				return fmt.Errorf("unexpected %v in object", token)
			}

			var value any
			if err = decoder.Decode(&value); err != nil {
				return err
			}

			m.Set(key, value)
		}

		// closing brace
		if _, err = decoder.Token(); errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		} else if err != nil {
			return err
		}
	default:
		return ErrNotObject
	}

	if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}

	return nil
}

func readYAML(r io.Reader, m *Mapping) error {
	decoder := yaml.NewDecoder(r)

	var doc yaml.Node
	err := decoder.Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return err
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch {
	case root.Kind == yaml.DocumentNode, root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
	case root.Kind == yaml.MappingNode:
		if err = root.Decode(m); err != nil {
			return err
		}
	default:
		return ErrNotObject
	}

	var next yaml.Node
	if err = decoder.Decode(&next); errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return err
	}

	return ErrTrailingData
}

// ReadFile reads path, or stdin when path is "-". An empty format is inferred
// from the file extension.
func ReadFile(path string, format Format) (*Mapping, error) {
	var err error

	if format == "" {
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	if path == "-" {
		return Read(os.Stdin, format)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %s: %w", path, err)
	}

	defer file.Close()

	return Read(file, format)
}

func Write(w io.Writer, m *Mapping, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(m)
	case FormatYAML:
		plain := orderedmap.New[string, any]()
		for key, value := range m.All() {
			plain.Set(key, yamlValue(value))
		}

		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(plain); err != nil {
			return err
		}
		return encoder.Close()
	}

	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// yamlValue turns json.Number values into numeric YAML scalars, which yaml.v3
// would otherwise emit as quoted strings.
func yamlValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = yamlValue(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = yamlValue(value)
		}
		return out
	}

	return v
}

// ParseScalar reads a command line argument the way YAML reads a scalar, so
// 2 is a number, true is a bool and "2" is a string.
func ParseScalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	if v == nil && strings.TrimSpace(s) == "" {
		return s
	}
	return v
}

// Equal compares values by their JSON encoding, so an int read from YAML
// equals the same number read from JSON.
func Equal(a, b any) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}

	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}

	return bytes.Equal(ja, jb)
}
