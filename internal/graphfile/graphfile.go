// Package graphfile reads skill graph documents from disk. JSON and YAML
// documents are checked against an embedded JSON Schema before decoding;
// HCL documents are decoded from node, connection and specialization
// blocks.
package graphfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// Format identifies a graph document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Source is a persistence.GraphSource backed by a file.
type Source struct {
	Path string
}

var _ persistence.GraphSource = Source{}

// FetchGraph reads and decodes the file.
func (s Source) FetchGraph(ctx context.Context) (skillgraph.Data, error) {
	if err := ctx.Err(); err != nil {
		return skillgraph.Data{}, err
	}
	return Load(s.Path)
}

// Builtin serves the graph compiled into the binary.
type Builtin struct{}

// FetchGraph returns skillgraph.Default.
func (Builtin) FetchGraph(ctx context.Context) (skillgraph.Data, error) {
	if err := ctx.Err(); err != nil {
		return skillgraph.Data{}, err
	}
	return skillgraph.Default(), nil
}

// SourceFor returns a file source for path, or Builtin when path is empty.
func SourceFor(path string) persistence.GraphSource {
	if path == "" {
		return Builtin{}
	}
	return Source{Path: path}
}

// Load reads the graph document at path.
func Load(path string) (skillgraph.Data, error) {
	format, err := FormatOf(path)
	if err != nil {
		return skillgraph.Data{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return skillgraph.Data{}, fmt.Errorf("read graph: %w", err)
	}
	return Parse(format, b, path)
}

// Parse decodes a graph document. name is used in error messages.
func Parse(format Format, b []byte, name string) (skillgraph.Data, error) {
	switch format {
	case FormatJSON:
		return parseJSON(b, name)
	case FormatYAML:
		return parseYAML(b, name)
	case FormatHCL:
		return parseHCL(b, name)
	}
	return skillgraph.Data{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func parseJSON(b []byte, name string) (skillgraph.Data, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return skillgraph.Data{}, fmt.Errorf("parse graph %s: %w", name, err)
	}
	if err := validateDocument(doc, name); err != nil {
		return skillgraph.Data{}, err
	}

	var data skillgraph.Data
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&data); err != nil {
		return skillgraph.Data{}, fmt.Errorf("decode graph %s: %w", name, err)
	}
	return data, nil
}

// parseYAML re-encodes the document as JSON so both share one schema and
// one decoder.
func parseYAML(b []byte, name string) (skillgraph.Data, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return skillgraph.Data{}, fmt.Errorf("parse graph %s: %w", name, err)
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return skillgraph.Data{}, fmt.Errorf("convert graph %s to json: %w", name, err)
	}
	return parseJSON(j, name)
}

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func graphSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://skillgraph.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

func validateDocument(doc any, name string) error {
	s, err := graphSchema()
	if err != nil {
		return fmt.Errorf("compile graph schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return &SchemaError{Path: name, Err: err}
	}
	return nil
}
