// Package emitter collects generated constructs and writes them out as a
// manifest.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/yetics/armkit/internal/schema"
)

// Header marks files produced by this tool.
const Header = "generated by armkit"

// Construct is one typed wrapper to generate for a resource definition.
type Construct struct {
	FQN    string       `json:"fqn" yaml:"fqn"`
	Kind   string       `json:"kind" yaml:"kind"`
	Schema *schema.Node `json:"schema" yaml:"schema"`
}

// Emitter receives constructs one at a time, in the order they must appear
// in the generated output.
type Emitter interface {
	Emit(c Construct)
}

// Format selects the manifest encoding.
type Format string

// Supported manifest formats
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q; supported formats: %s, %s", s, FormatYAML, FormatJSON)
	}
}

// Manifest is an Emitter that keeps every construct in memory.
type Manifest struct {
	constructs []Construct
}

// NewManifest creates an empty Manifest
func NewManifest() *Manifest {
	return &Manifest{constructs: []Construct{}}
}

// Emit appends c to the manifest.
func (m *Manifest) Emit(c Construct) {
	m.constructs = append(m.constructs, c)
}

// Constructs returns the emitted constructs in emission order.
func (m *Manifest) Constructs() []Construct {
	return m.constructs
}

type document struct {
	Generated  string      `json:"generated" yaml:"generated"`
	Constructs []Construct `json:"constructs" yaml:"constructs"`
}

// Encode writes the manifest to w.
func (m *Manifest) Encode(w io.Writer, format Format) error {
	doc := document{Generated: Header, Constructs: m.constructs}

	switch format {
	case FormatJSON:
		// Schemas marshal themselves compactly, so the whole document is
		// re-indented in one pass.
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode manifest as JSON: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("failed to indent JSON manifest: %w", err)
		}
		buf.WriteByte('\n')
		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
	case FormatYAML:
		if _, err := fmt.Fprintf(w, "# %s\n", Header); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode manifest as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush YAML manifest: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}
