package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a spec file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadSpec reads a spec file. The format is chosen by extension.
func LoadSpec(path string) (Spec, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Spec{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("reading schema %s: %w", path, err)
	}
	spec, err := ParseSpec(bytes.NewReader(data), format)
	if err != nil {
		return Spec{}, fmt.Errorf("parsing schema %s: %w", path, err)
	}
	return spec, nil
}

// ParseSpec decodes a spec in the given format.
func ParseSpec(r io.Reader, format Format) (Spec, error) {
	var spec Spec
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&spec); err != nil {
			return Spec{}, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
			return Spec{}, err
		}
	case FormatTOML:
		if err := toml.NewDecoder(r).Decode(&spec); err != nil {
			return Spec{}, err
		}
	default:
		return Spec{}, ErrUnsupportedFormat
	}
	if spec.Nodes == nil {
		spec.Nodes = map[string]NodeSpec{}
	}
	return spec, nil
}

// Load reads a spec file and compiles it.
func Load(path string) (*Schema, error) {
	spec, err := LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return New(spec)
}
