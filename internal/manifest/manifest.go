// Package manifest loads page descriptions for the domshim CLI.
//
// A manifest names the HTML document, the scripts to run against it in order,
// and the events the host should fire once the scripts are done. YAML and
// TOML are accepted; the format follows the file extension.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Format is a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = errors.New("manifest: unknown format")

// Event is a host triggered dispatch: fire Type at every node that matches
// Selector.
type Event struct {
	Selector string `yaml:"selector" toml:"selector"`
	Type     string `yaml:"type" toml:"type"`
}

// Manifest describes one page run.
type Manifest struct {
	HTML    string   `yaml:"html" toml:"html"`
	Scripts []string `yaml:"scripts" toml:"scripts"`
	Events  []Event  `yaml:"events" toml:"events"`

	dir string
}

// FormatFor picks the format from a file name.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads and validates the manifest at path. Relative paths inside it
// resolve against the manifest's directory.
func Load(path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read: %w", err)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("manifest: YAML parse error: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("manifest: TOML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields.
func (m *Manifest) Validate() error {
	if m.HTML == "" {
		return errors.New("manifest: html is required")
	}
	for i, ev := range m.Events {
		if ev.Selector == "" || ev.Type == "" {
			return fmt.Errorf("manifest: event %d needs both selector and type", i)
		}
	}
	return nil
}

// Resolve returns p relative to the manifest's directory unless it is absolute.
func (m *Manifest) Resolve(p string) string {
	if filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// HTMLPath is the resolved document path.
func (m *Manifest) HTMLPath() string {
	return m.Resolve(m.HTML)
}

// ScriptPaths are the resolved script paths in run order.
func (m *Manifest) ScriptPaths() []string {
	paths := make([]string, len(m.Scripts))
	for i, s := range m.Scripts {
		paths[i] = m.Resolve(s)
	}
	return paths
}
