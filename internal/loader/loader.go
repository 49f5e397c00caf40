// Package loader reads episode files into shows.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension is not a known format.
	ErrUnsupportedFormat = errors.New("unsupported episode file format")

	// ErrInvalidFile is returned when a file does not match the episode file layout.
	ErrInvalidFile = errors.New("invalid episode file")
)

// Format is an episode file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ReadFile reads path and returns its content and the format named by its
// extension.
func ReadFile(path string) ([]byte, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read episode file: %w", err)
	}
	return data, format, nil
}

// Load reads and parses an episode file, picking the format from its
// extension.
func Load(path string) (*models.Show, error) {
	data, format, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data, format)
}

// LoadFormat reads and parses an episode file in the given format,
// whatever its extension.
func LoadFormat(path string, format Format) (*models.Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read episode file: %w", err)
	}
	return Decode(path, data, format)
}

// Decode parses the content of the file at path. A show without a title is
// named after the file.
func Decode(path string, data []byte, format Format) (*models.Show, error) {
	show, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if show.Title == "" {
		show.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return show, nil
}

// Parse decodes episode file content in the given format.
func Parse(data []byte, format Format) (*models.Show, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatCSV:
		return parseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parseJSON(data []byte) (*models.Show, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return d.show(), nil
}

func parseYAML(data []byte) (*models.Show, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return d.show(), nil
}
