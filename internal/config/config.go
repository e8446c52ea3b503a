package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrSectionNotFound reports a configuration key with no matching table.
var ErrSectionNotFound = errors.New("configuration section not found")

// Common holds the top-level options shared by every node.
type Common struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// File is one parsed configuration file.
type File struct {
	path   string
	common Common
	tables map[string]any
}

// Load parses the TOML file at path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	f := &File{path: path, tables: make(map[string]any)}
	for key, value := range doc {
		switch key {
		case "log_level":
			if s, ok := value.(string); ok {
				f.common.LogLevel = s
			}
		case "log_format":
			if s, ok := value.(string); ok {
				f.common.LogFormat = s
			}
		default:
			f.tables[key] = value
		}
	}
	return f, nil
}

// Common returns the file's shared options.
func (f *File) Common() Common { return f.common }

// HasSection reports whether the file defines a table for key.
func (f *File) HasSection(key string) bool {
	_, ok := f.tables[key]
	return ok
}

// Section decodes the table named key into out. Unknown fields in the
// table are errors so misspelled options surface at startup.
func (f *File) Section(key string, out any) error {
	value, ok := f.tables[key]
	if !ok {
		return fmt.Errorf("%s: key %q: %w", f.path, key, ErrSectionNotFound)
	}

	encoded, err := toml.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: re-encode section %q: %w", f.path, key, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: section %q: %w", f.path, key, err)
	}
	return nil
}
