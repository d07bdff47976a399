// Package settings is a small key/value store for front-end preferences such
// as the last opened file. The file format follows the extension: .yaml/.yml,
// .toml, anything else is JSON.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// Well-known keys.
const (
	KeyLastFile   = "last_file"
	KeyLastColumn = "last_column"
	KeyPlotHeight = "plot_height"
)

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	jsonCodec = codec{
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "    ") },
		unmarshal: json.Unmarshal,
	}
	yamlCodec = codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
	tomlCodec = codec{marshal: toml.Marshal, unmarshal: toml.Unmarshal}
)

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec
	case ".toml":
		return tomlCodec
	}
	return jsonCodec
}

// Store holds settings in memory and writes them back on every Set.
// An empty path keeps everything in memory.
type Store struct {
	path   string
	codec  codec
	values map[string]any
}

// Open loads path if it exists. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, codec: codecFor(path), values: map[string]any{}}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load rereads the backing file, replacing the in-memory values.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	values := map[string]any{}
	if err := s.codec.unmarshal(b, &values); err != nil {
		return fmt.Errorf("settings %s: %w", s.path, err)
	}
	s.values = values
	return nil
}

// Save writes the store to its backing file.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	b, err := s.codec.marshal(s.values)
	if err != nil {
		return fmt.Errorf("settings %s: %w", s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o644)
}

// Get returns the value stored under key, or def.
func (s *Store) Get(key string, def any) any {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

func (s *Store) String(key, def string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

// Int reads whole numbers regardless of how the decoder typed them.
func (s *Store) Int(key string, def int) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Set stores value under key and saves immediately.
func (s *Store) Set(key string, value any) error {
	s.values[key] = value
	return s.Save()
}
