// Package config reads user text object definitions from configuration files.
//
// Files are parsed by the loader package according to their extension.
// The definitions live under one of three keys, checked in order:
//
//	customTextObjects           top-level list
//	vim = { customTextObjects } nested table
//	"vim.customTextObjects"     flat key, as in editor settings.json files
//
// Entries are kept as raw Records; decoding happens per record so one bad
// entry does not discard the rest.
package config

import (
	"fmt"

	"github.com/dshills/textobjects/internal/config/loader"
)

// Setting keys under which text objects are read.
const (
	KeyTextObjects    = "customTextObjects"
	KeySection        = "vim"
	KeyFlatTextObject = KeySection + "." + KeyTextObjects
)

// Config is the loaded text object configuration.
type Config struct {
	// Path is the file the configuration was read from, if any.
	Path string

	// TextObjects are the raw entries in file order.
	TextObjects []Record
}

// Load reads the configuration at path from the OS file system.
// A missing file yields an empty configuration.
func Load(path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS reads the configuration at path from fsys.
func LoadWithFS(fsys loader.FileSystem, path string) (*Config, error) {
	l, err := loader.ForPath(fsys, path)
	if err != nil {
		return nil, err
	}
	m, err := l.Load()
	if err != nil {
		return nil, err
	}
	cfg, err := FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// FromMap extracts text object records from a parsed configuration map.
func FromMap(m map[string]any) (*Config, error) {
	cfg := &Config{}

	raw, ok := lookup(m)
	if !ok || raw == nil {
		return cfg, nil
	}

	list, ok := raw.([]any)
	if !ok {
		if tbl, isMap := raw.(map[string]any); isMap && len(tbl) == 0 {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: got %T", ErrNotList, raw)
	}

	cfg.TextObjects = make([]Record, len(list))
	for i, entry := range list {
		if rec, ok := asMap(entry); ok {
			cfg.TextObjects[i] = Record(rec)
		}
	}
	return cfg, nil
}

func lookup(m map[string]any) (any, bool) {
	if v, ok := m[KeyTextObjects]; ok {
		return v, true
	}
	if section, ok := asMap(m[KeySection]); ok {
		if v, ok := section[KeyTextObjects]; ok {
			return v, true
		}
	}
	v, ok := m[KeyFlatTextObject]
	return v, ok
}

// asMap accepts string-keyed maps, including the map[any]any form some
// decoders produce for mixed-key tables.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[fmt.Sprint(k)] = e
		}
		return out, true
	}
	return nil, false
}
