// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"encoding/json"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Format is the serialization of a schema document.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromPath returns YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(filePath string) Format {
	if strings.HasSuffix(filePath, ".yaml") || strings.HasSuffix(filePath, ".yml") {
		return YAML
	}
	return JSON
}

// Document is a parsed schema together with the key order of its "properties" objects.
type Document struct {
	Schema   *jsonschema.Schema
	KeyOrder map[string][]string
}

// Parse decodes a schema document in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	raw := data
	if format == YAML {
		converted, err := YAMLToJSON(data)
		if err != nil {
			return nil, err
		}
		raw = converted
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	keyOrder, err := ExtractKeyOrder(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Schema: &s, KeyOrder: keyOrder}, nil
}

// Loader loads schemas from a filesystem.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a Loader that reads from the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadFile loads and parses a schema file.
// The format is determined from the file extension.
func (l *Loader) LoadFile(filePath string) (*Document, error) {
	f, err := l.fsys.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatFromPath(filePath))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
