// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package emit

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/dacolabs/testgen/internal/generation"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the name of the index written at the root of the output directory.
const ManifestFileName = "manifest.yaml"

// ManifestVersion is the current version of the manifest format.
const ManifestVersion = 1

// ErrDuplicateIdentity indicates two cases that would be written to the same file.
var ErrDuplicateIdentity = errors.New("duplicate case identity")

// Entry describes one written case.
type Entry struct {
	ID        string            `yaml:"id"`
	Identity  string            `yaml:"identity"`
	Kind      string            `yaml:"kind"`
	Class     string            `yaml:"class"`
	Container string            `yaml:"container"`
	Expected  bool              `yaml:"expected"`
	Files     map[string]string `yaml:"files"`
}

// Manifest indexes the written cases.
type Manifest struct {
	Version int     `yaml:"version"`
	Cases   []Entry `yaml:"cases"`
}

// Writer writes cases below Dir, one subdirectory per emitter.
type Writer struct {
	Dir      string
	Emitters []Emitter

	// Progress is called after each case with the number of cases written so far.
	Progress func(written int)
}

// Write emits every case with every emitter and writes the manifest.
func (w *Writer) Write(cases []*generation.Case) (*Manifest, error) {
	m := &Manifest{Version: ManifestVersion, Cases: make([]Entry, 0, len(cases))}
	seen := make(map[string]bool, len(cases))

	for i, c := range cases {
		identity := c.Identity()
		if seen[identity] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, identity)
		}
		seen[identity] = true

		entry := Entry{
			ID:        c.ID().String(),
			Identity:  identity,
			Kind:      c.Kind.String(),
			Class:     c.Class,
			Container: c.ContainerClass,
			Expected:  c.Expected,
			Files:     make(map[string]string, len(w.Emitters)),
		}
		for _, e := range w.Emitters {
			rel, err := w.writeOne(e, c, identity)
			if err != nil {
				return nil, err
			}
			entry.Files[e.Name()] = rel
		}
		m.Cases = append(m.Cases, entry)

		if w.Progress != nil {
			w.Progress(i + 1)
		}
	}

	if err := writeManifest(filepath.Join(w.Dir, ManifestFileName), m); err != nil {
		return nil, err
	}
	return m, nil
}

func (w *Writer) writeOne(e Emitter, c *generation.Case, identity string) (string, error) {
	data, err := e.Emit(c)
	if err != nil {
		return "", err
	}
	rel := path.Join(e.Name(), identity+e.FileExtension())
	target := filepath.Join(w.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return rel, nil
}

func writeManifest(filePath string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(filePath) //nolint:gosec // path is from config
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return enc.Close()
}

// LoadManifest reads a manifest written by Write.
func LoadManifest(filePath string) (*Manifest, error) {
	f, err := os.Open(filePath) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var m Manifest
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return &m, nil
}
