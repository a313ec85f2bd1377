// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package emit serializes generated cases to files.
package emit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dacolabs/testgen/internal/generation"
)

// Emitter defines the interface all case serializers must implement.
type Emitter interface {
	// Name returns the emitter's identifier (e.g., "json", "yaml")
	Name() string

	// Emit serializes the container of a case
	Emit(c *generation.Case) ([]byte, error)

	// FileExtension returns the file extension including the dot (e.g., ".json")
	FileExtension() string
}

// Registry maps emitter names to emitters.
type Registry map[string]Emitter

// Default returns a registry with the built-in emitters.
func Default() Registry {
	r := make(Registry)
	r.Register(&JSONEmitter{})
	r.Register(&YAMLEmitter{})
	return r
}

// Register adds an emitter to the registry.
func (r Registry) Register(e Emitter) {
	r[e.Name()] = e
}

// Get retrieves an emitter by name.
func (r Registry) Get(name string) (Emitter, error) {
	e, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown emitter: %s (available: %s)", name, strings.Join(r.Available(), ", "))
	}
	return e, nil
}

// Resolve retrieves the emitters by name, in order.
func (r Registry) Resolve(names []string) ([]Emitter, error) {
	out := make([]Emitter, 0, len(names))
	for _, name := range names {
		e, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Available returns all registered emitter names, sorted.
func (r Registry) Available() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
