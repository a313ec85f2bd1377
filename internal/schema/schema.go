// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schema describes the class graph the fixtures are generated for.
//
// The description is declarative and closed: classes with ordered, typed
// properties, enumerations, constrained primitives and per-property structural
// constraints. It is immutable once built.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrUnknownClass indicates a lookup of a class that is not part of the schema.
	ErrUnknownClass = errors.New("unknown class")

	// ErrUnknownEnumeration indicates a lookup of an enumeration that is not part of the schema.
	ErrUnknownEnumeration = errors.New("unknown enumeration")

	// ErrUnknownProperty indicates a lookup of a property the class does not declare.
	ErrUnknownProperty = errors.New("unknown property")
)

// Schema is the set of classes, enumerations and constrained primitives.
type Schema struct {
	classes      map[string]*Class
	enumerations map[string]*Enumeration
	constrained  map[string]*ConstrainedPrimitiveDef
}

// New creates a schema from its parts. Concrete descendants are expected to
// be resolved already; names are indexed as given.
func New(classes []*Class, enumerations []*Enumeration, constrained []*ConstrainedPrimitiveDef) *Schema {
	s := &Schema{
		classes:      make(map[string]*Class, len(classes)),
		enumerations: make(map[string]*Enumeration, len(enumerations)),
		constrained:  make(map[string]*ConstrainedPrimitiveDef, len(constrained)),
	}
	for _, c := range classes {
		s.classes[c.Name] = c
	}
	for _, e := range enumerations {
		s.enumerations[e.Name] = e
	}
	for _, c := range constrained {
		s.constrained[c.Name] = c
	}
	return s
}

// Class returns the class with the given name.
func (s *Schema) Class(name string) (*Class, error) {
	c, ok := s.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}
	return c, nil
}

// MustClass returns the class with the given name and panics if it is unknown.
func (s *Schema) MustClass(name string) *Class {
	c, err := s.Class(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Enumeration returns the enumeration with the given name.
func (s *Schema) Enumeration(name string) (*Enumeration, error) {
	e, ok := s.enumerations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnumeration, name)
	}
	return e, nil
}

// ConstrainedPrimitive returns the constrained primitive with the given name.
func (s *Schema) ConstrainedPrimitive(name string) (*ConstrainedPrimitiveDef, bool) {
	c, ok := s.constrained[name]
	return c, ok
}

// Classes returns all classes sorted by name.
func (s *Schema) Classes() []*Class {
	out := make([]*Class, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ConcreteClasses returns the concrete classes sorted by name.
func (s *Schema) ConcreteClasses() []*Class {
	var out []*Class
	for _, c := range s.Classes() {
		if !c.Abstract {
			out = append(out, c)
		}
	}
	return out
}

// Enumerations returns all enumerations sorted by name.
func (s *Schema) Enumerations() []*Enumeration {
	out := make([]*Enumeration, 0, len(s.enumerations))
	for _, e := range s.enumerations {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Patterns returns every pattern referenced by a property constraint, sorted and deduplicated.
func (s *Schema) Patterns() []string {
	seen := make(map[string]struct{})
	for _, c := range s.classes {
		for _, p := range c.Properties {
			for _, pattern := range p.Constraints.Patterns {
				seen[pattern] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Class is a node of the class graph.
type Class struct {
	Name       string
	Abstract   bool
	Parents    []string
	Properties []*Property

	// ConcreteDescendants lists the concrete classes inheriting from this class,
	// sorted by name and excluding the class itself.
	ConcreteDescendants []string
}

// Property returns the property with the given name.
func (c *Class) Property(name string) (*Property, error) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, c.Name, name)
}

// HasProperty reports whether the class declares or inherits the property.
func (c *Class) HasProperty(name string) bool {
	_, err := c.Property(name)
	return err == nil
}

// Variants returns the concrete classes an instance of this class can take:
// the class itself if concrete, followed by its concrete descendants.
func (c *Class) Variants() []string {
	out := make([]string, 0, len(c.ConcreteDescendants)+1)
	if !c.Abstract {
		out = append(out, c.Name)
	}
	return append(out, c.ConcreteDescendants...)
}

// IsA reports whether the class is the named class or one of its concrete descendants.
func (s *Schema) IsA(className, ancestor string) bool {
	if className == ancestor {
		return true
	}
	a, ok := s.classes[ancestor]
	if !ok {
		return false
	}
	return slices.Contains(a.ConcreteDescendants, className)
}

// Property is a typed slot of a class.
type Property struct {
	Name         string
	Type         TypeAnnotation
	SpecifiedFor string
	Constraints  Constraints
}

// Optional reports whether the property may be absent.
func (p *Property) Optional() bool {
	_, ok := p.Type.(Optional)
	return ok
}

// Enumeration is a closed set of string literals.
type Enumeration struct {
	Name     string
	Literals []string
}

// Has reports whether the value is one of the literals.
func (e *Enumeration) Has(value string) bool {
	return slices.Contains(e.Literals, value)
}

// ConstrainedPrimitiveDef is a named primitive type carrying its own constraints.
type ConstrainedPrimitiveDef struct {
	Name        string
	Type        PrimitiveType
	Constraints Constraints
}
