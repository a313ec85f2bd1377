// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package instance holds live, mutable realizations of schema classes.
package instance

import (
	"fmt"
	"strings"

	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/schema"
)

// Literal is the value of an enumeration-typed property.
type Literal string

// Instance is a mutable object of a concrete class.
//
// Property values are one of bool, int64, float64, string, []byte, Literal,
// *Instance or []*Instance. An absent optional property has no value.
type Instance struct {
	class  *schema.Class
	values map[string]any
}

// New creates an empty instance of the class.
func New(class *schema.Class) *Instance {
	return &Instance{class: class, values: make(map[string]any)}
}

// Class returns the class of the instance.
func (i *Instance) Class() *schema.Class { return i.class }

// ClassName returns the name of the class of the instance.
func (i *Instance) ClassName() string { return i.class.Name }

// Get returns the value of a property and whether it is set.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return v, ok
}

// Has reports whether the property is set.
func (i *Instance) Has(name string) bool {
	_, ok := i.values[name]
	return ok
}

// Set assigns a property. It panics if the class has no such property or the
// value is not of a supported kind; both are programming errors.
func (i *Instance) Set(name string, v any) *Instance {
	if !i.class.HasProperty(name) {
		panic(fmt.Sprintf("instance: %s has no property %q", i.class.Name, name))
	}
	switch v.(type) {
	case bool, int64, float64, string, []byte, Literal, *Instance, []*Instance:
	default:
		panic(fmt.Sprintf("instance: unsupported value %T for %s.%s", v, i.class.Name, name))
	}
	i.values[name] = v
	return i
}

// Unset removes a property value.
func (i *Instance) Unset(name string) {
	delete(i.values, name)
}

// String returns a string-valued property.
func (i *Instance) String(name string) (string, bool) {
	s, ok := i.values[name].(string)
	return s, ok
}

// Literal returns an enumeration-valued property.
func (i *Instance) Literal(name string) (Literal, bool) {
	l, ok := i.values[name].(Literal)
	return l, ok
}

// Child returns an instance-valued property, or nil.
func (i *Instance) Child(name string) *Instance {
	c, _ := i.values[name].(*Instance)
	return c
}

// Items returns a list-valued property, or nil.
func (i *Instance) Items(name string) []*Instance {
	items, _ := i.values[name].([]*Instance)
	return items
}

// Clone deep-copies the instance graph rooted at i.
func (i *Instance) Clone() *Instance {
	out := New(i.class)
	for name, v := range i.values {
		switch tv := v.(type) {
		case *Instance:
			out.values[name] = tv.Clone()
		case []*Instance:
			items := make([]*Instance, len(tv))
			for k, item := range tv {
				items[k] = item.Clone()
			}
			out.values[name] = items
		case []byte:
			out.values[name] = append([]byte(nil), tv...)
		default:
			out.values[name] = v
		}
	}
	return out
}

// Path is a structural path from a container to a nested instance.
type Path []pathhash.Segment

// String renders the path with slashes, e.g. "submodels/0/submodelElements/0".
func (p Path) String() string {
	parts := make([]string, len(p))
	for k, s := range p {
		parts[k] = s.String()
	}
	return strings.Join(parts, "/")
}

// Append returns a new path with the segments appended.
func (p Path) Append(segs ...pathhash.Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Dereference follows the path from root and returns the instance it ends at.
func Dereference(root *Instance, path Path) (*Instance, error) {
	current := root
	for k := 0; k < len(path); k++ {
		seg := path[k]
		if seg.IsIndex() {
			return nil, fmt.Errorf("%w: unexpected index at %s", ErrBadPath, path[:k+1])
		}
		v, ok := current.Get(seg.Name())
		if !ok {
			return nil, fmt.Errorf("%w: %s is not set at %s", ErrBadPath, seg.Name(), path[:k])
		}
		switch tv := v.(type) {
		case *Instance:
			current = tv
		case []*Instance:
			if k+1 >= len(path) || !path[k+1].IsIndex() {
				return nil, fmt.Errorf("%w: expected an index after %s", ErrBadPath, path[:k+1])
			}
			k++
			idx := path[k].Idx()
			if idx < 0 || idx >= len(tv) {
				return nil, fmt.Errorf("%w: index %d out of range at %s", ErrBadPath, idx, path[:k])
			}
			current = tv[idx]
		default:
			return nil, fmt.Errorf("%w: %s holds no instance", ErrBadPath, path[:k+1])
		}
	}
	return current, nil
}
