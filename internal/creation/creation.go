// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package creation builds minimal and maximal instances of schema classes
// whose primitive values are derived from the path hash.
package creation

import (
	"errors"
	"fmt"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/schema"
	"github.com/dacolabs/testgen/internal/synth"
)

var (
	// ErrAbstractClass indicates an attempt to instantiate an abstract class directly.
	ErrAbstractClass = errors.New("cannot instantiate an abstract class")

	// ErrLenOnNonSized indicates a length constraint on a bool, int or float property.
	ErrLenOnNonSized = errors.New("length constraint on a type without length")

	// ErrPatternOnNonString indicates a pattern constraint on a property that is not a string.
	ErrPatternOnNonString = errors.New("pattern constraint on a non-string type")

	// ErrMultiplePatterns indicates more than one pattern on a single property.
	ErrMultiplePatterns = errors.New("more than one pattern")

	// ErrUnsupportedType indicates a type the builder cannot synthesize, such as a list of primitives.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Builder creates instances. It is safe for concurrent use.
type Builder struct {
	schema   *schema.Schema
	examples synth.PatternExamples
}

// New creates a builder over the schema drawing patterned strings from examples.
func New(s *schema.Schema, examples synth.PatternExamples) *Builder {
	return &Builder{schema: s, examples: examples}
}

// Schema returns the schema the builder creates instances of.
func (b *Builder) Schema() *schema.Schema { return b.schema }

// Minimal creates an instance of exactly the class with only the required properties set.
func (b *Builder) Minimal(class *schema.Class, h *pathhash.Hash) (*instance.Instance, error) {
	return b.build(class, h, false)
}

// Maximal creates an instance of exactly the class with every property set.
// Nested instances are still minimal.
func (b *Builder) Maximal(class *schema.Class, h *pathhash.Hash) (*instance.Instance, error) {
	return b.build(class, h, true)
}

// Dispatch creates a minimal instance of one of the concrete variants of the
// named class, chosen by the hash.
func (b *Builder) Dispatch(className string, h *pathhash.Hash) (*instance.Instance, error) {
	class, err := b.schema.Class(className)
	if err != nil {
		return nil, err
	}
	variants := class.Variants()
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: %s has no concrete descendants", ErrAbstractClass, className)
	}
	concrete, err := b.schema.Class(synth.Choose(h, variants))
	if err != nil {
		return nil, err
	}
	return b.Minimal(concrete, h)
}

func (b *Builder) build(class *schema.Class, h *pathhash.Hash, maximal bool) (*instance.Instance, error) {
	if class.Abstract {
		return nil, fmt.Errorf("%w: %s", ErrAbstractClass, class.Name)
	}
	inst := instance.New(class)
	for _, p := range class.Properties {
		if p.Optional() && !maximal {
			continue
		}
		v, err := b.Value(p, pathhash.Extend(h, pathhash.Prop(p.Name)))
		if err != nil {
			return nil, fmt.Errorf("creating %s.%s: %w", class.Name, p.Name, err)
		}
		inst.Set(p.Name, v)
	}
	return inst, nil
}

// Value synthesizes a value for the property. The hash is expected to already
// include the property name.
func (b *Builder) Value(p *schema.Property, h *pathhash.Hash) (any, error) {
	t := schema.BeneathOptional(p.Type)
	c := p.Constraints

	if err := checkConstraints(t, c); err != nil {
		return nil, err
	}

	if len(c.SetOfPrimitives) > 0 {
		return primitiveValue(synth.Choose(h, c.SetOfPrimitives))
	}
	if len(c.SetOfLiterals) > 0 {
		return instance.Literal(synth.Choose(h, c.SetOfLiterals)), nil
	}

	switch tt := t.(type) {
	case schema.Primitive, schema.ConstrainedPrimitive:
		prim, _ := schema.PrimitiveOf(tt)
		return b.primitive(prim, c, h)
	case schema.EnumerationRef:
		enum, err := b.schema.Enumeration(tt.Name)
		if err != nil {
			return nil, err
		}
		if len(enum.Literals) == 0 {
			return nil, fmt.Errorf("%w: enumeration %s has no literals", ErrUnsupportedType, tt.Name)
		}
		return instance.Literal(synth.Choose(h, enum.Literals)), nil
	case schema.ClassRef:
		return b.Dispatch(tt.Name, h)
	case schema.List:
		ref, ok := tt.Items.(schema.ClassRef)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, tt)
		}
		items := make([]*instance.Instance, listCount(c.Len))
		for i := range items {
			item, err := b.Dispatch(ref.Name, pathhash.Extend(h, pathhash.Index(i)))
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = item
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func (b *Builder) primitive(prim schema.PrimitiveType, c schema.Constraints, h *pathhash.Hash) (any, error) {
	var minLen, maxLen *int
	if c.Len != nil {
		minLen, maxLen = c.Len.Min, c.Len.Max
	}
	switch prim {
	case schema.Bool:
		return synth.Bool(h), nil
	case schema.Int:
		return synth.Int(h), nil
	case schema.Float:
		return synth.Float(h), nil
	case schema.Str:
		if len(c.Patterns) == 1 {
			return synth.Pattern(h, b.examples, c.Patterns[0])
		}
		return synth.Str(h, minLen, maxLen), nil
	case schema.Bytes:
		return synth.Bytes(h, minLen, maxLen), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, prim)
	}
}

func checkConstraints(t schema.TypeAnnotation, c schema.Constraints) error {
	prim, isPrimitive := schema.PrimitiveOf(t)
	if c.Len != nil && isPrimitive && (prim == schema.Bool || prim == schema.Int || prim == schema.Float) {
		return fmt.Errorf("%w: %s", ErrLenOnNonSized, prim)
	}
	if len(c.Patterns) > 1 {
		return fmt.Errorf("%w: %d patterns", ErrMultiplePatterns, len(c.Patterns))
	}
	if len(c.Patterns) == 1 && (!isPrimitive || prim != schema.Str) {
		return fmt.Errorf("%w: %s", ErrPatternOnNonString, t)
	}
	return nil
}

// listCount is max(1, min), or 0 when the maximum is 0.
func listCount(l *schema.Len) int {
	if l == nil {
		return 1
	}
	if l.Max != nil && *l.Max == 0 {
		return 0
	}
	if l.Min != nil && *l.Min > 1 {
		return *l.Min
	}
	return 1
}

// primitiveValue converts a value from a set of primitives to an instance value kind.
func primitiveValue(v any) (any, error) {
	switch tv := v.(type) {
	case string, bool, int64, float64, []byte:
		return tv, nil
	case int:
		return int64(tv), nil
	default:
		return nil, fmt.Errorf("%w: set member %T", ErrUnsupportedType, v)
	}
}
