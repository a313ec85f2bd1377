// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"fmt"
	"slices"
)

// PrimitiveType enumerates the primitive value types.
type PrimitiveType int

const (
	Bool PrimitiveType = iota
	Int
	Float
	Str
	Bytes
)

func (p PrimitiveType) String() string {
	switch p {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("PrimitiveType(%d)", int(p))
	}
}

// Kind discriminates the type annotation variants.
type Kind int

const (
	KindPrimitive Kind = iota
	KindConstrainedPrimitive
	KindEnumeration
	KindClass
	KindOptional
	KindList
)

// TypeAnnotation is the closed set of property types.
type TypeAnnotation interface {
	Kind() Kind
	String() string
	isTypeAnnotation()
}

// Primitive is a built-in primitive type.
type Primitive struct {
	Type PrimitiveType
}

// ConstrainedPrimitive refers to a named primitive with its own constraints.
type ConstrainedPrimitive struct {
	Name string
	Type PrimitiveType
}

// EnumerationRef refers to an enumeration by name.
type EnumerationRef struct {
	Name string
}

// ClassRef refers to a class by name.
type ClassRef struct {
	Name string
}

// Optional wraps a type whose value may be absent.
type Optional struct {
	Value TypeAnnotation
}

// List is an ordered list of items.
type List struct {
	Items TypeAnnotation
}

func (Primitive) Kind() Kind            { return KindPrimitive }
func (ConstrainedPrimitive) Kind() Kind { return KindConstrainedPrimitive }
func (EnumerationRef) Kind() Kind       { return KindEnumeration }
func (ClassRef) Kind() Kind             { return KindClass }
func (Optional) Kind() Kind             { return KindOptional }
func (List) Kind() Kind                 { return KindList }

func (t Primitive) String() string            { return t.Type.String() }
func (t ConstrainedPrimitive) String() string { return t.Name }
func (t EnumerationRef) String() string       { return t.Name }
func (t ClassRef) String() string             { return t.Name }
func (t Optional) String() string             { return "Optional[" + t.Value.String() + "]" }
func (t List) String() string                 { return "List[" + t.Items.String() + "]" }

func (Primitive) isTypeAnnotation()            {}
func (ConstrainedPrimitive) isTypeAnnotation() {}
func (EnumerationRef) isTypeAnnotation()       {}
func (ClassRef) isTypeAnnotation()             {}
func (Optional) isTypeAnnotation()             {}
func (List) isTypeAnnotation()                 {}

// BeneathOptional strips an Optional wrapper.
func BeneathOptional(t TypeAnnotation) TypeAnnotation {
	if o, ok := t.(Optional); ok {
		return o.Value
	}
	return t
}

// PrimitiveOf returns the primitive type of a primitive or constrained primitive annotation.
func PrimitiveOf(t TypeAnnotation) (PrimitiveType, bool) {
	switch v := BeneathOptional(t).(type) {
	case Primitive:
		return v.Type, true
	case ConstrainedPrimitive:
		return v.Type, true
	default:
		return 0, false
	}
}

// Len bounds the length of a string, byte slice or list. Either end may be absent.
type Len struct {
	Min *int
	Max *int
}

// Constraints are the structural constraints of a property.
type Constraints struct {
	Len             *Len
	Patterns        []string
	SetOfPrimitives []any
	SetOfLiterals   []string
}

// Merge returns the union of two constraint sets. Length bounds are intersected.
func (c Constraints) Merge(other Constraints) Constraints {
	out := Constraints{
		Len:             mergeLen(c.Len, other.Len),
		Patterns:        append([]string(nil), c.Patterns...),
		SetOfPrimitives: c.SetOfPrimitives,
		SetOfLiterals:   c.SetOfLiterals,
	}
	for _, p := range other.Patterns {
		if !slices.Contains(out.Patterns, p) {
			out.Patterns = append(out.Patterns, p)
		}
	}
	if other.SetOfPrimitives != nil {
		out.SetOfPrimitives = other.SetOfPrimitives
	}
	if other.SetOfLiterals != nil {
		out.SetOfLiterals = other.SetOfLiterals
	}
	return out
}

func mergeLen(a, b *Len) *Len {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := &Len{Min: a.Min, Max: a.Max}
	if b.Min != nil && (out.Min == nil || *b.Min > *out.Min) {
		out.Min = b.Min
	}
	if b.Max != nil && (out.Max == nil || *b.Max < *out.Max) {
		out.Max = b.Max
	}
	return out
}
