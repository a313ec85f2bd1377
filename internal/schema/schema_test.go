// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testSchema() *Schema {
	element := &Class{Name: "Element", Abstract: true, ConcreteDescendants: []string{"Blob", "Property"}}
	property := &Class{
		Name:    "Property",
		Parents: []string{"Element"},
		Properties: []*Property{
			{Name: "idShort", Type: Optional{Value: ConstrainedPrimitive{Name: "IdShort", Type: Str}},
				Constraints: Constraints{Patterns: []string{"^[a-z]+$"}}},
			{Name: "valueType", Type: EnumerationRef{Name: "DataType"}},
		},
	}
	blob := &Class{
		Name: "Blob",
		Properties: []*Property{
			{Name: "value", Type: Optional{Value: Primitive{Type: Bytes}}},
			{Name: "idShort", Type: Optional{Value: ConstrainedPrimitive{Name: "IdShort", Type: Str}},
				Constraints: Constraints{Patterns: []string{"^[a-z]+$"}}},
		},
	}
	return New(
		[]*Class{property, element, blob},
		[]*Enumeration{{Name: "DataType", Literals: []string{"xs:int", "xs:string"}}},
		nil,
	)
}

func TestSchema_Lookups(t *testing.T) {
	s := testSchema()

	c, err := s.Class("Property")
	require.NoError(t, err)
	assert.Equal(t, "Property", c.Name)

	_, err = s.Class("Missing")
	require.ErrorIs(t, err, ErrUnknownClass)

	_, err = s.Enumeration("Missing")
	require.ErrorIs(t, err, ErrUnknownEnumeration)

	_, err = c.Property("missing")
	require.ErrorIs(t, err, ErrUnknownProperty)
	assert.True(t, c.HasProperty("valueType"))
}

func TestSchema_SortedIteration(t *testing.T) {
	s := testSchema()

	var names []string
	for _, c := range s.Classes() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Blob", "Element", "Property"}, names)

	names = nil
	for _, c := range s.ConcreteClasses() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Blob", "Property"}, names)

	assert.Equal(t, []string{"^[a-z]+$"}, s.Patterns())
}

func TestClass_Variants(t *testing.T) {
	s := testSchema()
	assert.Equal(t, []string{"Blob", "Property"}, s.MustClass("Element").Variants())
	assert.Equal(t, []string{"Property"}, s.MustClass("Property").Variants())
	assert.True(t, s.IsA("Blob", "Element"))
	assert.False(t, s.IsA("Element", "Blob"))
}

func TestTypeAnnotation_Helpers(t *testing.T) {
	opt := Optional{Value: List{Items: ClassRef{Name: "Key"}}}
	assert.Equal(t, KindOptional, opt.Kind())
	assert.Equal(t, KindList, BeneathOptional(opt).Kind())
	assert.Equal(t, "Optional[List[Key]]", opt.String())

	prim, ok := PrimitiveOf(Optional{Value: ConstrainedPrimitive{Name: "IdShort", Type: Str}})
	require.True(t, ok)
	assert.Equal(t, Str, prim)

	_, ok = PrimitiveOf(EnumerationRef{Name: "DataType"})
	assert.False(t, ok)
}

func TestConstraints_Merge(t *testing.T) {
	a := Constraints{Len: &Len{Min: intPtr(1), Max: intPtr(128)}, Patterns: []string{"^a$"}}
	b := Constraints{Len: &Len{Max: intPtr(64)}, SetOfLiterals: []string{"x"}}

	got := a.Merge(b)
	require.NotNil(t, got.Len)
	assert.Equal(t, 1, *got.Len.Min)
	assert.Equal(t, 64, *got.Len.Max)
	assert.Equal(t, []string{"^a$"}, got.Patterns)
	assert.Equal(t, []string{"x"}, got.SetOfLiterals)
}

func TestConstraints_MergePatterns(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{name: "none", want: nil},
		{name: "distinct", a: []string{"^a$"}, b: []string{"^b$"}, want: []string{"^a$", "^b$"}},
		{name: "repeated", a: []string{"^a$"}, b: []string{"^a$"}, want: []string{"^a$"}},
		{name: "repeated among others", a: []string{"^a$", "^b$"}, b: []string{"^b$", "^c$"}, want: []string{"^a$", "^b$", "^c$"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Constraints{Patterns: tt.a}.Merge(Constraints{Patterns: tt.b})
			assert.Equal(t, tt.want, got.Patterns)
		})
	}
}
