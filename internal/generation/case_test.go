// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		kind Kind
		meta Meta
		want string
	}{
		{Maximal, Meta{}, "ContainedInEnvironment/Expected/Submodel/maximal"},
		{TypeViolation, Meta{Property: "idShort"}, "ContainedInEnvironment/Unexpected/Unserializable/TypeViolation/Submodel/idShort"},
		{PositivePatternExample, Meta{Property: "idShort", Example: "Z0"}, "ContainedInEnvironment/Expected/Submodel/idShortOverPatternExamples/Z0"},
		{PatternViolation, Meta{Property: "idShort", Example: "digit"}, "ContainedInEnvironment/Unexpected/Invalid/PatternViolation/Submodel/idShort/digit"},
		{MinLengthViolation, Meta{Property: "idShort", Bound: 1}, "ContainedInEnvironment/Unexpected/Invalid/MinLengthViolation/Submodel/idShort"},
		{EnumViolation, Meta{Property: "kind", Enumeration: "ModellingKind"}, "ContainedInEnvironment/Unexpected/Unserializable/EnumViolation/Submodel/kind_as_ModellingKind"},
		{UnexpectedAdditionalProperty, Meta{}, "ContainedInEnvironment/Unexpected/Unserializable/UnexpectedAdditionalProperty/Submodel/invalid"},
		{PositiveValueExample, Meta{Literal: "xs:anyURI", Example: "empty"}, "ContainedInEnvironment/Expected/Submodel/OverValueExamples/AnyURI/empty"},
		{InvalidValueExample, Meta{Literal: "xs:boolean", Example: "upper"}, "ContainedInEnvironment/Unexpected/Invalid/InvalidValueExample/Submodel/Boolean/upper"},
		{PositiveMinMaxExample, Meta{Literal: "xs:int", Example: "max"}, "ContainedInEnvironment/Expected/Submodel/OverMinMaxExamples/Int/max"},
		{ConstraintViolation, Meta{Name: "idShortInAValue"}, "ContainedInEnvironment/Unexpected/Invalid/ConstraintViolation/Submodel/idShortInAValue"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := &Case{Kind: tt.kind, ContainerClass: "Environment", Class: "Submodel", Expected: tt.kind.Expected(), Meta: tt.meta}
			assert.Equal(t, tt.want, c.Identity())
		})
	}

	self := &Case{Kind: Minimal, ContainerClass: "Environment", Class: "Environment", Expected: true}
	assert.Equal(t, "SelfContained/Expected/Environment/minimal", self.Identity())
}

func TestID_IsStable(t *testing.T) {
	a := &Case{Kind: Minimal, ContainerClass: "Environment", Class: "Submodel", Expected: true}
	b := &Case{Kind: Minimal, ContainerClass: "Environment", Class: "Submodel", Expected: true}
	c := &Case{Kind: Maximal, ContainerClass: "Environment", Class: "Submodel", Expected: true}

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Equal(t, 5, int(a.ID().Version()))
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 19)
	assert.Equal(t, Minimal, kinds[0])
	assert.Equal(t, ConstraintViolation, kinds[len(kinds)-1])
	assert.Equal(t, "Kind(42)", Kind(42).String())

	var expected, unserializable int
	for _, k := range kinds {
		if k.Expected() {
			expected++
		}
		if k.Unserializable() {
			unserializable++
			assert.False(t, k.Expected(), k.String())
		}
	}
	assert.Equal(t, 6, expected)
	assert.Equal(t, 5, unserializable)
}

func TestLiteralName(t *testing.T) {
	assert.Equal(t, "AnyURI", LiteralName("xs:anyURI"))
	assert.Equal(t, "DateTime", LiteralName("xs:dateTime"))
	assert.Equal(t, "Plain", LiteralName("plain"))
	assert.Equal(t, "", LiteralName(""))
}
