// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generation

import "fmt"

// Kind is the kind of a test case.
type Kind int

// Case kinds in the order they are generated for a class.
const (
	Minimal Kind = iota
	Maximal
	TypeViolation
	PositivePatternExample
	PatternViolation
	RequiredViolation
	NullViolation
	MinLengthViolation
	MaxLengthViolation
	EnumViolation
	UnexpectedAdditionalProperty
	DateTimeUtcViolationOnFebruary29th
	SetViolation
	PositiveValueExample
	InvalidValueExample
	PositiveMinMaxExample
	InvalidMinMaxExample
	PositiveManual
	ConstraintViolation
)

var kindNames = [...]string{
	Minimal:                            "Minimal",
	Maximal:                            "Maximal",
	TypeViolation:                      "TypeViolation",
	PositivePatternExample:             "PositivePatternExample",
	PatternViolation:                   "PatternViolation",
	RequiredViolation:                  "RequiredViolation",
	NullViolation:                      "NullViolation",
	MinLengthViolation:                 "MinLengthViolation",
	MaxLengthViolation:                 "MaxLengthViolation",
	EnumViolation:                      "EnumViolation",
	UnexpectedAdditionalProperty:       "UnexpectedAdditionalProperty",
	DateTimeUtcViolationOnFebruary29th: "DateTimeUtcViolationOnFebruary29th",
	SetViolation:                       "SetViolation",
	PositiveValueExample:               "PositiveValueExample",
	InvalidValueExample:                "InvalidValueExample",
	PositiveMinMaxExample:              "PositiveMinMaxExample",
	InvalidMinMaxExample:               "InvalidMinMaxExample",
	PositiveManual:                     "PositiveManual",
	ConstraintViolation:                "ConstraintViolation",
}

// Kinds returns every kind in generation order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Expected reports whether cases of the kind must be accepted by a consumer.
func (k Kind) Expected() bool {
	switch k {
	case Minimal, Maximal, PositivePatternExample, PositiveValueExample, PositiveMinMaxExample, PositiveManual:
		return true
	}
	return false
}

// Unserializable reports whether cases of the kind cannot even be deserialized
// into an instance, as opposed to deserializing into an invalid one.
func (k Kind) Unserializable() bool {
	switch k {
	case TypeViolation, RequiredViolation, NullViolation, UnexpectedAdditionalProperty, EnumViolation:
		return true
	}
	return false
}
