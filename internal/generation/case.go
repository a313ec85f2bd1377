// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generation

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/preserial"
	"github.com/google/uuid"
)

// Meta identifies what a case varies. Only the fields relevant to the kind are set.
type Meta struct {
	Property    string
	Example     string
	Literal     string
	Enumeration string
	Bound       int
	Name        string
}

// Case is one generated test case. The container tree is owned by the case.
type Case struct {
	Kind           Kind
	ContainerClass string
	Class          string
	Expected       bool
	Container      *preserial.Object
	Meta           Meta
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dacolabs/testgen"))

// SelfContained reports whether the instance under test is its own container.
func (c *Case) SelfContained() bool {
	return c.ContainerClass == c.Class
}

// Identity is the slash-separated relative location of the case, without an
// extension, e.g. "ContainedInEnvironment/Unexpected/Invalid/PatternViolation/Submodel/idShort/fuzzed_01".
func (c *Case) Identity() string {
	base := "SelfContained"
	if !c.SelfContained() {
		base = "ContainedIn" + c.ContainerClass
	}
	if c.Expected {
		return path.Join(base, "Expected", c.Class, c.relative())
	}
	group := "Invalid"
	if c.Kind.Unserializable() {
		group = "Unserializable"
	}
	return path.Join(base, "Unexpected", group, c.Kind.String(), c.Class, c.relative())
}

// ID is a UUID derived from the identity.
func (c *Case) ID() uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(c.Identity()))
}

func (c *Case) relative() string {
	m := c.Meta
	switch c.Kind {
	case Minimal:
		return "minimal"
	case Maximal:
		return "maximal"
	case PositivePatternExample:
		return path.Join(m.Property+"OverPatternExamples", m.Example)
	case PatternViolation:
		return path.Join(m.Property, m.Example)
	case PositiveValueExample:
		return path.Join("OverValueExamples", LiteralName(m.Literal), m.Example)
	case PositiveMinMaxExample:
		return path.Join("OverMinMaxExamples", LiteralName(m.Literal), m.Example)
	case InvalidValueExample, InvalidMinMaxExample:
		return path.Join(LiteralName(m.Literal), m.Example)
	case UnexpectedAdditionalProperty:
		return "invalid"
	case EnumViolation:
		return m.Property + "_as_" + m.Enumeration
	case PositiveManual, ConstraintViolation:
		return m.Name
	default:
		return m.Property
	}
}

// LiteralName turns a literal such as "xs:anyURI" into a name usable in an
// identity such as "AnyURI".
func LiteralName(literal string) string {
	if i := strings.LastIndexByte(literal, ':'); i >= 0 {
		literal = literal[i+1:]
	}
	r, size := utf8.DecodeRuneInString(literal)
	if r == utf8.RuneError {
		return literal
	}
	return string(unicode.ToUpper(r)) + literal[size:]
}

// NewManualCase preserializes a hand-built container into a PositiveManual case
// when expected, and into a ConstraintViolation otherwise.
func NewManualCase(className, name string, expected bool, container *instance.Instance) *Case {
	kind := ConstraintViolation
	if expected {
		kind = PositiveManual
	}
	tree, _ := preserial.Preserialize(container)
	return &Case{
		Kind:           kind,
		ContainerClass: container.ClassName(),
		Class:          className,
		Expected:       expected,
		Container:      tree,
		Meta:           Meta{Name: name},
	}
}
