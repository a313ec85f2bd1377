// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package classgraph

import (
	"testing"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classRef(name string) schema.TypeAnnotation { return schema.ClassRef{Name: name} }

func optional(t schema.TypeAnnotation) schema.TypeAnnotation { return schema.Optional{Value: t} }

func list(t schema.TypeAnnotation) schema.TypeAnnotation { return schema.List{Items: t} }

func prop(name string, t schema.TypeAnnotation) *schema.Property {
	return &schema.Property{Name: name, Type: t}
}

// Env holds shells (list) and submodels (list); a submodel holds elements
// (list of the abstract Element) and a scalar semanticId; Orphan is never held.
func testSchema() *schema.Schema {
	return schema.New([]*schema.Class{
		{Name: "Env", Properties: []*schema.Property{
			prop("shells", optional(list(classRef("Shell")))),
			prop("submodels", optional(list(classRef("Submodel")))),
		}},
		{Name: "Shell", Properties: []*schema.Property{
			prop("derivedFrom", optional(classRef("Ref"))),
		}},
		{Name: "Submodel", Properties: []*schema.Property{
			prop("semanticIds", optional(list(classRef("Ref")))),
			prop("semanticId", optional(classRef("Ref"))),
			prop("elements", optional(list(classRef("Element")))),
		}},
		{Name: "Element", Abstract: true, ConcreteDescendants: []string{"Blob", "Collection"}},
		{Name: "Blob"},
		{Name: "Collection", Properties: []*schema.Property{
			prop("value", optional(list(classRef("Element")))),
			prop("first", optional(classRef("Blob"))),
		}},
		{Name: "Ref"},
		{Name: "Orphan", Properties: []*schema.Property{prop("ref", classRef("Ref"))}},
	}, nil, nil)
}

func TestNew_Edges(t *testing.T) {
	g, err := New(testSchema(), "Env")
	require.NoError(t, err)

	sub := g.Edges("Submodel")
	require.Len(t, sub, 3)
	assert.Equal(t, Segment{Source: "Submodel", Target: "Ref", Property: "semanticId"}, sub[0])
	assert.Equal(t, "Blob", sub[1].Target)
	assert.Equal(t, "Collection", sub[2].Target)

	coll := g.Edges("Collection")
	require.Len(t, coll, 2)
	assert.Equal(t, Segment{Source: "Collection", Target: "Blob", Property: "first"}, coll[0])
	assert.Equal(t, Segment{Source: "Collection", Target: "Collection", Property: "value", List: true}, coll[1])

	assert.Empty(t, g.Edges("Element"))
}

func TestNew_AbstractRoot(t *testing.T) {
	_, err := New(testSchema(), "Element")
	assert.Error(t, err)

	_, err = New(testSchema(), "Missing")
	assert.ErrorIs(t, err, schema.ErrUnknownClass)
}

func TestPath(t *testing.T) {
	g, err := New(testSchema(), "Env")
	require.NoError(t, err)

	tests := []struct {
		class string
		want  string
	}{
		{"Shell", "Env.shells[0] -> Shell"},
		{"Submodel", "Env.submodels[0] -> Submodel"},
		{"Ref", "Env.shells[0] -> Shell, Shell.derivedFrom -> Ref"},
		{"Blob", "Env.submodels[0] -> Submodel, Submodel.elements[0] -> Blob"},
		{"Collection", "Env.submodels[0] -> Submodel, Submodel.elements[0] -> Collection"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			p, ok := g.Path(tt.class)
			require.True(t, ok)
			assert.Equal(t, tt.want, p.String())
			assert.False(t, g.SelfContained(tt.class))
		})
	}

	for _, class := range []string{"Env", "Orphan", "Element"} {
		_, ok := g.Path(class)
		assert.False(t, ok, class)
		assert.True(t, g.SelfContained(class), class)
	}
}

// Ref is three steps away through both Shell and Submodel; the route seen
// first wins on every build.
func TestPath_TieBreakIsStable(t *testing.T) {
	for range 20 {
		g, err := New(testSchema(), "Env")
		require.NoError(t, err)
		p, ok := g.Path("Ref")
		require.True(t, ok)
		assert.Equal(t, "Env.shells[0] -> Shell, Shell.derivedFrom -> Ref", p.String())
	}
}

func TestPath_RootNeverContained(t *testing.T) {
	s := schema.New([]*schema.Class{
		{Name: "Env", Properties: []*schema.Property{
			prop("self", optional(classRef("Env"))),
			prop("nodes", optional(list(classRef("Node")))),
		}},
		{Name: "Node", Properties: []*schema.Property{
			prop("parent", optional(classRef("Env"))),
			prop("next", optional(classRef("Node"))),
		}},
	}, nil, nil)

	g, err := New(s, "Env")
	require.NoError(t, err)

	_, ok := g.Path("Env")
	assert.False(t, ok)
	p, ok := g.Path("Node")
	require.True(t, ok)
	assert.Equal(t, "Env.nodes[0] -> Node", p.String())
}

type emptyFactory struct{ s *schema.Schema }

func (f emptyFactory) Minimal(class *schema.Class, _ *pathhash.Hash) (*instance.Instance, error) {
	return instance.New(class), nil
}

func TestEmbed(t *testing.T) {
	s := testSchema()
	g, err := New(s, "Env")
	require.NoError(t, err)

	p, ok := g.Path("Ref")
	require.True(t, ok)

	var lastHash *pathhash.Hash
	root, focus, path, err := g.Embed(emptyFactory{s}, p, func(class *schema.Class, h *pathhash.Hash) (*instance.Instance, error) {
		lastHash = h
		return instance.New(class), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Env", root.ClassName())
	assert.Equal(t, "Ref", focus.ClassName())
	assert.Equal(t, "shells/0/derivedFrom", path.String())

	found, err := instance.Dereference(root, path)
	require.NoError(t, err)
	assert.Same(t, focus, found)

	want := pathhash.Of(pathhash.Prop("shells"), pathhash.Index(0), pathhash.Prop("derivedFrom"))
	assert.Equal(t, want.HexDigest(), lastHash.HexDigest())
}

func TestEmbed_EmptyPath(t *testing.T) {
	s := testSchema()
	g, err := New(s, "Env")
	require.NoError(t, err)

	_, _, _, err = g.Embed(emptyFactory{s}, nil, nil)
	assert.Error(t, err)
}
