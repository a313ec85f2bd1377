// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package repair

import (
	"errors"
	"testing"

	"github.com/dacolabs/testgen/internal/creation"
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/schema"
	"github.com/dacolabs/testgen/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder() *creation.Builder {
	str := schema.Primitive{Type: schema.Str}
	s := schema.New([]*schema.Class{
		{Name: "Submodel", Properties: []*schema.Property{
			{Name: "id", Type: str},
			{Name: "elements", Type: schema.List{Items: schema.ClassRef{Name: "Property"}}, Constraints: schema.Constraints{Len: &schema.Len{Min: new(int)}}},
			{Name: "semanticId", Type: schema.Optional{Value: schema.ClassRef{Name: "Reference"}}},
		}},
		{Name: "Property", Properties: []*schema.Property{
			{Name: "idShort", Type: schema.Optional{Value: str}},
			{Name: "value", Type: str},
		}},
		{Name: "Reference", Properties: []*schema.Property{
			{Name: "value", Type: str},
		}},
	}, nil, nil)
	return creation.New(s, nil)
}

type visit struct {
	class string
	path  string
	hash  string
}

func TestRepair_PostOrderWithHashes(t *testing.T) {
	b := testBuilder()
	var visits []visit
	record := func(site *Site, inst *instance.Instance) error {
		visits = append(visits, visit{inst.ClassName(), site.Path.String(), site.Hash.HexDigest()})
		return nil
	}
	h := New(b, nil)
	for _, name := range []string{"Submodel", "Property", "Reference"} {
		h.Register(name, record)
	}
	require.NoError(t, h.Check())

	sm, err := b.Maximal(b.Schema().MustClass("Submodel"), pathhash.New())
	require.NoError(t, err)
	require.NoError(t, h.Fix(sm))

	want := []visit{
		{"Property", "elements/0", pathhash.Of(pathhash.Prop("elements"), pathhash.Index(0)).HexDigest()},
		{"Reference", "semanticId", pathhash.Of(pathhash.Prop("semanticId")).HexDigest()},
		{"Submodel", "", pathhash.New().HexDigest()},
	}
	assert.Equal(t, want, visits)
}

func TestCheck(t *testing.T) {
	h := New(testBuilder(), nil)
	h.Register("Submodel", Noop)
	h.Register("Nope", Noop)

	err := h.Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingHook)
	assert.ErrorIs(t, err, ErrUnknownHookClass)
	assert.Contains(t, err.Error(), "Property")
	assert.Contains(t, err.Error(), "Reference")
}

func TestFix_RepairsThenVerifies(t *testing.T) {
	b := testBuilder()
	verify := func(root *instance.Instance) []Violation {
		var out []Violation
		for i, p := range root.Items("elements") {
			if !p.Has("idShort") {
				out = append(out, Violation{
					Path:  instance.Path{pathhash.Prop("elements"), pathhash.Index(i)},
					Cause: "idShort is required in a submodel",
				})
			}
		}
		return out
	}

	h := New(b, verify)
	h.Register("Property", Noop)
	h.Register("Reference", Noop)
	h.Register("Submodel", Noop)

	sm, err := b.Minimal(b.Schema().MustClass("Submodel"), pathhash.New())
	require.NoError(t, err)

	err = h.Fix(sm)
	var unrepaired *UnrepairedError
	require.ErrorAs(t, err, &unrepaired)
	require.Len(t, unrepaired.Violations, 1)
	assert.Equal(t, "elements/0: idShort is required in a submodel", unrepaired.Violations[0].String())
	assert.Contains(t, unrepaired.Dump, `"modelType": "Submodel"`)

	h.Register("Submodel", func(site *Site, inst *instance.Instance) error {
		for i, p := range inst.Items("elements") {
			p.Set("idShort", synth.IDShort(pathhash.Extend(site.Hash, pathhash.Prop("elements"), pathhash.Index(i))))
		}
		return nil
	})
	require.NoError(t, h.Fix(sm))
}

func TestFresh(t *testing.T) {
	b := testBuilder()
	h := New(b, nil)
	h.Register("Reference", Noop)
	h.Register("Submodel", Noop)
	h.Register("Property", func(site *Site, inst *instance.Instance) error {
		inst.Set("idShort", synth.IDShort(site.Hash))
		return nil
	})

	hash := pathhash.Of(pathhash.Prop("x"))
	p, err := h.Fresh(b.Schema().MustClass("Property"), hash, instance.Path{pathhash.Prop("x")})
	require.NoError(t, err)
	idShort, _ := p.String("idShort")
	assert.Equal(t, synth.IDShort(hash), idShort)
}

func TestRepair_HookErrorIsWrapped(t *testing.T) {
	b := testBuilder()
	boom := errors.New("boom")
	h := New(b, nil)
	h.Register("Reference", Noop)
	h.Register("Submodel", Noop)
	h.Register("Property", func(*Site, *instance.Instance) error { return boom })

	sm, err := b.Minimal(b.Schema().MustClass("Submodel"), pathhash.New())
	require.NoError(t, err)

	err = h.Fix(sm)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "repairing Property at elements/0")
}
