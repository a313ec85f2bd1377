// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pathhash

import (
	"crypto/md5" //nolint:gosec // test mirrors the production hash
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtend_EmptyReturnsSameHash(t *testing.T) {
	h := Of(Prop("submodels"))
	assert.Same(t, h, Extend(h))
}

func TestExtend_NilPrefixWithoutSegments(t *testing.T) {
	h := Extend(nil)
	require.NotNil(t, h)
	assert.Equal(t, hex.EncodeToString(md5.New().Sum(nil)), h.HexDigest()) //nolint:gosec // test
}

func TestExtend_CompositionLaw(t *testing.T) {
	prefix := Of(Prop("submodels"), Index(0))

	single := Extend(prefix, Prop("value"))
	viaSlice := Extend(prefix, []Segment{Prop("value")}...)
	assert.Equal(t, single.Digest(), viaSlice.Digest())

	sequential := Extend(Extend(prefix, Prop("keys")), Index(0))
	batched := Extend(prefix, Prop("keys"), Index(0))
	assert.Equal(t, sequential.Digest(), batched.Digest())
}

func TestExtend_DoesNotMutatePrefix(t *testing.T) {
	prefix := Of(Prop("a"))
	before := prefix.HexDigest()

	_ = Extend(prefix, Prop("b"))
	_ = Extend(prefix, Index(3))

	assert.Equal(t, before, prefix.HexDigest())
}

func TestExtend_Encoding(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
		want string
	}{
		{name: "property", segs: []Segment{Prop("value")}, want: "/'value'"},
		{name: "index", segs: []Segment{Index(12)}, want: "/12"},
		{name: "mixed", segs: []Segment{Prop("keys"), Index(0), Prop("value")}, want: "/'keys'/0/'value'"},
		{name: "single quote", segs: []Segment{Prop("it's")}, want: `/"it's"`},
		{name: "both quotes", segs: []Segment{Prop(`a'b"c`)}, want: `/'a\'b"c'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := md5.Sum([]byte(tt.want)) //nolint:gosec // test
			assert.Equal(t, hex.EncodeToString(expected[:]), Of(tt.segs...).HexDigest())
		})
	}
}

func TestExtend_DistinctPathsDiffer(t *testing.T) {
	assert.NotEqual(t, Of(Prop("1")).HexDigest(), Of(Index(1)).HexDigest())
	assert.NotEqual(t, Of(Prop("ab")).HexDigest(), Of(Prop("a"), Prop("b")).HexDigest())
}

func TestHash_Number(t *testing.T) {
	h := Of(Prop("x"))
	digest := h.Digest()
	want := uint64(digest[0])<<24 | uint64(digest[1])<<16 | uint64(digest[2])<<8 | uint64(digest[3])
	assert.Equal(t, want, h.Number())
}

func TestHash_CopyIsIndependent(t *testing.T) {
	h := Of(Prop("x"))
	c := h.Copy()
	assert.Equal(t, h.Digest(), c.Digest())

	extended := Extend(c, Prop("y"))
	assert.Equal(t, h.Digest(), c.Digest())
	assert.NotEqual(t, h.Digest(), extended.Digest())
}

func TestSegment_String(t *testing.T) {
	assert.Equal(t, "keys", Prop("keys").String())
	assert.Equal(t, "7", Index(7).String())
	assert.True(t, Index(7).IsIndex())
	assert.False(t, Prop("keys").IsIndex())
	assert.Equal(t, 7, Index(7).Idx())
	assert.Equal(t, "keys", Prop("keys").Name())
}
