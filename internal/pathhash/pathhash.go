// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pathhash derives deterministic pseudo-random keys from structural paths.
//
// A Hash accumulates the segments of a path (property names and list indices)
// into an md5 state. Values synthesized from the same path are byte-identical
// across runs and processes, so no random seed is ever stored.
package pathhash

import (
	"crypto/md5" //nolint:gosec // not used for security
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"
)

// Segment is a single step of a structural path: either a property name or a list index.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// Prop returns a property-name segment.
func Prop(name string) Segment {
	return Segment{name: name}
}

// Index returns a list-index segment.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment is a list index.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the property name of a property segment.
func (s Segment) Name() string { return s.name }

// Idx returns the index of a list-index segment.
func (s Segment) Idx() int { return s.index }

// String renders the segment as it appears in a slash-separated path.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.name
}

// encode renders the segment unambiguously: indices as decimals, names quoted.
func (s Segment) encode() string {
	if s.isIndex {
		return "/" + strconv.Itoa(s.index)
	}
	return "/" + quote(s.name)
}

// quote mimics the conventional repr of a text: single quotes unless the text
// contains a single quote and no double quote.
func quote(text string) string {
	q := byte('\'')
	if strings.ContainsRune(text, '\'') && !strings.ContainsRune(text, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range text {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// Hash is a copy-on-extend accumulator over path segments.
// A Hash is never mutated once it has been handed out.
type Hash struct {
	h hash.Hash
}

// New returns an accumulator over the empty path.
func New() *Hash {
	return &Hash{h: md5.New()} //nolint:gosec // not used for security
}

// Extend returns the hash of prefix followed by segs.
//
// A nil prefix starts from the empty path. Extending a non-nil prefix with no
// segments returns the prefix itself; any other extension works on a copy.
func Extend(prefix *Hash, segs ...Segment) *Hash {
	if len(segs) == 0 {
		if prefix == nil {
			return New()
		}
		return prefix
	}

	var result *Hash
	if prefix == nil {
		result = New()
	} else {
		result = prefix.Copy()
	}

	for _, s := range segs {
		_, _ = result.h.Write([]byte(s.encode()))
	}
	return result
}

// Of is a shorthand for Extend(nil, segs...).
func Of(segs ...Segment) *Hash {
	return Extend(nil, segs...)
}

// Copy returns an independent accumulator with the same state.
func (h *Hash) Copy() *Hash {
	state, err := h.h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("pathhash: marshal md5 state: %v", err))
	}
	c := md5.New() //nolint:gosec // not used for security
	if err := c.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic(fmt.Sprintf("pathhash: unmarshal md5 state: %v", err))
	}
	return &Hash{h: c}
}

// Digest returns the raw md5 digest of the accumulated path.
func (h *Hash) Digest() []byte {
	return h.h.Sum(nil)
}

// HexDigest returns the lowercase hexadecimal digest.
func (h *Hash) HexDigest() string {
	return hex.EncodeToString(h.Digest())
}

// Number interprets the first eight hex digits of the digest as an unsigned integer.
func (h *Hash) Number() uint64 {
	return uint64(binary.BigEndian.Uint32(h.Digest()[:4]))
}
