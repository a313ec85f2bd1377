// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package synth turns path hashes into primitive values.
//
// Every function is pure in the hash: the same digest always yields the same value.
package synth

import (
	"crypto/md5" //nolint:gosec // not used for security
	"errors"
	"fmt"

	"github.com/dacolabs/testgen/internal/pathhash"
)

// ErrNoPatternExamples indicates a pattern without catalogued examples.
var ErrNoPatternExamples = errors.New("no examples catalogued for pattern")

const (
	defaultPrefix   = "something_"
	defaultBytesLen = 11
	ruler           = "1234567890"
)

// Bool derives a boolean from the hash.
func Bool(h *pathhash.Hash) bool {
	return h.Number()%2 == 0
}

// Int derives a non-negative integer from the hash.
func Int(h *pathhash.Hash) int64 {
	return int64(h.Number())
}

// Float derives a float from the hash.
func Float(h *pathhash.Hash) float64 {
	return float64(h.Number()) / 100
}

// StrPadding returns the ruler repeated to exactly n characters.
func StrPadding(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = ruler[i%len(ruler)]
	}
	return string(out)
}

// BytesPadding returns the byte ruler repeated to exactly n bytes.
func BytesPadding(n int) []byte {
	return []byte(StrPadding(n))
}

func strOfExactLen(hexdigest string, n int) string {
	switch {
	case n < 12:
		return hexdigest[:n]
	case n <= len(defaultPrefix)+len(hexdigest):
		return defaultPrefix + hexdigest[:n-len(defaultPrefix)]
	default:
		prefix := defaultPrefix + hexdigest
		return prefix + StrPadding(n-len(prefix))
	}
}

// Str derives a string from the hash honoring optional length bounds.
func Str(h *pathhash.Hash, minLen, maxLen *int) string {
	hexdigest := h.HexDigest()
	def := defaultPrefix + hexdigest[:8]

	switch {
	case minLen == nil && maxLen == nil:
		return def
	case maxLen == nil:
		if *minLen <= len(def) {
			return def
		}
		return strOfExactLen(hexdigest, *minLen)
	case minLen == nil:
		if len(def) < *maxLen {
			return def
		}
		return strOfExactLen(hexdigest, *maxLen)
	default:
		if *minLen <= len(def) && len(def) <= *maxLen {
			return def
		}
		return strOfExactLen(hexdigest, *minLen)
	}
}

// Bytes derives a byte slice from the hash honoring optional length bounds.
// Values longer than a digest are extended with successive re-hashes.
func Bytes(h *pathhash.Hash, minLen, maxLen *int) []byte {
	var count int
	switch {
	case minLen == nil && maxLen == nil:
		count = defaultBytesLen
	case maxLen == nil:
		count = *minLen
	case minLen == nil:
		count = min(*maxLen, defaultBytesLen)
	default:
		count = *minLen
	}

	out := make([]byte, 0, count)
	chunk := h.Digest()
	for len(out) < count {
		take := min(len(chunk), count-len(out))
		out = append(out, chunk[:take]...)
		next := md5.Sum(chunk) //nolint:gosec // not used for security
		chunk = next[:]
	}
	return out
}

// Choose picks one of the choices by the hash. The choices must not be empty.
func Choose[T any](h *pathhash.Hash, choices []T) T {
	if len(choices) == 0 {
		panic("synth: choose among no choices")
	}
	return choices[h.Number()%uint64(len(choices))]
}

// PatternExamples provides the positive examples catalogued for a pattern.
type PatternExamples interface {
	PositiveValues(pattern string) ([]string, bool)
}

// Pattern picks a catalogued positive example of the pattern.
func Pattern(h *pathhash.Hash, examples PatternExamples, pattern string) (string, error) {
	values, ok := examples.PositiveValues(pattern)
	if !ok || len(values) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoPatternExamples, pattern)
	}
	return Choose(h, values), nil
}

// TimeOfDay derives a time of day with a fractional part.
func TimeOfDay(h *pathhash.Hash) string {
	number := h.Number()
	hours := (number / 3600) % 24
	remainder := number % 3600
	minutes := (remainder / 60) % 60
	seconds := remainder % 60
	fraction := number % 1000000
	return fmt.Sprintf("%02d:%02d:%02d.%d", hours, minutes, seconds, fraction)
}

var urlDomains = []string{
	"something.com",
	"example.com",
	"an-example.com",
	"another-example.com",
	"some-company.com",
	"another-company.com",
	"yet-another-company.com",
}

// URL derives an https URL.
func URL(h *pathhash.Hash) string {
	return fmt.Sprintf("https://%s/%s", Choose(h, urlDomains), h.HexDigest()[:8])
}

var urnPrefixes = []string{
	"urn:something",
	"urn:example",
	"urn:an-example",
	"urn:another-example",
	"urn:some-company",
	"urn:another-company",
	"urn:yet-another-company",
}

// URN derives a URN.
func URN(h *pathhash.Hash) string {
	return fmt.Sprintf("%s%02d:%s", Choose(h, urnPrefixes), h.Number()%20, h.HexDigest()[:8])
}

// IDShort derives a short identifier that starts with a letter.
func IDShort(h *pathhash.Hash) string {
	return "something" + h.HexDigest()[:8]
}
