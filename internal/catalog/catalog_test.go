// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PatternExamplesAgreeWithPatterns(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Patterns())

	for _, pattern := range c.Patterns() {
		re, err := regexp.Compile(pattern)
		require.NoError(t, err, pattern)

		examples, ok := c.ByPattern(pattern)
		require.True(t, ok)
		require.NotEmpty(t, examples.Positives, pattern)

		for _, ex := range examples.Positives {
			assert.True(t, re.MatchString(ex.Value), "positive %s should match %s", ex.Name, pattern)
		}
		for _, ex := range examples.Negatives {
			assert.False(t, re.MatchString(ex.Value), "negative %s should not match %s", ex.Name, pattern)
		}
	}
}

func TestDefault_KeepsFileOrder(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	examples, ok := c.ByPattern(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	require.True(t, ok)
	assert.Equal(t, "Z0", examples.Positives[0].Value)
	assert.Equal(t, "fuzzed_01", examples.Positives[0].Name)
	assert.Equal(t, "0", examples.Negatives[1].Value)

	boolean, ok := c.ByValueType("xs:boolean")
	require.True(t, ok)
	assert.Equal(t, []string{"true", "1", "false", "0"}, boolean.PositiveValues())
	assert.Equal(t, "TRUE", boolean.Negatives[0].Value)

	assert.Equal(t, "xs:anyURI", c.ValueTypes()[0])
}

func TestPositiveValues(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	values, ok := c.PositiveValues(`^(0|[1-9][0-9]*)$`)
	require.True(t, ok)
	assert.Equal(t, "0", values[0])

	_, ok = c.PositiveValues("^unknown$")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		patterns string
	}{
		{name: "not a list", patterns: "pattern: x"},
		{name: "missing pattern", patterns: "- positives: {a: b}"},
		{name: "duplicate pattern", patterns: "- pattern: x\n- pattern: x"},
		{name: "duplicate example", patterns: "- pattern: x\n  positives:\n    a: b\n    a: c"},
		{name: "examples not a mapping", patterns: "- pattern: x\n  positives: [a, b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.patterns), nil)
			assert.Error(t, err)
		})
	}
}

func TestCheckLockstep(t *testing.T) {
	c, err := Parse(
		[]byte("- pattern: '^a$'\n  positives: {a: a}\n- pattern: '^b$'\n  positives: {b: b}"),
		[]byte("- valueType: 'xs:int'\n  positives: {one: '1'}"),
	)
	require.NoError(t, err)

	assert.NoError(t, c.CheckPatterns([]string{"^b$", "^a$"}))

	err = c.CheckPatterns([]string{"^a$", "^c$"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingExamples)
	assert.ErrorIs(t, err, ErrUnusedExamples)
	assert.Contains(t, err.Error(), `"^c$"`)
	assert.Contains(t, err.Error(), `"^b$"`)

	assert.NoError(t, c.CoversPatterns([]string{"^a$"}))
	err = c.CoversPatterns([]string{"^a$", "^c$"})
	assert.ErrorIs(t, err, ErrMissingExamples)
	assert.NotErrorIs(t, err, ErrUnusedExamples)

	assert.NoError(t, c.CheckValueTypes([]string{"xs:int"}))
	assert.ErrorIs(t, c.CheckValueTypes([]string{"xs:int", "xs:double"}), ErrMissingExamples)
}
