// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"testing"

	"github.com/dacolabs/testgen/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConsistent_AgreesWithCatalog(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	for _, valueType := range cat.ValueTypes() {
		examples, ok := cat.ByValueType(valueType)
		require.True(t, ok)
		t.Run(valueType, func(t *testing.T) {
			for _, ex := range examples.Positives {
				assert.True(t, ValueConsistent(valueType, ex.Value), "positive %s: %q", ex.Name, ex.Value)
			}
			for _, ex := range examples.Negatives {
				assert.False(t, ValueConsistent(valueType, ex.Value), "negative %s: %q", ex.Name, ex.Value)
			}
		})
	}
}

func TestValueConsistent(t *testing.T) {
	tests := []struct {
		valueType string
		value     string
		want      bool
	}{
		{"xs:date", "2000-02-29", true},
		{"xs:date", "1900-02-29", false},
		{"xs:date", "2024-04-31", false},
		{"xs:date", "2024-13-01", false},
		{"xs:date", "2024-01-01+14:00", true},
		{"xs:date", "2024-01-01+14:01", false},
		{"xs:date", "2024-01-01+10:60", false},
		{"xs:dateTime", "2024-01-01T24:00:00.000", true},
		{"xs:dateTime", "2024-01-01T24:00:00.001", false},
		{"xs:dateTime", "2024-01-01T23:60:00", false},
		{"xs:dateTime", "-0401-02-29T00:00:00", true},
		{"xs:int", "-2147483648", true},
		{"xs:int", "+2147483647", true},
		{"xs:double", "1e-400", true},
		{"xs:double", "-1e400", false},
		{"xs:anyURI", "urn:a%2", false},
		{"xs:anyURI", "a b", false},
		{"xs:string", "tab\tand\nnewline", true},
		{"xs:string", "\uFFFE", false},
		{"xs:unknown", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.valueType+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueConsistent(tt.valueType, tt.value))
		})
	}
}

func TestIsDateTimeUtc(t *testing.T) {
	assert.True(t, isDateTimeUtc("2022-04-01T01:02:03Z"))
	assert.True(t, isDateTimeUtc("2022-04-01T01:02:03-00:00"))
	assert.False(t, isDateTimeUtc("2022-04-01T01:02:03+01:00"))
	assert.False(t, isDateTimeUtc("2022-02-29T12:13:14Z"))
}
