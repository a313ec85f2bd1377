// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, []ResultField{
		{Label: "Output", Value: "testdata/generated"},
		Field("Cases", 12),
	}, "Generation completed")

	assert.Equal(t, "✓ Output: testdata/generated\n✓ Cases: 12\nGeneration completed\n", buf.String())
}

func TestPrintResult_NoMessage(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, []ResultField{Field("Classes", 0)}, "")
	assert.Equal(t, "✓ Classes: 0\n", buf.String())
}

func TestValidators(t *testing.T) {
	required := requiredValidator("root class")
	assert.NoError(t, required("Environment"))
	assert.EqualError(t, required(""), "root class is required")

	positive := positiveIntValidator("workers")
	assert.NoError(t, positive("4"))
	for _, in := range []string{"", "0", "-1", "two"} {
		assert.EqualError(t, positive(in), "workers must be a positive number", in)
	}
}
