// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package emit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dacolabs/testgen/internal/generation"
)

// JSONEmitter writes the container as indented JSON with the class name under "modelType".
type JSONEmitter struct{}

// Name returns the emitter identifier.
func (e *JSONEmitter) Name() string { return "json" }

// FileExtension returns the file extension for JSON files.
func (e *JSONEmitter) FileExtension() string { return ".json" }

// Emit renders the container of the case.
func (e *JSONEmitter) Emit(c *generation.Case) ([]byte, error) {
	raw, err := c.Container.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", c.Identity(), err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent %s: %w", c.Identity(), err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
