// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "testgen.yaml")

	cfg := Config{
		Version:  1,
		Model:    "model.yaml",
		Root:     "Catalog",
		Emitters: []string{"yaml"},
		Workers:  2,
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	loaded, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, cfg, *loaded)
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, []string{"json"}, cfg.Emitters)
	assert.Equal(t, "Environment", cfg.Root)
	assert.Equal(t, 1, cfg.Workers)
	assert.Empty(t, cfg.Model)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "valid config",
			cfg:     Config{Version: 1, Workers: 1},
			wantErr: "",
		},
		{
			name:    "unsupported version",
			cfg:     Config{Version: 99, Workers: 1},
			wantErr: "unsupported config version",
		},
		{
			name:    "no workers",
			cfg:     Config{Version: 1, Workers: -1},
			wantErr: "workers must be at least 1",
		},
		{
			name:    "empty emitter",
			cfg:     Config{Version: 1, Workers: 1, Emitters: []string{"json", ""}},
			wantErr: "emitters[1] is empty",
		},
		{
			name:    "bad class pattern",
			cfg:     Config{Version: 1, Workers: 1, Classes: []string{"Sub[model"}},
			wantErr: "invalid class pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_MatchClass(t *testing.T) {
	cfg := Config{Classes: []string{"Submodel*", "Key"}}

	assert.True(t, cfg.MatchClass("Submodel"))
	assert.True(t, cfg.MatchClass("SubmodelElementList"))
	assert.True(t, cfg.MatchClass("Key"))
	assert.False(t, cfg.MatchClass("KeyTypes"))
	assert.False(t, cfg.MatchClass("Entity"))

	assert.True(t, (&Config{}).MatchClass("Entity"))
}

func TestConfig_SaveFormat(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "testgen.yaml")

	cfg := Config{
		Version: 1,
		Output:  "out",
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file path
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, "version: 1")
	assert.Contains(t, output, "output: out")
	assert.NotContains(t, output, "model:")
}

func TestConfig_Load(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, []string{"json", "yaml"}, cfg.Emitters)
	assert.Equal(t, []string{"Submodel*", "Key"}, cfg.Classes)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "out/testgen.prom", cfg.Metrics)

	cfg.ApplyDefaults()
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "Environment", cfg.Root)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Load_NotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	assert.Error(t, err)
}

func TestConfig_Save_InvalidPath(t *testing.T) {
	cfg := Config{Version: 1}

	err := cfg.Save("/nonexistent/directory/config.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyFile, []byte(""), 0o600))

	_, err := Load(emptyFile)
	assert.Error(t, err)
}
