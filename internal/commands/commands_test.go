// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dacolabs/testgen/internal/config"
	"github.com/dacolabs/testgen/internal/emit"
	"github.com/dacolabs/testgen/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(t.TempDir()))

	var out, errOut bytes.Buffer
	rootCmd := NewRootCmd(emit.Default())
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	metricsFile := filepath.Join(t.TempDir(), "testgen.prom")

	out, err := execute(t, "generate", "--out", dir, "--class", "Key", "--emitter", "json,yaml", "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Output: "+dir)
	assert.Contains(t, out, "✓ Classes: 1\n")
	assert.Contains(t, out, "Generation completed")

	m, err := emit.LoadManifest(filepath.Join(dir, emit.ManifestFileName))
	require.NoError(t, err)
	require.NotEmpty(t, m.Cases)
	for _, e := range m.Cases {
		assert.Equal(t, "Key", e.Class)
		assert.Len(t, e.Files, 2)
	}
	_, err = os.Stat(filepath.Join(dir, "json", "ContainedInEnvironment", "Expected", "Key", "minimal.json"))
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile) //nolint:gosec // test file path
	require.NoError(t, err)
	assert.Contains(t, string(data), "testgen_classes_total 1")
}

func TestGenerate_UnknownEmitter(t *testing.T) {
	_, err := execute(t, "generate", "--out", t.TempDir(), "--class", "Key", "--emitter", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown emitter: xml")
}

func TestClasses(t *testing.T) {
	out, err := execute(t, "classes")
	require.NoError(t, err)
	assert.Contains(t, out, "CLASS")
	assert.Regexp(t, `Environment\s+Environment\s+self-contained`, out)
	assert.Regexp(t, `Submodel\s+Environment\s+Environment\.submodels\[0\] -> Submodel`, out)
	assert.Contains(t, out, "✓ Root: Environment\n")
	assert.Regexp(t, `✓ Classes: \d+\n`, out)
}

func TestDump(t *testing.T) {
	out, err := execute(t, "dump", "Key")
	require.NoError(t, err)
	assert.Contains(t, out, "# Key at assetAdministrationShells/0/derivedFrom/keys/0")

	_, err = execute(t, "dump", "SubmodelElement")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abstract")
}

func TestInit(t *testing.T) {
	out, err := execute(t, "init", "--non-interactive", "--emitter", "json,yaml", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Model: built-in")
	assert.Contains(t, out, "Initialization completed")

	cfg, err := config.Load(session.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		Version:  config.CurrentConfigVersion,
		Root:     config.DefaultRoot,
		Output:   config.DefaultOutput,
		Emitters: []string{"json", "yaml"},
		Workers:  2,
	}, cfg)
}

func TestInit_ExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "testgen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0o600))

	_, err := execute(t, "init", "--config", configPath, "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--config", configPath, "--non-interactive", "--force", "--out", "fixtures")
	require.NoError(t, err)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "fixtures", cfg.Output)
}

func TestInit_InvalidInput(t *testing.T) {
	_, err := execute(t, "init", "--non-interactive", "--emitter", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown emitter: xml")

	_, err = execute(t, "init", "--non-interactive", "--workers=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = execute(t, "init", "--non-interactive", "--model", "missing.json")
	require.ErrorIs(t, err, session.ErrModelNotFound)
}

func TestInit_CustomModel(t *testing.T) {
	model, err := os.ReadFile(filepath.Join("..", "session", "testdata", "custom", "model.yaml"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yaml"), model, 0o600))
	configPath := filepath.Join(dir, session.ConfigFileName)

	_, err = execute(t, "init", "--config", configPath, "--model", "model.yaml", "--root", "Library", "--non-interactive")
	require.NoError(t, err)

	out, err := execute(t, "classes", "--config", configPath)
	require.NoError(t, err)
	assert.Regexp(t, `Library\s+Library\s+self-contained`, out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "testgen version")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "classes", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
