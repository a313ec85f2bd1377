// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session resolves the configuration and the meta-model of a run
// and builds the generator the CLI commands work with.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dacolabs/testgen/internal/aas"
	"github.com/dacolabs/testgen/internal/catalog"
	"github.com/dacolabs/testgen/internal/classgraph"
	"github.com/dacolabs/testgen/internal/config"
	"github.com/dacolabs/testgen/internal/creation"
	"github.com/dacolabs/testgen/internal/generation"
	"github.com/dacolabs/testgen/internal/jschema"
	"github.com/dacolabs/testgen/internal/repair"
	"github.com/dacolabs/testgen/internal/schema"
)

var (
	// ErrConfigNotFound indicates an explicitly given config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelNotFound indicates the meta-model referenced by config doesn't exist.
	ErrModelNotFound = errors.New("meta-model not found")

	// ErrInvalidModel indicates the meta-model exists but couldn't be used.
	ErrInvalidModel = errors.New("invalid meta-model")
)

// ConfigFileName is the name of the configuration file looked up in the working directory.
const ConfigFileName = "testgen.yaml"

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Overrides are command-line values taking precedence over the config file.
// Zero values leave the config untouched.
type Overrides struct {
	Output   string
	Emitters []string
	Classes  []string
	Workers  int
	Metrics  string
}

func (o Overrides) apply(cfg *config.Config) {
	if o.Output != "" {
		cfg.Output = o.Output
	}
	if len(o.Emitters) > 0 {
		cfg.Emitters = o.Emitters
	}
	if len(o.Classes) > 0 {
		cfg.Classes = o.Classes
	}
	if o.Workers != 0 {
		cfg.Workers = o.Workers
	}
	if o.Metrics != "" {
		cfg.Metrics = o.Metrics
	}
}

// Options control how a session is loaded.
type Options struct {
	// ConfigPath is the config file. testgen.yaml in the working directory is
	// used when present, the defaults otherwise.
	ConfigPath string
	Overrides  Overrides
	Logger     *slog.Logger
}

// Context holds the resolved configuration and the generator built from it.
type Context struct {
	// Config is the fully resolved configuration (with defaults and overrides applied).
	Config *config.Config

	Schema    *schema.Schema
	Graph     *classgraph.Graph
	Handyman  *repair.Handyman
	Generator *generation.Generator

	// Builtin reports whether the built-in meta-model is used.
	Builtin bool
}

// Load resolves the session and returns a new context.Context with the
// session Context stored in it.
func Load(ctx context.Context, opts Options) (context.Context, error) {
	sess, err := New(opts)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, contextKey{}, sess), nil
}

// New resolves the configuration and builds the generator.
func New(opts Options) (*Context, error) {
	cfg, baseDir, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	opts.Overrides.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	sess := &Context{Config: cfg}
	var genOpts generation.Options
	if cfg.Model == "" {
		p, err := aas.New(cat)
		if err != nil {
			return nil, err
		}
		sess.Builtin = true
		sess.Schema, sess.Graph, sess.Handyman = p.Schema(), p.Graph(), p.Handyman()
		genOpts = p.Options()
	} else {
		modelPath := cfg.Model
		if !filepath.IsAbs(modelPath) {
			modelPath = filepath.Join(baseDir, modelPath)
		}
		if err := sess.loadCustom(modelPath, cfg.Root, cat); err != nil {
			return nil, err
		}
		genOpts = generation.Options{
			Handyman:       sess.Handyman,
			Graph:          sess.Graph,
			Catalog:        cat,
			PartialCatalog: true,
		}
	}

	genOpts.Filter = cfg.MatchClass
	genOpts.Logger = opts.Logger
	g, err := generation.New(genOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	sess.Generator = g
	return sess, nil
}

// loadConfig returns the config and the directory relative model paths are resolved against.
func loadConfig(configPath string) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(cwd, ConfigFileName)
	}
	if _, statErr := os.Stat(configPath); errors.Is(statErr, fs.ErrNotExist) {
		if explicit {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return config.Default(), cwd, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, filepath.Dir(configPath), nil
}

// loadCustom builds a meta-model without repair hooks or verifier.
func (c *Context) loadCustom(modelPath, root string, cat *catalog.Catalog) error {
	if _, err := os.Stat(modelPath); err != nil {
		return fmt.Errorf("%w: %v", ErrModelNotFound, err)
	}

	loader := jschema.NewLoader(os.DirFS(filepath.Dir(modelPath)))
	s, err := loader.LoadMetaModel(filepath.Base(modelPath))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	graph, err := classgraph.New(s, root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	h := repair.New(creation.New(s, cat), nil)
	for _, class := range s.ConcreteClasses() {
		h.Register(class.Name, repair.Noop)
	}
	c.Schema, c.Graph, c.Handyman = s, graph, h
	return nil
}

// From extracts the session Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sess, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sess
	}
	return nil
}
