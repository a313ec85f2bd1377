// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generation enumerates the test cases of a meta-model.
//
// For every concrete class a minimal and a maximal instance are built,
// embedded in their container and repaired. Every other case is derived from
// one of these two bases by a single edit on a private copy of the
// preserialized container, so no case can affect another.
package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dacolabs/testgen/internal/catalog"
	"github.com/dacolabs/testgen/internal/classgraph"
	"github.com/dacolabs/testgen/internal/creation"
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/preserial"
	"github.com/dacolabs/testgen/internal/repair"
	"github.com/dacolabs/testgen/internal/schema"
)

// ErrInvalidOptions indicates options that do not fit the schema.
var ErrInvalidOptions = errors.New("invalid generation options")

// errStopped signals that the consumer stopped early.
var errStopped = errors.New("generation stopped")

// Embedder builds the repaired minimal or maximal base of a class in place of
// the generic containment embedding.
type Embedder func(maximal bool) (*instance.Replica, error)

// CaseSource produces hand-built cases.
type CaseSource func() ([]*Case, error)

// ExampleTarget names the property that takes a value type literal and the
// properties that take the catalogued examples of that value type.
type ExampleTarget struct {
	ValueType string
	Values    []string
}

// Options configure a Generator.
type Options struct {
	Handyman *repair.Handyman
	Graph    *classgraph.Graph
	Catalog  *catalog.Catalog

	// PartialCatalog allows catalogued patterns the schema does not use.
	PartialCatalog bool

	// DateTimeUtc is the constrained primitive of UTC date-times, if any.
	DateTimeUtc string

	// ValueTypes is the enumeration of value type literals used by
	// ValueExamples and MinMaxExamples.
	ValueTypes     string
	ValueExamples  map[string]ExampleTarget
	MinMaxExamples map[string]ExampleTarget

	// UnexpectedInstance replaces scalars in type violations. A generic object
	// is used when nil.
	UnexpectedInstance *preserial.Object

	Embedders map[string]Embedder
	Manual    map[string]CaseSource
	Epilogue  []CaseSource

	// Filter selects the classes to generate cases for. All when nil.
	Filter func(className string) bool

	Logger *slog.Logger
}

// Generator enumerates cases. It is safe for concurrent use.
type Generator struct {
	opts    Options
	builder *creation.Builder
	schema  *schema.Schema
	classes []*schema.Class
	log     *slog.Logger
}

// New validates the options against the schema of the handyman.
func New(opts Options) (*Generator, error) {
	if opts.Handyman == nil || opts.Graph == nil || opts.Catalog == nil {
		return nil, fmt.Errorf("%w: handyman, graph and catalog are required", ErrInvalidOptions)
	}
	g := &Generator{
		opts:    opts,
		builder: opts.Handyman.Builder(),
		schema:  opts.Handyman.Schema(),
		log:     opts.Logger,
	}
	if g.log == nil {
		g.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.opts.UnexpectedInstance == nil {
		g.opts.UnexpectedInstance = &preserial.Object{
			ClassName:  "Unexpected",
			Properties: []preserial.Field{{Key: "value", Value: preserial.Primitive{Value: "unexpected instance"}}},
		}
	}

	if err := g.check(); err != nil {
		return nil, err
	}

	for _, c := range g.schema.ConcreteClasses() {
		if opts.Filter == nil || opts.Filter(c.Name) {
			g.classes = append(g.classes, c)
		}
	}
	return g, nil
}

func (g *Generator) check() error {
	var errs []error
	if err := g.opts.Handyman.Check(); err != nil {
		errs = append(errs, err)
	}
	checkPatterns := g.opts.Catalog.CheckPatterns
	if g.opts.PartialCatalog {
		checkPatterns = g.opts.Catalog.CoversPatterns
	}
	if err := checkPatterns(g.schema.Patterns()); err != nil {
		errs = append(errs, err)
	}

	if g.opts.DateTimeUtc != "" {
		if _, ok := g.schema.ConstrainedPrimitive(g.opts.DateTimeUtc); !ok {
			errs = append(errs, fmt.Errorf("%w: unknown constrained primitive %s", ErrInvalidOptions, g.opts.DateTimeUtc))
		}
	}

	if len(g.opts.ValueExamples) > 0 || len(g.opts.MinMaxExamples) > 0 {
		enum, err := g.schema.Enumeration(g.opts.ValueTypes)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: value types: %w", ErrInvalidOptions, err))
		} else if err := g.opts.Catalog.CheckValueTypes(enum.Literals); err != nil {
			errs = append(errs, err)
		}
		for _, targets := range []map[string]ExampleTarget{g.opts.ValueExamples, g.opts.MinMaxExamples} {
			for className, target := range targets {
				if err := g.checkTarget(className, target); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	for className := range g.opts.Embedders {
		if _, err := g.schema.Class(className); err != nil {
			errs = append(errs, fmt.Errorf("%w: embedder: %w", ErrInvalidOptions, err))
		}
	}
	for className := range g.opts.Manual {
		if _, err := g.schema.Class(className); err != nil {
			errs = append(errs, fmt.Errorf("%w: manual cases: %w", ErrInvalidOptions, err))
		}
	}
	return errors.Join(errs...)
}

func (g *Generator) checkTarget(className string, target ExampleTarget) error {
	c, err := g.schema.Class(className)
	if err != nil {
		return fmt.Errorf("%w: examples: %w", ErrInvalidOptions, err)
	}
	vt, err := c.Property(target.ValueType)
	if err != nil {
		return fmt.Errorf("%w: examples: %w", ErrInvalidOptions, err)
	}
	if ref, ok := schema.BeneathOptional(vt.Type).(schema.EnumerationRef); !ok || ref.Name != g.opts.ValueTypes {
		return fmt.Errorf("%w: %s.%s is not of type %s", ErrInvalidOptions, className, target.ValueType, g.opts.ValueTypes)
	}
	for _, name := range target.Values {
		if _, err := c.Property(name); err != nil {
			return fmt.Errorf("%w: examples: %w", ErrInvalidOptions, err)
		}
	}
	return nil
}

// Classes returns the concrete classes cases are generated for, sorted by name.
func (g *Generator) Classes() []*schema.Class {
	return append([]*schema.Class(nil), g.classes...)
}

// ContainerClass returns the class of the container the class is generated in.
func (g *Generator) ContainerClass(className string) string {
	if _, ok := g.opts.Embedders[className]; ok {
		return g.opts.Graph.Root()
	}
	if g.opts.Graph.SelfContained(className) {
		return className
	}
	return g.opts.Graph.Root()
}

// Base builds the repaired minimal or maximal instance of a concrete class in
// its container. The focus is guaranteed to reside at the path.
func (g *Generator) Base(class *schema.Class, maximal bool) (*instance.Replica, error) {
	replica, err := g.base(class, maximal)
	if err != nil {
		size := "minimal"
		if maximal {
			size = "maximal"
		}
		return nil, fmt.Errorf("generating a %s %s: %w", size, class.Name, err)
	}
	return replica, nil
}

func (g *Generator) base(class *schema.Class, maximal bool) (*instance.Replica, error) {
	create := g.builder.Minimal
	if maximal {
		create = g.builder.Maximal
	}

	if embed, ok := g.opts.Embedders[class.Name]; ok {
		replica, err := embed(maximal)
		if err != nil {
			return nil, err
		}
		return instance.NewReplica(replica.Container, replica.Instance, replica.Path)
	}

	path, ok := g.opts.Graph.Path(class.Name)
	if !ok {
		inst, err := create(class, pathhash.New())
		if err != nil {
			return nil, err
		}
		if err := g.opts.Handyman.Fix(inst); err != nil {
			return nil, err
		}
		return instance.NewReplica(inst, inst, nil)
	}

	root, focus, instPath, err := g.opts.Graph.Embed(g.builder, path, create)
	if err != nil {
		return nil, err
	}
	if err := g.opts.Handyman.Fix(root); err != nil {
		return nil, err
	}
	return instance.NewReplica(root, focus, instPath)
}

// All returns the cases lazily in a deterministic order. Iteration stops at
// the first error, which is yielded with a nil case.
func (g *Generator) All() iter.Seq2[*Case, error] {
	return func(yield func(*Case, error) bool) {
		total := 0
		emit := func(c *Case) bool {
			total++
			return yield(c, nil)
		}
		for _, class := range g.classes {
			if err := g.generate(class, emit); err != nil {
				if !errors.Is(err, errStopped) {
					yield(nil, err)
				}
				return
			}
		}
		if err := g.epilogue(emit); err != nil {
			if !errors.Is(err, errStopped) {
				yield(nil, err)
			}
			return
		}
		g.log.Info("generated cases", "classes", len(g.classes), "cases", total)
	}
}

// Collect generates the cases of up to workers classes concurrently and
// returns them in the order of All. The first error cancels the rest.
func (g *Generator) Collect(ctx context.Context, workers int) ([]*Case, error) {
	if workers < 1 {
		workers = 1
	}
	slots := make([][]*Case, len(g.classes))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, class := range g.classes {
		eg.Go(func() error {
			return g.generate(class, func(c *Case) bool {
				if ctx.Err() != nil {
					return false
				}
				slots[i] = append(slots[i], c)
				return true
			})
		})
	}
	if err := eg.Wait(); err != nil {
		if errors.Is(err, errStopped) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	var out []*Case
	for _, slot := range slots {
		out = append(out, slot...)
	}
	if err := g.epilogue(func(c *Case) bool {
		out = append(out, c)
		return true
	}); err != nil {
		return nil, err
	}
	g.log.Info("generated cases", "classes", len(g.classes), "cases", len(out), "workers", workers)
	return out, nil
}

func (g *Generator) epilogue(emit func(*Case) bool) error {
	for _, source := range g.opts.Epilogue {
		cases, err := source()
		if err != nil {
			return fmt.Errorf("generating epilogue cases: %w", err)
		}
		for _, c := range cases {
			if g.opts.Filter != nil && !g.opts.Filter(c.Class) {
				continue
			}
			if !emit(c) {
				return errStopped
			}
		}
	}
	return nil
}
