// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package aas is the built-in profile: a subset of the asset administration
// shell meta-model together with the repair hooks, the verification oracle,
// the custom embedders and the hand-built cases it needs.
package aas

import (
	_ "embed"
	"fmt"

	"github.com/dacolabs/testgen/internal/catalog"
	"github.com/dacolabs/testgen/internal/classgraph"
	"github.com/dacolabs/testgen/internal/creation"
	"github.com/dacolabs/testgen/internal/generation"
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/jschema"
	"github.com/dacolabs/testgen/internal/repair"
	"github.com/dacolabs/testgen/internal/schema"
)

// RootClass is the container every non-self-contained case is embedded in.
const RootClass = "Environment"

const (
	valueTypes  = "DataTypeDefXsd"
	dateTimeUtc = "DateTimeUtc"
)

//go:embed model.json
var modelJSON []byte

// Load builds the schema of the embedded meta-model.
func Load() (*schema.Schema, error) {
	doc, err := jschema.Parse(modelJSON, jschema.JSON)
	if err != nil {
		return nil, fmt.Errorf("parsing the built-in meta-model: %w", err)
	}
	s, err := jschema.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("building the built-in meta-model: %w", err)
	}
	return s, nil
}

// Profile wires the built-in meta-model to the generator.
type Profile struct {
	schema   *schema.Schema
	catalog  *catalog.Catalog
	builder  *creation.Builder
	handyman *repair.Handyman
	graph    *classgraph.Graph
}

// New loads the built-in meta-model and registers its hooks.
func New(cat *catalog.Catalog) (*Profile, error) {
	s, err := Load()
	if err != nil {
		return nil, err
	}
	graph, err := classgraph.New(s, RootClass)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		schema:  s,
		catalog: cat,
		builder: creation.New(s, cat),
		graph:   graph,
	}
	p.handyman = repair.New(p.builder, p.Verify)
	p.registerHooks()
	return p, nil
}

// Schema returns the schema of the built-in meta-model.
func (p *Profile) Schema() *schema.Schema { return p.schema }

// Handyman returns the handyman with every hook registered.
func (p *Profile) Handyman() *repair.Handyman { return p.handyman }

// Graph returns the containment graph rooted at the environment.
func (p *Profile) Graph() *classgraph.Graph { return p.graph }

// Options returns the generation options of the profile.
func (p *Profile) Options() generation.Options {
	valueTarget := generation.ExampleTarget{ValueType: "valueType", Values: []string{"value"}}
	return generation.Options{
		Handyman:    p.handyman,
		Graph:       p.graph,
		Catalog:     p.catalog,
		DateTimeUtc: dateTimeUtc,
		ValueTypes:  valueTypes,
		ValueExamples: map[string]generation.ExampleTarget{
			"Extension": valueTarget,
			"Property":  valueTarget,
			"Qualifier": valueTarget,
		},
		MinMaxExamples: map[string]generation.ExampleTarget{
			"Range": {ValueType: "valueType", Values: []string{"min", "max"}},
		},
		Embedders: map[string]generation.Embedder{
			"Key":       p.embedKey,
			"Reference": p.embedReference,
		},
		Manual: map[string]generation.CaseSource{
			"SubmodelElementList": p.listCases,
		},
		Epilogue: []generation.CaseSource{p.referenceCases},
	}
}

func (p *Profile) newInstance(className string) *instance.Instance {
	return instance.New(p.schema.MustClass(className))
}
