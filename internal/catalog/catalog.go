// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package catalog provides frozen examples of texts that match and do not
// match the patterns of the meta-model, and of values consistent and
// inconsistent with its XSD value types.
//
// Examples keep the order in which they are written so that every consumer
// iterates them deterministically.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingExamples indicates a pattern or value type without catalogued examples.
	ErrMissingExamples = errors.New("missing examples")

	// ErrUnusedExamples indicates catalogued examples nothing in the meta-model refers to.
	ErrUnusedExamples = errors.New("unused examples")
)

//go:embed patterns.yaml
var patternsYAML []byte

//go:embed value_types.yaml
var valueTypesYAML []byte

// Example is a named text.
type Example struct {
	Name  string
	Value string
}

// Examples are the positive and negative examples of one pattern or value type.
type Examples struct {
	Positives []Example
	Negatives []Example
}

// PositiveValues returns the texts of the positive examples in order.
func (e Examples) PositiveValues() []string {
	out := make([]string, len(e.Positives))
	for i, ex := range e.Positives {
		out[i] = ex.Value
	}
	return out
}

// Catalog indexes examples by pattern and by value type.
type Catalog struct {
	byPattern      map[string]Examples
	patternOrder   []string
	byValueType    map[string]Examples
	valueTypeOrder []string
}

// Default parses the embedded catalogs.
func Default() (*Catalog, error) {
	return Parse(patternsYAML, valueTypesYAML)
}

// Parse builds a catalog from YAML documents listing pattern and value-type examples.
func Parse(patterns, valueTypes []byte) (*Catalog, error) {
	c := &Catalog{
		byPattern:   make(map[string]Examples),
		byValueType: make(map[string]Examples),
	}

	var patternEntries []entry
	if err := yaml.Unmarshal(patterns, &patternEntries); err != nil {
		return nil, fmt.Errorf("parsing pattern examples: %w", err)
	}
	for _, e := range patternEntries {
		if e.Pattern == "" {
			return nil, errors.New("parsing pattern examples: entry without a pattern")
		}
		if _, dup := c.byPattern[e.Pattern]; dup {
			return nil, fmt.Errorf("parsing pattern examples: duplicate pattern %q", e.Pattern)
		}
		c.byPattern[e.Pattern] = e.examples()
		c.patternOrder = append(c.patternOrder, e.Pattern)
	}

	var valueTypeEntries []entry
	if err := yaml.Unmarshal(valueTypes, &valueTypeEntries); err != nil {
		return nil, fmt.Errorf("parsing value type examples: %w", err)
	}
	for _, e := range valueTypeEntries {
		if e.ValueType == "" {
			return nil, errors.New("parsing value type examples: entry without a value type")
		}
		if _, dup := c.byValueType[e.ValueType]; dup {
			return nil, fmt.Errorf("parsing value type examples: duplicate value type %q", e.ValueType)
		}
		c.byValueType[e.ValueType] = e.examples()
		c.valueTypeOrder = append(c.valueTypeOrder, e.ValueType)
	}

	return c, nil
}

// ByPattern returns the examples of a pattern.
func (c *Catalog) ByPattern(pattern string) (Examples, bool) {
	e, ok := c.byPattern[pattern]
	return e, ok
}

// PositiveValues returns the texts matching the pattern.
func (c *Catalog) PositiveValues(pattern string) ([]string, bool) {
	e, ok := c.byPattern[pattern]
	if !ok {
		return nil, false
	}
	return e.PositiveValues(), true
}

// ByValueType returns the examples of a value type literal such as "xs:int".
func (c *Catalog) ByValueType(valueType string) (Examples, bool) {
	e, ok := c.byValueType[valueType]
	return e, ok
}

// Patterns returns the catalogued patterns in file order.
func (c *Catalog) Patterns() []string {
	return append([]string(nil), c.patternOrder...)
}

// ValueTypes returns the catalogued value types in file order.
func (c *Catalog) ValueTypes() []string {
	return append([]string(nil), c.valueTypeOrder...)
}

// CheckPatterns verifies that the catalog covers exactly the given patterns.
func (c *Catalog) CheckPatterns(patterns []string) error {
	return lockstep("pattern", c.patternOrder, patterns, false)
}

// CoversPatterns verifies that every given pattern has catalogued examples.
// Catalogued patterns the schema does not use are allowed.
func (c *Catalog) CoversPatterns(patterns []string) error {
	return lockstep("pattern", c.patternOrder, patterns, true)
}

// CheckValueTypes verifies that the catalog covers exactly the given value type literals.
func (c *Catalog) CheckValueTypes(literals []string) error {
	return lockstep("value type", c.valueTypeOrder, literals, false)
}

func lockstep(what string, catalogued, wanted []string, allowUnused bool) error {
	have := make(map[string]struct{}, len(catalogued))
	for _, k := range catalogued {
		have[k] = struct{}{}
	}
	want := make(map[string]struct{}, len(wanted))
	for _, k := range wanted {
		want[k] = struct{}{}
	}

	var missing, unused []string
	for _, k := range wanted {
		if _, ok := have[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range catalogued {
		if _, ok := want[k]; !ok {
			unused = append(unused, k)
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w for %s: %s", ErrMissingExamples, what, quoteAll(missing)))
	}
	if len(unused) > 0 && !allowUnused {
		errs = append(errs, fmt.Errorf("%w for %s: %s", ErrUnusedExamples, what, quoteAll(unused)))
	}
	return errors.Join(errs...)
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

type entry struct {
	Pattern   string     `yaml:"pattern"`
	ValueType string     `yaml:"valueType"`
	Positives orderedMap `yaml:"positives"`
	Negatives orderedMap `yaml:"negatives"`
}

func (e entry) examples() Examples {
	return Examples{Positives: e.Positives, Negatives: e.Negatives}
}

// orderedMap decodes a YAML mapping of names to texts keeping the key order.
type orderedMap []Example

func (m *orderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of example names to texts", node.Line)
	}
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := seen[name]; dup {
			return fmt.Errorf("line %d: duplicate example %q", node.Content[i].Line, name)
		}
		seen[name] = struct{}{}

		var value string
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: example %q: %w", node.Content[i+1].Line, name, err)
		}
		*m = append(*m, Example{Name: name, Value: value})
	}
	return nil
}
