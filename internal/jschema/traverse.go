// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"iter"

	"github.com/google/jsonschema-go/jsonschema"
)

// RefResolver resolves $ref strings to schemas.
// Return nil if the ref cannot be resolved.
type RefResolver func(ref string) *jsonschema.Schema

// Traverse returns an iterator over all schemas in the tree, depth first.
// Cycles are cut by tracking visited schemas.
// If resolver is provided, $ref links are followed to their targets.
func Traverse(root *jsonschema.Schema, resolver RefResolver) iter.Seq[*jsonschema.Schema] {
	return func(yield func(*jsonschema.Schema) bool) {
		visited := make(map[*jsonschema.Schema]struct{})
		walk(root, resolver, yield, visited)
	}
}

func walk(s *jsonschema.Schema, resolver RefResolver, yield func(*jsonschema.Schema) bool, visited map[*jsonschema.Schema]struct{}) bool {
	if s == nil {
		return true
	}
	if _, ok := visited[s]; ok {
		return true
	}
	visited[s] = struct{}{}

	if !yield(s) {
		return false
	}

	if s.Ref != "" && resolver != nil {
		if resolved := resolver(s.Ref); resolved != nil {
			if !walk(resolved, resolver, yield, visited) {
				return false
			}
		}
	}

	for _, name := range sortedKeys(s.Defs) {
		if !walk(s.Defs[name], resolver, yield, visited) {
			return false
		}
	}
	for _, name := range sortedKeys(s.Properties) {
		if !walk(s.Properties[name], resolver, yield, visited) {
			return false
		}
	}
	for _, name := range sortedKeys(s.PatternProperties) {
		if !walk(s.PatternProperties[name], resolver, yield, visited) {
			return false
		}
	}
	for _, name := range sortedKeys(s.DependentSchemas) {
		if !walk(s.DependentSchemas[name], resolver, yield, visited) {
			return false
		}
	}

	singles := []*jsonschema.Schema{
		s.AdditionalProperties, s.PropertyNames, s.UnevaluatedProperties,
		s.Items, s.Contains, s.UnevaluatedItems,
		s.Not, s.If, s.Then, s.Else, s.ContentSchema,
	}
	for _, child := range singles {
		if !walk(child, resolver, yield, visited) {
			return false
		}
	}

	for _, group := range [][]*jsonschema.Schema{s.PrefixItems, s.AllOf, s.AnyOf, s.OneOf} {
		for _, child := range group {
			if !walk(child, resolver, yield, visited) {
				return false
			}
		}
	}

	return true
}
