// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dacolabs/testgen/internal/schema"
	"github.com/google/jsonschema-go/jsonschema"
)

var (
	// ErrUnknownRef indicates a $ref that does not name a definition of the document.
	ErrUnknownRef = errors.New("unknown reference")

	// ErrUnsupportedSchema indicates a construct the meta-model conventions do not cover.
	ErrUnsupportedSchema = errors.New("unsupported schema")
)

const (
	defsPrefix   = "#/$defs/"
	choiceSuffix = "_choice"
)

// LoadMetaModel loads a meta-model document from the filesystem and builds its schema.
func (l *Loader) LoadMetaModel(filePath string) (*schema.Schema, error) {
	doc, err := l.LoadFile(filePath)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Build turns a meta-model document into a schema.
//
// Every $defs entry is one of: a class (an object, or an allOf of parent refs and
// an object part), a choice listing the concrete variants of a class ("X_choice",
// a oneOf of refs), an enumeration (a string with enum) or a constrained primitive.
func Build(doc *Document) (*schema.Schema, error) {
	b := &builder{
		doc:         doc,
		defs:        doc.Schema.Defs,
		classDefs:   make(map[string]*jsonschema.Schema),
		choices:     make(map[string][]string),
		classes:     make(map[string]*schema.Class),
		enums:       make(map[string]*schema.Enumeration),
		constrained: make(map[string]*schema.ConstrainedPrimitiveDef),
	}
	if err := b.checkRefs(); err != nil {
		return nil, err
	}
	if err := b.classify(); err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(b.classDefs) {
		if _, err := b.class(name, nil); err != nil {
			return nil, err
		}
	}
	if err := b.resolveHierarchy(); err != nil {
		return nil, err
	}

	classes := make([]*schema.Class, 0, len(b.classes))
	for _, name := range sortedKeys(b.classes) {
		classes = append(classes, b.classes[name])
	}
	enums := make([]*schema.Enumeration, 0, len(b.enums))
	for _, name := range sortedKeys(b.enums) {
		enums = append(enums, b.enums[name])
	}
	constrained := make([]*schema.ConstrainedPrimitiveDef, 0, len(b.constrained))
	for _, name := range sortedKeys(b.constrained) {
		constrained = append(constrained, b.constrained[name])
	}
	return schema.New(classes, enums, constrained), nil
}

type builder struct {
	doc       *Document
	defs      map[string]*jsonschema.Schema
	classDefs map[string]*jsonschema.Schema
	choices   map[string][]string

	classes     map[string]*schema.Class
	enums       map[string]*schema.Enumeration
	constrained map[string]*schema.ConstrainedPrimitiveDef
}

func (b *builder) checkRefs() error {
	for s := range Traverse(b.doc.Schema, nil) {
		if s.Ref == "" {
			continue
		}
		if _, err := b.defName(s.Ref); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) defName(ref string) (string, error) {
	if IsFileRef(ref) {
		return "", fmt.Errorf("%w: external reference %s", ErrUnsupportedSchema, ref)
	}
	name, ok := strings.CutPrefix(ref, defsPrefix)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRef, ref)
	}
	if _, ok := b.defs[name]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRef, ref)
	}
	return name, nil
}

func (b *builder) classify() error {
	for _, name := range sortedKeys(b.defs) {
		def := b.defs[name]
		switch {
		case strings.HasSuffix(name, choiceSuffix):
			base := strings.TrimSuffix(name, choiceSuffix)
			if len(def.OneOf) == 0 {
				return fmt.Errorf("%w: %s: a choice needs oneOf", ErrUnsupportedSchema, name)
			}
			for _, variant := range def.OneOf {
				variantName, err := b.defName(variant.Ref)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				b.choices[base] = append(b.choices[base], variantName)
			}
		case def.Type == "string" && len(def.Enum) > 0:
			literals, err := stringLiterals(def.Enum)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			b.enums[name] = &schema.Enumeration{Name: name, Literals: literals}
		case def.Type == "object" || len(def.AllOf) > 0:
			b.classDefs[name] = def
		default:
			prim, err := primitiveType(def)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			b.constrained[name] = &schema.ConstrainedPrimitiveDef{
				Name:        name,
				Type:        prim,
				Constraints: localConstraints(def),
			}
		}
	}

	for base, variants := range b.choices {
		if _, ok := b.classDefs[base]; !ok {
			return fmt.Errorf("%w: choice of %s which is not a class", ErrUnsupportedSchema, base)
		}
		for _, v := range variants {
			if _, ok := b.classDefs[v]; !ok {
				return fmt.Errorf("%w: %s%s lists %s which is not a class", ErrUnsupportedSchema, base, choiceSuffix, v)
			}
		}
	}
	return nil
}

// class builds a class with its inherited properties. Parents are built first.
func (b *builder) class(name string, stack []string) (*schema.Class, error) {
	if c, ok := b.classes[name]; ok {
		return c, nil
	}
	if slices.Contains(stack, name) {
		return nil, fmt.Errorf("%w: inheritance cycle through %s", ErrUnsupportedSchema, name)
	}
	stack = append(stack, name)

	def := b.classDefs[name]
	c := &schema.Class{Name: name}
	if variants, ok := b.choices[name]; ok {
		c.Abstract = !slices.Contains(variants, name)
	}

	type part struct {
		def  *jsonschema.Schema
		path string
	}
	var own []part
	if len(def.AllOf) == 0 {
		own = append(own, part{def: def, path: "$defs." + name + ".properties"})
	}
	for i, sub := range def.AllOf {
		if sub.Ref == "" {
			own = append(own, part{def: sub, path: fmt.Sprintf("$defs.%s.allOf.%d.properties", name, i)})
			continue
		}
		parentName, err := b.defName(sub.Ref)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, ok := b.classDefs[parentName]; !ok {
			return nil, fmt.Errorf("%w: %s inherits from %s which is not a class", ErrUnsupportedSchema, name, parentName)
		}
		parent, err := b.class(parentName, stack)
		if err != nil {
			return nil, err
		}
		c.Parents = append(c.Parents, parentName)
		for _, p := range parent.Properties {
			if c.HasProperty(p.Name) {
				return nil, fmt.Errorf("%w: %s inherits %s twice", ErrUnsupportedSchema, name, p.Name)
			}
			c.Properties = append(c.Properties, p)
		}
	}

	for _, o := range own {
		names := b.doc.KeyOrder[o.path]
		if len(names) != len(o.def.Properties) {
			names = sortedKeys(o.def.Properties)
		}
		for _, propName := range names {
			if c.HasProperty(propName) {
				return nil, fmt.Errorf("%w: %s redefines %s", ErrUnsupportedSchema, name, propName)
			}
			typ, constraints, err := b.propertyType(o.def.Properties[propName])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, propName, err)
			}
			if !slices.Contains(o.def.Required, propName) {
				typ = schema.Optional{Value: typ}
			}
			c.Properties = append(c.Properties, &schema.Property{
				Name:         propName,
				Type:         typ,
				SpecifiedFor: name,
				Constraints:  constraints,
			})
		}
	}

	b.classes[name] = c
	return c, nil
}

func (b *builder) propertyType(s *jsonschema.Schema) (schema.TypeAnnotation, schema.Constraints, error) {
	local := localConstraints(s)

	if s.Ref != "" {
		name, err := b.defName(s.Ref)
		if err != nil {
			return nil, schema.Constraints{}, err
		}
		if base, ok := strings.CutSuffix(name, choiceSuffix); ok {
			return schema.ClassRef{Name: base}, local, nil
		}
		if _, ok := b.classDefs[name]; ok {
			return schema.ClassRef{Name: name}, local, nil
		}
		if enum, ok := b.enums[name]; ok {
			if len(s.Enum) > 0 {
				literals, err := stringLiterals(s.Enum)
				if err != nil {
					return nil, schema.Constraints{}, err
				}
				for _, l := range literals {
					if !enum.Has(l) {
						return nil, schema.Constraints{}, fmt.Errorf("%w: %q is not a literal of %s", ErrUnsupportedSchema, l, name)
					}
				}
				local.SetOfLiterals = literals
				local.SetOfPrimitives = nil
			}
			return schema.EnumerationRef{Name: name}, local, nil
		}
		if cp, ok := b.constrained[name]; ok {
			return schema.ConstrainedPrimitive{Name: name, Type: cp.Type}, cp.Constraints.Merge(local), nil
		}
		return nil, schema.Constraints{}, fmt.Errorf("%w: %s", ErrUnknownRef, s.Ref)
	}

	if s.Type == "array" {
		if s.Items == nil {
			return nil, schema.Constraints{}, fmt.Errorf("%w: array without items", ErrUnsupportedSchema)
		}
		items, itemConstraints, err := b.propertyType(s.Items)
		if err != nil {
			return nil, schema.Constraints{}, fmt.Errorf("items: %w", err)
		}
		if hasConstraints(itemConstraints) {
			return nil, schema.Constraints{}, fmt.Errorf("%w: constraints on list items", ErrUnsupportedSchema)
		}
		return schema.List{Items: items}, local, nil
	}

	prim, err := primitiveType(s)
	if err != nil {
		return nil, schema.Constraints{}, err
	}
	return schema.Primitive{Type: prim}, local, nil
}

// resolveHierarchy fills in concrete descendants and checks them against the choices.
func (b *builder) resolveHierarchy() error {
	for _, name := range sortedKeys(b.classes) {
		c := b.classes[name]
		if c.Abstract {
			continue
		}
		for _, ancestor := range b.ancestors(c) {
			a := b.classes[ancestor]
			a.ConcreteDescendants = append(a.ConcreteDescendants, name)
		}
	}
	for _, c := range b.classes {
		slices.Sort(c.ConcreteDescendants)
		c.ConcreteDescendants = slices.Compact(c.ConcreteDescendants)

		variants, ok := b.choices[c.Name]
		if !ok {
			continue
		}
		want := slices.Sorted(slices.Values(variants))
		got := slices.Sorted(slices.Values(c.Variants()))
		if !slices.Equal(want, got) {
			return fmt.Errorf("%w: %s%s lists %v, inheritance gives %v", ErrUnsupportedSchema, c.Name, choiceSuffix, want, got)
		}
	}
	return nil
}

func (b *builder) ancestors(c *schema.Class) []string {
	var out []string
	queue := append([]string(nil), c.Parents...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
		queue = append(queue, b.classes[name].Parents...)
	}
	return out
}

func primitiveType(s *jsonschema.Schema) (schema.PrimitiveType, error) {
	switch s.Type {
	case "string":
		if s.ContentEncoding == "base64" {
			return schema.Bytes, nil
		}
		return schema.Str, nil
	case "integer":
		return schema.Int, nil
	case "number":
		return schema.Float, nil
	case "boolean":
		return schema.Bool, nil
	default:
		return 0, fmt.Errorf("%w: type %q", ErrUnsupportedSchema, s.Type)
	}
}

func localConstraints(s *jsonschema.Schema) schema.Constraints {
	var c schema.Constraints
	if s.MinLength != nil || s.MaxLength != nil {
		c.Len = &schema.Len{Min: s.MinLength, Max: s.MaxLength}
	}
	if s.MinItems != nil || s.MaxItems != nil {
		c.Len = &schema.Len{Min: s.MinItems, Max: s.MaxItems}
	}
	if s.Pattern != "" {
		c.Patterns = []string{s.Pattern}
	}
	if len(s.Enum) > 0 {
		c.SetOfPrimitives = primitiveSet(s)
	}
	return c
}

// primitiveSet normalizes enum values decoded from JSON to the instance value kinds.
func primitiveSet(s *jsonschema.Schema) []any {
	out := make([]any, 0, len(s.Enum))
	for _, v := range s.Enum {
		if f, ok := v.(float64); ok && s.Type == "integer" {
			out = append(out, int64(f))
			continue
		}
		out = append(out, v)
	}
	return out
}

func stringLiterals(values []any) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string literal %v", ErrUnsupportedSchema, v)
		}
		out = append(out, s)
	}
	return out, nil
}

func hasConstraints(c schema.Constraints) bool {
	return c.Len != nil || len(c.Patterns) > 0 || len(c.SetOfPrimitives) > 0 || len(c.SetOfLiterals) > 0
}
