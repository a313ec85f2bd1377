// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generation

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/preserial"
	"github.com/dacolabs/testgen/internal/schema"
	"github.com/dacolabs/testgen/internal/synth"
)

// ErrUnsupportedMutation indicates a property the generator cannot mutate as required.
var ErrUnsupportedMutation = errors.New("unsupported mutation")

const (
	february29th        = "2022-02-29T12:13:14Z"
	invalidLiteral      = "totally utterly invalid"
	additionalKey       = "unexpected_additional_property"
	additionalValue     = "INVALID"
	outsideSetValue     = "unexpected value"
	unexpectedListValue = "Unexpected string value"
)

// base is a repaired replica together with its preserialized container.
type base struct {
	class     *schema.Class
	container string
	replica   *instance.Replica
	tree      *preserial.Object
	focus     *preserial.Object
}

// snapshot copies the container and returns the copy and its focus object.
func (b *base) snapshot() (*preserial.Object, *preserial.Object) {
	tree := b.tree.Clone()
	focus, err := preserial.ObjectAt(tree, b.replica.Path)
	if err != nil {
		// The path was resolved on the original tree.
		panic(fmt.Sprintf("generation: focus lost in a copy of %s: %v", b.class.Name, err))
	}
	return tree, focus
}

func (b *base) newCase(kind Kind, tree *preserial.Object, meta Meta) *Case {
	return &Case{
		Kind:           kind,
		ContainerClass: b.container,
		Class:          b.class.Name,
		Expected:       kind.Expected(),
		Container:      tree,
		Meta:           meta,
	}
}

// present lists the properties set on the focus, in class order.
func (b *base) present() []*schema.Property {
	var out []*schema.Property
	for _, p := range b.class.Properties {
		if b.focus.Has(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

func (g *Generator) newBase(class *schema.Class, maximal bool) (*base, error) {
	replica, err := g.Base(class, maximal)
	if err != nil {
		return nil, err
	}
	tree, index := preserial.Preserialize(replica.Container)
	return &base{
		class:     class,
		container: replica.Container.ClassName(),
		replica:   replica,
		tree:      tree,
		focus:     index[replica.Instance],
	}, nil
}

// generate emits the cases of one class in a fixed order. It returns
// errStopped when emit asks to stop.
func (g *Generator) generate(class *schema.Class, emit func(*Case) bool) error {
	minimal, err := g.newBase(class, false)
	if err != nil {
		return err
	}
	maximal, err := g.newBase(class, true)
	if err != nil {
		return err
	}

	count := 0
	send := func(c *Case) error {
		count++
		if !emit(c) {
			return errStopped
		}
		return nil
	}

	steps := []func() error{
		func() error { return send(minimal.newCase(Minimal, minimal.tree.Clone(), Meta{})) },
		func() error { return send(maximal.newCase(Maximal, maximal.tree.Clone(), Meta{})) },
		func() error { return g.typeViolations(maximal, send) },
		func() error { return g.patternExamples(maximal, send) },
		func() error { return requiredViolations(minimal, send) },
		func() error { return nullViolations(minimal, send) },
		func() error { return lengthViolations(maximal, send) },
		func() error { return g.enumViolations(maximal, send) },
		func() error { return additionalProperty(minimal, send) },
		func() error { return g.february29th(minimal, send) },
		func() error { return setOfPrimitivesViolations(minimal, send) },
		func() error { return g.setOfLiteralsViolations(minimal, send) },
		func() error {
			return g.valueExamples(minimal, g.opts.ValueExamples, PositiveValueExample, InvalidValueExample, send)
		},
		func() error {
			return g.valueExamples(minimal, g.opts.MinMaxExamples, PositiveMinMaxExample, InvalidMinMaxExample, send)
		},
		func() error { return g.manual(class, send) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if errors.Is(err, errStopped) {
				return err
			}
			return fmt.Errorf("generating cases for %s: %w", class.Name, err)
		}
	}

	g.log.Debug("generated class", "class", class.Name, "container", minimal.container, "cases", count)
	return nil
}

func (g *Generator) typeViolations(b *base, send func(*Case) error) error {
	for _, p := range b.present() {
		tree, focus := b.snapshot()
		if _, ok := schema.BeneathOptional(p.Type).(schema.List); ok {
			focus.Set(p.Name, preserial.Primitive{Value: unexpectedListValue})
		} else {
			focus.Set(p.Name, &preserial.List{Items: []preserial.Node{g.opts.UnexpectedInstance.Clone()}})
		}
		if err := send(b.newCase(TypeViolation, tree, Meta{Property: p.Name})); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) patternExamples(b *base, send func(*Case) error) error {
	for _, p := range b.present() {
		if len(p.Constraints.Patterns) == 0 {
			continue
		}
		if len(p.Constraints.Patterns) > 1 {
			return fmt.Errorf("%w: %s.%s has %d patterns", ErrUnsupportedMutation, b.class.Name, p.Name, len(p.Constraints.Patterns))
		}
		pattern := p.Constraints.Patterns[0]
		examples, ok := g.opts.Catalog.ByPattern(pattern)
		if !ok {
			return fmt.Errorf("%w: no examples for the pattern %q of %s.%s", synth.ErrNoPatternExamples, pattern, b.class.Name, p.Name)
		}
		for _, ex := range examples.Positives {
			tree, focus := b.snapshot()
			focus.Set(p.Name, preserial.Primitive{Value: ex.Value})
			if err := send(b.newCase(PositivePatternExample, tree, Meta{Property: p.Name, Example: ex.Name})); err != nil {
				return err
			}
		}
		for _, ex := range examples.Negatives {
			tree, focus := b.snapshot()
			focus.Set(p.Name, preserial.Primitive{Value: ex.Value})
			if err := send(b.newCase(PatternViolation, tree, Meta{Property: p.Name, Example: ex.Name})); err != nil {
				return err
			}
		}
	}
	return nil
}

func requiredViolations(b *base, send func(*Case) error) error {
	for _, p := range b.present() {
		if p.Optional() {
			continue
		}
		tree, focus := b.snapshot()
		focus.Delete(p.Name)
		if err := send(b.newCase(RequiredViolation, tree, Meta{Property: p.Name})); err != nil {
			return err
		}
	}
	return nil
}

func nullViolations(b *base, send func(*Case) error) error {
	for _, p := range b.present() {
		if p.Optional() {
			continue
		}
		tree, focus := b.snapshot()
		focus.Set(p.Name, preserial.Null{})
		if err := send(b.newCase(NullViolation, tree, Meta{Property: p.Name})); err != nil {
			return err
		}
	}
	return nil
}

func lengthViolations(b *base, send func(*Case) error) error {
	for _, p := range b.present() {
		l := p.Constraints.Len
		if l == nil {
			continue
		}
		if l.Min != nil && *l.Min > 0 {
			tree, focus := b.snapshot()
			v, _ := focus.Get(p.Name)
			shorter, err := truncate(v, *l.Min-1)
			if err != nil {
				return fmt.Errorf("%s.%s: %w\n%s", b.class.Name, p.Name, err, preserial.Dump(b.focus))
			}
			focus.Set(p.Name, shorter)
			if err := send(b.newCase(MinLengthViolation, tree, Meta{Property: p.Name, Bound: *l.Min})); err != nil {
				return err
			}
		}
		if l.Max != nil {
			tree, focus := b.snapshot()
			v, _ := focus.Get(p.Name)
			longer, err := extend(v, *l.Max+1)
			if err != nil {
				return fmt.Errorf("%s.%s: %w\n%s", b.class.Name, p.Name, err, preserial.Dump(b.focus))
			}
			focus.Set(p.Name, longer)
			if err := send(b.newCase(MaxLengthViolation, tree, Meta{Property: p.Name, Bound: *l.Max})); err != nil {
				return err
			}
		}
	}
	return nil
}

// truncate cuts a string (in characters), byte slice or list to at most n.
func truncate(v preserial.Node, n int) (preserial.Node, error) {
	switch tv := v.(type) {
	case preserial.Primitive:
		switch s := tv.Value.(type) {
		case string:
			runes := []rune(s)
			return preserial.Primitive{Value: string(runes[:min(n, len(runes))])}, nil
		case []byte:
			return preserial.Primitive{Value: s[:min(n, len(s))]}, nil
		}
	case *preserial.List:
		return &preserial.List{Items: tv.Items[:min(n, len(tv.Items))]}, nil
	}
	return nil, fmt.Errorf("%w: length constraint on %s", ErrUnsupportedMutation, describe(v))
}

// extend pads a string or byte slice, or repeats the last list item, up to
// exactly n elements.
func extend(v preserial.Node, n int) (preserial.Node, error) {
	switch tv := v.(type) {
	case preserial.Primitive:
		switch s := tv.Value.(type) {
		case string:
			return preserial.Primitive{Value: s + synth.StrPadding(n-utf8.RuneCountInString(s))}, nil
		case []byte:
			return preserial.Primitive{Value: append(slices.Clip(s), synth.BytesPadding(n-len(s))...)}, nil
		}
	case *preserial.List:
		if len(tv.Items) == 0 {
			return nil, fmt.Errorf("%w: cannot extend an empty list", ErrUnsupportedMutation)
		}
		items := slices.Clone(tv.Items)
		last := items[len(items)-1]
		for len(items) < n {
			items = append(items, preserial.Clone(last))
		}
		return &preserial.List{Items: items}, nil
	}
	return nil, fmt.Errorf("%w: length constraint on %s", ErrUnsupportedMutation, describe(v))
}

func describe(v preserial.Node) string {
	if p, ok := v.(preserial.Primitive); ok {
		return fmt.Sprintf("%T", p.Value)
	}
	return fmt.Sprintf("%T", v)
}

func (g *Generator) enumViolations(b *base, send func(*Case) error) error {
	for _, p := range b.class.Properties {
		ref, ok := schema.BeneathOptional(p.Type).(schema.EnumerationRef)
		if !ok {
			continue
		}
		enum, err := g.schema.Enumeration(ref.Name)
		if err != nil {
			return err
		}
		literal := invalidLiteral
		for enum.Has(literal) {
			literal = "so " + literal
		}
		tree, focus := b.snapshot()
		focus.Set(p.Name, preserial.Primitive{Value: literal})
		if err := send(b.newCase(EnumViolation, tree, Meta{Property: p.Name, Enumeration: enum.Name})); err != nil {
			return err
		}
	}
	return nil
}

func additionalProperty(b *base, send func(*Case) error) error {
	key := additionalKey
	for b.class.HasProperty(key) || key == preserial.ModelTypeKey {
		key = "really_" + key
	}
	tree, focus := b.snapshot()
	focus.Set(key, preserial.Primitive{Value: additionalValue})
	return send(b.newCase(UnexpectedAdditionalProperty, tree, Meta{}))
}

func (g *Generator) february29th(b *base, send func(*Case) error) error {
	if g.opts.DateTimeUtc == "" {
		return nil
	}
	for _, p := range b.class.Properties {
		cp, ok := schema.BeneathOptional(p.Type).(schema.ConstrainedPrimitive)
		if !ok || cp.Name != g.opts.DateTimeUtc {
			continue
		}
		tree, focus := b.snapshot()
		focus.Set(p.Name, preserial.Primitive{Value: february29th})
		if err := send(b.newCase(DateTimeUtcViolationOnFebruary29th, tree, Meta{Property: p.Name})); err != nil {
			return err
		}
	}
	return nil
}

func setOfPrimitivesViolations(b *base, send func(*Case) error) error {
	for _, p := range b.class.Properties {
		set := p.Constraints.SetOfPrimitives
		if len(set) == 0 {
			continue
		}
		if prim, _ := schema.PrimitiveOf(p.Type); prim != schema.Str {
			return fmt.Errorf("%w: %s.%s is a set of %s, only strings are supported", ErrUnsupportedMutation, b.class.Name, p.Name, prim)
		}
		value := outsideSetValue
		for slices.Contains(set, any(value)) {
			value = "really " + value
		}
		tree, focus := b.snapshot()
		focus.Set(p.Name, preserial.Primitive{Value: value})
		if err := send(b.newCase(SetViolation, tree, Meta{Property: p.Name})); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) setOfLiteralsViolations(b *base, send func(*Case) error) error {
	for _, p := range b.class.Properties {
		set := p.Constraints.SetOfLiterals
		if len(set) == 0 {
			continue
		}
		ref, ok := schema.BeneathOptional(p.Type).(schema.EnumerationRef)
		if !ok {
			return fmt.Errorf("%w: %s.%s has a set of literals but is not an enumeration", ErrUnsupportedMutation, b.class.Name, p.Name)
		}
		enum, err := g.schema.Enumeration(ref.Name)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(enum.Literals, func(l string) bool { return !slices.Contains(set, l) })
		if i < 0 {
			continue
		}
		tree, focus := b.snapshot()
		focus.Set(p.Name, preserial.Primitive{Value: enum.Literals[i]})
		if err := send(b.newCase(SetViolation, tree, Meta{Property: p.Name})); err != nil {
			return err
		}
	}
	return nil
}

// valueExamples sets the value type of a copy of the live base to every
// literal, and its value properties to every example of that literal.
func (g *Generator) valueExamples(b *base, targets map[string]ExampleTarget, positive, negative Kind, send func(*Case) error) error {
	target, ok := targets[b.class.Name]
	if !ok {
		return nil
	}
	enum, err := g.schema.Enumeration(g.opts.ValueTypes)
	if err != nil {
		return err
	}

	one := func(kind Kind, literal string, ex string, name string) error {
		replica, err := b.replica.Replicate()
		if err != nil {
			return err
		}
		replica.Instance.Set(target.ValueType, instance.Literal(literal))
		for _, v := range target.Values {
			replica.Instance.Set(v, ex)
		}
		tree, _ := preserial.Preserialize(replica.Container)
		return send(b.newCase(kind, tree, Meta{Literal: literal, Example: name}))
	}

	for _, literal := range enum.Literals {
		examples, ok := g.opts.Catalog.ByValueType(literal)
		if !ok {
			return fmt.Errorf("no examples for the value type %s", literal)
		}
		for _, ex := range examples.Positives {
			if err := one(positive, literal, ex.Value, ex.Name); err != nil {
				return err
			}
		}
		for _, ex := range examples.Negatives {
			if err := one(negative, literal, ex.Value, ex.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) manual(class *schema.Class, send func(*Case) error) error {
	source, ok := g.opts.Manual[class.Name]
	if !ok {
		return nil
	}
	cases, err := source()
	if err != nil {
		return fmt.Errorf("manual cases: %w", err)
	}
	for _, c := range cases {
		if err := send(c); err != nil {
			return err
		}
	}
	return nil
}
