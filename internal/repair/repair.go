// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package repair adjusts generated instances so that they satisfy the
// constraints of the meta-model that the builder cannot express.
//
// A Handyman walks an instance tree children first and calls the hook
// registered for the class of every instance. Hooks see the path hash of the
// instance so that any value they synthesize stays deterministic.
package repair

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dacolabs/testgen/internal/creation"
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/preserial"
	"github.com/dacolabs/testgen/internal/schema"
)

var (
	// ErrMissingHook indicates a concrete class without a registered hook.
	ErrMissingHook = errors.New("no repair hook registered")

	// ErrUnknownHookClass indicates a hook registered for a class the schema does not know.
	ErrUnknownHookClass = errors.New("repair hook for unknown class")
)

// Violation is a constraint an instance tree does not satisfy.
type Violation struct {
	Path  instance.Path
	Cause string
}

func (v Violation) String() string {
	if len(v.Path) == 0 {
		return "<root>: " + v.Cause
	}
	return v.Path.String() + ": " + v.Cause
}

// UnrepairedError reports the violations left after repair together with a dump
// of the offending tree.
type UnrepairedError struct {
	ClassName  string
	Violations []Violation
	Dump       string
}

func (e *UnrepairedError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = "  " + v.String()
	}
	return fmt.Sprintf("%s left %d unrepaired violation(s):\n%s\n%s",
		e.ClassName, len(e.Violations), strings.Join(lines, "\n"), e.Dump)
}

// Site locates the instance a hook is called for.
type Site struct {
	Hash     *pathhash.Hash
	Path     instance.Path
	Handyman *Handyman
}

// Hook repairs one instance in place. Its children are already repaired.
type Hook func(site *Site, inst *instance.Instance) error

// Verifier lists the violations of an instance tree.
type Verifier func(root *instance.Instance) []Violation

// Noop is the hook for classes that need no repair.
func Noop(*Site, *instance.Instance) error { return nil }

// Handyman holds a hook per concrete class. It is safe for concurrent use once
// all hooks are registered.
type Handyman struct {
	builder  *creation.Builder
	verify   Verifier
	hooks    map[string]Hook
	children map[string][]*schema.Property
}

// New creates a handyman. Hooks are registered with Register.
func New(builder *creation.Builder, verify Verifier) *Handyman {
	h := &Handyman{
		builder:  builder,
		verify:   verify,
		hooks:    make(map[string]Hook),
		children: make(map[string][]*schema.Property),
	}
	for _, c := range builder.Schema().ConcreteClasses() {
		for _, p := range c.Properties {
			t := schema.BeneathOptional(p.Type)
			if l, ok := t.(schema.List); ok {
				t = l.Items
			}
			if _, ok := t.(schema.ClassRef); ok {
				h.children[c.Name] = append(h.children[c.Name], p)
			}
		}
	}
	return h
}

// Register sets the hook of a class.
func (h *Handyman) Register(className string, hook Hook) {
	h.hooks[className] = hook
}

// Builder returns the builder fresh instances are created with.
func (h *Handyman) Builder() *creation.Builder { return h.builder }

// Schema returns the schema of the builder.
func (h *Handyman) Schema() *schema.Schema { return h.builder.Schema() }

// Check verifies that every concrete class has a hook and every hook a class.
func (h *Handyman) Check() error {
	var errs []error
	s := h.builder.Schema()
	for _, c := range s.ConcreteClasses() {
		if _, ok := h.hooks[c.Name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingHook, c.Name))
		}
	}
	for name := range h.hooks {
		c, err := s.Class(name)
		if err != nil || c.Abstract {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownHookClass, name))
		}
	}
	return errors.Join(errs...)
}

// Repair runs the hooks once over the subtree rooted at inst, children first.
// The hash and path are those of inst.
func (h *Handyman) Repair(inst *instance.Instance, hash *pathhash.Hash, path instance.Path) error {
	for _, p := range h.children[inst.ClassName()] {
		v, ok := inst.Get(p.Name)
		if !ok {
			continue
		}
		switch child := v.(type) {
		case *instance.Instance:
			seg := pathhash.Prop(p.Name)
			if err := h.Repair(child, pathhash.Extend(hash, seg), path.Append(seg)); err != nil {
				return err
			}
		case []*instance.Instance:
			for i, item := range child {
				segs := []pathhash.Segment{pathhash.Prop(p.Name), pathhash.Index(i)}
				if err := h.Repair(item, pathhash.Extend(hash, segs...), path.Append(segs...)); err != nil {
					return err
				}
			}
		}
	}

	hook, ok := h.hooks[inst.ClassName()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingHook, inst.ClassName())
	}
	if err := hook(&Site{Hash: hash, Path: path, Handyman: h}, inst); err != nil {
		return fmt.Errorf("repairing %s at %s: %w", inst.ClassName(), pathOrRoot(path), err)
	}
	return nil
}

// Fresh creates a minimal instance of the concrete class and repairs it.
func (h *Handyman) Fresh(class *schema.Class, hash *pathhash.Hash, path instance.Path) (*instance.Instance, error) {
	inst, err := h.builder.Minimal(class, hash)
	if err != nil {
		return nil, err
	}
	if err := h.Repair(inst, hash, path); err != nil {
		return nil, err
	}
	return inst, nil
}

// Fix repairs the whole tree in a single pass starting from the empty hash and
// then verifies it.
func (h *Handyman) Fix(root *instance.Instance) error {
	if err := h.Repair(root, pathhash.New(), nil); err != nil {
		return err
	}
	return h.Verify(root)
}

// Verify reports the remaining violations of the tree as an *UnrepairedError.
func (h *Handyman) Verify(root *instance.Instance) error {
	if h.verify == nil {
		return nil
	}
	violations := h.verify(root)
	if len(violations) == 0 {
		return nil
	}
	obj, _ := preserial.Preserialize(root)
	return &UnrepairedError{
		ClassName:  root.ClassName(),
		Violations: violations,
		Dump:       preserial.Dump(obj),
	}
}

func pathOrRoot(p instance.Path) string {
	if len(p) == 0 {
		return "<root>"
	}
	return p.String()
}
