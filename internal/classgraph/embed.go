// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package classgraph

import (
	"fmt"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/schema"
)

// Factory creates a minimal instance of exactly the given concrete class.
type Factory interface {
	Minimal(class *schema.Class, h *pathhash.Hash) (*instance.Instance, error)
}

// CreateFunc creates the instance placed at the end of a containment path.
type CreateFunc func(class *schema.Class, h *pathhash.Hash) (*instance.Instance, error)

// Embed builds a minimal root and walks the path, placing a minimal instance of
// each intermediate target and the instance created by last at the end.
//
// The hash starts empty at the root and extends by the property name for a
// scalar hop and by the property name and index 0 for a list hop. It returns
// the root, the focus instance and the instance path to the focus.
func (g *Graph) Embed(factory Factory, path Path, last CreateFunc) (*instance.Instance, *instance.Instance, instance.Path, error) {
	rootClass, err := g.schema.Class(g.root)
	if err != nil {
		return nil, nil, nil, err
	}
	h := pathhash.New()
	root, err := factory.Minimal(rootClass, h)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("embedding in %s: %w", g.root, err)
	}
	if len(path) == 0 {
		return nil, nil, nil, fmt.Errorf("embedding in %s: empty containment path", g.root)
	}

	current := root
	var instPath instance.Path
	for i, seg := range path {
		if current.ClassName() != seg.Source {
			return nil, nil, nil, fmt.Errorf("embedding in %s: hop %d starts at %s, not %s", g.root, i, seg.Source, current.ClassName())
		}
		segs := []pathhash.Segment{pathhash.Prop(seg.Property)}
		if seg.List {
			segs = append(segs, pathhash.Index(0))
		}
		h = pathhash.Extend(h, segs...)
		instPath = instPath.Append(segs...)

		targetClass, err := g.schema.Class(seg.Target)
		if err != nil {
			return nil, nil, nil, err
		}
		create := factory.Minimal
		if i == len(path)-1 {
			create = last
		}
		target, err := create(targetClass, h)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("embedding %s at %s: %w", seg.Target, instPath, err)
		}

		if seg.List {
			current.Set(seg.Property, []*instance.Instance{target})
		} else {
			current.Set(seg.Property, target)
		}
		current = target
	}
	return root, current, instPath, nil
}
