// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package preserial converts live instances into generic trees of objects,
// lists and primitives that can be mutated freely before serialization.
package preserial

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dacolabs/testgen/internal/instance"
)

// ErrBadPath indicates a path that does not lead to a node of the tree.
var ErrBadPath = errors.New("path does not lead to a node")

// Node is one of *Object, *List, Primitive or Null.
type Node interface {
	isNode()
}

// Field is a key of an object with its value.
type Field struct {
	Key   string
	Value Node
}

// Object is an ordered mapping produced from an instance of ClassName.
type Object struct {
	ClassName  string
	Properties []Field
}

// List is an ordered sequence of nodes.
type List struct {
	Items []Node
}

// Primitive wraps a bool, int64, float64, string or []byte.
type Primitive struct {
	Value any
}

// Null is an explicit null.
type Null struct{}

func (*Object) isNode()   {}
func (*List) isNode()     {}
func (Primitive) isNode() {}
func (Null) isNode()      {}

// Get returns the value of a key.
func (o *Object) Get(key string) (Node, bool) {
	for _, f := range o.Properties {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether the object has the key.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set replaces the value of a key in place, or appends the key.
func (o *Object) Set(key string, v Node) {
	for i, f := range o.Properties {
		if f.Key == key {
			o.Properties[i].Value = v
			return
		}
	}
	o.Properties = append(o.Properties, Field{Key: key, Value: v})
}

// Delete removes a key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	for i, f := range o.Properties {
		if f.Key == key {
			o.Properties = append(o.Properties[:i:i], o.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// Clone deep-copies the object.
func (o *Object) Clone() *Object {
	return Clone(o).(*Object)
}

// Clone deep-copies a node.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Object:
		out := &Object{ClassName: v.ClassName, Properties: make([]Field, len(v.Properties))}
		for i, f := range v.Properties {
			out.Properties[i] = Field{Key: f.Key, Value: Clone(f.Value)}
		}
		return out
	case *List:
		out := &List{Items: make([]Node, len(v.Items))}
		for i, item := range v.Items {
			out.Items[i] = Clone(item)
		}
		return out
	case Primitive:
		if b, ok := v.Value.([]byte); ok {
			return Primitive{Value: append([]byte(nil), b...)}
		}
		return v
	default:
		return n
	}
}

// Equal reports whether two trees are structurally equal, class names included.
func Equal(a, b Node) bool {
	switch va := a.(type) {
	case *Object:
		vb, ok := b.(*Object)
		if !ok || va.ClassName != vb.ClassName || len(va.Properties) != len(vb.Properties) {
			return false
		}
		for i := range va.Properties {
			if va.Properties[i].Key != vb.Properties[i].Key || !Equal(va.Properties[i].Value, vb.Properties[i].Value) {
				return false
			}
		}
		return true
	case *List:
		vb, ok := b.(*List)
		if !ok || len(va.Items) != len(vb.Items) {
			return false
		}
		for i := range va.Items {
			if !Equal(va.Items[i], vb.Items[i]) {
				return false
			}
		}
		return true
	case Primitive:
		vb, ok := b.(Primitive)
		if !ok {
			return false
		}
		if x, ok := va.Value.([]byte); ok {
			y, ok := vb.Value.([]byte)
			return ok && bytes.Equal(x, y)
		}
		return va.Value == vb.Value
	case Null:
		_, ok := b.(Null)
		return ok
	default:
		return a == nil && b == nil
	}
}

// At follows a structural path from root.
func At(root Node, path instance.Path) (Node, error) {
	current := root
	for k, seg := range path {
		switch v := current.(type) {
		case *Object:
			if seg.IsIndex() {
				return nil, fmt.Errorf("%w: index where a key is expected at %s", ErrBadPath, path[:k+1])
			}
			next, ok := v.Get(seg.Name())
			if !ok {
				return nil, fmt.Errorf("%w: no key %q at %s", ErrBadPath, seg.Name(), path[:k])
			}
			current = next
		case *List:
			if !seg.IsIndex() {
				return nil, fmt.Errorf("%w: key where an index is expected at %s", ErrBadPath, path[:k+1])
			}
			if seg.Idx() < 0 || seg.Idx() >= len(v.Items) {
				return nil, fmt.Errorf("%w: index %d out of range at %s", ErrBadPath, seg.Idx(), path[:k])
			}
			current = v.Items[seg.Idx()]
		default:
			return nil, fmt.Errorf("%w: %s is not a container", ErrBadPath, path[:k])
		}
	}
	return current, nil
}

// ObjectAt follows a structural path from root to an object.
func ObjectAt(root Node, path instance.Path) (*Object, error) {
	n, err := At(root, path)
	if err != nil {
		return nil, err
	}
	o, ok := n.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an object", ErrBadPath, path)
	}
	return o, nil
}

// Preserialize converts an instance graph into a tree. Enumeration values become
// their literal strings, absent properties are omitted and the property order is
// the order of the class. The returned map links every instance to its object.
func Preserialize(inst *instance.Instance) (*Object, map[*instance.Instance]*Object) {
	index := make(map[*instance.Instance]*Object)
	return preserialize(inst, index), index
}

func preserialize(inst *instance.Instance, index map[*instance.Instance]*Object) *Object {
	obj := &Object{ClassName: inst.ClassName()}
	index[inst] = obj
	for _, p := range inst.Class().Properties {
		v, ok := inst.Get(p.Name)
		if !ok {
			continue
		}
		obj.Properties = append(obj.Properties, Field{Key: p.Name, Value: value(v, index)})
	}
	return obj
}

func value(v any, index map[*instance.Instance]*Object) Node {
	switch tv := v.(type) {
	case *instance.Instance:
		return preserialize(tv, index)
	case []*instance.Instance:
		items := make([]Node, len(tv))
		for i, item := range tv {
			items[i] = preserialize(item, index)
		}
		return &List{Items: items}
	case instance.Literal:
		return Primitive{Value: string(tv)}
	case []byte:
		return Primitive{Value: append([]byte(nil), tv...)}
	default:
		return Primitive{Value: tv}
	}
}
