// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package classgraph finds how each concrete class can be contained in an
// instance of the root class, and embeds instances along that containment.
package classgraph

import (
	"fmt"
	"strings"

	"github.com/dacolabs/testgen/internal/schema"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"
)

const (
	scalarWeight = 1
	listWeight   = 2
)

// Segment is one hop of a containment path: Source holds Target in Property.
type Segment struct {
	Source   string
	Target   string
	Property string
	List     bool
}

func (s Segment) weight() int {
	if s.List {
		return listWeight
	}
	return scalarWeight
}

func (s Segment) String() string {
	if s.List {
		return fmt.Sprintf("%s.%s[0] -> %s", s.Source, s.Property, s.Target)
	}
	return fmt.Sprintf("%s.%s -> %s", s.Source, s.Property, s.Target)
}

// Path is a containment path from the root class.
type Path []Segment

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Graph is the containment graph between concrete classes with the shortest
// paths from the root class.
type Graph struct {
	schema *schema.Schema
	root   string
	edges  map[string][]Segment
	paths  map[string]Path
}

// New builds the containment graph of the schema and computes the shortest
// containment path of every concrete class from root.
func New(s *schema.Schema, root string) (*Graph, error) {
	rootClass, err := s.Class(root)
	if err != nil {
		return nil, err
	}
	if rootClass.Abstract {
		return nil, fmt.Errorf("root class %s is abstract", root)
	}

	g := &Graph{
		schema: s,
		root:   root,
		edges:  make(map[string][]Segment),
	}
	for _, c := range s.ConcreteClasses() {
		g.addEdges(c)
	}
	if g.paths, err = g.shortestPaths(); err != nil {
		return nil, fmt.Errorf("containment paths from %s: %w", root, err)
	}
	return g, nil
}

func (g *Graph) addEdges(c *schema.Class) {
	for _, p := range c.Properties {
		t := schema.BeneathOptional(p.Type)
		list := false
		if l, ok := t.(schema.List); ok {
			t = l.Items
			list = true
		}
		ref, ok := t.(schema.ClassRef)
		if !ok {
			continue
		}
		targetClass, err := g.schema.Class(ref.Name)
		if err != nil {
			continue
		}
		for _, target := range targetClass.Variants() {
			g.addEdge(Segment{Source: c.Name, Target: target, Property: p.Name, List: list})
		}
	}
}

// addEdge keeps one relationship per ordered pair: a scalar one replaces a
// list one, otherwise the first one stays.
func (g *Graph) addEdge(seg Segment) {
	out := g.edges[seg.Source]
	for i, existing := range out {
		if existing.Target != seg.Target {
			continue
		}
		if seg.weight() < existing.weight() {
			out[i] = seg
		}
		return
	}
	g.edges[seg.Source] = append(out, seg)
}

// Root returns the name of the root class.
func (g *Graph) Root() string { return g.root }

// Edges returns the outgoing relationships of a class in insertion order.
func (g *Graph) Edges(class string) []Segment {
	return append([]Segment(nil), g.edges[class]...)
}

// Path returns the shortest containment path of the class from the root.
// It returns false for the root itself and for classes the root cannot contain.
func (g *Graph) Path(class string) (Path, bool) {
	p, ok := g.paths[class]
	if !ok {
		return nil, false
	}
	return append(Path(nil), p...), true
}

// SelfContained reports whether instances of the class are generated on their own.
func (g *Graph) SelfContained(class string) bool {
	_, ok := g.paths[class]
	return !ok
}

// shortestPaths runs Dijkstra from the root. The distances come from lvlath;
// among equally short routes the predecessor is chosen by insertion order.
func (g *Graph) shortestPaths() (map[string]Path, error) {
	cg := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	if err := cg.AddVertex(g.root); err != nil {
		return nil, err
	}
	for _, c := range g.schema.ConcreteClasses() {
		for _, seg := range g.edges[c.Name] {
			if seg.Source == seg.Target || seg.Target == g.root {
				continue
			}
			if _, err := cg.AddEdge(seg.Source, seg.Target, int64(seg.weight())); err != nil {
				return nil, fmt.Errorf("containment %s: %w", seg, err)
			}
		}
	}

	dist, prev, err := dijkstra.Dijkstra(cg, dijkstra.Source(g.root), dijkstra.WithReturnPath())
	if err != nil {
		return nil, err
	}

	via := make(map[string]Segment, len(prev))
	layers := map[int64][]string{0: {g.root}}
	var farthest int64
	for class, d := range dist {
		if class != g.root && prev[class] != "" && d > farthest {
			farthest = d
		}
	}
	for d := int64(0); d <= farthest; d++ {
		for _, source := range layers[d] {
			for _, seg := range g.edges[source] {
				target := seg.Target
				if target == g.root || prev[target] == "" {
					continue
				}
				if _, ok := via[target]; ok || d+int64(seg.weight()) != dist[target] {
					continue
				}
				via[target] = seg
				layers[dist[target]] = append(layers[dist[target]], target)
			}
		}
	}

	paths := make(map[string]Path, len(via))
	for class := range via {
		var p Path
		for current := class; current != g.root; {
			seg := via[current]
			p = append(Path{seg}, p...)
			current = seg.Source
		}
		paths[class] = p
	}
	return paths, nil
}
