// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package s2delaunay triangulates point sets on the unit sphere through their
// convex hull, and exposes the resulting neighbor edges.

package s2delaunay

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	defaultEps = 1e-12
	// Above this the hull starts merging distinct layout nodes.
	maxEps = 0.1
)

var (
	ErrInsufficientVertices = errors.New("s2delaunay: insufficient vertices for triangulation (minimum 4 required)")
	ErrDegenerateHull       = errors.New("s2delaunay: inconsistent number of indices returned from QuickHull")
)

// Triangulation is a spherical Delaunay triangulation.
type Triangulation struct {
	Vertices s2.PointVector
	// NOTE: Sort in CCW per triangle(look out of sphere)
	Triangles [][3]int
}

// Edge joins two vertex indices, A < B.
type Edge struct {
	A, B int
}

type TriangulationOptions struct {
	Eps float64
}

type Option func(*TriangulationOptions) error

// WithEps sets the hull tolerance. It must be in (0 0.1).
func WithEps(eps float64) Option {
	return func(o *TriangulationOptions) error {
		if eps <= 0 || eps >= maxEps {
			return fmt.Errorf("WithEps: eps must be in (0 %v), got %v", maxEps, eps)
		}
		o.Eps = eps
		return nil
	}
}

// NewTriangulation triangulates vertices, which must lie on the unit sphere.
func NewTriangulation(vertices s2.PointVector, setters ...Option) (*Triangulation, error) {
	opts := TriangulationOptions{
		Eps: defaultEps,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	numVertices := len(vertices)
	if numVertices < 4 {
		return nil, ErrInsufficientVertices
	}
	numTriangles := 2 * (numVertices - 2)

	r3vertices := make([]r3.Vector, numVertices)
	for i, p := range vertices {
		r3vertices[i] = p.Vector
	}
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(r3vertices, true, true, opts.Eps)
	if len(ch.Indices) != numTriangles*3 {
		return nil, ErrDegenerateHull
	}

	t := &Triangulation{
		Vertices:  vertices,
		Triangles: make([][3]int, numTriangles),
	}
	for i := range numTriangles {
		base := i * 3
		t.Triangles[i] = [3]int{ch.Indices[base], ch.Indices[base+1], ch.Indices[base+2]}
		sortTriangleVerticesCCW(&t.Triangles[i], t.Vertices)
	}
	return t, nil
}

// FromPositions triangulates the directions of arbitrary non-zero vectors.
func FromPositions(positions []r3.Vector, setters ...Option) (*Triangulation, error) {
	pts := make(s2.PointVector, len(positions))
	for i, v := range positions {
		pts[i] = s2.Point{Vector: v.Normalize()}
	}
	return NewTriangulation(pts, setters...)
}

// Edges returns every triangle side once, ordered by first appearance.
func (t *Triangulation) Edges() []Edge {
	seen := make(map[Edge]bool, len(t.Triangles)*3/2)
	edges := make([]Edge, 0, len(t.Triangles)*3/2)
	for _, tri := range t.Triangles {
		for j := range 3 {
			a, b := tri[j], tri[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			e := Edge{A: a, B: b}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// Neighbors returns the adjacency list of every vertex.
func (t *Triangulation) Neighbors() [][]int {
	adj := make([][]int, len(t.Vertices))
	for _, e := range t.Edges() {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}
	return adj
}

func sortTriangleVerticesCCW(t *[3]int, v s2.PointVector) {
	p0, p1, p2 := v[t[0]], v[t[1]], v[t[2]]
	norm := p1.Sub(p0.Vector).Cross(p2.Sub(p0.Vector))
	if norm.Dot(p0.Vector) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}
