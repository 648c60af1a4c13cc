// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph provides the simple undirected graph type shared by the
// pattern graph G and the target graph H in homomorphism counting.
package graph

import (
	"fmt"
	"sort"
)

// Vertex identifies a vertex in a Graph. Vertices are always dense,
// 0..n-1.
type Vertex int

// edge is an unordered pair of vertices, stored with the smaller vertex
// first so it can be used as a map key.
type edge struct {
	u, v Vertex
}

func newEdge(u, v Vertex) edge {
	if u > v {
		u, v = v, u
	}
	return edge{u, v}
}

// Graph is a simple, undirected graph on a dense vertex set 0..n-1. It
// never allows self-loops or repeated edges; AddEdge enforces this at
// construction time.
type Graph struct {
	n         int
	edges     map[edge]struct{}
	adj       [][]Vertex // sparse adjacency lists, sorted
	dense     [][]bool   // adjacency matrix, built lazily
	edgeCount int
}

// New returns an empty graph on n vertices (0..n-1), with no edges.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{
		n:     n,
		edges: make(map[edge]struct{}),
		adj:   make([][]Vertex, n),
	}
}

// NumVertices returns |V(G)|.
func (g *Graph) NumVertices() int { return g.n }

// NumEdges returns |E(G)|.
func (g *Graph) NumEdges() int { return g.edgeCount }

// Vertices returns the vertex set 0..n-1 in order.
func (g *Graph) Vertices() []Vertex {
	vs := make([]Vertex, g.n)
	for i := range vs {
		vs[i] = Vertex(i)
	}
	return vs
}

// AddEdge inserts the edge {u, v}. It returns an error if u or v is out
// of range, if u == v (a self-loop), or if the edge already exists (a
// multi-edge) — both conditions make the graph unsupported per the
// front-end's validation contract.
func (g *Graph) AddEdge(u, v Vertex) error {
	if !g.contains(u) {
		return fmt.Errorf("vertex not in graph: %v", u)
	}
	if !g.contains(v) {
		return fmt.Errorf("vertex not in graph: %v", v)
	}
	if u == v {
		return fmt.Errorf("self-loop at vertex %v: %w", u, ErrNotSimple)
	}
	e := newEdge(u, v)
	if _, ok := g.edges[e]; ok {
		return fmt.Errorf("duplicate edge {%v, %v}: %w", u, v, ErrNotSimple)
	}
	g.edges[e] = struct{}{}
	g.adj[u] = insertSorted(g.adj[u], v)
	g.adj[v] = insertSorted(g.adj[v], u)
	g.edgeCount++
	g.dense = nil // invalidate any previously built matrix
	return nil
}

// ErrNotSimple is wrapped into errors returned by AddEdge when an edge
// would make the graph a self-loop or a multi-edge.
var ErrNotSimple = fmt.Errorf("graph is not simple")

func insertSorted(xs []Vertex, v Vertex) []Vertex {
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= v })
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}

func (g *Graph) contains(v Vertex) bool { return v >= 0 && int(v) < g.n }

// Neighbours returns the sorted neighbour list of v.
func (g *Graph) Neighbours(v Vertex) []Vertex { return g.adj[v] }

// Degree returns the degree of v.
func (g *Graph) Degree(v Vertex) int { return len(g.adj[v]) }

// HasEdge reports whether {u, v} is an edge of g. It uses the dense
// adjacency matrix when one has been built (see EnsureDense), otherwise
// it does a sorted-slice lookup in the sparse representation.
func (g *Graph) HasEdge(u, v Vertex) bool {
	if !g.contains(u) || !g.contains(v) {
		return false
	}
	if g.dense != nil {
		return g.dense[u][v]
	}
	if u == v {
		return false
	}
	_, ok := g.edges[newEdge(u, v)]
	return ok
}

// Density returns 2|E|/(n(n-1)), or 0 for graphs with fewer than two
// vertices.
func (g *Graph) Density() float64 {
	if g.n < 2 {
		return 0
	}
	max := float64(g.n) * float64(g.n-1) / 2
	return float64(g.edgeCount) / max
}

// EnsureDense builds the O(n^2) adjacency matrix if the graph's density
// is at least threshold, enabling O(1) HasEdge lookups in the DP
// engine's hot path. It is a pure performance knob: the result of
// HasEdge is identical whether or not the matrix has been built.
func (g *Graph) EnsureDense(threshold float64) {
	if g.dense != nil {
		return
	}
	if g.Density() < threshold {
		return
	}
	m := make([][]bool, g.n)
	for i := range m {
		m[i] = make([]bool, g.n)
	}
	for e := range g.edges {
		m[e.u][e.v] = true
		m[e.v][e.u] = true
	}
	g.dense = m
}

// IsDense reports whether the adjacency matrix has been materialised.
func (g *Graph) IsDense() bool { return g.dense != nil }

// Validate checks the simple-undirected-graph precondition spec.md
// requires of both G and H. It is redundant with AddEdge's own checks
// for graphs built exclusively through AddEdge, but guards against
// graphs assembled by other means (e.g. a future Builder).
func (g *Graph) Validate() error {
	seen := make(map[edge]struct{}, len(g.edges))
	for e := range g.edges {
		if e.u == e.v {
			return fmt.Errorf("self-loop at vertex %v: %w", e.u, ErrNotSimple)
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("duplicate edge {%v, %v}: %w", e.u, e.v, ErrNotSimple)
		}
		seen[e] = struct{}{}
	}
	return nil
}
