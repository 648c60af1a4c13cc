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

package treedecomp

import (
	"sort"

	"github.com/guojing0/count-graph-homs/graph"
)

// EliminationDecomposer builds a tree decomposition from a greedy
// min-degree elimination ordering: repeatedly eliminate the vertex of
// lowest current degree in the "filled" graph, record its bag as itself
// plus its remaining neighbours, and fill in edges between those
// neighbours so they form a clique before continuing. This is a
// standard, simple, non-optimal heuristic — spec.md's Non-goals
// explicitly exclude computing treewidth optimally, so any correct
// producer satisfies the contract.
//
// The fill-in step below memoises whether a candidate vertex pair is
// already adjacent, in a plain map scoped to a single Decompose call:
// the distinct pairs ever queried are already bounded by the input
// graph's own size, so no eviction policy is needed.
type EliminationDecomposer struct{}

// NewEliminationDecomposer returns a ready-to-use EliminationDecomposer.
// It carries no state of its own; a value exists only for parity with
// this module's other constructor-returns-a-handle types.
func NewEliminationDecomposer() *EliminationDecomposer {
	return &EliminationDecomposer{}
}

type vpair struct{ a, b graph.Vertex }

func (d *EliminationDecomposer) Decompose(g *graph.Graph) (*Raw, error) {
	n := g.NumVertices()
	if n == 0 {
		return &Raw{}, nil
	}

	memo := make(map[vpair]bool)

	// adj[v] is the current neighbour set of v in the filled graph;
	// active[v] is false once v has been eliminated.
	adj := make([]map[graph.Vertex]bool, n)
	active := make([]bool, n)
	for v := 0; v < n; v++ {
		adj[v] = make(map[graph.Vertex]bool)
		active[v] = true
	}
	for _, v := range g.Vertices() {
		for _, w := range g.Neighbours(v) {
			adj[v][w] = true
		}
	}

	adjacent := func(a, b graph.Vertex) bool {
		key := vpair{a, b}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if ok, hit := memo[key]; hit {
			return ok
		}
		ok := adj[a][b]
		memo[key] = ok
		return ok
	}

	order := make([]graph.Vertex, 0, n)
	position := make([]int, n)
	bagOf := make([]map[graph.Vertex]bool, n)

	for step := 0; step < n; step++ {
		// Pick the active vertex of minimum degree, breaking ties by
		// smallest index for determinism.
		best := graph.Vertex(-1)
		bestDeg := -1
		for v := 0; v < n; v++ {
			if !active[v] {
				continue
			}
			deg := len(adj[v])
			if bestDeg == -1 || deg < bestDeg {
				bestDeg, best = deg, graph.Vertex(v)
			}
		}

		neighbours := make([]graph.Vertex, 0, len(adj[best]))
		for w := range adj[best] {
			neighbours = append(neighbours, w)
		}
		sort.Slice(neighbours, func(i, j int) bool { return neighbours[i] < neighbours[j] })

		bag := map[graph.Vertex]bool{best: true}
		for _, w := range neighbours {
			bag[w] = true
		}
		bagOf[best] = bag

		// Fill: connect every pair of remaining neighbours.
		for i := 0; i < len(neighbours); i++ {
			for j := i + 1; j < len(neighbours); j++ {
				a, b := neighbours[i], neighbours[j]
				if !adjacent(a, b) {
					adj[a][b] = true
					adj[b][a] = true
				}
			}
		}

		// Remove best from the filled graph.
		for _, w := range neighbours {
			delete(adj[w], best)
		}
		active[best] = false
		position[best] = step
		order = append(order, best)
	}

	// Build the elimination tree: parent(v) is the bag-mate of v with
	// the smallest elimination position greater than v's own, i.e. the
	// first of v's remaining neighbours (at elimination time) to be
	// eliminated itself. Vertices with no such mate become roots of
	// their connected component and are chained together afterward so
	// Raw is a single tree even when g is disconnected.
	bags := make([][]graph.Vertex, n)
	parent := make([]int, n)
	for v := range parent {
		parent[v] = -1
	}
	for v := 0; v < n; v++ {
		b := make([]graph.Vertex, 0, len(bagOf[v]))
		for w := range bagOf[v] {
			b = append(b, w)
		}
		sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
		bags[v] = b

		bestMate := -1
		bestPos := n
		for w := range bagOf[v] {
			if w == graph.Vertex(v) {
				continue
			}
			if position[w] > position[v] && position[w] < bestPos {
				bestPos = position[w]
				bestMate = int(w)
			}
		}
		parent[v] = bestMate
	}

	var edges [][2]int
	var roots []int
	for v := 0; v < n; v++ {
		if parent[v] >= 0 {
			edges = append(edges, [2]int{v, parent[v]})
		} else {
			roots = append(roots, v)
		}
	}
	for i := 1; i < len(roots); i++ {
		edges = append(edges, [2]int{roots[0], roots[i]})
	}

	return &Raw{Bags: bags, Edges: edges}, nil
}
