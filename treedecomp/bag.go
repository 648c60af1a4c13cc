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

// Bag is the canonicalised, sorted vertex order a tree-decomposition node
// carries. The order is what the mapping codec's positional encoding
// (spec.md §3/§4.1) indexes against, so once a Bag is built its order is
// fixed for the lifetime of the Nice tree.
type Bag []graph.Vertex

func newBag(set map[graph.Vertex]bool) Bag {
	b := make(Bag, 0, len(set))
	for v := range set {
		b = append(b, v)
	}
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return b
}

// Index returns the position of v within the bag's canonical order, or
// -1 if v is not in the bag.
func (b Bag) Index(v graph.Vertex) int {
	for i, w := range b {
		if w == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is a member of the bag.
func (b Bag) Contains(v graph.Vertex) bool { return b.Index(v) >= 0 }

func bagSet(s map[graph.Vertex]bool) map[graph.Vertex]bool {
	c := make(map[graph.Vertex]bool, len(s))
	for v := range s {
		c[v] = true
	}
	return c
}

func bagEqual(a, b map[graph.Vertex]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

func bagSubset(a, b map[graph.Vertex]bool) bool {
	if len(a) > len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

func bagUnionOne(a map[graph.Vertex]bool, v graph.Vertex) map[graph.Vertex]bool {
	c := bagSet(a)
	c[v] = true
	return c
}

func bagDiffOne(a map[graph.Vertex]bool, v graph.Vertex) map[graph.Vertex]bool {
	c := bagSet(a)
	delete(c, v)
	return c
}

func bagIntersect(a, b map[graph.Vertex]bool) map[graph.Vertex]bool {
	c := make(map[graph.Vertex]bool)
	for v := range a {
		if b[v] {
			c[v] = true
		}
	}
	return c
}

// bagDiffList returns the elements of a that are not in b, in ascending
// vertex order (deterministic, for reproducible chain construction).
func bagDiffList(a, b map[graph.Vertex]bool) []graph.Vertex {
	var out []graph.Vertex
	for v := range a {
		if !b[v] {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// symmetricDiffSingle returns the single element that differs between a
// and b. It panics if the symmetric difference does not have exactly one
// element — callers only use it where the nice-form invariants (spec.md
// §3) guarantee this holds.
func symmetricDiffSingle(a, b map[graph.Vertex]bool) graph.Vertex {
	var found graph.Vertex
	count := 0
	for v := range a {
		if !b[v] {
			found = v
			count++
		}
	}
	for v := range b {
		if !a[v] {
			found = v
			count++
		}
	}
	if count != 1 {
		panic("symmetricDiffSingle: expected exactly one differing vertex")
	}
	return found
}
