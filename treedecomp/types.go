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

// Package treedecomp builds and canonicalises tree decompositions of a
// pattern graph. It supplies the two external collaborators spec.md §1
// scopes out of the DP engine's core: a tree-decomposition producer
// (Decomposer, with a default EliminationDecomposer implementation) and
// the nice-TD normaliser and labeller (Normalise), producing the
// canonical four-node-type form of spec.md §3.
package treedecomp

import (
	"fmt"

	"github.com/guojing0/count-graph-homs/graph"
)

// Kind is the node type of a nice tree decomposition node.
type Kind int

const (
	Leaf Kind = iota
	Intro
	Forget
	Join
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Intro:
		return "intro"
	case Forget:
		return "forget"
	case Join:
		return "join"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one node of a rooted, nice tree decomposition, labelled and
// indexed per spec.md §3. Index is assigned in BFS order from the root,
// so that iterating Nodes in reverse guarantees every node is visited
// after its children (spec.md §4.3's traversal requirement).
type Node struct {
	Index    int
	Bag      Bag
	Kind     Kind
	Children []int // child indices; 0 for leaf, 1 for intro/forget, 2 for join
}

// Nice is a rooted, directed nice tree decomposition: the canonical form
// spec.md §3 describes, indexed and labelled, ready for the DP engine.
type Nice struct {
	Nodes []Node
	Root  int // always 0: BFS numbering always assigns the root index 0
}

// ChangeIndex records, for every intro/forget node, the single vertex
// that differs from its child's bag (spec.md §3's "change index").
type ChangeIndex map[int]graph.Vertex

// Raw is an unrooted tree decomposition: a tree of bags satisfying the
// tree-decomposition axioms (coverage, edge-coverage, connectivity) but
// not yet canonicalised into nice form. It is the output type of
// Decomposer and the input type of Normalise.
type Raw struct {
	Bags  [][]graph.Vertex
	Edges [][2]int // undirected tree edges between bag indices
}

// Decomposer produces an initial tree decomposition of a pattern graph.
// spec.md §1 treats this as an external collaborator named only by this
// interface; EliminationDecomposer (decomposer.go) is the default implementation
// this module supplies so Count is runnable without a caller-supplied
// one.
type Decomposer interface {
	Decompose(g *graph.Graph) (*Raw, error)
}
