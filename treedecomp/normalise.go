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
	"errors"
	"fmt"

	"github.com/guojing0/count-graph-homs/graph"
)

// ErrInvalidDecomposition is returned when a Raw tree decomposition does
// not satisfy the tree-decomposition axioms for the graph it claims to
// decompose, or when Normalise's own self-check on its output fails.
// Per spec.md §4.2/§9, the latter indicates a bug in this package, never
// a problem with caller input.
var ErrInvalidDecomposition = errors.New("invalid tree decomposition")

// wnode is the mutable working representation Normalise builds the nice
// form out of; it is discarded once the final, immutable Nice/Bag
// structures are produced.
type wnode struct {
	bag      map[graph.Vertex]bool
	parent   *wnode
	children []*wnode
}

// Normalise rewrites raw into the canonical four-node-type nice form of
// spec.md §3, implementing the eight-step algorithm of spec.md §4.2.
func Normalise(g *graph.Graph, raw *Raw) (*Nice, ChangeIndex, error) {
	if len(raw.Bags) == 0 {
		// The empty tree decomposition of the empty graph (spec.md
		// §4.3.5's empty-G edge case): a single node, root, empty bag.
		nice := &Nice{Nodes: []Node{{Index: 0, Bag: Bag{}, Kind: Leaf}}, Root: 0}
		if g.NumVertices() != 0 {
			return nil, nil, fmt.Errorf("empty decomposition for non-empty graph: %w", ErrInvalidDecomposition)
		}
		return nice, ChangeIndex{}, nil
	}

	root, err := rootAndOrient(raw)
	if err != nil {
		return nil, nil, err
	}

	root = addCapAndLeaves(root)
	binarise(root)
	equaliseJoinBags(root)
	if err := singleChildPass(&root); err != nil {
		return nil, nil, err
	}

	nice, idx := reindexAndLabel(root)
	if err := validate(g, nice); err != nil {
		return nil, nil, err
	}
	return nice, idx, nil
}

// rootAndOrient builds the working tree from raw and orients it away
// from a chosen leaf (degree <= 1 node), per spec.md §4.2 step 1.
func rootAndOrient(raw *Raw) (*wnode, error) {
	m := len(raw.Bags)
	adjList := make([][]int, m)
	for _, e := range raw.Edges {
		if e[0] < 0 || e[0] >= m || e[1] < 0 || e[1] >= m {
			return nil, fmt.Errorf("edge references out-of-range bag: %w", ErrInvalidDecomposition)
		}
		adjList[e[0]] = append(adjList[e[0]], e[1])
		adjList[e[1]] = append(adjList[e[1]], e[0])
	}

	rootIdx := 0
	for i := 0; i < m; i++ {
		if len(adjList[i]) <= 1 {
			rootIdx = i
			break
		}
	}

	nodes := make([]*wnode, m)
	for i, b := range raw.Bags {
		s := make(map[graph.Vertex]bool, len(b))
		for _, v := range b {
			s[v] = true
		}
		nodes[i] = &wnode{bag: s}
	}

	visited := make([]bool, m)
	visited[rootIdx] = true
	queue := []int{rootIdx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adjList[cur] {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			nodes[nb].parent = nodes[cur]
			nodes[cur].children = append(nodes[cur].children, nodes[nb])
			queue = append(queue, nb)
		}
	}
	for i := 0; i < m; i++ {
		if !visited[i] {
			return nil, fmt.Errorf("tree decomposition is disconnected: %w", ErrInvalidDecomposition)
		}
	}
	return nodes[rootIdx], nil
}

// addCapAndLeaves implements spec.md §4.2 step 2: a fresh empty-bag cap
// above the chosen root, and a fresh empty-bag leaf below every node
// that currently has no children.
func addCapAndLeaves(oldRoot *wnode) *wnode {
	for _, n := range collect(oldRoot) {
		if len(n.children) == 0 {
			leaf := &wnode{bag: map[graph.Vertex]bool{}, parent: n}
			n.children = []*wnode{leaf}
		}
	}
	capNode := &wnode{bag: map[graph.Vertex]bool{}}
	capNode.children = []*wnode{oldRoot}
	oldRoot.parent = capNode
	return capNode
}

// binarise implements spec.md §4.2 step 3 by repeatedly folding a
// node's last two children into a fresh node carrying the parent's bag,
// until at most two children remain.
func binarise(root *wnode) {
	for _, n := range collect(root) {
		for len(n.children) > 2 {
			k := len(n.children)
			c1, c2 := n.children[k-2], n.children[k-1]
			fresh := &wnode{bag: bagSet(n.bag), children: []*wnode{c1, c2}}
			c1.parent, c2.parent = fresh, fresh
			n.children = append(n.children[:k-2], fresh)
		}
	}
}

// equaliseJoinBags implements spec.md §4.2 step 4: every two-children
// node must have both children's bags equal to its own.
func equaliseJoinBags(root *wnode) {
	for _, n := range collect(root) {
		if len(n.children) != 2 {
			continue
		}
		for i, c := range n.children {
			if !bagEqual(n.bag, c.bag) {
				mid := &wnode{bag: bagSet(n.bag), children: []*wnode{c}}
				c.parent = mid
				mid.parent = n
				n.children[i] = mid
			}
		}
	}
}

// singleChildPass implements spec.md §4.2 step 5 over a snapshot of the
// tree taken before any of this step's mutations; *root may be updated
// if the existing root is contracted away.
func singleChildPass(root **wnode) error {
	nodes := collect(*root)
	removed := make(map[*wnode]bool, len(nodes))
	for _, u := range nodes {
		if removed[u] || len(u.children) != 1 {
			continue
		}
		v := u.children[0]
		switch {
		case bagEqual(u.bag, v.bag):
			if u.parent != nil {
				replaceChild(u.parent, u, v)
			} else {
				*root = v
				v.parent = nil
			}
			removed[u] = true
		case bagSubset(u.bag, v.bag):
			if err := buildIntroChain(u, v); err != nil {
				return err
			}
		case bagSubset(v.bag, u.bag):
			if err := buildForgetChain(u, v); err != nil {
				return err
			}
		default:
			pivot := &wnode{bag: bagIntersect(u.bag, v.bag)}
			if err := buildForgetChain(u, pivot); err != nil {
				return err
			}
			if err := buildIntroChain(pivot, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func replaceChild(parent, old, repl *wnode) {
	for i, c := range parent.children {
		if c == old {
			parent.children[i] = repl
			repl.parent = parent
			return
		}
	}
}

// buildIntroChain replaces the arc from -> to (bag(from) subset
// bag(to)) with a chain of single-vertex introduce steps, per spec.md
// §4.2 step 5's add_path_of_intro_nodes.
func buildIntroChain(from, to *wnode) error {
	diff := bagDiffList(to.bag, from.bag)
	if len(diff) == 0 {
		return fmt.Errorf("intro chain with no vertices to introduce: %w", ErrInvalidDecomposition)
	}
	if len(diff) > 1 {
		diff = diff[:len(diff)-1]
	} else {
		diff = nil
	}
	last := from
	cur := bagSet(from.bag)
	for _, w := range diff {
		cur = bagUnionOne(cur, w)
		nn := &wnode{bag: bagSet(cur), parent: last}
		last.children = []*wnode{nn}
		last = nn
	}
	last.children = []*wnode{to}
	to.parent = last
	return nil
}

// buildForgetChain is buildIntroChain's dual: bag(to) subset bag(from).
func buildForgetChain(from, to *wnode) error {
	diff := bagDiffList(from.bag, to.bag)
	if len(diff) == 0 {
		return fmt.Errorf("forget chain with no vertices to forget: %w", ErrInvalidDecomposition)
	}
	if len(diff) > 1 {
		diff = diff[:len(diff)-1]
	} else {
		diff = nil
	}
	last := from
	cur := bagSet(from.bag)
	for _, w := range diff {
		cur = bagDiffOne(cur, w)
		nn := &wnode{bag: bagSet(cur), parent: last}
		last.children = []*wnode{nn}
		last = nn
	}
	last.children = []*wnode{to}
	to.parent = last
	return nil
}

// collect returns all nodes of the tree rooted at root, in BFS order.
func collect(root *wnode) []*wnode {
	var out []*wnode
	queue := []*wnode{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		queue = append(queue, n.children...)
	}
	return out
}

// reindexAndLabel implements spec.md §4.2 steps 6-8: BFS re-indexing
// from the root, kind labelling, and the change index. This is
// generalised from the teacher's Graph.canonBFS/Graph.renumber pair
// (graph.go): both assign dense integer labels to a rooted structure in
// BFS visitation order and rewrite cross-references against the new
// numbering.
func reindexAndLabel(root *wnode) (*Nice, ChangeIndex) {
	order := collect(root)
	indexOf := make(map[*wnode]int, len(order))
	for i, n := range order {
		indexOf[n] = i
	}

	nodes := make([]Node, len(order))
	idx := make(ChangeIndex)
	for i, n := range order {
		bag := newBag(n.bag)
		var kind Kind
		var children []int
		switch len(n.children) {
		case 2:
			kind = Join
			children = []int{indexOf[n.children[0]], indexOf[n.children[1]]}
		case 1:
			child := n.children[0]
			children = []int{indexOf[child]}
			if len(bag) == len(child.bag)+1 {
				kind = Intro
			} else {
				kind = Forget
			}
			idx[i] = symmetricDiffSingle(n.bag, child.bag)
		case 0:
			kind = Leaf
		}
		nodes[i] = Node{Index: i, Bag: bag, Kind: kind, Children: children}
	}
	return &Nice{Nodes: nodes, Root: 0}, idx
}

// validate checks the final Nice tree against the tree-decomposition
// axioms (spec.md §3) for g: the union of bags covers V(g), every edge
// of g is covered by some bag, and the nodes containing each vertex form
// a connected subtree. A failure here is a normaliser bug (spec.md
// §4.2's Failure mode / §9's Design Notes), never bad user input.
func validate(g *graph.Graph, nice *Nice) error {
	covered := make([]bool, g.NumVertices())
	containing := make([][]int, g.NumVertices())
	for _, n := range nice.Nodes {
		for _, v := range n.Bag {
			covered[v] = true
			containing[v] = append(containing[v], n.Index)
		}
	}
	for v := 0; v < g.NumVertices(); v++ {
		if !covered[v] {
			return fmt.Errorf("vertex %d not covered by any bag: %w", v, ErrInvalidDecomposition)
		}
	}
	for _, v := range g.Vertices() {
		for _, w := range g.Neighbours(v) {
			if w < v {
				continue
			}
			if !someBagContainsBoth(nice, v, w) {
				return fmt.Errorf("edge {%d,%d} not covered by any bag: %w", v, w, ErrInvalidDecomposition)
			}
		}
	}
	childParent := make(map[int]int, len(nice.Nodes))
	adj := make([][]int, len(nice.Nodes))
	for _, n := range nice.Nodes {
		for _, c := range n.Children {
			childParent[c] = n.Index
			adj[n.Index] = append(adj[n.Index], c)
			adj[c] = append(adj[c], n.Index)
		}
	}
	for v := 0; v < g.NumVertices(); v++ {
		if !connectedSubset(adj, containing[v]) {
			return fmt.Errorf("bags containing vertex %d are not connected: %w", v, ErrInvalidDecomposition)
		}
	}
	return nil
}

func someBagContainsBoth(nice *Nice, u, w graph.Vertex) bool {
	for _, n := range nice.Nodes {
		if n.Bag.Contains(u) && n.Bag.Contains(w) {
			return true
		}
	}
	return false
}

func connectedSubset(adj [][]int, members []int) bool {
	if len(members) <= 1 {
		return true
	}
	inSet := make(map[int]bool, len(members))
	for _, m := range members {
		inSet[m] = true
	}
	visited := make(map[int]bool, len(members))
	queue := []int{members[0]}
	visited[members[0]] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if inSet[nb] && !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return len(visited) == len(members)
}
