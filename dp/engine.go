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

package dp

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/guojing0/count-graph-homs/graph"
	"github.com/guojing0/count-graph-homs/internal/mapcode"
	"github.com/guojing0/count-graph-homs/treedecomp"
)

// ErrTableTooLarge is returned when a node's bag requires a table
// position space that overflows uint64 (k^|bag| too large to index).
// This is a resource limit, not one of the three semantic failure
// kinds spec.md's error-handling design names at the public entry —
// it only fires for pattern/target combinations far beyond anything
// the bundled Decomposer would ever be asked to produce a bag for.
var ErrTableTooLarge = errors.New("dp: bag requires a table larger than addressable memory")

// Options configures a DP run. All fields are optional; the zero value
// selects the plain, uncoloured, dense-table, sequential algorithm of
// spec.md §4.3.
type Options struct {
	// Colourful restricts counting to colour-preserving homomorphisms
	// (spec.md §4.5): GraphColour and TargetColour must both be set.
	Colourful    bool
	GraphColour  []int
	TargetColour []int

	// SparseThreshold selects SparseTable over DenseTable for a
	// colourful node's table whenever the estimated fraction of
	// colour-consistent assignments falls below it. Zero disables
	// sparse tables entirely (always dense).
	SparseThreshold float64

	// MemoSize bounds the cache of (target vertex, neighbour image
	// tuple) -> edge-validity results consulted while processing intro
	// nodes (spec.md §4.5's "Design Notes"); once full, the cache evicts
	// an arbitrary entry, not the least recently used one. Zero selects
	// a default of 4096 entries.
	MemoSize int

	// Parallel processes a join node's two subtrees concurrently
	// (spec.md §5's optional join-node parallelism).
	Parallel bool
}

// Engine runs the bottom-up DP of spec.md §4.3 over a normalised nice
// tree decomposition.
type Engine struct{}

// NewEngine returns a ready-to-use Engine. Engine carries no state of
// its own; a value exists only for parity with the teacher's
// constructor-returns-a-handle style and to leave room for future
// per-engine configuration.
func NewEngine() *Engine { return &Engine{} }

// run carries the read-only inputs and shared memo cache through a
// single Count invocation's recursion. g, h, nice and idx are read-only
// for the run's whole lifetime, so concurrent goroutines spawned for
// Options.Parallel need no lock on them; only the shared edge-validity
// memo is mutated concurrently, and that is protected by its own mutex.
type run struct {
	nice *treedecomp.Nice
	idx  treedecomp.ChangeIndex
	g, h *graph.Graph
	opts Options

	k          uint64
	allTargets []uint64
	byColour   map[int][]uint64
	memo       *edgeMemo
}

// Count evaluates the DP described in spec.md §4.3 bottom-up over
// nice, returning the number of (colour-preserving, if opts.Colourful)
// homomorphisms from the decomposed pattern graph into h.
func (e *Engine) Count(nice *treedecomp.Nice, idx treedecomp.ChangeIndex, g, h *graph.Graph, opts Options) (*big.Int, error) {
	memoSize := opts.MemoSize
	if memoSize <= 0 {
		memoSize = 4096
	}

	r := &run{
		nice: nice,
		idx:  idx,
		g:    g,
		h:    h,
		opts: opts,
		k:    uint64(h.NumVertices()),
		memo: newEdgeMemo(memoSize),
	}
	r.allTargets = make([]uint64, r.k)
	for t := range r.allTargets {
		r.allTargets[t] = uint64(t)
	}
	if opts.Colourful {
		r.byColour = make(map[int][]uint64)
		for v, c := range opts.TargetColour {
			r.byColour[c] = append(r.byColour[c], uint64(v))
		}
	}

	root, err := r.compute(nice.Root)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(root.Get(0)), nil
}

// compute returns the DP table for node i, recursing into its children
// first (spec.md §4.3's "children processed before parents"). A join
// node's two children are computed concurrently when Options.Parallel
// is set.
func (r *run) compute(i int) (Table, error) {
	n := r.nice.Nodes[i]
	size, overflow := mapcode.TableSize(r.k, len(n.Bag))
	if overflow {
		return nil, fmt.Errorf("%w: node %d has bag size %d over target size %d", ErrTableTooLarge, i, len(n.Bag), r.k)
	}

	switch n.Kind {
	case treedecomp.Leaf:
		t := NewDenseTable(1)
		t.Set(0, big.NewInt(1))
		return t, nil

	case treedecomp.Intro:
		child := n.Children[0]
		childTable, err := r.compute(child)
		if err != nil {
			return nil, err
		}
		return r.intro(i, n, child, childTable, size)

	case treedecomp.Forget:
		child := n.Children[0]
		childTable, err := r.compute(child)
		if err != nil {
			return nil, err
		}
		return r.forget(i, n, child, childTable, size)

	case treedecomp.Join:
		l, r2 := n.Children[0], n.Children[1]
		var lt, rt Table
		var lerr, rerr error
		if r.opts.Parallel {
			var wg sync.WaitGroup
			wg.Add(2)
			go func() { defer wg.Done(); lt, lerr = r.compute(l) }()
			go func() { defer wg.Done(); rt, rerr = r.compute(r2) }()
			wg.Wait()
		} else {
			lt, lerr = r.compute(l)
			if lerr == nil {
				rt, rerr = r.compute(r2)
			}
		}
		if lerr != nil {
			return nil, lerr
		}
		if rerr != nil {
			return nil, rerr
		}
		return join(lt, rt, size), nil

	default:
		return nil, fmt.Errorf("dp: node %d has unknown kind %v", i, n.Kind)
	}
}

// intro implements spec.md §4.3's intro rule: for every populated child
// assignment, try extending it with every candidate image of the
// introduced vertex (restricted to its colour class when
// Options.Colourful is set), keeping only the extensions where the
// image is adjacent in h to every already-placed bag-neighbour of the
// introduced vertex.
func (r *run) intro(i int, n treedecomp.Node, child int, childTable Table, size uint64) (Table, error) {
	childBag := r.nice.Nodes[child].Bag
	childSize, overflow := mapcode.TableSize(r.k, len(childBag))
	if overflow {
		return nil, fmt.Errorf("%w: node %d child bag size %d over target size %d", ErrTableTooLarge, child, len(childBag), r.k)
	}
	x := r.idx[i]
	iPos := n.Bag.Index(x)

	var nbrPos []int
	for pos, v := range childBag {
		if r.g.HasEdge(x, v) {
			nbrPos = append(nbrPos, pos)
		}
	}

	candidates := r.allTargets
	if r.opts.Colourful {
		candidates = r.byColour[r.opts.GraphColour[x]]
	}

	parent := r.allocate(n.Bag, size)
	k := r.k
	forEachPopulated(childTable, childSize, func(m uint64, val *big.Int) {
		if val.Sign() == 0 {
			return
		}
		nbrImages := make([]uint64, len(nbrPos))
		for j, pos := range nbrPos {
			nbrImages[j] = mapcode.Extract(m, pos, k)
		}
		for _, t := range candidates {
			if !r.edgeValid(t, nbrImages) {
				continue
			}
			pos := mapcode.Insert(m, iPos, t, k)
			parent.Set(pos, val)
		}
	})
	return parent, nil
}

// forget implements spec.md §4.3's forget rule: sum the child table
// over every value of the forgotten vertex's digit.
func (r *run) forget(i int, n treedecomp.Node, child int, childTable Table, size uint64) (Table, error) {
	childBag := r.nice.Nodes[child].Bag
	childSize, overflow := mapcode.TableSize(r.k, len(childBag))
	if overflow {
		return nil, fmt.Errorf("%w: node %d child bag size %d over target size %d", ErrTableTooLarge, child, len(childBag), r.k)
	}
	x := r.idx[i]
	jPos := childBag.Index(x)

	parent := newTableLike(childTable, size)
	forEachPopulated(childTable, childSize, func(m uint64, val *big.Int) {
		if val.Sign() == 0 {
			return
		}
		p := mapcode.Remove(m, jPos, r.k)
		sum := new(big.Int).Add(parent.Get(p), val)
		parent.Set(p, sum)
	})
	return parent, nil
}

// join implements spec.md §4.3's join rule: a pointwise product of the
// two child tables over their shared bag.
func join(lt, rt Table, size uint64) Table {
	parent := newTableLike(lt, size)
	if _, ok := rt.(*SparseTable); ok {
		lt, rt = rt, lt
	}
	forEachPopulated(lt, size, func(pos uint64, val *big.Int) {
		if val.Sign() == 0 {
			return
		}
		rv := rt.Get(pos)
		if rv.Sign() == 0 {
			return
		}
		parent.Set(pos, new(big.Int).Mul(val, rv))
	})
	return parent
}

// allocate picks a table representation for a node about to be filled
// by an intro step: sparse when colouring is on and the fraction of
// colour-consistent assignments for this bag is estimated below
// opts.SparseThreshold, dense otherwise. The estimate only needs to be
// directionally right — a wrong guess costs memory or time, never
// correctness, since Table's two implementations are interchangeable.
func (r *run) allocate(bag treedecomp.Bag, size uint64) Table {
	if !r.opts.Colourful || r.opts.SparseThreshold <= 0 || len(bag) == 0 {
		return NewDenseTable(size)
	}
	counts := make(map[int]int)
	for _, c := range r.opts.TargetColour {
		counts[c]++
	}
	k := r.h.NumVertices()
	reachable := 1.0
	for _, v := range bag {
		c := r.opts.GraphColour[v]
		reachable *= float64(counts[c]) / float64(k)
	}
	if reachable < r.opts.SparseThreshold {
		return NewSparseTable()
	}
	return NewDenseTable(size)
}

// edgeMemo memoises edge-validity results for (target vertex, sorted
// neighbour images) tuples queried while processing intro nodes. It owns
// its own key construction rather than wrapping a generic cache type:
// the only caller is edgeValid, and the only value it ever stores is a
// bool, so there is no reuse to gain from a K/V-generic cache here.
//
// It is a bounded, concurrency-safe cache (needed because
// Options.Parallel lets two intro-heavy subtrees query it from different
// goroutines at once), but not a strict LRU: once full it evicts an
// arbitrary entry rather than tracking recency, since a miss only costs
// a recomputed walk over h.HasEdge and never affects correctness.
type edgeMemo struct {
	mu       sync.Mutex
	capacity int
	vals     map[string]bool
}

func newEdgeMemo(capacity int) *edgeMemo {
	return &edgeMemo{capacity: capacity, vals: make(map[string]bool, capacity)}
}

// lookup returns the memoised validity of t against nbrImages, computing
// and storing it via compute on a first encounter.
func (m *edgeMemo) lookup(t uint64, nbrImages []uint64, compute func() bool) bool {
	sorted := append([]uint64(nil), nbrImages...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	key := edgeMemoKey(t, sorted)

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.vals[key]; ok {
		return v
	}
	v := compute()
	if len(m.vals) >= m.capacity {
		for k := range m.vals {
			delete(m.vals, k)
			break
		}
	}
	m.vals[key] = v
	return v
}

func edgeMemoKey(t uint64, sortedNbrImages []uint64) string {
	b := make([]byte, 0, 8*(len(sortedNbrImages)+1))
	b = appendUint64(b, t)
	for _, y := range sortedNbrImages {
		b = append(b, ',')
		b = appendUint64(b, y)
	}
	return string(b)
}

func (r *run) edgeValid(t uint64, nbrImages []uint64) bool {
	if len(nbrImages) == 0 {
		return true
	}
	return r.memo.lookup(t, nbrImages, func() bool {
		for _, y := range nbrImages {
			if !r.h.HasEdge(graph.Vertex(t), graph.Vertex(y)) {
				return false
			}
		}
		return true
	})
}

func appendUint64(b []byte, v uint64) []byte {
	if v == 0 {
		return append(b, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(b, tmp[i:]...)
}
