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

package homcount

import (
	"errors"
	"math/big"
	"testing"

	"github.com/guojing0/count-graph-homs/graph"
	"github.com/guojing0/count-graph-homs/treedecomp"
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal " + s)
	}
	return v
}

func TestCountScenarios(t *testing.T) {
	tests := []struct {
		name string
		g, h *graph.Graph
		want *big.Int
	}{
		{"star-1-4-into-K4", graph.Star(4), graph.Complete(4), mustBig("324")},
		{"K2-into-K3", graph.Complete(2), graph.Complete(3), mustBig("6")},
		{"C4-into-K3", graph.Cycle(4), graph.Complete(3), mustBig("18")},
		{"single-vertex-into-K4", graph.Empty(1), graph.Complete(4), mustBig("4")},
		{"empty-into-K3", graph.Empty(0), graph.Complete(3), mustBig("1")},
		{"empty-into-empty", graph.Empty(0), graph.Empty(0), mustBig("1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Count(tt.g, tt.h)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if got.Cmp(tt.want) != 0 {
				t.Errorf("Count(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestCountEmptyTargetNonEmptyPattern(t *testing.T) {
	got, err := Count(graph.Complete(2), graph.Empty(0))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if got.Sign() != 0 {
		t.Errorf("Count(K2, empty) = %s, want 0", got)
	}
}

func TestCountWithColouringMissingColours(t *testing.T) {
	g := graph.Complete(2)
	h := graph.Complete(3)
	_, err := Count(g, h, WithColouring([]int{0}, []int{0, 1, 2}))
	if !errors.Is(err, ErrMissingColouring) {
		t.Errorf("Count with short graph colouring: err = %v, want ErrMissingColouring", err)
	}
}

func TestCountWithColouringOption(t *testing.T) {
	g := graph.Complete(3)
	h := graph.Complete(3)
	got, err := Count(g, h, WithColouring([]int{0, 1, 2}, []int{0, 1, 2}))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	want := mustBig("1")
	if got.Cmp(want) != 0 {
		t.Errorf("Count(K3, K3, proper colouring) = %s, want %s", got, want)
	}
}

// singleBagDecomposer produces the (valid but useless-in-practice) tree
// decomposition consisting of a single bag holding every vertex of g. It
// exists to exercise WithDecomposer's plug-in contract with something
// other than the bundled EliminationDecomposer.
type singleBagDecomposer struct{}

func (singleBagDecomposer) Decompose(g *graph.Graph) (*treedecomp.Raw, error) {
	bag := make([]graph.Vertex, g.NumVertices())
	for i := range bag {
		bag[i] = graph.Vertex(i)
	}
	return &treedecomp.Raw{Bags: [][]graph.Vertex{bag}}, nil
}

func TestCountWithDecomposerOption(t *testing.T) {
	g := graph.Cycle(5)
	h := graph.Complete(4)

	baseline, err := Count(g, h)
	if err != nil {
		t.Fatalf("Count (default decomposer): %v", err)
	}
	got, err := Count(g, h, WithDecomposer(singleBagDecomposer{}))
	if err != nil {
		t.Fatalf("Count (single-bag decomposer): %v", err)
	}
	if got.Cmp(baseline) != 0 {
		t.Errorf("decomposer choice changed the count: baseline=%s got=%s", baseline, got)
	}
}

// relabel returns a graph isomorphic to g under the permutation perm
// (perm[v] is v's new vertex number), used to check spec.md §8 property
// 7: Count must be invariant under relabelling either argument.
func relabel(g *graph.Graph, perm []int) *graph.Graph {
	out := graph.New(g.NumVertices())
	for _, v := range g.Vertices() {
		for _, w := range g.Neighbours(v) {
			if w < v {
				continue
			}
			_ = out.AddEdge(graph.Vertex(perm[v]), graph.Vertex(perm[w]))
		}
	}
	return out
}

func TestCountInvariantUnderPatternRelabelling(t *testing.T) {
	g := graph.Cycle(5)
	h := graph.Complete(4)
	perm := []int{3, 0, 4, 1, 2}

	baseline, err := Count(g, h)
	if err != nil {
		t.Fatalf("Count (original labelling): %v", err)
	}
	got, err := Count(relabel(g, perm), h)
	if err != nil {
		t.Fatalf("Count (relabelled pattern): %v", err)
	}
	if got.Cmp(baseline) != 0 {
		t.Errorf("relabelling the pattern graph changed the count: baseline=%s got=%s", baseline, got)
	}
}

func TestCountInvariantUnderTargetRelabelling(t *testing.T) {
	g := graph.Star(4)
	h := graph.Complete(4)
	perm := []int{2, 3, 0, 1}

	baseline, err := Count(g, h)
	if err != nil {
		t.Fatalf("Count (original labelling): %v", err)
	}
	got, err := Count(g, relabel(h, perm))
	if err != nil {
		t.Fatalf("Count (relabelled target): %v", err)
	}
	if got.Cmp(baseline) != 0 {
		t.Errorf("relabelling the target graph changed the count: baseline=%s got=%s", baseline, got)
	}
}

func TestCountWithParallelOption(t *testing.T) {
	g := graph.Cycle(6)
	h := graph.Complete(3)

	seq, err := Count(g, h)
	if err != nil {
		t.Fatalf("Count (sequential): %v", err)
	}
	par, err := Count(g, h, WithParallel(true))
	if err != nil {
		t.Fatalf("Count (parallel): %v", err)
	}
	if seq.Cmp(par) != 0 {
		t.Errorf("Count disagrees under WithParallel: sequential=%s parallel=%s", seq, par)
	}
}

func TestCountWithDensityThreshold(t *testing.T) {
	g := graph.Cycle(5)
	h := graph.Complete(5)

	lazy, err := Count(g, h, WithDensityThreshold(2))
	if err != nil {
		t.Fatalf("Count (lazy density): %v", err)
	}
	eager, err := Count(g, h, WithDensityThreshold(0))
	if err != nil {
		t.Fatalf("Count (eager density): %v", err)
	}
	if lazy.Cmp(eager) != 0 {
		t.Errorf("density threshold changed the count: lazy=%s eager=%s", lazy, eager)
	}
}
