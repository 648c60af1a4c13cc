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

package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := New(3)
	if err := g.AddEdge(1, 1); !errors.Is(err, ErrNotSimple) {
		t.Errorf("AddEdge(1,1) err = %v, want ErrNotSimple", err)
	}
}

func TestAddEdgeRejectsDuplicate(t *testing.T) {
	g := New(3)
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge(0,1): %v", err)
	}
	if err := g.AddEdge(1, 0); !errors.Is(err, ErrNotSimple) {
		t.Errorf("AddEdge(1,0) after AddEdge(0,1): err = %v, want ErrNotSimple", err)
	}
}

func TestAddEdgeRejectsOutOfRange(t *testing.T) {
	g := New(2)
	if err := g.AddEdge(0, 5); err == nil {
		t.Error("AddEdge(0,5) on a 2-vertex graph: want error, got nil")
	}
}

func TestHasEdgeSymmetric(t *testing.T) {
	g := Star(4)
	for _, v := range g.Vertices() {
		for _, w := range g.Vertices() {
			if g.HasEdge(v, w) != g.HasEdge(w, v) {
				t.Errorf("HasEdge(%d,%d) != HasEdge(%d,%d)", v, w, w, v)
			}
		}
	}
}

func TestEnsureDenseAgreesWithSparse(t *testing.T) {
	g := Cycle(6)
	var sparse [6][6]bool
	for _, v := range g.Vertices() {
		for _, w := range g.Vertices() {
			sparse[v][w] = g.HasEdge(v, w)
		}
	}
	g.EnsureDense(0)
	if !g.IsDense() {
		t.Fatal("EnsureDense(0) did not materialise the matrix")
	}
	for _, v := range g.Vertices() {
		for _, w := range g.Vertices() {
			if g.HasEdge(v, w) != sparse[v][w] {
				t.Errorf("HasEdge(%d,%d) = %v after EnsureDense, want %v", v, w, g.HasEdge(v, w), sparse[v][w])
			}
		}
	}
}

func TestEnsureDenseRespectsThreshold(t *testing.T) {
	g := Path(5) // sparse: density well under 1
	g.EnsureDense(0.99)
	if g.IsDense() {
		t.Error("EnsureDense(0.99) materialised the matrix for a sparse graph")
	}
}

func TestDensityBounds(t *testing.T) {
	graphs := []*Graph{Empty(0), Empty(1), Complete(5), Cycle(5), Star(5), Path(5)}
	for _, g := range graphs {
		d := g.Density()
		if d < 0 || d > 1 {
			t.Errorf("Density() = %v, want in [0,1]", d)
		}
	}
	if got := Complete(5).Density(); got != 1 {
		t.Errorf("Complete(5).Density() = %v, want 1", got)
	}
}

func TestValidateAcceptsBuiltGraphs(t *testing.T) {
	for _, g := range []*Graph{Empty(0), Complete(4), Star(3), Cycle(5), Path(6)} {
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() on a graph built via AddEdge: %v", err)
		}
	}
}

func TestDegreeMatchesNeighbours(t *testing.T) {
	g := Star(5)
	for _, v := range g.Vertices() {
		if got, want := g.Degree(v), len(g.Neighbours(v)); got != want {
			t.Errorf("Degree(%d) = %d, want len(Neighbours(%d)) = %d", v, got, v, want)
		}
	}
	if g.Degree(0) != 5 {
		t.Errorf("centre degree = %d, want 5", g.Degree(0))
	}
}

func TestReadEdgeList(t *testing.T) {
	input := "3\n0 1\n1 2\n"
	g, err := ReadEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if g.NumVertices() != 3 || g.NumEdges() != 2 {
		t.Fatalf("got |V|=%d |E|=%d, want 3 and 2", g.NumVertices(), g.NumEdges())
	}
	if !g.HasEdge(0, 1) || !g.HasEdge(1, 2) || g.HasEdge(0, 2) {
		t.Error("ReadEdgeList produced the wrong edge set")
	}
}

func TestReadEdgeListIgnoresCommentsAndBlankLines(t *testing.T) {
	input := "# a triangle\n3\n\n0 1\n# the long edge\n1 2\n0 2\n"
	g, err := ReadEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if g.NumEdges() != 3 {
		t.Errorf("got %d edges, want 3", g.NumEdges())
	}
}

func TestReadEdgeListRejectsMissingHeader(t *testing.T) {
	if _, err := ReadEdgeList(strings.NewReader("")); err == nil {
		t.Error("ReadEdgeList(empty input): want error, got nil")
	}
}
