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

// Package homcount counts graph homomorphisms φ: V(G) → V(H) via
// dynamic programming over a nice tree decomposition of the pattern
// graph G. It is a pure library: no files, sockets, CLI, or persisted
// state; Count is a pure function of its arguments.
package homcount

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/guojing0/count-graph-homs/dp"
	"github.com/guojing0/count-graph-homs/graph"
	"github.com/guojing0/count-graph-homs/treedecomp"
)

// Error kinds. All are fatal to the call: Count never returns a partial
// count. Following the teacher's client.go/api.go convention, call
// sites wrap these with %w rather than returning bare sentinels.
var (
	// ErrUnsupportedGraph means g or h is not simple (a self-loop or a
	// duplicate edge).
	ErrUnsupportedGraph = errors.New("homcount: unsupported graph")

	// ErrInvalidDecomposition means the tree decomposition produced for
	// g — whether by the default EliminationDecomposer or a
	// caller-supplied one, after normalisation — does not satisfy the
	// tree-decomposition axioms against g. For the bundled decomposer
	// this is always a bug in this module, never caused by the input.
	ErrInvalidDecomposition = treedecomp.ErrInvalidDecomposition

	// ErrMissingColouring means WithColouring was given a graph or
	// target colouring (possibly nil) whose length does not match the
	// vertex count of g or h.
	ErrMissingColouring = errors.New("homcount: colourful requires graph and target colourings")
)

// Option configures a Count call. The zero configuration runs the
// plain, uncoloured, single-threaded algorithm with the bundled
// min-degree elimination decomposer and a density threshold of 0.5.
type Option func(*config)

type config struct {
	densityThreshold float64
	sparseThreshold  float64
	colourful        bool
	graphColour      []int
	targetColour     []int
	decomposer       treedecomp.Decomposer
	parallel         bool
}

// WithDensityThreshold sets the fraction of possible edges h must have
// before its adjacency matrix is materialised for O(1) lookups
// (spec.md §4/§9's density_threshold knob). Default 0.5.
func WithDensityThreshold(threshold float64) Option {
	return func(c *config) { c.densityThreshold = threshold }
}

// WithSparseThreshold sets the colour-consistent-fraction cutoff below
// which a colourful DP table is stored sparsely rather than densely
// (dp.Options.SparseThreshold). Has no effect unless WithColouring is
// also used. Default 0 (always dense).
func WithSparseThreshold(threshold float64) Option {
	return func(c *config) { c.sparseThreshold = threshold }
}

// WithColouring restricts Count to colour-preserving homomorphisms:
// graphClr[v] is the colour of pattern vertex v, targetClr[t] is the
// colour of target vertex t, and a homomorphism φ counts only if
// targetClr[φ(v)] == graphClr[v] for every v.
func WithColouring(graphClr, targetClr []int) Option {
	return func(c *config) {
		c.colourful = true
		c.graphColour = graphClr
		c.targetColour = targetClr
	}
}

// WithDecomposer overrides the bundled min-degree elimination
// decomposer with a caller-supplied one. Decompose's output still
// passes through treedecomp.Normalise and its self-check, so a buggy
// Decomposer surfaces as ErrInvalidDecomposition rather than an
// incorrect count.
func WithDecomposer(d treedecomp.Decomposer) Option {
	return func(c *config) { c.decomposer = d }
}

// WithParallel enables concurrent processing of the two subtrees below
// every join node (spec.md §5's optional join-node parallelism).
func WithParallel(parallel bool) Option {
	return func(c *config) { c.parallel = parallel }
}

// Count returns the number of (colour-preserving, if WithColouring is
// given) homomorphisms φ: V(G) → V(H), where g and h are simple
// undirected graphs on dense vertex sets 0..n-1.
func Count(g, h *graph.Graph, opts ...Option) (*big.Int, error) {
	cfg := &config{
		densityThreshold: 0.5,
		decomposer:       treedecomp.NewEliminationDecomposer(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("pattern graph: %w: %w", ErrUnsupportedGraph, err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("target graph: %w: %w", ErrUnsupportedGraph, err)
	}

	if cfg.colourful {
		if len(cfg.graphColour) != g.NumVertices() || len(cfg.targetColour) != h.NumVertices() {
			return nil, fmt.Errorf("%w: graph has %d vertices with %d colours, target has %d vertices with %d colours",
				ErrMissingColouring, g.NumVertices(), len(cfg.graphColour), h.NumVertices(), len(cfg.targetColour))
		}
	}

	// Empty pattern: exactly one function (the empty function) maps
	// V(G)=∅ into any V(H), including an empty one (spec.md §8
	// property 3). This must be checked before the empty-target case
	// below, which only applies to a non-empty pattern (property 4).
	if g.NumVertices() == 0 {
		return big.NewInt(1), nil
	}
	if h.NumVertices() == 0 {
		return big.NewInt(0), nil
	}

	h.EnsureDense(cfg.densityThreshold)

	raw, err := cfg.decomposer.Decompose(g)
	if err != nil {
		return nil, fmt.Errorf("decomposing pattern graph: %w", err)
	}
	nice, idx, err := treedecomp.Normalise(g, raw)
	if err != nil {
		return nil, fmt.Errorf("normalising tree decomposition: %w", err)
	}

	engine := dp.NewEngine()
	count, err := engine.Count(nice, idx, g, h, dp.Options{
		Colourful:       cfg.colourful,
		GraphColour:     cfg.graphColour,
		TargetColour:    cfg.targetColour,
		SparseThreshold: cfg.sparseThreshold,
		Parallel:        cfg.parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("running DP engine: %w", err)
	}
	return count, nil
}
