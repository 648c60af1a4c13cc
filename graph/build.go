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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Complete returns K_n, the complete graph on n vertices.
func Complete(n int) *Graph {
	g := New(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			_ = g.AddEdge(Vertex(u), Vertex(v))
		}
	}
	return g
}

// Star returns K_{1,leaves}, a star with one centre (vertex 0) and the
// given number of leaves.
func Star(leaves int) *Graph {
	g := New(leaves + 1)
	for i := 1; i <= leaves; i++ {
		_ = g.AddEdge(0, Vertex(i))
	}
	return g
}

// Cycle returns C_n, the n-cycle, for n >= 3.
func Cycle(n int) *Graph {
	g := New(n)
	for i := 0; i < n; i++ {
		_ = g.AddEdge(Vertex(i), Vertex((i+1)%n))
	}
	return g
}

// Empty returns the edgeless graph on n vertices.
func Empty(n int) *Graph { return New(n) }

// Path returns P_n, the path on n vertices 0-1-...-(n-1).
func Path(n int) *Graph {
	g := New(n)
	for i := 0; i+1 < n; i++ {
		_ = g.AddEdge(Vertex(i), Vertex(i+1))
	}
	return g
}

// ReadEdgeList parses a simple edge-list text format: the first
// non-blank, non-comment line is the vertex count n, and each subsequent
// line is a whitespace-separated pair "u v" naming an edge. Lines
// beginning with '#' are ignored.
func ReadEdgeList(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	var g *Graph
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if g == nil {
			n, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: expected vertex count: %w", lineNo, err)
			}
			g = New(n)
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"u v\", got %q", lineNo, line)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad vertex %q: %w", lineNo, fields[0], err)
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad vertex %q: %w", lineNo, fields[1], err)
		}
		if err := g.AddEdge(Vertex(u), Vertex(v)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("empty input: missing vertex count")
	}
	return g, nil
}
