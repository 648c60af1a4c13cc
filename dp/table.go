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

// Package dp implements the bottom-up dynamic-programming engine that
// counts homomorphism extensions at each node of a nice tree
// decomposition (spec.md §4.3/§4.4).
package dp

import "math/big"

var bigZero = big.NewInt(0)

// Table holds the DP counts for a single tree-decomposition node, keyed
// by positional base-k encoded bag assignment (spec.md §3/§4.1). Both
// DenseTable and SparseTable satisfy it; which one backs a given node is
// an implementation-freedom performance choice (spec.md §4.4) that never
// changes the counts it returns.
type Table interface {
	Get(pos uint64) *big.Int
	Set(pos uint64, v *big.Int)
}

// DenseTable is a flat vector of length k^b, one cell per possible
// assignment — the canonical representation spec.md §3 describes.
type DenseTable struct {
	vals []*big.Int
}

// NewDenseTable allocates a dense table of the given logical size, with
// every cell implicitly zero.
func NewDenseTable(size uint64) *DenseTable {
	return &DenseTable{vals: make([]*big.Int, size)}
}

func (t *DenseTable) Get(pos uint64) *big.Int {
	if v := t.vals[pos]; v != nil {
		return v
	}
	return bigZero
}

func (t *DenseTable) Set(pos uint64, v *big.Int) { t.vals[pos] = v }

// Size returns the table's logical length, k^b.
func (t *DenseTable) Size() uint64 { return uint64(len(t.vals)) }

// SparseTable holds only the non-zero cells of a logically k^b-sized
// table, keyed by encoded assignment. It is the "sparse map keyed by
// encoded assignment" spec.md §4.4's Design Notes explicitly permit for
// colour-preserving tables, where most assignments are colour-
// inconsistent and therefore always zero.
type SparseTable struct {
	vals map[uint64]*big.Int
}

// NewSparseTable returns an empty sparse table.
func NewSparseTable() *SparseTable {
	return &SparseTable{vals: make(map[uint64]*big.Int)}
}

func (t *SparseTable) Get(pos uint64) *big.Int {
	if v, ok := t.vals[pos]; ok {
		return v
	}
	return bigZero
}

func (t *SparseTable) Set(pos uint64, v *big.Int) {
	if v == nil || v.Sign() == 0 {
		delete(t.vals, pos)
		return
	}
	t.vals[pos] = v
}

// Len reports the number of non-zero cells.
func (t *SparseTable) Len() int { return len(t.vals) }

// forEachPopulated calls fn for every cell a table logically holds: for
// a DenseTable that is every position up to size (spec.md's literal
// per-position loops); for a SparseTable it is only the populated
// cells, since every other position is implicitly zero and contributes
// nothing to a sum or product.
func forEachPopulated(t Table, size uint64, fn func(pos uint64, val *big.Int)) {
	switch tt := t.(type) {
	case *DenseTable:
		for pos := uint64(0); pos < size; pos++ {
			fn(pos, tt.Get(pos))
		}
	case *SparseTable:
		for pos, v := range tt.vals {
			fn(pos, v)
		}
	}
}

// newTableLike returns a fresh table of the same representation as
// model (dense stays dense, sparse stays sparse), sized for a table of
// logical length size.
func newTableLike(model Table, size uint64) Table {
	if _, ok := model.(*SparseTable); ok {
		return NewSparseTable()
	}
	return NewDenseTable(size)
}
