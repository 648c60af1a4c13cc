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

// Package mapcode implements the positional base-k integer encoding of
// bag assignments described in spec.md §4.1: a bag whose vertices are
// listed in a fixed order is encoded as a single non-negative integer,
// one base-k digit per vertex, least-significant digit first.
package mapcode

import "math/big"

// Extract returns the i-th digit of p in base k: floor(p / k^i) mod k.
func Extract(p uint64, i int, k uint64) uint64 {
	return (p / powUint64(k, i)) % k
}

// Insert inserts digit d at position i of p, shifting digits at
// positions >= i up by one, and returns the resulting integer.
func Insert(p uint64, i int, d, k uint64) uint64 {
	shift := powUint64(k, i)
	left := p - (p % shift)
	right := p % shift
	return k*left + d*shift + right
}

// Remove deletes the digit at position i of p, shifting digits at
// positions > i down by one, and returns the resulting integer.
func Remove(p uint64, i int, k uint64) uint64 {
	shift := powUint64(k, i)
	left := p - (p % (shift * k))
	right := p % shift
	return left/k + right
}

func powUint64(base uint64, exp int) uint64 {
	r := uint64(1)
	for ; exp > 0; exp-- {
		r *= base
	}
	return r
}

// TableSize reports k^b, and whether that value overflows uint64. The dp
// engine indexes its tables with uint64 only: on overflow it returns
// dp.ErrTableTooLarge and does not fall back to the Big variants below,
// which nothing in the engine calls.
func TableSize(k uint64, b int) (size uint64, overflow bool) {
	if k == 0 {
		if b == 0 {
			return 1, false
		}
		return 0, false
	}
	size = 1
	for i := 0; i < b; i++ {
		next := size * k
		if k != 0 && next/k != size {
			return 0, true
		}
		size = next
	}
	return size, false
}

// BigExtract is the arbitrary-precision analogue of Extract, used when
// k^b overflows a machine word (spec.md §4.1's "Implementation freedom"
// note, and §9's remark that arbitrary precision is needed for very
// large tables).
func BigExtract(p *big.Int, i int, k uint64) uint64 {
	shift := new(big.Int).Exp(big.NewInt(0).SetUint64(k), big.NewInt(int64(i)), nil)
	q := new(big.Int).Div(p, shift)
	kb := new(big.Int).SetUint64(k)
	q.Mod(q, kb)
	return q.Uint64()
}

// BigInsert is the arbitrary-precision analogue of Insert.
func BigInsert(p *big.Int, i int, d, k uint64) *big.Int {
	kb := new(big.Int).SetUint64(k)
	shift := new(big.Int).Exp(kb, big.NewInt(int64(i)), nil)
	right := new(big.Int).Mod(p, shift)
	left := new(big.Int).Sub(p, right)

	result := new(big.Int).Mul(left, kb)
	result.Add(result, new(big.Int).Mul(big.NewInt(0).SetUint64(d), shift))
	result.Add(result, right)
	return result
}

// BigRemove is the arbitrary-precision analogue of Remove.
func BigRemove(p *big.Int, i int, k uint64) *big.Int {
	kb := new(big.Int).SetUint64(k)
	shiftI := new(big.Int).Exp(kb, big.NewInt(int64(i)), nil)
	shiftI1 := new(big.Int).Mul(shiftI, kb)

	right := new(big.Int).Mod(p, shiftI)
	leftRem := new(big.Int).Mod(p, shiftI1)
	left := new(big.Int).Sub(p, leftRem)

	result := new(big.Int).Div(left, kb)
	result.Add(result, right)
	return result
}
