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

package mapcode

import (
	"math/big"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for _, k := range []uint64{1, 2, 3, 5, 8} {
		for b := 1; b <= 5; b++ {
			size, overflow := TableSize(k, b)
			if overflow {
				continue
			}
			for p := uint64(0); p < size; p++ {
				for i := 0; i < b; i++ {
					d := Extract(p, i, k)
					inserted := Insert(Remove(p, i, k), i, d, k)
					if inserted != p {
						t.Fatalf("k=%d b=%d p=%d i=%d: Insert(Remove(p,i),i,Extract(p,i)) = %d, want %d", k, b, p, i, inserted, p)
					}
				}
			}
		}
	}
}

func TestInsertExtract(t *testing.T) {
	for _, k := range []uint64{2, 3, 4} {
		for b := 0; b <= 4; b++ {
			size, overflow := TableSize(k, b)
			if overflow {
				continue
			}
			for p := uint64(0); p < size; p++ {
				for i := 0; i <= b; i++ {
					for d := uint64(0); d < k; d++ {
						inserted := Insert(p, i, d, k)
						if got := Extract(inserted, i, k); got != d {
							t.Fatalf("k=%d p=%d i=%d d=%d: Extract(Insert(p,i,d),i) = %d, want %d", k, p, i, d, got, d)
						}
						if got := Remove(inserted, i, k); got != p {
							t.Fatalf("k=%d p=%d i=%d d=%d: Remove(Insert(p,i,d),i) = %d, want %d", k, p, i, d, got, p)
						}
					}
				}
			}
		}
	}
}

func TestBigMatchesUint64(t *testing.T) {
	k := uint64(4)
	for b := 0; b <= 4; b++ {
		size, _ := TableSize(k, b)
		for p := uint64(0); p < size; p++ {
			bp := new(big.Int).SetUint64(p)
			for i := 0; i <= b; i++ {
				for d := uint64(0); d < k; d++ {
					wantIns := Insert(p, i, d, k)
					gotIns := BigInsert(bp, i, d, k)
					if gotIns.Uint64() != wantIns {
						t.Fatalf("BigInsert(%d,%d,%d) = %v, want %d", p, i, d, gotIns, wantIns)
					}
				}
				if i < b {
					wantExt := Extract(p, i, k)
					if got := BigExtract(bp, i, k); got != wantExt {
						t.Fatalf("BigExtract(%d,%d) = %d, want %d", p, i, got, wantExt)
					}
					wantRem := Remove(p, i, k)
					if got := BigRemove(bp, i, k); got.Uint64() != wantRem {
						t.Fatalf("BigRemove(%d,%d) = %v, want %d", p, i, got, wantRem)
					}
				}
			}
		}
	}
}
