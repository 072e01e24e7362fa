//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package search

import (
	"github.com/frankkopp/franky-core/internal/position"
	"github.com/frankkopp/franky-core/internal/transpositiontable"
)

// localTtCache is a small worker-local, direct-mapped probe cache.
// Each lazy-SMP worker consults it before touching the shared
// transposition table, so repeated probes of the same positions are
// served from worker-local memory.
// It is indexed by a different slice of the Zobrist key than the
// shared table (which masks the low bits directly), so a worker's
// local entries do not simply mirror the shared table's bucket.
type localTtCache struct {
	data []transpositiontable.TtEntry
	mask uint64
}

// newLocalTtCache creates a local cache with a power-of-two capacity
// at least as large as the given capacity.
func newLocalTtCache(capacity int) *localTtCache {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &localTtCache{
		data: make([]transpositiontable.TtEntry, size),
		mask: uint64(size - 1),
	}
}

func (c *localTtCache) hash(key position.Key) uint64 {
	return (uint64(key) >> 20) & c.mask
}

// probe returns the cached entry for key, or nil if the slot holds a
// different position.
func (c *localTtCache) probe(key position.Key) *transpositiontable.TtEntry {
	e := &c.data[c.hash(key)]
	if e.Key == key {
		return e
	}
	return nil
}

// store overwrites the local slot for the entry's key unconditionally,
// there is no replacement scheme as the cache is tiny and short-lived.
func (c *localTtCache) store(e transpositiontable.TtEntry) {
	c.data[c.hash(e.Key)] = e
}
