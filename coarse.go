// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package hashset

import (
	"sync"
	"sync/atomic"

	"github.com/uber-common/bark"
)

// coarseSet serializes every operation, including resize, behind a single
// mutex. Size and capacity are additionally kept in atomics so that Size,
// Empty and Capacity never contend with mutators.
type coarseSet[T comparable] struct {
	mu       sync.Mutex
	hash     HashFunc[T]
	logger   bark.Logger
	table    [][]T
	capacity atomic.Uint64
	size     atomic.Int64
}

// NewCoarseGrained initializes a set guarded by one mutex covering the whole
// table. Every operation is totally ordered with every other, which makes
// this the simplest correct concurrent variant.
func NewCoarseGrained[T comparable](initialCapacity int, opts *Options[T]) Set[T] {
	checkInitialCapacity(initialCapacity)
	hash, logger := resolveOptions(opts)

	t := &coarseSet[T]{
		hash:   hash,
		logger: logger,
		table:  make([][]T, initialCapacity),
	}
	t.capacity.Store(uint64(initialCapacity))

	return t
}

// Add inserts elem into the set; returns true if elem was not already present
func (t *coarseSet[T]) Add(elem T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.hash(elem) % t.capacity.Load()

	for _, e := range t.table[idx] {
		if e == elem {
			return false
		}
	}

	t.table[idx] = append(t.table[idx], elem)
	size := t.size.Add(1)

	// resize runs under the mutex already held here
	if size/int64(t.capacity.Load()) > maxLoadFactor {
		t.resize()
	}

	return true
}

// Remove deletes elem from the set; returns true if elem was present
func (t *coarseSet[T]) Remove(elem T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.size.Load() == 0 {
		return false
	}

	idx := t.hash(elem) % t.capacity.Load()
	bucket := t.table[idx]

	for i, e := range bucket {
		if e == elem {
			t.table[idx] = append(bucket[:i], bucket[i+1:]...)
			t.size.Add(-1)
			return true
		}
	}

	return false
}

// Contains checks if elem exists in the set
func (t *coarseSet[T]) Contains(elem T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.hash(elem) % t.capacity.Load()

	for _, e := range t.table[idx] {
		if e == elem {
			return true
		}
	}

	return false
}

// Size returns the number of elements in the set without taking the mutex
func (t *coarseSet[T]) Size() int {
	return int(t.size.Load())
}

// Empty checks if the set is empty
func (t *coarseSet[T]) Empty() bool {
	return t.size.Load() == 0
}

// Clear removes every element, keeping the current bucket count
func (t *coarseSet[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.table = make([][]T, t.capacity.Load())
	t.size.Store(0)
}

// Elements returns a snapshot of the members in no particular order
func (t *coarseSet[T]) Elements() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	elems := make([]T, 0, t.size.Load())

	for _, bucket := range t.table {
		elems = append(elems, bucket...)
	}

	return elems
}

// Capacity returns the current number of buckets
func (t *coarseSet[T]) Capacity() int {
	return int(t.capacity.Load())
}

// resize doubles the bucket count and rehashes every element; the caller
// must hold t.mu
func (t *coarseSet[T]) resize() {
	oldCapacity := t.capacity.Load()
	newCapacity := 2 * oldCapacity

	newTable := make([][]T, newCapacity)
	for _, bucket := range t.table {
		for _, elem := range bucket {
			idx := t.hash(elem) % newCapacity
			newTable[idx] = append(newTable[idx], elem)
		}
	}

	t.table = newTable
	t.capacity.Store(newCapacity)

	logResize(t.logger, CoarseGrained, oldCapacity, newCapacity, t.size.Load())
}
