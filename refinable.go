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

// refinableSet keeps one mutex per bucket and regrows the lock slice in
// step with the table. An RWMutex coordinates the two: ordinary operations
// hold it in read mode, which keeps capacity, table and locks stable while
// still admitting concurrent mutators on disjoint buckets; resize holds it
// in write mode and may therefore swap all three.
type refinableSet[T comparable] struct {
	hash     HashFunc[T]
	logger   bark.Logger
	resizeMu sync.RWMutex
	locks    []sync.Mutex
	table    [][]T
	capacity atomic.Uint64
	size     atomic.Int64
}

// NewRefinable initializes a set whose lock granularity tracks the bucket
// count: every bucket has its own mutex, and the lock array is replaced
// together with the table on each resize
func NewRefinable[T comparable](initialCapacity int, opts *Options[T]) Set[T] {
	checkInitialCapacity(initialCapacity)
	hash, logger := resolveOptions(opts)

	t := &refinableSet[T]{
		hash:   hash,
		logger: logger,
		locks:  make([]sync.Mutex, initialCapacity),
		table:  make([][]T, initialCapacity),
	}
	t.capacity.Store(uint64(initialCapacity))

	return t
}

// Add inserts elem into the set; returns true if elem was not already
// present. Both the bucket lock and the read side of resizeMu are dropped
// before the load-factor check: resize needs the write side, which would
// never be granted while this goroutine still held the read side.
func (t *refinableSet[T]) Add(elem T) bool {
	h := t.hash(elem)

	t.resizeMu.RLock()

	idx := h % t.capacity.Load()
	lock := &t.locks[idx]
	lock.Lock()

	for _, e := range t.table[idx] {
		if e == elem {
			lock.Unlock()
			t.resizeMu.RUnlock()
			return false
		}
	}

	t.table[idx] = append(t.table[idx], elem)
	t.size.Add(1)

	lock.Unlock()
	t.resizeMu.RUnlock()

	if t.overloaded() {
		t.resize()
	}

	return true
}

// Remove deletes elem from the set; returns true if elem was present
func (t *refinableSet[T]) Remove(elem T) bool {
	h := t.hash(elem)

	t.resizeMu.RLock()
	defer t.resizeMu.RUnlock()

	idx := h % t.capacity.Load()
	lock := &t.locks[idx]
	lock.Lock()
	defer lock.Unlock()

	if t.size.Load() == 0 {
		return false
	}

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
func (t *refinableSet[T]) Contains(elem T) bool {
	h := t.hash(elem)

	t.resizeMu.RLock()
	defer t.resizeMu.RUnlock()

	idx := h % t.capacity.Load()
	lock := &t.locks[idx]
	lock.Lock()
	defer lock.Unlock()

	for _, e := range t.table[idx] {
		if e == elem {
			return true
		}
	}

	return false
}

// Size returns the number of elements in the set. It takes no lock and is
// only eventually consistent with concurrent mutators.
func (t *refinableSet[T]) Size() int {
	return int(t.size.Load())
}

// Empty checks if the set is empty, with the same consistency as Size
func (t *refinableSet[T]) Empty() bool {
	return t.size.Load() == 0
}

// Clear removes every element, keeping the current bucket count
func (t *refinableSet[T]) Clear() {
	t.resizeMu.Lock()
	defer t.resizeMu.Unlock()

	t.table = make([][]T, t.capacity.Load())
	t.size.Store(0)
}

// Elements returns a snapshot of the members in no particular order
func (t *refinableSet[T]) Elements() []T {
	t.resizeMu.Lock()
	defer t.resizeMu.Unlock()

	elems := make([]T, 0, t.size.Load())

	for _, bucket := range t.table {
		elems = append(elems, bucket...)
	}

	return elems
}

// Capacity returns the current number of buckets
func (t *refinableSet[T]) Capacity() int {
	return int(t.capacity.Load())
}

func (t *refinableSet[T]) overloaded() bool {
	return t.size.Load()/int64(t.capacity.Load()) > maxLoadFactor
}

// resize doubles the bucket count, rehashes every element, and replaces the
// lock slice with one of the new length. The capacity recheck detects a
// concurrent resize that won the race; losing the race makes this call a
// no-op, not an error.
func (t *refinableSet[T]) resize() {
	oldCapacity := t.capacity.Load()

	t.resizeMu.Lock()
	defer t.resizeMu.Unlock()

	// sweep every bucket lock once to verify no mutator that entered
	// before the write acquisition is still holding one; nothing may be
	// left held past this loop
	for i := range t.locks {
		t.locks[i].Lock()
		t.locks[i].Unlock()
	}

	if t.capacity.Load() != oldCapacity {
		return
	}

	newCapacity := 2 * oldCapacity
	newTable := make([][]T, newCapacity)

	for _, bucket := range t.table {
		for _, elem := range bucket {
			idx := t.hash(elem) % newCapacity
			newTable[idx] = append(newTable[idx], elem)
		}
	}

	t.table = newTable
	t.locks = make([]sync.Mutex, newCapacity)
	t.capacity.Store(newCapacity)

	logResize(t.logger, Refinable, oldCapacity, newCapacity, t.size.Load())
}
