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

// stripedSet divides the buckets among a fixed array of mutexes allocated
// at construction. The stripe for an element is hash % len(stripes) while
// its bucket is hash % capacity; since capacity only ever doubles, every
// bucket stays covered by the same stripe as the table grows. The table
// field is only ever touched while holding at least one stripe, and resize
// holds all of them, so table replacement needs no further coordination.
type stripedSet[T comparable] struct {
	hash     HashFunc[T]
	logger   bark.Logger
	stripes  []sync.Mutex
	table    [][]T
	capacity atomic.Uint64
	size     atomic.Int64
}

// NewStriped initializes a lock-striped set. The stripe count is fixed at
// initialCapacity for the lifetime of the set, so concurrency stops scaling
// once the table has grown past it; correctness is unaffected.
func NewStriped[T comparable](initialCapacity int, opts *Options[T]) Set[T] {
	checkInitialCapacity(initialCapacity)
	hash, logger := resolveOptions(opts)

	t := &stripedSet[T]{
		hash:    hash,
		logger:  logger,
		stripes: make([]sync.Mutex, initialCapacity),
		table:   make([][]T, initialCapacity),
	}
	t.capacity.Store(uint64(initialCapacity))

	return t
}

// Add inserts elem into the set; returns true if elem was not already
// present. The stripe is released before the load-factor check because
// resize acquires every stripe, including this one.
func (t *stripedSet[T]) Add(elem T) bool {
	h := t.hash(elem)
	stripe := &t.stripes[h%uint64(len(t.stripes))]
	stripe.Lock()

	idx := h % t.capacity.Load()

	for _, e := range t.table[idx] {
		if e == elem {
			stripe.Unlock()
			return false
		}
	}

	t.table[idx] = append(t.table[idx], elem)
	t.size.Add(1)

	stripe.Unlock()

	if t.overloaded() {
		t.resize()
	}

	return true
}

// Remove deletes elem from the set; returns true if elem was present
func (t *stripedSet[T]) Remove(elem T) bool {
	h := t.hash(elem)
	stripe := &t.stripes[h%uint64(len(t.stripes))]
	stripe.Lock()
	defer stripe.Unlock()

	if t.size.Load() == 0 {
		return false
	}

	idx := h % t.capacity.Load()
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
func (t *stripedSet[T]) Contains(elem T) bool {
	h := t.hash(elem)
	stripe := &t.stripes[h%uint64(len(t.stripes))]
	stripe.Lock()
	defer stripe.Unlock()

	idx := h % t.capacity.Load()

	for _, e := range t.table[idx] {
		if e == elem {
			return true
		}
	}

	return false
}

// Size returns the number of elements in the set. It takes no lock and is
// only eventually consistent with concurrent mutators.
func (t *stripedSet[T]) Size() int {
	return int(t.size.Load())
}

// Empty checks if the set is empty, with the same consistency as Size
func (t *stripedSet[T]) Empty() bool {
	return t.size.Load() == 0
}

// Clear removes every element, keeping the current bucket count
func (t *stripedSet[T]) Clear() {
	t.lockAll()
	defer t.unlockAll()

	t.table = make([][]T, t.capacity.Load())
	t.size.Store(0)
}

// Elements returns a snapshot of the members in no particular order
func (t *stripedSet[T]) Elements() []T {
	t.lockAll()
	defer t.unlockAll()

	elems := make([]T, 0, t.size.Load())

	for _, bucket := range t.table {
		elems = append(elems, bucket...)
	}

	return elems
}

// Capacity returns the current number of buckets
func (t *stripedSet[T]) Capacity() int {
	return int(t.capacity.Load())
}

func (t *stripedSet[T]) overloaded() bool {
	return t.size.Load()/int64(t.capacity.Load()) > maxLoadFactor
}

// lockAll acquires every stripe in ascending index order; all full-table
// operations use the same order so they cannot deadlock each other
func (t *stripedSet[T]) lockAll() {
	for i := range t.stripes {
		t.stripes[i].Lock()
	}
}

func (t *stripedSet[T]) unlockAll() {
	for i := range t.stripes {
		t.stripes[i].Unlock()
	}
}

// resize doubles the bucket count and rehashes every element. The capacity
// recheck under the full stripe sweep detects a concurrent resize that won
// the race; losing the race makes this call a no-op, not an error.
func (t *stripedSet[T]) resize() {
	oldCapacity := t.capacity.Load()

	t.lockAll()
	defer t.unlockAll()

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
	t.capacity.Store(newCapacity)

	logResize(t.logger, Striped, oldCapacity, newCapacity, t.size.Load())
}
