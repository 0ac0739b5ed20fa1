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

type sequentialSet[T comparable] struct {
	hash  HashFunc[T]
	table [][]T
	size  int
}

// NewSequential initializes the unsynchronized baseline set. It performs no
// locking at all and must only be used from a single goroutine; the
// concurrent variants are validated against its behavior.
func NewSequential[T comparable](initialCapacity int, opts *Options[T]) Set[T] {
	checkInitialCapacity(initialCapacity)
	hash, _ := resolveOptions(opts)

	return &sequentialSet[T]{
		hash:  hash,
		table: make([][]T, initialCapacity),
	}
}

// Add inserts elem into the set; returns true if elem was not already present
func (t *sequentialSet[T]) Add(elem T) bool {
	idx := t.hash(elem) % uint64(len(t.table))

	for _, e := range t.table[idx] {
		if e == elem {
			return false
		}
	}

	t.table[idx] = append(t.table[idx], elem)
	t.size++

	if t.size/len(t.table) > maxLoadFactor {
		t.resize()
	}

	return true
}

// Remove deletes elem from the set; returns true if elem was present
func (t *sequentialSet[T]) Remove(elem T) bool {
	if t.size == 0 {
		return false
	}

	idx := t.hash(elem) % uint64(len(t.table))
	bucket := t.table[idx]

	for i, e := range bucket {
		if e == elem {
			t.table[idx] = append(bucket[:i], bucket[i+1:]...)
			t.size--
			return true
		}
	}

	return false
}

// Contains checks if elem exists in the set
func (t *sequentialSet[T]) Contains(elem T) bool {
	idx := t.hash(elem) % uint64(len(t.table))

	for _, e := range t.table[idx] {
		if e == elem {
			return true
		}
	}

	return false
}

// Size returns the number of elements in the set
func (t *sequentialSet[T]) Size() int {
	return t.size
}

// Empty checks if the set is empty
func (t *sequentialSet[T]) Empty() bool {
	return t.size == 0
}

// Clear removes every element, keeping the current bucket count
func (t *sequentialSet[T]) Clear() {
	t.table = make([][]T, len(t.table))
	t.size = 0
}

// Elements returns the members in no particular order
func (t *sequentialSet[T]) Elements() []T {
	elems := make([]T, 0, t.size)

	for _, bucket := range t.table {
		elems = append(elems, bucket...)
	}

	return elems
}

// Capacity returns the current number of buckets
func (t *sequentialSet[T]) Capacity() int {
	return len(t.table)
}

// resize doubles the bucket count and rehashes every element with the new
// bucket count
func (t *sequentialSet[T]) resize() {
	old := t.table
	t.table = make([][]T, 2*len(old))

	for _, bucket := range old {
		for _, elem := range bucket {
			idx := t.hash(elem) % uint64(len(t.table))
			t.table[idx] = append(t.table[idx], elem)
		}
	}
}
