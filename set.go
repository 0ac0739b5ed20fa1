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

// Package hashset provides open-hashing set containers over any comparable
// element type, with a choice of locking strategies: none (sequential
// baseline), one coarse lock, fixed lock striping, and refinable per-bucket
// locking. All variants share the same bucket-table layout and growth
// policy and differ only in how they synchronize against a concurrently
// growing table.
package hashset

import (
	"fmt"

	"github.com/uber-common/bark"
)

// Set defines the interface for a hash set. Implementations returned by
// this package are safe for concurrent use except the Sequential variant.
type Set[T comparable] interface {
	// Add inserts elem into the set; returns true if elem was not
	// already present
	Add(elem T) bool
	// Remove deletes elem from the set; returns true if elem was present
	Remove(elem T) bool
	// Contains checks if elem exists in the set
	Contains(elem T) bool
	// Size returns the number of elements in the set
	Size() int
	// Empty checks if the set is empty
	Empty() bool
	// Clear removes every element, keeping the current bucket count
	Clear()
	// Elements returns a snapshot of the members in no particular order
	Elements() []T
	// Capacity returns the current number of buckets
	Capacity() int
}

// Kind selects the locking strategy used by New
type Kind int

const (
	// Sequential is the unsynchronized single-goroutine baseline
	Sequential Kind = iota
	// CoarseGrained guards the whole table with one mutex
	CoarseGrained
	// Striped guards bucket groups with a fixed array of mutexes
	Striped
	// Refinable guards each bucket with its own mutex, regrown on resize
	Refinable
)

func (k Kind) String() string {
	switch k {
	case Sequential:
		return "sequential"
	case CoarseGrained:
		return "coarse"
	case Striped:
		return "striped"
	case Refinable:
		return "refinable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Options configures optional behavior of a set; the zero value (or a nil
// pointer) selects the defaults
type Options[T comparable] struct {
	// Hash overrides the default element hasher. It must be
	// deterministic for the lifetime of the set.
	Hash HashFunc[T]
	// Logger, when non-nil, receives a debug log line for every
	// table resize
	Logger bark.Logger
}

// New initializes a new set of the given kind with the given initial
// bucket count; opts may be nil
func New[T comparable](kind Kind, initialCapacity int, opts *Options[T]) Set[T] {
	switch kind {
	case Sequential:
		return NewSequential(initialCapacity, opts)
	case CoarseGrained:
		return NewCoarseGrained(initialCapacity, opts)
	case Striped:
		return NewStriped(initialCapacity, opts)
	case Refinable:
		return NewRefinable(initialCapacity, opts)
	default:
		panic(fmt.Sprintf("hashset: unknown kind %v", kind))
	}
}

// growth trigger: resize when size/capacity exceeds this after an insert
const maxLoadFactor = 4

func checkInitialCapacity(initialCapacity int) {
	if initialCapacity <= 0 {
		panic(fmt.Sprintf("hashset: initial capacity must be positive, got %d", initialCapacity))
	}
}

func resolveOptions[T comparable](opts *Options[T]) (HashFunc[T], bark.Logger) {
	if opts == nil {
		opts = &Options[T]{}
	}

	hash := opts.Hash
	if hash == nil {
		hash = defaultHash[T]()
	}

	return hash, opts.Logger
}

func logResize(logger bark.Logger, kind Kind, oldCapacity, newCapacity uint64, size int64) {
	if logger == nil {
		return
	}

	logger.WithFields(bark.Fields{
		"kind":        kind.String(),
		"oldCapacity": oldCapacity,
		"newCapacity": newCapacity,
		"size":        size,
	}).Debug("hashset: table resized")
}
