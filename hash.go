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
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps an element to the hash value used for bucket routing.
// A set calls its HashFunc with the same element from multiple goroutines
// concurrently; it must be pure and deterministic for the lifetime of the
// set, since both the bucket index and (in the striped variant) the lock
// index are derived from it.
type HashFunc[T comparable] func(elem T) uint64

// defaultHash builds a maphash-backed hasher with a fresh seed; each set
// instance gets its own seed
func defaultHash[T comparable]() HashFunc[T] {
	seed := maphash.MakeSeed()

	return func(elem T) uint64 {
		return maphash.Comparable(seed, elem)
	}
}

// XXHashString is a HashFunc for string elements backed by xxhash; it
// outperforms the default hasher on long string keys and, unlike the
// default, is stable across set instances and process restarts
func XXHashString(elem string) uint64 {
	return xxhash.Sum64String(elem)
}
