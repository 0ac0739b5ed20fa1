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
	"math/rand"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

var allKinds = []Kind{Sequential, CoarseGrained, Striped, Refinable}

func TestAddRemoveContains(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 4, nil)

			assert.True(t, s.Add(1))
			assert.False(t, s.Add(1), "second Add of the same element must report no insertion")
			assert.True(t, s.Add(2))
			assert.False(t, s.Remove(3), "Remove of an absent element must report no deletion")
			assert.True(t, s.Remove(1))
			assert.Equal(t, 1, s.Size())
			assert.True(t, s.Contains(2))
			assert.False(t, s.Contains(1))
		})
	}
}

func TestIdempotentAdd(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[string](kind, 4, nil)

			assert.True(t, s.Add("foo"))
			assert.False(t, s.Add("foo"))
			assert.Equal(t, 1, s.Size())
		})
	}
}

func TestAddRemoveInverse(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 4, nil)

			for i := 0; i < 64; i++ {
				before := s.Size()
				assert.True(t, s.Add(i))
				assert.Equal(t, before+1, s.Size())
				assert.True(t, s.Remove(i))
				assert.Equal(t, before, s.Size())
				assert.False(t, s.Contains(i))
			}
		})
	}
}

func TestRemoveFromEmpty(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 4, nil)

			assert.False(t, s.Remove(42))
			assert.Equal(t, 0, s.Size())
			assert.True(t, s.Empty())
		})
	}
}

func TestResizePreservesMembership(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 2, nil)

			// integer-division load factor crosses 4 at size 10, forcing
			// the first doubling
			for k := 1; k <= 10; k++ {
				assert.True(t, s.Add(k))
			}

			assert.Equal(t, 10, s.Size())
			assert.Greater(t, s.Capacity(), 2, "load factor threshold must have forced a doubling")

			for k := 1; k <= 10; k++ {
				assert.True(t, s.Contains(k), "element %d lost across resize", k)
			}
		})
	}
}

func TestNoDuplicatesAcrossResize(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 2, nil)

			for _, k := range lo.Shuffle(lo.Range(200)) {
				s.Add(k)
				s.Add(k)
			}

			assert.Equal(t, 200, s.Size())

			elems := s.Elements()
			assert.Len(t, elems, 200)
			assert.Len(t, lo.Uniq(elems), 200, "Elements must contain no duplicates")
		})
	}
}

func TestClear(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 4, nil)

			for i := 0; i < 50; i++ {
				s.Add(i)
			}

			capacity := s.Capacity()
			s.Clear()

			assert.Equal(t, 0, s.Size())
			assert.True(t, s.Empty())
			assert.Empty(t, s.Elements())
			assert.Equal(t, capacity, s.Capacity(), "Clear must not change the bucket count")
			assert.False(t, s.Contains(7))
			assert.True(t, s.Add(7))
		})
	}
}

func TestGrowthDoublesCapacity(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New[int](kind, 2, nil)

			for i := 0; s.Capacity() == 2; i++ {
				s.Add(i)
			}

			assert.Equal(t, 4, s.Capacity())
			// size/capacity uses integer division, so 10/2 is the first
			// quotient above 4
			assert.Equal(t, 10, s.Size())
		})
	}
}

func TestCustomHash(t *testing.T) {

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New(kind, 4, &Options[string]{Hash: XXHashString})

			assert.True(t, s.Add("foo"))
			assert.True(t, s.Add("bar"))
			assert.False(t, s.Add("foo"))
			assert.True(t, s.Contains("bar"))
			assert.True(t, s.Remove("foo"))
			assert.Equal(t, 1, s.Size())
		})
	}
}

func TestDegenerateHash(t *testing.T) {

	// a constant hash funnels everything into one bucket; semantics must
	// survive even though every lookup degrades to a linear scan
	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {

			s := New(kind, 4, &Options[int]{Hash: func(int) uint64 { return 0 }})

			for i := 0; i < 30; i++ {
				assert.True(t, s.Add(i))
			}
			for i := 0; i < 30; i++ {
				assert.True(t, s.Contains(i))
			}
			for i := 0; i < 30; i += 2 {
				assert.True(t, s.Remove(i))
			}

			assert.Equal(t, 15, s.Size())
			assert.False(t, s.Contains(0))
			assert.True(t, s.Contains(1))
		})
	}
}

// TestSequentialOracle replays identical randomized operation sequences
// against the sequential baseline and each concurrent variant on a single
// goroutine, comparing every return value
func TestSequentialOracle(t *testing.T) {

	for _, kind := range []Kind{CoarseGrained, Striped, Refinable} {
		t.Run(kind.String(), func(t *testing.T) {

			rng := rand.New(rand.NewSource(0xC0FFEE))

			oracle := NewSequential[int](4, nil)
			subject := New[int](kind, 4, nil)

			for i := 0; i < 5000; i++ {
				elem := rng.Intn(100)

				switch rng.Intn(3) {
				case 0:
					assert.Equal(t, oracle.Add(elem), subject.Add(elem), "Add(%d) diverged at op %d", elem, i)
				case 1:
					assert.Equal(t, oracle.Remove(elem), subject.Remove(elem), "Remove(%d) diverged at op %d", elem, i)
				case 2:
					assert.Equal(t, oracle.Contains(elem), subject.Contains(elem), "Contains(%d) diverged at op %d", elem, i)
				}

				assert.Equal(t, oracle.Size(), subject.Size(), "Size diverged at op %d", i)
			}

			assert.ElementsMatch(t, oracle.Elements(), subject.Elements())
		})
	}
}

func TestKindString(t *testing.T) {

	assert.Equal(t, "sequential", Sequential.String())
	assert.Equal(t, "coarse", CoarseGrained.String())
	assert.Equal(t, "striped", Striped.String())
	assert.Equal(t, "refinable", Refinable.String())
	assert.Equal(t, "Kind(97)", Kind(97).String())
}

func TestInvalidConstruction(t *testing.T) {

	assert.Panics(t, func() { New[int](CoarseGrained, 0, nil) })
	assert.Panics(t, func() { New[int](Striped, -1, nil) })
	assert.Panics(t, func() { New[int](Kind(97), 4, nil) })
}
