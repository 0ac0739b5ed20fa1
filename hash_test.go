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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHashDeterministic(t *testing.T) {

	type point struct{ x, y int }

	hash := defaultHash[point]()

	for i := 0; i < 100; i++ {
		p := point{x: i, y: -i}
		assert.Equal(t, hash(p), hash(p), "hasher must be stable within an instance")
	}
}

func TestXXHashString(t *testing.T) {

	assert.Equal(t, XXHashString("foo"), XXHashString("foo"))
	assert.NotEqual(t, XXHashString("foo"), XXHashString("bar"))

	// stable across processes, so pin a known digest
	assert.Equal(t, uint64(0x33bf00a859c4ba3f), XXHashString("foo"))
}
