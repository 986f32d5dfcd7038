/*
 * Copyright 2025 The Asynchronous FIFO Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package afifo

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayAdjacentValuesDifferInOneBit(t *testing.T) {
	for n := uint64(0); n < 1<<16; n++ {
		d := bits.OnesCount64(grayEncode(n) ^ grayEncode(n+1))
		require.Equalf(t, 1, d, "encode(%d) and encode(%d) differ in %d bits", n, n+1, d)
	}

	// Spot-check far from zero, including the uint64 wrap.
	for _, n := range []uint64{1<<32 - 1, 1 << 32, 1<<63 - 1, 1 << 63, ^uint64(0)} {
		d := bits.OnesCount64(grayEncode(n) ^ grayEncode(n+1))
		assert.Equalf(t, 1, d, "encode(%d) and encode(%d)", n, n+1)
	}
}

func TestGrayRoundTrip(t *testing.T) {
	for n := uint64(0); n < 1<<16; n++ {
		require.Equal(t, n, grayDecode(grayEncode(n)))
	}
	for _, n := range []uint64{1 << 40, 1<<63 - 1, ^uint64(0)} {
		assert.Equal(t, n, grayDecode(grayEncode(n)))
	}
}

// A producer exactly one wrap (depth positions) ahead of the consumer has a
// binary count differing only in the MSB, which flips the top two bits of
// the Gray form. Full detection relies on this fixed offset; verify it for
// every counter width the FIFO can be configured with.
func TestGrayFullOffsetFlipsTopTwoBits(t *testing.T) {
	for addrBits := uint(1); addrBits <= 12; addrBits++ {
		depth := uint64(1) << addrBits
		widthMask := 2*depth - 1
		flip := uint64(0b11) << (addrBits - 1)
		for n := uint64(0); n <= widthMask; n++ {
			ahead := (n + depth) & widthMask
			require.Equalf(t, grayEncode(n)^flip, grayEncode(ahead),
				"depth=%d n=%d", depth, n)
		}
	}
}
