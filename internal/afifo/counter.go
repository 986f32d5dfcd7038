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

// positionCounter is one side's monotonic position, kept in two synchronized
// representations: the plain binary count, which addresses storage slots, and
// its Gray encoding, which is the only form published across the domain
// boundary.
//
// The counter is one bit wider than the storage address space. Two counters
// with equal low bits but differing high bit are one full wrap apart, which
// is how full is told apart from empty without a separate occupancy flag.
//
// bin and gray are owned by the side's own context and must only be touched
// during that side's steps. The far side observes the counter exclusively
// through the published signal, which advance updates in the same step as the
// binary count, so no observer can pair a binary value with a stale encoding.
type positionCounter struct {
	bin       uint64 // current binary count, masked to counter width
	gray      uint64 // grayEncode(bin), kept in lockstep
	widthMask uint64 // 2*depth - 1
	addrMask  uint64 // depth - 1
	published Signal // cross-context view of gray
}

func newPositionCounter(depth uint64) *positionCounter {
	return &positionCounter{
		widthMask: 2*depth - 1,
		addrMask:  depth - 1,
	}
}

// advance moves the counter forward one position unless blocked, and reports
// whether it moved. The blocked argument is the side's registered boundary
// flag: full for the producer, empty for the consumer.
func (c *positionCounter) advance(blocked bool) bool {
	if blocked {
		return false
	}
	c.bin = (c.bin + 1) & c.widthMask
	c.gray = grayEncode(c.bin)
	c.published.Publish(c.gray)
	return true
}

// addr is the storage slot selected by the counter's low bits.
func (c *positionCounter) addr() uint64 {
	return c.bin & c.addrMask
}

func (c *positionCounter) reset() {
	c.bin = 0
	c.gray = 0
	c.published.Publish(0)
}
