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

import "sync/atomic"

// boundaryDetector derives one side's boundary condition (empty for the
// consumer, full for the producer) from the side's own Gray counter and the
// relayed Gray counter of the far side. The result is registered: latch
// computes it at the end of a step and blocked reports it to the next step,
// so callers polling the flag between steps never see a transient value.
//
// The consumer is empty when its Gray counter equals the relayed producer
// counter: it has caught up with the last producer position it knows about.
// The producer is full when its Gray counter equals the relayed consumer
// counter with the top two bits inverted. Being exactly one wrap (depth
// positions) ahead flips only the MSB of the binary count, and under
// n ^ (n>>1) a flipped binary MSB flips the top two Gray bits, so undoing
// that fixed offset reduces full detection to equality as well. The latch is
// taken after the step's increment, which is one position ahead of the last
// committed slot, so full asserts on the very step that fills the buffer and
// gates the push that would overwrite.
//
// Staleness of the relayed counter is safe in both roles: it understates the
// far side's progress, so empty and full can only be spuriously true, never
// spuriously false.
type boundaryDetector struct {
	flag    atomic.Bool // single writer: the owning side
	flip    uint64      // XOR applied to the remote Gray before comparing
	onReset bool        // a reset buffer is empty, never full
}

func newEmptyDetector() *boundaryDetector {
	d := &boundaryDetector{onReset: true}
	d.flag.Store(true)
	return d
}

// newFullDetector needs the address width to locate the top two counter
// bits. depth >= 2, so addrBits >= 1.
func newFullDetector(addrBits uint) *boundaryDetector {
	return &boundaryDetector{flip: 0b11 << (addrBits - 1)}
}

// latch recomputes the boundary condition and registers it for the next
// step. Called once per step by the owning side, after any counter advance.
func (d *boundaryDetector) latch(localGray, remoteGray uint64) {
	d.flag.Store(localGray == remoteGray^d.flip)
}

// blocked reports the flag registered by the previous step. Safe to call
// from any goroutine.
func (d *boundaryDetector) blocked() bool {
	return d.flag.Load()
}

func (d *boundaryDetector) reset() {
	d.flag.Store(d.onReset)
}
