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

// Signal is a fixed-width value published by exactly one execution context
// and observed by at most one other, normally through a Relay. Publishing is
// a single atomic store, so an observer reads some value the source actually
// held, never a torn one.
type Signal struct {
	v atomic.Uint64
}

// Publish makes v the current value of the signal.
func (s *Signal) Publish(v uint64) {
	s.v.Store(v)
}

// Load returns the current value. Prefer reading through a Relay from the
// consuming context; Load is for diagnostics and for the relay itself.
func (s *Signal) Load() uint64 {
	return s.v.Load()
}

// Relay carries a Signal from its source context into a destination context.
// The destination owns the relay and calls Tick once per step of its own
// cadence; after two ticks a published change is settled and visible through
// Read. The relay never fabricates a value: Read always returns something the
// source published, possibly stale by a tick or two but never interpolated.
//
// Width is a parameter so the same primitive serves any boundary-crossing
// control signal, not just position counters.
type Relay struct {
	src    *Signal
	stage1 uint64 // owned by the destination context
	stage2 uint64
	mask   uint64
}

// NewRelay returns a relay for the given source signal, masking samples to
// width bits. A width of 64 passes values through unmasked.
func NewRelay(src *Signal, width uint) *Relay {
	mask := ^uint64(0)
	if width < 64 {
		mask = (uint64(1) << width) - 1
	}
	return &Relay{src: src, mask: mask}
}

// Tick advances the relay by one destination step: the previously sampled
// value settles into the read stage and a fresh sample of the source is
// taken.
func (r *Relay) Tick() {
	r.stage2 = r.stage1
	r.stage1 = r.src.Load() & r.mask
}

// Read returns the settled value: whatever the source held at least two
// destination steps ago.
func (r *Relay) Read() uint64 {
	return r.stage2
}

// Reset clears both stages, matching a source that has been reset to zero.
func (r *Relay) Reset() {
	r.stage1 = 0
	r.stage2 = 0
}
