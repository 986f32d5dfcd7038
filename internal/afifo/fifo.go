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
	"errors"
	"math/bits"
)

// ErrBadDepth indicates a requested capacity the Gray-counter wraparound
// math cannot support.
var ErrBadDepth = errors.New("afifo: depth must be a power of two and at least 2")

// side bundles everything one execution context owns: its position counter,
// the relay that settles the far side's counter into this context, and the
// registered boundary flag derived from the two.
type side struct {
	counter  *positionCounter
	incoming *Relay
	detector *boundaryDetector
}

// FIFO is a bounded first-in first-out buffer for exactly one producer
// goroutine and exactly one consumer goroutine. Operations never block and
// never lock; see the package documentation for the pointer-relay protocol.
//
// TryPush and methods reached from it must only be called from the producer
// goroutine, TryPop only from the consumer goroutine. Full, Empty and State
// may be called from anywhere.
type FIFO[T any] struct {
	depth    uint64
	producer side
	consumer side
	store    Storage[T]
	metrics  *Metrics
}

// Option configures a FIFO at construction time.
type Option[T any] func(*FIFO[T])

// WithStorage substitutes a custom storage collaborator for the default slot
// array. The storage must have at least depth slots.
func WithStorage[T any](s Storage[T]) Option[T] {
	return func(f *FIFO[T]) { f.store = s }
}

// New returns a FIFO with the given capacity. Depth must be a power of two
// and at least 2; the encoding and wraparound math is only correct for
// power-of-two depths.
func New[T any](depth int, opts ...Option[T]) (*FIFO[T], error) {
	if depth < 2 || depth&(depth-1) != 0 {
		return nil, ErrBadDepth
	}
	d := uint64(depth)
	addrBits := uint(bits.TrailingZeros64(d))
	// Counter Gray words are addrBits+1 bits wide.
	width := addrBits + 1

	f := &FIFO[T]{depth: d}
	f.producer.counter = newPositionCounter(d)
	f.consumer.counter = newPositionCounter(d)
	// Each side settles the far side's published counter at its own cadence.
	f.producer.incoming = NewRelay(&f.consumer.counter.published, width)
	f.consumer.incoming = NewRelay(&f.producer.counter.published, width)
	f.producer.detector = newFullDetector(addrBits)
	f.consumer.detector = newEmptyDetector()

	for _, opt := range opts {
		opt(f)
	}
	if f.store == nil {
		f.store = newSliceStorage[T](d)
	}
	if f.metrics != nil {
		f.metrics.depth.Set(float64(d))
	}
	return f, nil
}

// Depth returns the configured capacity.
func (f *FIFO[T]) Depth() int {
	return int(f.depth)
}

// TryPush offers item to the buffer and reports whether it was accepted.
// False means the buffer was full; the item is dropped and the caller
// retries on a later step. A refused call is still a producer step: it
// settles the consumer's relayed position and re-registers the full flag, so
// a producer spinning on TryPush observes consumer progress.
func (f *FIFO[T]) TryPush(item T) bool {
	p := &f.producer
	p.incoming.Tick()

	full := p.detector.blocked()
	if !full {
		// Gating is enforced at the counter and again at the storage port.
		f.store.Write(p.counter.addr(), item, !full)
		p.counter.advance(full)
	}
	// The counter now holds the post-advance value, one position ahead of
	// the last committed slot, which is what full detection compares.
	p.detector.latch(p.counter.gray, p.incoming.Read())

	f.metrics.push(!full)
	return !full
}

// TryPop takes the oldest item out of the buffer. ok is false when the
// buffer was empty; as with TryPush, a refused call still counts as one
// consumer step.
func (f *FIFO[T]) TryPop() (item T, ok bool) {
	c := &f.consumer
	c.incoming.Tick()

	empty := c.detector.blocked()
	if !empty {
		item, ok = f.store.Read(c.counter.addr(), !empty)
		c.counter.advance(empty)
	}
	c.detector.latch(c.counter.gray, c.incoming.Read())

	f.metrics.pop(ok)
	return item, ok
}

// Full reports the producer-side boundary flag registered by the last
// producer step. It is conservatively stale: true may linger for a couple of
// steps after the consumer frees a slot, but false is always safe to act on.
func (f *FIFO[T]) Full() bool {
	return f.producer.detector.blocked()
}

// Empty reports the consumer-side boundary flag registered by the last
// consumer step, with the same conservative staleness as Full.
func (f *FIFO[T]) Empty() bool {
	return f.consumer.detector.blocked()
}

// Reset returns the FIFO to its initial state: both counters zero, empty
// true, full false, relays flushed. It must not be called concurrently with
// TryPush or TryPop; quiesce both sides first.
func (f *FIFO[T]) Reset() {
	f.producer.counter.reset()
	f.consumer.counter.reset()
	f.producer.incoming.Reset()
	f.consumer.incoming.Reset()
	f.producer.detector.reset()
	f.consumer.detector.reset()
	f.metrics.reset()
}

// State is a diagnostic snapshot of the FIFO. Fields are read individually
// from the published atomics, so under concurrent stepping they may be
// mutually skewed by a step; Used is exact only while both sides are
// quiescent.
type State struct {
	Depth     uint64
	WritePos  uint64 // producer binary position, counter width
	ReadPos   uint64 // consumer binary position, counter width
	WriteGray uint64
	ReadGray  uint64
	Used      uint64
	Full      bool
	Empty     bool
}

// DebugState returns a State snapshot for diagnostics and harness reporting.
func (f *FIFO[T]) DebugState() State {
	widthMask := 2*f.depth - 1
	wg := f.producer.counter.published.Load()
	rg := f.consumer.counter.published.Load()
	wb := grayDecode(wg)
	rb := grayDecode(rg)
	return State{
		Depth:     f.depth,
		WritePos:  wb,
		ReadPos:   rb,
		WriteGray: wg,
		ReadGray:  rg,
		Used:      (wb - rb) & widthMask,
		Full:      f.Full(),
		Empty:     f.Empty(),
	}
}
