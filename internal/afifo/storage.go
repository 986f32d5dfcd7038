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

import "errors"

// ErrBadItemWidth indicates a word storage item width outside [1, 64].
var ErrBadItemWidth = errors.New("afifo: item width must be between 1 and 64 bits")

// Storage is the dual-port backing array behind a FIFO. The write port is
// driven only by the producer context and the read port only by the consumer
// context, each at its own cadence; implementations must tolerate concurrent
// access to *different* addresses. The FIFO's full/empty gating guarantees
// the two ports never target the same address at the same time.
//
// A call with allowed=false is a no-op; the gate is passed down so storage
// enforces it redundantly with the position counters.
type Storage[T any] interface {
	// Write stores v at addr if allowed.
	Write(addr uint64, v T, allowed bool)

	// Read returns the value at addr. ok mirrors allowed; the value is
	// meaningless when ok is false.
	Read(addr uint64, allowed bool) (T, bool)
}

// sliceStorage is the default Storage: a plain slot array. Slot disjointness
// between the two ports is the FIFO's responsibility.
type sliceStorage[T any] struct {
	slots []T
}

func newSliceStorage[T any](depth uint64) *sliceStorage[T] {
	return &sliceStorage[T]{slots: make([]T, depth)}
}

func (s *sliceStorage[T]) Write(addr uint64, v T, allowed bool) {
	if !allowed {
		return
	}
	s.slots[addr] = v
}

func (s *sliceStorage[T]) Read(addr uint64, allowed bool) (T, bool) {
	if !allowed {
		var zero T
		return zero, false
	}
	return s.slots[addr], true
}

// WordStorage is a Storage[uint64] that models a dual-port memory of
// depth × itemWidth bits: every stored word is masked to the configured item
// width. Use it when items are raw bit vectors rather than Go values.
type WordStorage struct {
	slots    []uint64
	itemMask uint64
}

// NewWordStorage returns word storage for the given depth and item width in
// bits. Width must be in [1, 64].
func NewWordStorage(depth uint64, itemWidth uint) (*WordStorage, error) {
	if itemWidth < 1 || itemWidth > 64 {
		return nil, ErrBadItemWidth
	}
	mask := ^uint64(0)
	if itemWidth < 64 {
		mask = (uint64(1) << itemWidth) - 1
	}
	return &WordStorage{slots: make([]uint64, depth), itemMask: mask}, nil
}

func (s *WordStorage) Write(addr uint64, v uint64, allowed bool) {
	if !allowed {
		return
	}
	s.slots[addr] = v & s.itemMask
}

func (s *WordStorage) Read(addr uint64, allowed bool) (uint64, bool) {
	if !allowed {
		return 0, false
	}
	return s.slots[addr], true
}
