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

// Package afifo implements a bounded FIFO buffer shared between two
// independently scheduled execution contexts: exactly one producer goroutine
// and exactly one consumer goroutine, each advancing at its own cadence with
// no shared lock and no shared clock.
//
// Each side keeps a monotonic position counter in two synchronized forms, a
// plain binary count (used to address storage slots) and its reflected-binary
// (Gray) encoding. Only the Gray form crosses the boundary between the two
// contexts: because consecutive counter values differ in exactly one bit of
// their Gray encoding, a value observed mid-transition is always either the
// old or the new counter value, never a fabricated intermediate. Each side
// settles the far side's published counter through a two-stage relay clocked
// by its own steps, then derives its boundary flag (full for the producer,
// empty for the consumer) by comparing Gray values. The flags are
// conservative under staleness: a stale relayed counter can only cause a
// spurious refusal, never an overwrite or a premature read.
//
// All operations are non-blocking best effort. TryPush returns false when the
// buffer is full and TryPop reports no item when it is empty; retry is the
// caller's job. Refused calls still count as steps of the calling side: they
// settle the relay and refresh the boundary flag, which is also why a
// consumer starting to drain after a producer burst sees up to three refused
// TryPop steps before the first item arrives. PushContext and PopContext
// wrap that retry loop with context cancellation for callers that want
// blocking semantics.
package afifo
