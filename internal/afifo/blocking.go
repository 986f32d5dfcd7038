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
	"context"
	"runtime"
	"time"
)

// The core supplies no wait/notify primitive; these adapters are the retry
// loop the caller would otherwise write, composed with context cancellation.
// They poll: a handful of scheduler yields first, then short sleeps.

const (
	spinYields   = 64
	pollInterval = 10 * time.Microsecond
)

// PushContext retries TryPush until the item is accepted or ctx is done.
// Producer goroutine only.
func (f *FIFO[T]) PushContext(ctx context.Context, item T) error {
	for spin := 0; ; spin++ {
		if f.TryPush(item) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		backoff(spin)
	}
}

// PopContext retries TryPop until an item arrives or ctx is done. Consumer
// goroutine only.
func (f *FIFO[T]) PopContext(ctx context.Context) (T, error) {
	for spin := 0; ; spin++ {
		if item, ok := f.TryPop(); ok {
			return item, nil
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		backoff(spin)
	}
}

func backoff(spin int) {
	if spin < spinYields {
		runtime.Gosched()
		return
	}
	time.Sleep(pollInterval)
}
