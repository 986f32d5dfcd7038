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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	f, err := New[int](2, WithMetrics[int](m))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.depth))

	// Fill, overflow once, drain, underflow once.
	require.True(t, f.TryPush(1))
	require.True(t, f.TryPush(2))
	require.False(t, f.TryPush(3))

	popped := 0
	for i := 0; i < 16 && popped < 2; i++ {
		if _, ok := f.TryPop(); ok {
			popped++
		}
	}
	require.Equal(t, 2, popped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pushes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fullRefusals))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pops))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.emptyRefusals), 2.0)

	f.Reset()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resets))
}

func TestUninstrumentedFIFOHasNoMetrics(t *testing.T) {
	f, err := New[int](2)
	require.NoError(t, err)

	// Must not panic on the nil metric set.
	f.TryPush(1)
	f.TryPop()
	f.Reset()
}
