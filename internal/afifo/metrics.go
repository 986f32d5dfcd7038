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

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments a FIFO with Prometheus counters. All methods are safe
// on a nil receiver, so an uninstrumented FIFO pays a single nil check per
// operation.
type Metrics struct {
	pushes        prometheus.Counter
	pops          prometheus.Counter
	fullRefusals  prometheus.Counter
	emptyRefusals prometheus.Counter
	resets        prometheus.Counter
	depth         prometheus.Gauge
}

// NewMetrics creates the FIFO metric set and registers it with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "afifo",
			Name:      "pushes_total",
			Help:      "Items accepted by TryPush.",
		}),
		pops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "afifo",
			Name:      "pops_total",
			Help:      "Items returned by TryPop.",
		}),
		fullRefusals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "afifo",
			Name:      "push_refusals_total",
			Help:      "TryPush calls refused because the buffer was full.",
		}),
		emptyRefusals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "afifo",
			Name:      "pop_refusals_total",
			Help:      "TryPop calls refused because the buffer was empty.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "afifo",
			Name:      "resets_total",
			Help:      "Calls to Reset.",
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "afifo",
			Name:      "depth",
			Help:      "Configured buffer capacity in items.",
		}),
	}
	reg.MustRegister(m.pushes, m.pops, m.fullRefusals, m.emptyRefusals, m.resets, m.depth)
	return m
}

// WithMetrics attaches a metric set created by NewMetrics to a FIFO.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(f *FIFO[T]) { f.metrics = m }
}

func (m *Metrics) push(accepted bool) {
	if m == nil {
		return
	}
	if accepted {
		m.pushes.Inc()
	} else {
		m.fullRefusals.Inc()
	}
}

func (m *Metrics) pop(taken bool) {
	if m == nil {
		return
	}
	if taken {
		m.pops.Inc()
	} else {
		m.emptyRefusals.Inc()
	}
}

func (m *Metrics) reset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}
