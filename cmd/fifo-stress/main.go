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

// fifo-stress drives a FIFO with a producer and a consumer running at
// independent, deliberately mismatched cadences, then checks that every item
// came out exactly once and in order. It is the soak harness for the
// cross-context handoff protocol; run it under the race detector when in
// doubt.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/DecentXR/Asynchronous-FIFO/internal/afifo"
)

// duration lets YAML carry values like "200us" or "2m".
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = duration(parsed)
	return nil
}

type config struct {
	// Depth is the FIFO capacity; must be a power of two >= 2.
	Depth int `yaml:"depth"`
	// Items is the number of values pushed through the FIFO.
	Items int `yaml:"items"`
	// ProducerRate and ConsumerRate throttle the two sides in operations
	// per second. Zero means unthrottled.
	ProducerRate float64 `yaml:"producer_rate"`
	ConsumerRate float64 `yaml:"consumer_rate"`
	// ConsumerJitter is the maximum random stall injected between consumer
	// steps to provoke full conditions on the producer side.
	ConsumerJitter duration `yaml:"consumer_jitter"`
	// MetricsAddr, when set, serves Prometheus metrics on /metrics.
	MetricsAddr string `yaml:"metrics_addr"`
	// Timeout bounds the whole run.
	Timeout duration `yaml:"timeout"`
}

func defaultConfig() config {
	return config{
		Depth:          8,
		Items:          100000,
		ConsumerJitter: duration(200 * time.Microsecond),
		Timeout:        duration(2 * time.Minute),
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		depth      = flag.Int("depth", 0, "override FIFO depth")
		items      = flag.Int("items", 0, "override item count")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).
		With("run_id", uuid.NewString())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *depth > 0 {
		cfg.Depth = *depth
	}
	if *items > 0 {
		cfg.Items = *items
	}

	if err := run(logger, cfg); err != nil {
		logger.Error("stress run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config) error {
	reg := prometheus.NewRegistry()
	fifo, err := afifo.New[int](cfg.Depth, afifo.WithMetrics[int](afifo.NewMetrics(reg)))
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	logger.Info("starting",
		"depth", cfg.Depth,
		"items", cfg.Items,
		"producer_rate", cfg.ProducerRate,
		"consumer_rate", cfg.ConsumerRate,
		"consumer_jitter", time.Duration(cfg.ConsumerJitter),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeout))
	defer cancel()

	start := time.Now()
	got := make([]int, 0, cfg.Items)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter := newLimiter(cfg.ProducerRate)
		for i := 0; i < cfg.Items; i++ {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("producer throttle: %w", err)
			}
			if err := fifo.PushContext(ctx, i); err != nil {
				return fmt.Errorf("push %d: %w", i, err)
			}
		}
		return nil
	})

	g.Go(func() error {
		limiter := newLimiter(cfg.ConsumerRate)
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		for len(got) < cfg.Items {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("consumer throttle: %w", err)
			}
			v, err := fifo.PopContext(ctx)
			if err != nil {
				return fmt.Errorf("pop %d: %w", len(got), err)
			}
			got = append(got, v)
			if cfg.ConsumerJitter > 0 && rng.Intn(50) == 0 {
				time.Sleep(time.Duration(rng.Int63n(int64(cfg.ConsumerJitter))))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	for i, v := range got {
		if v != i {
			return fmt.Errorf("order violated at index %d: got %d", i, v)
		}
	}

	st := fifo.DebugState()
	logger.Info("run complete",
		"items", len(got),
		"elapsed", elapsed,
		"ops_per_sec", float64(len(got))/elapsed.Seconds(),
		"write_pos", st.WritePos,
		"read_pos", st.ReadPos,
		"used", st.Used,
	)
	return nil
}

// newLimiter maps ops-per-second to a limiter; zero means unthrottled.
func newLimiter(opsPerSec float64) *rate.Limiter {
	if opsPerSec <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(opsPerSec), 1)
}
