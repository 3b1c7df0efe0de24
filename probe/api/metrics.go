// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

//go:build !test
// +build !test

package api

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/ultravioletrs/mtlscheck/probe"
)

var _ probe.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     probe.Service
}

// MetricsMiddleware instruments core service by tracking request count and
// latency.
func MetricsMiddleware(svc probe.Service, counter metrics.Counter, latency metrics.Histogram) probe.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) Probe(ctx context.Context, req probe.ConnectionRequest) (string, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "probe").Add(1)
		ms.latency.With("method", "probe").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Probe(ctx, req)
}

func (ms *metricsMiddleware) Diagnostics(ctx context.Context) (string, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "diagnostics").Add(1)
		ms.latency.With("method", "diagnostics").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Diagnostics(ctx)
}

func (ms *metricsMiddleware) ClearDiagnostics(ctx context.Context) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "clear_diagnostics").Add(1)
		ms.latency.With("method", "clear_diagnostics").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.ClearDiagnostics(ctx)
}
