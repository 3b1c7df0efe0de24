// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package tracing

import (
	"context"

	"github.com/ultravioletrs/mtlscheck/probe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ probe.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    probe.Service
}

// New returns a new probe service with tracing capabilities.
func New(svc probe.Service, tracer trace.Tracer) probe.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) Probe(ctx context.Context, req probe.ConnectionRequest) (string, error) {
	ctx, span := tm.tracer.Start(ctx, "probe", trace.WithAttributes(
		attribute.String("url", req.URL),
		attribute.Bool("check_hostname", req.CheckHostname),
		attribute.Bool("use_inbuilt_root_certs", req.UseInbuiltRootCerts),
		attribute.Bool("use_https_only", req.UseHTTPSOnly),
		attribute.Bool("use_tls_sni", req.UseTLSSNI),
	))
	defer span.End()

	return tm.svc.Probe(ctx, req)
}

func (tm *tracingMiddleware) Diagnostics(ctx context.Context) (string, error) {
	ctx, span := tm.tracer.Start(ctx, "diagnostics")
	defer span.End()

	return tm.svc.Diagnostics(ctx)
}

func (tm *tracingMiddleware) ClearDiagnostics(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "clear_diagnostics")
	defer span.End()

	return tm.svc.ClearDiagnostics(ctx)
}
