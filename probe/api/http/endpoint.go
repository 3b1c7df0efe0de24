// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/ultravioletrs/mtlscheck/probe"
)

// probeFailure carries the best-effort transcript alongside the cause so the
// transport can include it in the error body.
type probeFailure struct {
	cause   error
	logdata string
}

func (f *probeFailure) Error() string {
	return f.cause.Error()
}

func (f *probeFailure) Unwrap() error {
	return f.cause
}

func probeEndpoint(svc probe.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(probeReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		logdata, err := svc.Probe(ctx, req.toDomain())
		if err != nil {
			return nil, &probeFailure{cause: err, logdata: logdata}
		}

		return probeRes{Success: true, Logdata: logdata}, nil
	}
}

func diagnosticsEndpoint(svc probe.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		logdata, err := svc.Diagnostics(ctx)
		if err != nil {
			return nil, err
		}

		return diagnosticsRes{Logdata: logdata}, nil
	}
}

func clearDiagnosticsEndpoint(svc probe.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		if err := svc.ClearDiagnostics(ctx); err != nil {
			return nil, err
		}

		return clearRes{}, nil
	}
}
