// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

//go:build !test
// +build !test

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ultravioletrs/mtlscheck/probe"
)

var _ probe.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    probe.Service
}

// LoggingMiddleware adds logging facilities to the core service.
func LoggingMiddleware(svc probe.Service, logger *slog.Logger) probe.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Probe(ctx context.Context, req probe.ConnectionRequest) (logdata string, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method Probe for url %s took %s to complete", req.URL, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())

	return lm.svc.Probe(ctx, req)
}

func (lm *loggingMiddleware) Diagnostics(ctx context.Context) (logdata string, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method Diagnostics took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())

	return lm.svc.Diagnostics(ctx)
}

func (lm *loggingMiddleware) ClearDiagnostics(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method ClearDiagnostics took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())

	return lm.svc.ClearDiagnostics(ctx)
}
