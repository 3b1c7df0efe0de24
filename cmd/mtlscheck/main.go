// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	mglog "github.com/absmach/supermq/logger"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ultravioletrs/mtlscheck/internal"
	jaegerclient "github.com/ultravioletrs/mtlscheck/internal/jaeger"
	"github.com/ultravioletrs/mtlscheck/pkg/diaglog"
	"github.com/ultravioletrs/mtlscheck/pkg/server"
	httpserver "github.com/ultravioletrs/mtlscheck/pkg/server/http"
	"github.com/ultravioletrs/mtlscheck/probe"
	"github.com/ultravioletrs/mtlscheck/probe/api"
	httpapi "github.com/ultravioletrs/mtlscheck/probe/api/http"
	"github.com/ultravioletrs/mtlscheck/probe/tracing"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "mtlscheck"
	envPrefixHTTP  = "MTLSCHECK_HTTP_"
	defSvcHTTPPort = "7001"
)

type config struct {
	LogLevel       string        `env:"MTLSCHECK_LOG_LEVEL"       envDefault:"info"`
	JaegerURL      string        `env:"MTLSCHECK_JAEGER_URL"      envDefault:"http://localhost:4318/v1/traces"`
	InstanceID     string        `env:"MTLSCHECK_INSTANCE_ID"     envDefault:""`
	KeystoreFormat string        `env:"MTLSCHECK_KEYSTORE_FORMAT" envDefault:"pkcs12"`
	RequestTimeout time.Duration `env:"MTLSCHECK_REQUEST_TIMEOUT" envDefault:"30s"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	var exitCode int
	defer mglog.ExitWithError(&exitCode)

	logger, err := mglog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf(err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.New().String()
	}

	tp, err := jaegerclient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("error shutting down tracer provider: %v", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	svc := newService(logger, tracer, cfg)

	httpServerConfig := server.ServerConfig{Config: server.Config{Port: defSvcHTTPPort}}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, httpapi.MakeHandler(svc, chi.NewRouter(), svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(logger *slog.Logger, tracer trace.Tracer, cfg config) probe.Service {
	svc := probe.New(diaglog.New(), cfg.KeystoreFormat, cfg.RequestTimeout)

	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := internal.MakeMetrics(svcName, "api")
	svc = api.MetricsMiddleware(svc, counter, latency)
	svc = tracing.New(svc, tracer)

	return svc
}
