// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package server provides the shared lifecycle for the service's network
// servers: configuration, TLS setup and signal-driven shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

type Server interface {
	Start() error
	Stop() error
}

type ServerConfiguration interface {
	GetBaseConfig() ServerConfig
	GetHost() string
	GetPort() string
}

type Config struct {
	Host         string `env:"HOST"               envDefault:"localhost"`
	Port         string `env:"PORT"               envDefault:"7001"`
	ServerCAFile string `env:"SERVER_CA_CERTS"    envDefault:""`
	CertFile     string `env:"SERVER_CERT"        envDefault:""`
	KeyFile      string `env:"SERVER_KEY"         envDefault:""`
	ClientCAFile string `env:"CLIENT_CA_CERTS"    envDefault:""`
}

type ServerConfig struct {
	Config
}

var _ ServerConfiguration = (*ServerConfig)(nil)

func (s ServerConfig) GetBaseConfig() ServerConfig {
	return s
}

func (s ServerConfig) GetHost() string {
	return s.Host
}

func (s ServerConfig) GetPort() string {
	return s.Port
}

type BaseServer struct {
	Ctx      context.Context
	Cancel   context.CancelFunc
	Name     string
	Address  string
	Config   ServerConfiguration
	Logger   *slog.Logger
	Protocol string
}

func NewBaseServer(ctx context.Context, cancel context.CancelFunc, name string, config ServerConfiguration, logger *slog.Logger) BaseServer {
	return BaseServer{
		Ctx:     ctx,
		Cancel:  cancel,
		Name:    name,
		Address: fmt.Sprintf("%s:%s", config.GetHost(), config.GetPort()),
		Config:  config,
		Logger:  logger,
	}
}

func stopAllServer(servers ...Server) error {
	var errs []error
	for _, server := range servers {
		if err := server.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("encountered errors while stopping servers: %v", errs)
	}

	return nil
}

func StopHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	var err error
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGABRT)
	select {
	case sig := <-c:
		defer cancel()
		err = stopAllServer(servers...)
		if err != nil {
			logger.Error(fmt.Sprintf("%s service error during shutdown: %v", svcName, err))
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, sig))
		return err
	case <-ctx.Done():
		return nil
	}
}
