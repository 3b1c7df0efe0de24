// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"github.com/ultravioletrs/mtlscheck/cli"
	"github.com/ultravioletrs/mtlscheck/pkg/diaglog"
	"github.com/ultravioletrs/mtlscheck/pkg/sdk"
	"github.com/ultravioletrs/mtlscheck/probe"
)

const svcName = "cli"

type config struct {
	URL            string        `env:"MTLSCHECK_URL"             envDefault:""`
	Timeout        time.Duration `env:"MTLSCHECK_TIMEOUT"         envDefault:"60s"`
	KeystoreFormat string        `env:"MTLSCHECK_KEYSTORE_FORMAT" envDefault:"pkcs12"`
	RequestTimeout time.Duration `env:"MTLSCHECK_REQUEST_TIMEOUT" envDefault:"30s"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	// Commands run against the local engine unless a service URL points
	// them at a remote one.
	var svc probe.Service
	if cfg.URL != "" {
		svc = sdk.NewSDK(sdk.Config{URL: cfg.URL, Timeout: cfg.Timeout})
	} else {
		svc = probe.New(diaglog.New(), cfg.KeystoreFormat, cfg.RequestTimeout)
	}

	cliSvc := cli.New(svc)

	rootCmd := &cobra.Command{
		Use:   "mtlscheck-cli",
		Short: "CLI application for the connection test service",
	}

	rootCmd.PersistentFlags().BoolVarP(&cli.Verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(cliSvc.NewCheckCmd())
	rootCmd.AddCommand(cliSvc.NewLogsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
