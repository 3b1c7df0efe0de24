// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"crypto/tls"
	"log/slog"
	"net/http/httptrace"
	"strings"
)

// NewRequestTracer returns a client trace that logs connection lifecycle
// events, one line per event, through logger.
func NewRequestTracer(logger *slog.Logger) *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			logger.Debug("resolving host", slog.String("host", info.Host))
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			if info.Err != nil {
				logger.Debug("host resolution failed", slog.Any("error", info.Err))
				return
			}
			addrs := make([]string, 0, len(info.Addrs))
			for _, addr := range info.Addrs {
				addrs = append(addrs, addr.String())
			}
			logger.Debug("host resolved", slog.String("addresses", strings.Join(addrs, ",")))
		},
		ConnectStart: func(network, addr string) {
			logger.Debug("connecting", slog.String("network", network), slog.String("address", addr))
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				logger.Debug("connection failed", slog.String("address", addr), slog.Any("error", err))
				return
			}
			logger.Debug("connection established", slog.String("address", addr))
		},
		TLSHandshakeStart: func() {
			logger.Debug("TLS handshake started")
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err != nil {
				logger.Debug("TLS handshake failed", slog.Any("error", err))
				return
			}
			logger.Debug("TLS handshake complete",
				slog.String("version", tls.VersionName(state.Version)),
				slog.String("cipher_suite", tls.CipherSuiteName(state.CipherSuite)),
				slog.Bool("resumed", state.DidResume))
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err != nil {
				logger.Debug("writing request failed", slog.Any("error", info.Err))
				return
			}
			logger.Debug("request written")
		},
		GotFirstResponseByte: func() {
			logger.Debug("first response byte received")
		},
	}
}
