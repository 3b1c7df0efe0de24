// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"net/url"

	"github.com/absmach/supermq/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

var (
	// ErrRequest indicates the probe request to the target failed.
	ErrRequest = errors.New("request to target failed")

	errInsecureURL = errors.New("refusing non-https URL")
)

// Execute performs exactly one GET against rawURL, tracing connection
// lifecycle events into logger. The response body is drained and discarded;
// reaching the target is the outcome that matters, the status is only
// logged. Any transport failure wraps ErrRequest.
func Execute(ctx context.Context, client *http.Client, rawURL string, httpsOnly bool, logger *slog.Logger) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(ErrRequest, err)
	}
	if httpsOnly && u.Scheme != schemeHTTPS {
		return errors.Wrap(ErrRequest, errors.Wrap(errInsecureURL, errors.New(rawURL)))
	}

	ctx = httptrace.WithClientTrace(ctx, NewRequestTracer(logger))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return errors.Wrap(ErrRequest, err)
	}

	logger.Info("sending request", slog.String("url", rawURL))
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(ErrRequest, err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	received, err := buf.ReadFrom(resp.Body)
	if err != nil {
		return errors.Wrap(ErrRequest, err)
	}

	logger.Info("response received",
		slog.String("status", resp.Status),
		slog.String("protocol", resp.Proto),
		slog.Int64("body_bytes", received))

	return nil
}
