// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package http provides the HTTP transport for the connection test API.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/absmach/supermq/pkg/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httputil "github.com/ultravioletrs/mtlscheck/internal/http"
	"github.com/ultravioletrs/mtlscheck/pkg/diaglog"
	"github.com/ultravioletrs/mtlscheck/pkg/httpclient"
	"github.com/ultravioletrs/mtlscheck/pkg/material"
	"github.com/ultravioletrs/mtlscheck/probe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	contentType    = "application/json"
	svcDescription = "Connection test service"
)

var (
	errUnsupportedContentType = errors.New("unsupported content type")
	errMissingField           = errors.New("missing required field")
)

// MakeHandler registers the API endpoints on the given router and returns it.
func MakeHandler(svc probe.Service, r *chi.Mux, serviceName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
	}

	r.Method(http.MethodPost, "/probe", otelhttp.NewHandler(kithttp.NewServer(
		probeEndpoint(svc),
		decodeProbeRequest,
		encodeResponse,
		opts...,
	), "probe"))

	r.Method(http.MethodGet, "/diagnostics", otelhttp.NewHandler(kithttp.NewServer(
		diagnosticsEndpoint(svc),
		decodeDiagnosticsRequest,
		encodeResponse,
		opts...,
	), "diagnostics"))

	r.Method(http.MethodDelete, "/diagnostics", otelhttp.NewHandler(kithttp.NewServer(
		clearDiagnosticsEndpoint(svc),
		decodeDiagnosticsRequest,
		encodeResponse,
		opts...,
	), "clear_diagnostics"))

	r.Get("/health", httputil.Health(serviceName, svcDescription, instanceID))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func decodeProbeRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errUnsupportedContentType
	}

	var req probeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeDiagnosticsRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return diagnosticsReq{}, nil
}

func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", contentType)

	if ar, ok := response.(httputil.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}

		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentType)

	var logdata *string
	if failure, ok := err.(*probeFailure); ok {
		logdata = &failure.logdata
		err = failure.cause
	}

	switch {
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		w.WriteHeader(http.StatusBadRequest)
	case errors.Contains(err, errUnsupportedContentType):
		w.WriteHeader(http.StatusUnsupportedMediaType)
	case errors.Contains(err, errMissingField):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Contains(err, material.ErrRead),
		errors.Contains(err, material.ErrCertificateDecode),
		errors.Contains(err, material.ErrIdentityDecode),
		errors.Contains(err, material.ErrIdentityFormat),
		errors.Contains(err, httpclient.ErrProxyParse),
		errors.Contains(err, httpclient.ErrClientBuild):
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Contains(err, httpclient.ErrRequest):
		w.WriteHeader(http.StatusBadGateway)
	case errors.Contains(err, diaglog.ErrLogAccess):
		w.WriteHeader(http.StatusInternalServerError)
	default:
		switch err.(type) {
		case *json.SyntaxError, *json.UnmarshalTypeError:
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}

	_ = json.NewEncoder(w).Encode(errorRes{Error: err.Error(), Logdata: logdata})
}
