// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package sdk_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultravioletrs/mtlscheck/pkg/diaglog"
	"github.com/ultravioletrs/mtlscheck/pkg/material"
	"github.com/ultravioletrs/mtlscheck/pkg/sdk"
	"github.com/ultravioletrs/mtlscheck/probe"
	api "github.com/ultravioletrs/mtlscheck/probe/api/http"
)

type stubService struct {
	probeFn  func(ctx context.Context, req probe.ConnectionRequest) (string, error)
	diagFn   func(ctx context.Context) (string, error)
	clearFn  func(ctx context.Context) error
	lastReq  probe.ConnectionRequest
	probeHit bool
}

func (s *stubService) Probe(ctx context.Context, req probe.ConnectionRequest) (string, error) {
	s.probeHit = true
	s.lastReq = req
	if s.probeFn != nil {
		return s.probeFn(ctx, req)
	}
	return "", nil
}

func (s *stubService) Diagnostics(ctx context.Context) (string, error) {
	if s.diagFn != nil {
		return s.diagFn(ctx)
	}
	return "", nil
}

func (s *stubService) ClearDiagnostics(ctx context.Context) error {
	if s.clearFn != nil {
		return s.clearFn(ctx)
	}
	return nil
}

func newTestService(t *testing.T, svc *stubService) probe.Service {
	t.Helper()

	srv := httptest.NewServer(api.MakeHandler(svc, chi.NewRouter(), "mtlscheck", "test-instance"))
	t.Cleanup(srv.Close)

	return sdk.NewSDK(sdk.Config{URL: srv.URL, Timeout: 5 * time.Second})
}

func testRequest() probe.ConnectionRequest {
	return probe.ConnectionRequest{
		URL:                   "https://service.example.com",
		KeystorePath:          "/material/client.p12",
		KeystorePassword:      "secret",
		PublicCertificatePath: "/material/anchor.pem",
		CheckHostname:         true,
		UseInbuiltRootCerts:   false,
		UseHTTPSOnly:          true,
		UseTLSSNI:             true,
	}
}

func TestSDKProbe(t *testing.T) {
	svc := &stubService{
		probeFn: func(ctx context.Context, req probe.ConnectionRequest) (string, error) {
			return "transcript line", nil
		},
	}
	client := newTestService(t, svc)

	logdata, err := client.Probe(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "transcript line", logdata)
	assert.True(t, svc.probeHit)
	assert.Equal(t, testRequest(), svc.lastReq)
}

func TestSDKProbeFlagsSurviveRoundTrip(t *testing.T) {
	svc := &stubService{}
	client := newTestService(t, svc)

	req := testRequest()
	req.CheckHostname = false
	req.UseTLSSNI = false

	_, err := client.Probe(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, svc.lastReq.CheckHostname)
	assert.False(t, svc.lastReq.UseTLSSNI)
	assert.True(t, svc.lastReq.UseHTTPSOnly)
}

func TestSDKProbeFailure(t *testing.T) {
	svc := &stubService{
		probeFn: func(ctx context.Context, req probe.ConnectionRequest) (string, error) {
			return "partial transcript", material.ErrRead
		},
	}
	client := newTestService(t, svc)

	logdata, err := client.Probe(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorContains(t, err, sdk.ErrProbeFailed.Error())
	assert.ErrorContains(t, err, material.ErrRead.Error())
	assert.Equal(t, "partial transcript", logdata)
}

func TestSDKProbeUnreachableService(t *testing.T) {
	client := sdk.NewSDK(sdk.Config{URL: "http://127.0.0.1:1", Timeout: time.Second})

	logdata, err := client.Probe(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorContains(t, err, sdk.ErrProbeFailed.Error())
	assert.Empty(t, logdata)
}

func TestSDKDiagnostics(t *testing.T) {
	svc := &stubService{
		diagFn: func(ctx context.Context) (string, error) {
			return "accumulated transcript", nil
		},
	}
	client := newTestService(t, svc)

	logdata, err := client.Diagnostics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "accumulated transcript", logdata)
}

func TestSDKDiagnosticsFailure(t *testing.T) {
	svc := &stubService{
		diagFn: func(ctx context.Context) (string, error) {
			return "", diaglog.ErrLogAccess
		},
	}
	client := newTestService(t, svc)

	_, err := client.Diagnostics(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, sdk.ErrDiagnostics.Error())
}

func TestSDKClearDiagnostics(t *testing.T) {
	cleared := false
	svc := &stubService{
		clearFn: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	}
	client := newTestService(t, svc)

	err := client.ClearDiagnostics(context.Background())
	require.NoError(t, err)
	assert.True(t, cleared)
}
