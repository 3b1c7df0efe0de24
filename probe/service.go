// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package probe implements the connection test engine. A probe loads and
// decodes trust and identity material, assembles a single-use mTLS client
// and performs one traced request against the target, accumulating a
// diagnostic transcript along the way.
package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofrs/uuid"
	"github.com/ultravioletrs/mtlscheck/pkg/diaglog"
	"github.com/ultravioletrs/mtlscheck/pkg/httpclient"
	"github.com/ultravioletrs/mtlscheck/pkg/material"
)

// ConnectionRequest carries one complete connection test configuration.
// Every field is explicit; nothing is inferred from the environment.
type ConnectionRequest struct {
	URL                   string `json:"url"`
	ProxyURL              string `json:"proxyUrl,omitempty"`
	KeystorePath          string `json:"keystorePath"`
	KeystorePassword      string `json:"keystorePassword"`
	PublicCertificatePath string `json:"publicCertificatePath"`
	CheckHostname         bool   `json:"checkHostname"`
	UseInbuiltRootCerts   bool   `json:"useInbuiltRootCerts"`
	UseHTTPSOnly          bool   `json:"useHttpsOnly"`
	UseTLSSNI             bool   `json:"useTlsSni"`
}

// Service specifies an API that must be fullfiled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// Probe runs one connection test through its stages and returns the
	// diagnostic snapshot accumulated so far, in success and failure alike.
	Probe(ctx context.Context, req ConnectionRequest) (string, error)

	// Diagnostics returns the cumulative diagnostic transcript.
	Diagnostics(ctx context.Context) (string, error)

	// ClearDiagnostics empties the diagnostic transcript.
	ClearDiagnostics(ctx context.Context) error
}

type probeService struct {
	log            *diaglog.Log
	diag           *slog.Logger
	identityFormat string
	timeout        time.Duration
}

var _ Service = (*probeService)(nil)

// New instantiates the probe service implementation. The identity format
// selects the keystore decoder; timeout bounds each request, zero meaning
// unbounded.
func New(log *diaglog.Log, identityFormat string, timeout time.Duration) Service {
	diag := slog.New(slog.NewTextHandler(log, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return &probeService{
		log:            log,
		diag:           diag,
		identityFormat: identityFormat,
		timeout:        timeout,
	}
}

func (ps *probeService) Probe(ctx context.Context, req ConnectionRequest) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	logger := ps.diag.With(slog.String("probe_id", id.String()))
	tracker := newStageTracker(logger)

	logger.Info("connection test received", slog.String("url", req.URL))

	if err := tracker.advance(MaterialLoading); err != nil {
		return ps.bestEffortSnapshot(), err
	}
	anchorData, err := material.Load(req.PublicCertificatePath)
	if err != nil {
		return ps.fail(tracker, logger, err)
	}
	logger.Debug("trust anchor material loaded",
		slog.String("path", req.PublicCertificatePath),
		slog.Int("bytes", len(anchorData)))
	identityData, err := material.Load(req.KeystorePath)
	if err != nil {
		return ps.fail(tracker, logger, err)
	}
	logger.Debug("keystore material loaded",
		slog.String("path", req.KeystorePath),
		slog.Int("bytes", len(identityData)))

	if err := tracker.advance(Decoding); err != nil {
		return ps.bestEffortSnapshot(), err
	}
	anchor, err := material.DecodeTrustAnchor(anchorData)
	if err != nil {
		return ps.fail(tracker, logger, err)
	}
	logger.Debug("trust anchor decoded", slog.String("subject", anchor.Subject.String()))

	decoder, err := material.NewIdentityDecoder(ps.identityFormat)
	if err != nil {
		return ps.fail(tracker, logger, err)
	}
	identity, err := decoder.Decode(identityData, req.KeystorePassword)
	if err != nil {
		return ps.fail(tracker, logger, err)
	}
	if identity.Leaf != nil {
		logger.Debug("client identity decoded", slog.String("subject", identity.Leaf.Subject.String()))
	} else {
		logger.Debug("client identity decoded")
	}

	proxy, err := httpclient.ResolveProxy(req.ProxyURL)
	if err != nil {
		return ps.fail(tracker, logger, err)
	}
	if proxy != nil {
		logger.Debug("proxy resolved", slog.String("proxy", proxy.Redacted()))
	} else {
		logger.Debug("no proxy configured, connecting directly")
	}

	if err := tracker.advance(ClientBuilding); err != nil {
		return ps.bestEffortSnapshot(), err
	}
	client, err := httpclient.New(httpclient.Config{
		TrustAnchor:    anchor,
		Identity:       identity,
		Proxy:          proxy,
		CheckHostname:  req.CheckHostname,
		UseSystemRoots: req.UseInbuiltRootCerts,
		HTTPSOnly:      req.UseHTTPSOnly,
		UseSNI:         req.UseTLSSNI,
		Timeout:        ps.timeout,
		Logger:         logger,
	})
	if err != nil {
		return ps.fail(tracker, logger, err)
	}

	if err := tracker.advance(Requesting); err != nil {
		return ps.bestEffortSnapshot(), err
	}
	if err := httpclient.Execute(ctx, client, req.URL, req.UseHTTPSOnly, logger); err != nil {
		return ps.fail(tracker, logger, err)
	}

	if err := tracker.advance(Succeeded); err != nil {
		return ps.bestEffortSnapshot(), err
	}
	logger.Info("connection test succeeded", slog.String("url", req.URL))

	return ps.log.Snapshot()
}

func (ps *probeService) Diagnostics(ctx context.Context) (string, error) {
	return ps.log.Snapshot()
}

func (ps *probeService) ClearDiagnostics(ctx context.Context) error {
	return ps.log.Clear()
}

// fail moves the test to its terminal failed stage and returns the original
// cause with a best-effort snapshot.
func (ps *probeService) fail(tracker *stageTracker, logger *slog.Logger, cause error) (string, error) {
	at := tracker.stage()
	if err := tracker.advance(Failed); err != nil {
		logger.Error("stage tracking failed", slog.Any("error", err))
	}
	logger.Warn("connection test failed",
		slog.String("stage", at.String()),
		slog.Any("error", cause))

	return ps.bestEffortSnapshot(), cause
}

func (ps *probeService) bestEffortSnapshot() string {
	snap, err := ps.log.Snapshot()
	if err != nil {
		return ""
	}

	return snap
}
