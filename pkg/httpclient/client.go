// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package httpclient builds single-use mTLS HTTP clients from decoded trust
// and identity material and executes traced probe requests with them.
package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/absmach/supermq/pkg/errors"
)

const (
	schemeHTTP    = "http"
	schemeHTTPS   = "https"
	schemeSOCKS5  = "socks5"
	schemeSOCKS5H = "socks5h"
)

const maxRedirects = 10

var (
	// ErrClientBuild indicates the client could not be assembled from the
	// given configuration.
	ErrClientBuild = errors.New("failed to build HTTP client")

	errMissingAnchor   = errors.New("missing trust anchor certificate")
	errMissingIdentity = errors.New("missing client identity")
	errProxyScheme     = errors.New("unsupported proxy scheme")
	errProxySNI        = errors.New("cannot disable SNI when a proxy is configured")
	errRedirectScheme  = errors.New("refusing redirect to non-https URL")
	errRedirectBound   = errors.New("stopped after too many redirects")
	errNoPeerCerts     = errors.New("peer presented no certificates")
)

// Config carries everything needed to assemble one probe client. Logger must
// be non-nil; every policy decision is logged through it.
type Config struct {
	TrustAnchor    *x509.Certificate
	Identity       tls.Certificate
	Proxy          *url.URL
	CheckHostname  bool
	UseSystemRoots bool
	HTTPSOnly      bool
	UseSNI         bool
	Timeout        time.Duration
	Logger         *slog.Logger
}

// New assembles a fresh HTTP client for a single probe. The trust pool is
// built per call, the client identity is always attached, and keep-alives
// are disabled so nothing outlives the probe.
func New(cfg Config) (*http.Client, error) {
	if cfg.TrustAnchor == nil {
		return nil, errors.Wrap(ErrClientBuild, errMissingAnchor)
	}
	if len(cfg.Identity.Certificate) == 0 {
		return nil, errors.Wrap(ErrClientBuild, errMissingIdentity)
	}

	pool, err := trustPool(cfg)
	if err != nil {
		return nil, errors.Wrap(ErrClientBuild, err)
	}

	tlsCfg := &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cfg.Identity},
		MinVersion:   tls.VersionTLS12,
	}
	if !cfg.CheckHostname {
		tlsCfg.InsecureSkipVerify = true
		tlsCfg.VerifyPeerCertificate = verifyChain(pool, "")
		cfg.Logger.Debug("hostname verification disabled, chain verification retained")
	}

	transport := &http.Transport{
		TLSClientConfig:     tlsCfg,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableKeepAlives:   true,
	}

	if cfg.Proxy != nil {
		switch cfg.Proxy.Scheme {
		case schemeHTTP, schemeHTTPS, schemeSOCKS5, schemeSOCKS5H:
		default:
			return nil, errors.Wrap(ErrClientBuild, errors.Wrap(errProxyScheme, errors.New(cfg.Proxy.Scheme)))
		}
		transport.Proxy = http.ProxyURL(cfg.Proxy)
		cfg.Logger.Debug("routing through proxy", slog.String("proxy", cfg.Proxy.Redacted()))
	}

	if !cfg.UseSNI {
		if cfg.Proxy != nil {
			return nil, errors.Wrap(ErrClientBuild, errProxySNI)
		}
		transport.DialTLSContext = dialWithoutSNI(cfg, pool)
		cfg.Logger.Debug("SNI disabled, dialing with empty server name")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
	if cfg.HTTPSOnly {
		client.CheckRedirect = refuseInsecureRedirects
		cfg.Logger.Debug("https-only policy active, insecure redirects refused")
	}

	return client, nil
}

func trustPool(cfg Config) (*x509.CertPool, error) {
	var pool *x509.CertPool
	if cfg.UseSystemRoots {
		sys, err := x509.SystemCertPool()
		if err != nil {
			return nil, err
		}
		pool = sys
		cfg.Logger.Debug("trust base is the system root store")
	} else {
		pool = x509.NewCertPool()
		cfg.Logger.Debug("trust base is empty")
	}

	pool.AddCert(cfg.TrustAnchor)
	cfg.Logger.Debug("trust anchor added", slog.String("subject", cfg.TrustAnchor.Subject.String()))

	return pool, nil
}

func refuseInsecureRedirects(req *http.Request, via []*http.Request) error {
	if req.URL.Scheme != schemeHTTPS {
		return errors.Wrap(errRedirectScheme, errors.New(req.URL.String()))
	}
	if len(via) >= maxRedirects {
		return errRedirectBound
	}

	return nil
}

// verifyChain validates the peer chain against pool. An empty hostname skips
// the name match but never the chain check.
func verifyChain(pool *x509.CertPool, hostname string) func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return errNoPeerCerts
		}

		certs := make([]*x509.Certificate, 0, len(rawCerts))
		for _, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return err
			}
			certs = append(certs, cert)
		}

		opts := x509.VerifyOptions{
			Roots:         pool,
			Intermediates: x509.NewCertPool(),
			DNSName:       hostname,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		}
		for _, cert := range certs[1:] {
			opts.Intermediates.AddCert(cert)
		}

		_, err := certs[0].Verify(opts)

		return err
	}
}

// dialWithoutSNI handshakes with an empty ServerName so no SNI extension is
// sent, then verifies the chain (and the hostname when configured) manually.
func dialWithoutSNI(cfg Config, pool *x509.CertPool) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		verifyName := ""
		if cfg.CheckHostname {
			verifyName = host
		}

		tlsCfg := &tls.Config{
			Certificates:          []tls.Certificate{cfg.Identity},
			MinVersion:            tls.VersionTLS12,
			InsecureSkipVerify:    true,
			VerifyPeerCertificate: verifyChain(pool, verifyName),
		}

		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		tlsConn := tls.Client(conn, tlsCfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, err
		}

		return tlsConn, nil
	}
}
