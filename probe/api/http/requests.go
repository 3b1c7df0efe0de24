// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/absmach/supermq/pkg/errors"
	"github.com/ultravioletrs/mtlscheck/probe"
)

type apiReq interface {
	validate() error
}

var (
	_ apiReq = (*probeReq)(nil)
	_ apiReq = (*diagnosticsReq)(nil)
)

// probeReq mirrors the wire form of a connection test request. The booleans
// are pointers so that a missing flag is distinguishable from an explicit
// false; every flag must be stated.
type probeReq struct {
	URL                   string `json:"url"`
	ProxyURL              string `json:"proxyUrl"`
	KeystorePath          string `json:"keystorePath"`
	KeystorePassword      string `json:"keystorePassword"`
	PublicCertificatePath string `json:"publicCertificatePath"`
	CheckHostname         *bool  `json:"checkHostname"`
	UseInbuiltRootCerts   *bool  `json:"useInbuiltRootCerts"`
	UseHTTPSOnly          *bool  `json:"useHttpsOnly"`
	UseTLSSNI             *bool  `json:"useTlsSni"`
}

func (req probeReq) validate() error {
	if req.URL == "" {
		return errors.Wrap(errMissingField, errors.New("url"))
	}
	if req.KeystorePath == "" {
		return errors.Wrap(errMissingField, errors.New("keystorePath"))
	}
	if req.PublicCertificatePath == "" {
		return errors.Wrap(errMissingField, errors.New("publicCertificatePath"))
	}
	if req.CheckHostname == nil {
		return errors.Wrap(errMissingField, errors.New("checkHostname"))
	}
	if req.UseInbuiltRootCerts == nil {
		return errors.Wrap(errMissingField, errors.New("useInbuiltRootCerts"))
	}
	if req.UseHTTPSOnly == nil {
		return errors.Wrap(errMissingField, errors.New("useHttpsOnly"))
	}
	if req.UseTLSSNI == nil {
		return errors.Wrap(errMissingField, errors.New("useTlsSni"))
	}

	return nil
}

func (req probeReq) toDomain() probe.ConnectionRequest {
	return probe.ConnectionRequest{
		URL:                   req.URL,
		ProxyURL:              req.ProxyURL,
		KeystorePath:          req.KeystorePath,
		KeystorePassword:      req.KeystorePassword,
		PublicCertificatePath: req.PublicCertificatePath,
		CheckHostname:         *req.CheckHostname,
		UseInbuiltRootCerts:   *req.UseInbuiltRootCerts,
		UseHTTPSOnly:          *req.UseHTTPSOnly,
		UseTLSSNI:             *req.UseTLSSNI,
	}
}

type diagnosticsReq struct{}

func (req diagnosticsReq) validate() error {
	return nil
}
