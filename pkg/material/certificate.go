// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package material

import (
	"crypto/x509"
	"encoding/pem"

	"github.com/absmach/supermq/pkg/errors"
	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

const certificateBlockType = "CERTIFICATE"

var (
	// ErrCertificateDecode indicates the trust anchor could not be decoded.
	ErrCertificateDecode = errors.New("failed to decode trust anchor certificate")

	errEmptyCertificate   = errors.New("certificate source is empty")
	errNoCertificateBlock = errors.New("no certificate found in source")
)

// DecodeTrustAnchor parses a single trust-anchor certificate from data. PEM
// is tried first, then raw DER, then a DER-encoded PKCS#7 bundle. When the
// source holds a chain, the first certificate is the anchor.
func DecodeTrustAnchor(data []byte) (*x509.Certificate, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrCertificateDecode, errEmptyCertificate)
	}

	if block, _ := pem.Decode(data); block != nil {
		return decodePEMAnchor(data)
	}

	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, errors.Wrap(ErrCertificateDecode, err)
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, errors.Wrap(ErrCertificateDecode, errNoCertificateBlock)
	}

	return p.Content.SignedData.Certificates[0], nil
}

func decodePEMAnchor(data []byte) (*x509.Certificate, error) {
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != certificateBlockType {
			data = rest
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(ErrCertificateDecode, err)
		}

		return cert, nil
	}

	return nil, errors.Wrap(ErrCertificateDecode, errNoCertificateBlock)
}
