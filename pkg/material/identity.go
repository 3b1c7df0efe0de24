// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package material

import (
	"crypto/tls"

	"github.com/absmach/supermq/pkg/errors"
	"golang.org/x/crypto/pkcs12"
)

// Identity container formats supported by NewIdentityDecoder.
const (
	FormatPKCS12 = "pkcs12"
	FormatPEM    = "pem"
)

var (
	// ErrIdentityDecode indicates the client identity could not be decoded.
	ErrIdentityDecode = errors.New("failed to decode client identity")

	// ErrIdentityFormat indicates an unsupported identity container format.
	ErrIdentityFormat = errors.New("unsupported identity container format")
)

var (
	_ IdentityDecoder = (*PKCS12Decoder)(nil)
	_ IdentityDecoder = (*PEMKeypairDecoder)(nil)
)

// IdentityDecoder turns a protected identity container into a TLS client
// certificate. Implementations never return a partially decoded identity.
type IdentityDecoder interface {
	Decode(data []byte, passphrase string) (tls.Certificate, error)
}

// NewIdentityDecoder selects the decoding strategy for the given container
// format.
func NewIdentityDecoder(format string) (IdentityDecoder, error) {
	switch format {
	case FormatPKCS12:
		return &PKCS12Decoder{}, nil
	case FormatPEM:
		return &PEMKeypairDecoder{}, nil
	default:
		return nil, errors.Wrap(ErrIdentityFormat, errors.New(format))
	}
}

// PKCS12Decoder decodes password-protected PKCS#12 containers holding one
// certificate and one private key.
type PKCS12Decoder struct{}

func (d *PKCS12Decoder) Decode(data []byte, passphrase string) (tls.Certificate, error) {
	key, cert, err := pkcs12.Decode(data, passphrase)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(ErrIdentityDecode, err)
	}

	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}

// PEMKeypairDecoder decodes a combined PEM buffer holding the client
// certificate and its unencrypted private key. The passphrase is ignored in
// this form.
type PEMKeypairDecoder struct{}

func (d *PEMKeypairDecoder) Decode(data []byte, _ string) (tls.Certificate, error) {
	cert, err := tls.X509KeyPair(data, data)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(ErrIdentityDecode, err)
	}

	return cert, nil
}
