// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package material loads and decodes the trust and identity material a probe
// needs: trust-anchor certificates and password-protected client identities.
package material

import (
	"os"

	"github.com/absmach/supermq/pkg/errors"
)

// ErrRead indicates the material file could not be read.
var ErrRead = errors.New("failed to read material file")

// Load returns the full byte content of the file at path. No size limit is
// enforced; callers own the resource cost of oversized files.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(ErrRead, err)
	}

	return data, nil
}
