// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package cli

import (
	"github.com/ultravioletrs/mtlscheck/probe"
)

var Verbose bool

type CLI struct {
	svc probe.Service
}

// New wraps a probe.Service for command line use. The service may be the
// local engine or an SDK client for a remote one; commands do not care
// which.
func New(svc probe.Service) *CLI {
	return &CLI{svc: svc}
}
