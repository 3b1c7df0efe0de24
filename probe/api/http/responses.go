// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"

	httputil "github.com/ultravioletrs/mtlscheck/internal/http"
)

var (
	_ httputil.Response = (*probeRes)(nil)
	_ httputil.Response = (*diagnosticsRes)(nil)
	_ httputil.Response = (*clearRes)(nil)
)

type probeRes struct {
	Success bool   `json:"success"`
	Logdata string `json:"logdata"`
}

func (res probeRes) Code() int {
	return http.StatusOK
}

func (res probeRes) Headers() map[string]string {
	return map[string]string{}
}

func (res probeRes) Empty() bool {
	return false
}

type diagnosticsRes struct {
	Logdata string `json:"logdata"`
}

func (res diagnosticsRes) Code() int {
	return http.StatusOK
}

func (res diagnosticsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res diagnosticsRes) Empty() bool {
	return false
}

type clearRes struct{}

func (res clearRes) Code() int {
	return http.StatusNoContent
}

func (res clearRes) Headers() map[string]string {
	return map[string]string{}
}

func (res clearRes) Empty() bool {
	return true
}

// errorRes is the failure body. Logdata is null when the failure produced no
// transcript.
type errorRes struct {
	Error   string  `json:"error"`
	Logdata *string `json:"logdata"`
}
