// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package cli

import (
	"github.com/absmach/supermq/pkg/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ultravioletrs/mtlscheck/pkg/diaglog"
	"github.com/ultravioletrs/mtlscheck/pkg/httpclient"
	"github.com/ultravioletrs/mtlscheck/pkg/material"
)

func decodeErros(err error) error {
	for _, sentinel := range []error{
		material.ErrRead,
		material.ErrCertificateDecode,
		material.ErrIdentityDecode,
		material.ErrIdentityFormat,
		httpclient.ErrProxyParse,
		httpclient.ErrClientBuild,
		httpclient.ErrRequest,
		diaglog.ErrLogAccess,
	} {
		if errors.Contains(err, sentinel) {
			return sentinel
		}
	}

	return err
}

func printError(cmd *cobra.Command, message string, err error) {
	if !Verbose {
		err = decodeErros(err)
	}
	msg := color.New(color.FgRed).Sprintf(message, err)
	cmd.Println(msg)
}
