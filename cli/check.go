// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package cli

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ultravioletrs/mtlscheck/probe"
	"golang.org/x/term"
)

func (cli *CLI) NewCheckCmd() *cobra.Command {
	var req probe.ConnectionRequest

	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Run a connection test against a TLS endpoint",
		Example: "check --url https://service.example.com --keystore client.p12 --cert anchor.pem",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("password") {
				pass, err := promptPassphrase(cmd)
				if err != nil {
					printError(cmd, "Error reading keystore passphrase: %v ❌ ", err)
					return
				}
				req.KeystorePassword = pass
			}

			cmd.Println("⏳ Running connection test for " + req.URL)

			logdata, err := cli.svc.Probe(cmd.Context(), req)
			if logdata != "" {
				cmd.Print(logdata)
			}
			if err != nil {
				printError(cmd, "Connection test failed: %v ❌ ", err)
				return
			}

			cmd.Println(color.New(color.FgGreen).Sprintf("Connection test succeeded ✔ "))
		},
	}

	cmd.Flags().StringVar(&req.URL, "url", "", "Target URL (https://host[:port]/path)")
	cmd.Flags().StringVar(&req.ProxyURL, "proxy", "", "Proxy URL (http, https, socks5 or socks5h)")
	cmd.Flags().StringVar(&req.KeystorePath, "keystore", "", "Path to the client identity keystore")
	cmd.Flags().StringVar(&req.KeystorePassword, "password", "", "Keystore passphrase (prompted when omitted)")
	cmd.Flags().StringVar(&req.PublicCertificatePath, "cert", "", "Path to the trust anchor certificate")
	cmd.Flags().BoolVar(&req.CheckHostname, "check-hostname", true, "Verify the server hostname against its certificate")
	cmd.Flags().BoolVar(&req.UseInbuiltRootCerts, "system-roots", false, "Trust the system root certificates alongside the anchor")
	cmd.Flags().BoolVar(&req.UseHTTPSOnly, "https-only", true, "Refuse plain http targets and redirects")
	cmd.Flags().BoolVar(&req.UseTLSSNI, "sni", true, "Send the server name indication during the handshake")

	for _, flag := range []string{"url", "keystore", "cert"} {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			log.Fatalf("Failed to mark flag as required: %s", err)
		}
	}

	return cmd
}

// promptPassphrase asks for the keystore passphrase without echo. When
// stdin is not a terminal the passphrase is taken to be empty, which
// keystores without one decode fine with.
func promptPassphrase(cmd *cobra.Command) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}

	cmd.Print("Keystore passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", err
	}

	return string(pass), nil
}
