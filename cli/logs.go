// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (cli *CLI) NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the cumulative diagnostic transcript",
		Run: func(cmd *cobra.Command, args []string) {
			logdata, err := cli.svc.Diagnostics(cmd.Context())
			if err != nil {
				printError(cmd, "Error retrieving diagnostics: %v ❌ ", err)
				return
			}

			if logdata == "" {
				cmd.Println("No diagnostics recorded")
				return
			}

			cmd.Print(logdata)
		},
	}

	cmd.AddCommand(cli.NewLogsClearCmd())

	return cmd
}

func (cli *CLI) NewLogsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the diagnostic transcript",
		Run: func(cmd *cobra.Command, args []string) {
			if err := cli.svc.ClearDiagnostics(cmd.Context()); err != nil {
				printError(cmd, "Error clearing diagnostics: %v ❌ ", err)
				return
			}

			cmd.Println(color.New(color.FgGreen).Sprintf("Diagnostics cleared ✔ "))
		},
	}
}
