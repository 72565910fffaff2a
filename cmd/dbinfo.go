// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"modgraph/cli/internal/config"
	"modgraph/cli/internal/dsn"
	"modgraph/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd shows the graph-store DSN with the password masked.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the current graph store connection string",
	Long: `The dbinfo command displays the DSN the postgres graph store would use, with
the password masked. MODGRAPH_DSN and DATABASE_URL take precedence over the
keychain entry written by 'modgraph connect'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, source, err := resolveDSN()
		if errors.Is(err, config.ErrNoDSN) {
			pterm.Warning.Println("No graph store connection configured")
			pterm.Println("   Please run: modgraph connect")
			return nil
		}
		if err != nil {
			return err
		}

		shown := logging.Mask(raw)
		if info, err := dsn.ParseInfo(raw); err == nil {
			shown = info.Redacted()
		} else {
			pterm.Warning.Println(logging.PresentError("parse DSN", err))
		}

		pterm.Printfln("Using DSN from %s", source)
		pterm.Println()
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Graph Store Connection")).
			WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
			Println(shown)
		pterm.Println()
		pterm.Println("To update this connection, run: modgraph connect")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
