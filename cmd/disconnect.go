// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"modgraph/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// disconnectCmd removes the stored graph-store DSN.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove the stored graph store connection",
	Long: `The disconnect command removes the DSN saved by 'modgraph connect' from the
OS keychain. Environment variables are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.ClearDB(); err != nil {
			return err
		}
		pterm.Success.Println("Stored graph store connection removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}
