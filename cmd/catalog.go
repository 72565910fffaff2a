// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"os"

	"modgraph/cli/internal/catalog"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var catalogJSON bool

// catalogCmd prints the fixed option sets the console offers.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the study programs and relations the console offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string][]catalog.Option{
				"programs":  catalog.Programs(),
				"relations": catalog.Relations(),
				"modes":     catalog.Modes(),
			})
		}
		pterm.DefaultSection.Println("Study programs")
		if err := optionTable(catalog.Programs()); err != nil {
			return err
		}
		pterm.DefaultSection.Println("Relations")
		return optionTable(catalog.Relations())
	},
}

func optionTable(opts []catalog.Option) error {
	data := pterm.TableData{{"Label", "Identifier"}}
	for _, o := range opts {
		data = append(data, []string{o.Label, o.ID})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the catalog as JSON")
}
