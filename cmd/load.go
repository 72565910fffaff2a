// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"modgraph/cli/internal/config"
	"modgraph/cli/internal/graph"
	"modgraph/cli/internal/xdg"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const dumpDefault = "auto"

var (
	loadFile  string
	loadDump  string
	loadStore string
)

// loadCmd converts module records into triples and stores them.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load module records into the graph store",
	Long: `The load command reads module records from a JSON or YAML file, converts
them into knowledge-graph triples and inserts them into the configured store.

With --dump the triples are also written as Turtle, to the given path, to "-"
for stdout, or to the state directory when no path is given.`,
	Example: `  modgraph load --file modules.json --store postgres
  modgraph load --file modules.yaml --dump`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("store") {
			settings.Store.Driver = loadStore
		}
		if err := settings.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		modules, err := graph.LoadModules(loadFile)
		if err != nil {
			return err
		}
		var triples []graph.Triple
		for _, m := range modules {
			triples = append(triples, graph.BuildTriples(m)...)
		}

		stop := startSpinner("loading modules")
		store, driver, err := openStore(ctx)
		if err != nil {
			stop()
			return err
		}
		defer store.Close()
		err = store.Insert(ctx, triples)
		stop()
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Loaded %d modules (%d triples) into the %s store", len(modules), len(triples), driver)
		if driver == config.DriverMemory && loadDump == "" {
			pterm.Info.Println("The memory store is not persisted. Use --store postgres or --dump to keep the result.")
		}

		if loadDump != "" {
			path, err := writeDump(loadDump, triples)
			if err != nil {
				return err
			}
			if path != "-" {
				pterm.Success.Printfln("Turtle written to %s", path)
			}
		}
		return nil
	},
}

// writeDump writes triples as Turtle and returns the path it used.
func writeDump(target string, triples []graph.Triple) (string, error) {
	var w io.Writer
	switch target {
	case "-":
		w = os.Stdout
	case dumpDefault:
		dir, err := xdg.StateDir()
		if err != nil {
			return "", err
		}
		target = filepath.Join(dir, "graph.ttl")
		fallthrough
	default:
		f, err := os.Create(target)
		if err != nil {
			return "", fmt.Errorf("create dump: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := graph.WriteTurtle(w, triples); err != nil {
		return "", err
	}
	return target, nil
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVarP(&loadFile, "file", "f", "", "Module records (.json, .yaml or .yml)")
	loadCmd.Flags().StringVar(&loadStore, "store", "", "Graph store: memory or postgres (env MODGRAPH_STORE)")
	loadCmd.Flags().StringVar(&loadDump, "dump", "", `Also write the triples as Turtle to this path ("-" for stdout)`)
	loadCmd.Flags().Lookup("dump").NoOptDefVal = dumpDefault
	_ = loadCmd.MarkFlagRequired("file")
}
