// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"modgraph/cli/internal/graph"
	"modgraph/cli/internal/server"

	"github.com/spf13/cobra"
)

var (
	serveListen     string
	serveGRPCListen string
	serveGRPCOrigin string
	serveCORSOrigin string
	serveStore      string
	serveDataset    string
	serveTable      string
)

// serveCmd runs the query service over the configured graph store.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the graph query service",
	Long: `The serve command answers the console's queries over HTTP and, when
--grpc-listen is set, over gRPC. The memory store starts empty unless a dataset
is given; the postgres store reads the DSN from MODGRAPH_DSN, DATABASE_URL or
the keychain entry written by 'modgraph connect'.`,
	Example: `  modgraph serve --dataset modules.json
  modgraph serve --store postgres --grpc-listen :9090 --grpc-origin grpc://localhost:9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		override := func(name, value string, dst *string) {
			if flags.Changed(name) {
				*dst = value
			}
		}
		override("listen", serveListen, &settings.Server.Listen)
		override("grpc-listen", serveGRPCListen, &settings.Server.GRPCListen)
		override("grpc-origin", serveGRPCOrigin, &settings.Server.GRPCOrigin)
		override("cors-origin", serveCORSOrigin, &settings.Server.AllowedOrigin)
		override("store", serveStore, &settings.Store.Driver)
		override("dataset", serveDataset, &settings.Store.Dataset)
		override("table", serveTable, &settings.Store.Table)
		if err := settings.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, driver, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if path := settings.Store.Dataset; path != "" {
			modules, err := graph.LoadModules(path)
			if err != nil {
				return err
			}
			n, err := graph.LoadInto(ctx, store, modules)
			if err != nil {
				return err
			}
			logger.Info("dataset loaded", logger.Args("file", path, "modules", len(modules), "triples", n))
		}

		srv := server.New(store, server.Config{
			HTTPAddr:      settings.Server.Listen,
			GRPCAddr:      settings.Server.GRPCListen,
			GRPCOrigin:    settings.Server.GRPCOrigin,
			AllowedOrigin: settings.Server.AllowedOrigin,
			Version:       Version,
			StoreName:     driver,
			Logger:        logger,
		})
		return srv.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	f.StringVar(&serveListen, "listen", "", "HTTP listen address (default :8080, env MODGRAPH_LISTEN)")
	f.StringVar(&serveGRPCListen, "grpc-listen", "", "gRPC listen address; empty disables gRPC (env MODGRAPH_GRPC_LISTEN)")
	f.StringVar(&serveGRPCOrigin, "grpc-origin", "", "gRPC origin published in /manifest.json (env MODGRAPH_GRPC_ORIGIN)")
	f.StringVar(&serveCORSOrigin, "cors-origin", "", "Allowed CORS origin (default *, env MODGRAPH_CORS_ORIGIN)")
	f.StringVar(&serveStore, "store", "", "Graph store: memory or postgres (env MODGRAPH_STORE)")
	f.StringVar(&serveDataset, "dataset", "", "Module records (.json, .yaml) loaded at startup (env MODGRAPH_DATASET)")
	f.StringVar(&serveTable, "table", "", "Postgres triple table (default triples, env MODGRAPH_TABLE)")
}
