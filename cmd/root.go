// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for modgraph.
// It implements the interactive query console, one-shot query commands, the
// query service and graph-store maintenance commands using the Cobra CLI
// framework.
package cmd

import (
	"context"
	"fmt"
	"os"

	"modgraph/cli/internal/bridge"
	"modgraph/cli/internal/config"
	"modgraph/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool

	flagBaseURL   string
	flagTransport string
	flagGRPCAddr  string
	flagLogLevel  string
	flagLogFormat string

	// settings is the merged configuration of the running command.
	settings = config.Defaults()
	logger   = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "modgraph",
	Short: "Query console for the study-module knowledge graph",
	Long: `modgraph queries a knowledge graph of university study modules.

Run 'modgraph console' for the interactive console, 'modgraph query' for
one-shot queries, or 'modgraph serve' to run the query service itself.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !showVersion {
			return cmd.Help()
		}
		ctx := cmd.Context()
		backendVersion := "unknown"
		if conn, err := dialBackend(ctx); err == nil {
			if v, err := conn.GetVersion(ctx); err == nil {
				backendVersion = v
			} else {
				logger.Debug("backend version unavailable", logger.Args("error", err))
			}
			_ = conn.Close()
		}
		fmt.Printf("modgraph %s\nbackend %s\n", Version, backendVersion)
		return nil
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(logging.Mask(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "Query service base URL (env MODGRAPH_BASE_URL)")
	pf.StringVar(&flagTransport, "transport", "", "Query transport: http or grpc (env MODGRAPH_TRANSPORT)")
	pf.StringVar(&flagGRPCAddr, "grpc-addr", "", "gRPC address; grpcs:// selects TLS (env MODGRAPH_GRPC_ADDR)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error or off")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
}

// loadSettings merges the config file, MODGRAPH_* variables and flags, in
// that order of precedence, and builds the logger.
func loadSettings(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name, value string, dst *string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("base-url", flagBaseURL, &c.Backend.BaseURL)
	override("transport", flagTransport, &c.Backend.Transport)
	override("grpc-addr", flagGRPCAddr, &c.Backend.GRPCAddr)
	override("log-level", flagLogLevel, &c.LogLevel)
	override("log-format", flagLogFormat, &c.LogFormat)
	if err := c.Validate(); err != nil {
		return err
	}

	settings = c
	logger = logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	return nil
}

// dialBackend connects to the configured query service.
func dialBackend(ctx context.Context) (*bridge.Conn, error) {
	return bridge.New(ctx, bridge.Options{
		Transport: settings.Backend.Transport,
		BaseURL:   settings.Backend.BaseURL,
		GRPCAddr:  settings.Backend.GRPCAddr,
		Timeout:   settings.Timeout(),
		Logger:    logger,
	})
}
