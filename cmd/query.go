// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"modgraph/cli/internal/catalog"
	"modgraph/cli/internal/console"
	"modgraph/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	queryJSON     bool
	queryProgram  string
	queryRelation string
	queryObject   string
	queryModule   string
)

// queryCmd groups the one-shot queries. Each one drives a console session
// through the same actions the interactive console uses.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a single query and print the results",
}

var queryProgramsCmd = &cobra.Command{
	Use:     "programs",
	Short:   "List the modules of a study program",
	Example: `  modgraph query programs --program MMDS`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(),
			console.SwitchMode{Mode: catalog.ModePrograms},
			console.SelectSubject{Subject: queryProgram},
			console.Run{},
		)
	},
}

var queryFilterCmd = &cobra.Command{
	Use:     "filter",
	Short:   "List the modules whose relation has a given value",
	Example: `  modgraph query filter --relation ECTS --object 6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(),
			console.SwitchMode{Mode: catalog.ModeModules},
			console.SelectRelation{Relation: queryRelation},
			console.SelectObject{Object: queryObject},
			console.Run{},
		)
	},
}

var queryPropertyCmd = &cobra.Command{
	Use:     "property",
	Short:   "Show one relation of a module",
	Example: `  modgraph query property --module "Data Mining I" --relation Lecturer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(),
			console.SwitchMode{Mode: catalog.ModeProperty},
			console.SelectSubject{Subject: queryModule},
			console.SelectRelation{Relation: queryRelation},
			console.Run{},
		)
	},
}

var queryRangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "List the values a relation takes",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := drive(cmd.Context(),
			console.SwitchMode{Mode: catalog.ModeModules},
			console.SelectRelation{Relation: queryRelation},
		)
		if err != nil {
			return err
		}
		return printValues("Value", st.ObjectOptions)
	},
}

var queryDomainCmd = &cobra.Command{
	Use:   "domain",
	Short: "List every module name",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := drive(cmd.Context(), console.SwitchMode{Mode: catalog.ModeProperty})
		if err != nil {
			return err
		}
		return printValues("Module", st.ModuleOptions)
	},
}

// drive opens a session, applies actions in order and waits for each one to
// settle. A failed request ends the run with its described error.
func drive(ctx context.Context, actions ...console.Action) (console.State, error) {
	conn, err := dialBackend(ctx)
	if err != nil {
		return console.State{}, err
	}
	defer conn.Close()

	s := console.NewSession(conn, console.WithLogger(logger))
	defer s.Close()

	for _, a := range actions {
		if err := s.Dispatch(a); err != nil {
			return s.State(), err
		}
		if err := settle(ctx, s); err != nil {
			return s.State(), err
		}
		if st := s.State(); st.Err != nil {
			return st, errors.New(httperrors.Describe(st.Err))
		}
	}
	return s.State(), nil
}

func runQuery(ctx context.Context, actions ...console.Action) error {
	st, err := drive(ctx, actions...)
	if err != nil {
		return err
	}
	if queryJSON {
		return console.WriteJSON(os.Stdout, st)
	}
	table, err := console.RenderTable(st)
	if err != nil {
		return err
	}
	pterm.Println(table)
	return nil
}

// printValues prints a single-column listing. The JSON form uses the same
// envelope the query service returns for ranges and domains.
func printValues(header string, values []string) error {
	if queryJSON {
		rows := make([]map[string]string, 0, len(values))
		for _, v := range values {
			rows = append(rows, map[string]string{console.ColModuleName: v})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"results": rows})
	}
	if len(values) == 0 {
		pterm.Println(console.Placeholder)
		return nil
	}
	data := pterm.TableData{{header}}
	for _, v := range values {
		data = append(data, []string{v})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Printfln("%d values", len(values))
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.PersistentFlags().BoolVar(&queryJSON, "json", false, "Print results as JSON")

	queryProgramsCmd.Flags().StringVar(&queryProgram, "program", "", "Study program id or label")
	_ = queryProgramsCmd.MarkFlagRequired("program")

	queryFilterCmd.Flags().StringVar(&queryRelation, "relation", "", "Relation id or label")
	queryFilterCmd.Flags().StringVar(&queryObject, "object", "", "Relation value")
	_ = queryFilterCmd.MarkFlagRequired("relation")
	_ = queryFilterCmd.MarkFlagRequired("object")

	queryPropertyCmd.Flags().StringVar(&queryModule, "module", "", "Module name")
	queryPropertyCmd.Flags().StringVar(&queryRelation, "relation", "", "Relation id or label")
	_ = queryPropertyCmd.MarkFlagRequired("module")
	_ = queryPropertyCmd.MarkFlagRequired("relation")

	queryRangesCmd.Flags().StringVar(&queryRelation, "relation", "", "Relation id or label")
	_ = queryRangesCmd.MarkFlagRequired("relation")

	queryCmd.AddCommand(queryProgramsCmd, queryFilterCmd, queryPropertyCmd, queryRangesCmd, queryDomainCmd)
}
