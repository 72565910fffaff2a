// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"

	"modgraph/cli/internal/catalog"
	"modgraph/cli/internal/console"
	"modgraph/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	menuSwitch   = "Switch tab"
	menuProgram  = "Choose program"
	menuRelation = "Choose relation"
	menuObject   = "Choose value"
	menuModule   = "Choose module"
	menuRun      = "Run query"
	menuQuit     = "Quit"
)

// consoleCmd runs the interactive query console.
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive query console",
	Long: `The console offers three tabs: modules of a study program, modules filtered
by a relation value, and one relation of a single module. Pick the inputs of
the current tab, then run the query. Failures are shown inline and keep the
previous results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conn, err := dialBackend(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		s := console.NewSession(conn, console.WithLogger(logger))
		defer s.Close()

		return consoleLoop(ctx, s)
	},
}

func consoleLoop(ctx context.Context, s *console.Session) error {
	drawn := 0
	for {
		st := s.State()
		view, err := consoleView(st)
		if err != nil {
			return err
		}
		if terminal.IsTerminal(os.Stdout) {
			terminal.ClearRows(os.Stdout, drawn)
		}
		pterm.Println(view)
		drawn = terminal.Rows(view, terminal.Width(os.Stdout)) + 1

		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions(menuFor(st)).
			Show("Action")
		if err != nil {
			return err
		}
		if choice == menuQuit {
			return nil
		}

		action, err := promptAction(st, choice)
		if err != nil {
			return err
		}
		if action == nil {
			continue
		}
		if err := s.Dispatch(action); err != nil {
			// Rejected input is shown once; the state is unchanged.
			pterm.Warning.Println(err.Error())
			drawn = 0
			continue
		}
		if err := settle(ctx, s); err != nil {
			return err
		}
	}
}

func consoleView(st console.State) (string, error) {
	table, err := console.RenderTable(st)
	if err != nil {
		return "", err
	}
	return console.RenderStatus(st) + "\n\n" + table, nil
}

// menuFor lists the actions available in the current tab. Run is offered
// only once every required input is set.
func menuFor(st console.State) []string {
	items := []string{menuSwitch}
	switch st.Mode {
	case catalog.ModePrograms:
		items = append(items, menuProgram)
	case catalog.ModeModules:
		items = append(items, menuRelation)
		if st.Relation != "" && len(st.ObjectOptions) > 0 {
			items = append(items, menuObject)
		}
	case catalog.ModeProperty:
		if len(st.ModuleOptions) > 0 {
			items = append(items, menuModule)
		}
		items = append(items, menuRelation)
	}
	if st.CanRun() && !st.Running {
		items = append(items, menuRun)
	}
	return append(items, menuQuit)
}

// promptAction asks for the value behind choice. A nil action means nothing
// was chosen.
func promptAction(st console.State, choice string) (console.Action, error) {
	switch choice {
	case menuSwitch:
		id, err := selectOption("Tab", catalog.Modes())
		if err != nil {
			return nil, err
		}
		mode, _ := catalog.ModeByID(id)
		return console.SwitchMode{Mode: mode}, nil
	case menuProgram:
		id, err := selectOption("Program", catalog.Programs())
		return console.SelectSubject{Subject: id}, err
	case menuRelation:
		id, err := selectOption("Relation", catalog.Relations())
		return console.SelectRelation{Relation: id}, err
	case menuObject:
		v, err := selectValue("Value", st.ObjectOptions)
		return console.SelectObject{Object: v}, err
	case menuModule:
		v, err := selectValue("Module", st.ModuleOptions)
		return console.SelectSubject{Subject: v}, err
	case menuRun:
		return console.Run{}, nil
	}
	return nil, nil
}

// selectOption shows labels and returns the id of the chosen option.
func selectOption(title string, opts []catalog.Option) (string, error) {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	label, err := pterm.DefaultInteractiveSelect.WithOptions(labels).Show(title)
	if err != nil {
		return "", err
	}
	for _, o := range opts {
		if o.Label == label {
			return o.ID, nil
		}
	}
	return "", fmt.Errorf("unknown option %q", label)
}

func selectValue(title string, values []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(values).
		WithFilter(true).
		WithMaxHeight(15).
		Show(title)
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
