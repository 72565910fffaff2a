// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"modgraph/cli/internal/console"
	"modgraph/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// startSpinner shows text behind a rotating frame in a pterm area until the
// returned function is called. The cursor is hidden meanwhile. When stdout is
// not a terminal nothing is drawn.
func startSpinner(text string) func() {
	if !terminal.IsTerminal(os.Stdout) {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for i := 0; ; i++ {
			area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			select {
			case <-t.C:
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// settle waits for every in-flight task of s, with a spinner describing what
// is being loaded.
func settle(ctx context.Context, s *console.Session) error {
	st := s.State()
	if !st.Busy() {
		return nil
	}
	stop := startSpinner(busyText(st))
	defer stop()
	return s.Wait(ctx)
}

func busyText(st console.State) string {
	switch {
	case st.Running:
		return "running query"
	case st.ObjectsLoading:
		return "loading relation values"
	case st.ModulesLoading:
		return "loading modules"
	default:
		return "working"
	}
}
