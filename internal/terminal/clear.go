// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal measures and clears text the CLI has already printed.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

const fallbackWidth = 80

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of f, or 80 when it is not a terminal.
func Width(f *os.File) int {
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return fallbackWidth
}

// Rows returns how many terminal rows text occupies at width, counting
// wrapped lines. Color codes are ignored.
func Rows(text string, width int) int {
	if width <= 0 {
		width = fallbackWidth
	}
	text = strings.TrimSuffix(pterm.RemoveColorFromString(text), "\n")
	rows := 0
	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		rows += max(1, (n+width-1)/width)
	}
	return rows
}

// ClearRows clears n rows ending at the cursor, moving up between them.
// The cursor is left at the start of the topmost cleared row.
func ClearRows(w io.Writer, n int) {
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}

// ClearPrompt removes a prompt and the input echoed after it. After Enter the
// cursor sits on a new line below the input, so one extra row is cleared.
func ClearPrompt(w io.Writer, prompt, input string) {
	ClearRows(w, Rows(prompt+input, Width(os.Stdout))+1)
}
