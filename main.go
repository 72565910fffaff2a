// Package main is the entry point for the modgraph CLI.
// It provides a query console over a study-module knowledge graph and the
// query service that answers it.
package main

import (
	"modgraph/cli/cmd"
)

func main() {
	cmd.Execute()
}
