// Package main provides the entry point for the margo CLI tool.
package main

import (
	"github.com/margoproject/margo/cmd/margo/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
