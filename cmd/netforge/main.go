// Package main is the entry point for the netforge CLI.
//
// netforge is a command-line tool for provisioning network topologies on
// AWS from a small declarative spec. It carves a top-level CIDR block into
// per-zone subnet tiers, derives the full resource graph, and converges the
// cloud account toward it without Terraform or other IaC tools.
//
// Commands: init, plan, apply, destroy, graph.
//
// For detailed usage information, run:
//
//	netforge --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/imamik/netforge/cmd/netforge/commands"
	"github.com/imamik/netforge/cmd/netforge/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, handlers.ErrChangesPending) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
