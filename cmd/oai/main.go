// Package main is the entry point for the oai CLI.
//
// oai manages OpenShift clusters and the data-science platform layered on
// top of them: cluster provisioning through the cluster-management service,
// the RHODS and GPU add-ons, and GPU machine pools.
//
// For detailed usage information, run:
//
//	oai --help
package main

import (
	"fmt"
	"os"

	"github.com/openshift-ai/oai-manager/cmd/oai/commands"
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
		os.Exit(1)
	}
}
