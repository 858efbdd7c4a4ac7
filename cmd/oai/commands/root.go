// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the oai CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oai",
		Short: "Manage OpenShift clusters and the data-science platform add-ons",
	}

	cmd.AddCommand(Cluster())
	cmd.AddCommand(Addon())
	cmd.AddCommand(MachinePool())
	cmd.AddCommand(Setup())
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())

	return cmd
}
