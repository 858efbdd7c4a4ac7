package commands

import (
	"github.com/spf13/cobra"

	"github.com/openshift-ai/oai-manager/cmd/oai/handlers"
)

// MachinePool returns the machinepool command group.
func MachinePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machinepool",
		Short: "Machine pool commands",
	}

	cmd.AddCommand(machinePoolAdd())
	cmd.AddCommand(machinePoolList())

	return cmd
}

func machinePoolList() *cobra.Command {
	var (
		clusterName string
		ocmPath     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the machine pools of a cluster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListMachinePools(cmd.Context(), clusterName, ocmPath)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "Target cluster name (required)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}

func machinePoolAdd() *cobra.Command {
	var (
		clusterName string
		configPath  string
		ocmPath     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a worker pool to a cluster",
		Long: `Add creates a machine pool (typically the GPU pool backing the
GPU add-on) on a ready cluster and waits until it reports ready.

A pool that already exists with an equivalent spec is a no-op. A wait that
times out leaves the pool in place; retry or delete it deliberately.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.AddMachinePool(cmd.Context(), clusterName, configPath, ocmPath)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "Target cluster name (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to machine pool spec file (optional, GPU pool defaults apply)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}
