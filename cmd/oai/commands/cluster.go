package commands

import (
	"github.com/spf13/cobra"

	"github.com/openshift-ai/oai-manager/cmd/oai/handlers"
)

// Cluster returns the cluster command group.
func Cluster() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster lifecycle commands",
	}

	cmd.AddCommand(clusterCreate())
	cmd.AddCommand(clusterDelete())
	cmd.AddCommand(clusterInfo())

	return cmd
}

func clusterCreate() *cobra.Command {
	var (
		configPath string
		ocmPath    string
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cluster from a spec file",
		Long: `Create submits cluster creation to the cluster-management service.

Creation is asynchronous: the command returns once the cluster is accepted
unless --wait is set (the default), in which case it polls until the cluster
reports ready or the wait budget is exhausted. A timed-out wait leaves the
remote installation running.

Retrying a create with an unchanged spec is a no-op; a name collision with a
different spec is an error.

Example:
  oai cluster create -c configs/cluster.yaml --ocm-config configs/ocm.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CreateCluster(cmd.Context(), configPath, ocmPath, wait)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to cluster spec file (required)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the cluster to become ready")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}

func clusterDelete() *cobra.Command {
	var (
		ocmPath string
		force   bool
		wait    bool
	)

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a cluster",
		Long: `Delete submits cluster deletion.

A cluster that still has add-ons installed is refused unless --force is set,
in which case add-on cleanup is attempted best-effort before deletion.

WARNING: This operation is irreversible. All cluster data will be lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DeleteCluster(cmd.Context(), args[0], ocmPath, force, wait)
		},
	}

	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Delete even if add-ons are installed")
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait until the cluster is gone")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}

func clusterInfo() *cobra.Command {
	var ocmPath string

	cmd := &cobra.Command{
		Use:   "info NAME",
		Short: "Show current cluster status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ClusterInfo(cmd.Context(), args[0], ocmPath)
		},
	}

	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}
