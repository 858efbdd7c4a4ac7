package commands

import (
	"github.com/spf13/cobra"

	"github.com/openshift-ai/oai-manager/cmd/oai/handlers"
)

// Setup returns the setup command.
func Setup() *cobra.Command {
	var opts handlers.SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision a complete data-science environment",
		Long: `Setup runs the full flow: create the cluster and wait for it to
become ready, install the data-science platform add-on, then install the GPU
add-on and create the GPU machine pool concurrently.

Every step is idempotent, so a failed run can be repeated.

Example:
  oai setup -c configs/cluster.yaml --rhods-config configs/rhods.yaml \
    --ocm-config configs/ocm.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Setup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ClusterConfigPath, "config", "c", "", "Path to cluster spec file (required)")
	cmd.Flags().StringVar(&opts.RHODSConfigPath, "rhods-config", "", "Path to RHODS spec file (required)")
	cmd.Flags().StringVar(&opts.PoolConfigPath, "pool-config", "", "Path to machine pool spec file (optional, GPU pool defaults apply)")
	cmd.Flags().StringVar(&opts.OCMConfigPath, "ocm-config", "", "Path to connection config file (required)")
	cmd.Flags().BoolVar(&opts.SkipGPU, "skip-gpu", false, "Skip the GPU add-on and machine pool")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("rhods-config")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}
