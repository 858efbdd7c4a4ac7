package commands

import (
	"github.com/spf13/cobra"

	"github.com/openshift-ai/oai-manager/cmd/oai/handlers"
)

// Addon returns the addon command group.
func Addon() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addon",
		Short: "Add-on lifecycle commands",
	}

	cmd.AddCommand(addonInstallRHODS())
	cmd.AddCommand(addonInstallGPU())
	cmd.AddCommand(addonUninstall())
	cmd.AddCommand(addonList())

	return cmd
}

func addonInstallRHODS() *cobra.Command {
	var (
		clusterName string
		configPath  string
		ocmPath     string
	)

	cmd := &cobra.Command{
		Use:   "install-rhods",
		Short: "Install the data-science platform add-on",
		Long: `Install the RHODS add-on on a ready cluster and wait for it to
report ready. Dependency operators (service mesh, serverless, authorino) are
installed first unless disabled in the spec file.

An existing installation with matching parameters is a no-op; one with
different parameters is an error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallRHODS(cmd.Context(), clusterName, configPath, ocmPath)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "Target cluster name (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to RHODS spec file (required)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}

func addonInstallGPU() *cobra.Command {
	var (
		clusterName string
		configPath  string
		ocmPath     string
	)

	cmd := &cobra.Command{
		Use:   "install-gpu",
		Short: "Install the GPU add-on",
		Long: `Install the GPU add-on on a ready cluster and wait for it to
report ready. The data-science platform add-on must be installed and ready
first. The add-on provides the driver stack only; GPU capacity comes from a
GPU machine pool (see "oai machinepool add").`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallGPU(cmd.Context(), clusterName, configPath, ocmPath)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "Target cluster name (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to GPU add-on spec file (optional)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}

func addonUninstall() *cobra.Command {
	var (
		clusterName string
		ocmPath     string
		cascade     bool
	)

	cmd := &cobra.Command{
		Use:   "uninstall ADDON",
		Short: "Uninstall an add-on",
		Long: `Uninstall removes an add-on and waits until its record is gone.

If other installed add-ons depend on it the command is refused, unless
--cascade is set, in which case dependents are removed first in reverse
dependency order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.UninstallAddon(cmd.Context(), clusterName, args[0], ocmPath, cascade)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "Target cluster name (required)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Uninstall dependent add-ons first")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}

func addonList() *cobra.Command {
	var (
		clusterName string
		ocmPath     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed add-ons and their states",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListAddons(cmd.Context(), clusterName, ocmPath)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "Target cluster name (required)")
	cmd.Flags().StringVar(&ocmPath, "ocm-config", "", "Path to connection config file (required)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("ocm-config")

	return cmd
}
