package commands

import (
	"github.com/spf13/cobra"

	"github.com/openshift-ai/oai-manager/cmd/oai/handlers"
)

// Init returns the init command.
func Init() *cobra.Command {
	var targetDir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter configuration files",
		Long: `Init writes starter spec files (cluster, add-ons, machine pool and
connection settings) into <target>/configs. Existing files are left
untouched, so rerunning is safe.`,
		RunE: func(*cobra.Command, []string) error {
			return handlers.InitConfigs(targetDir)
		},
	}

	cmd.Flags().StringVarP(&targetDir, "target", "t", ".", "Target directory for the configs directory")

	return cmd
}
