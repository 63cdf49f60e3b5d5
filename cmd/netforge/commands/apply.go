package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/netforge/cmd/netforge/handlers"
)

// Apply returns the command for converging the account to the spec.
//
// Optional flags:
//
//	--config, -c: Path to topology spec YAML file (default: auto-detect netforge.yaml)
//
// AWS credentials are read from the environment or shared config files.
func Apply() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the topology",
		Long: `Create or update your network topology.

This command lists what currently exists, computes the difference against
the spec's resource graph, and executes the needed creates, updates, and
destroys in dependency order. Independent actions run concurrently.

If no spec file is specified, it looks for netforge.yaml in the current
directory. Use 'netforge init' to create one.

Examples:
  # Apply netforge.yaml in current directory
  netforge apply

  # Apply a specific spec file
  netforge apply -c production.yaml

  # Re-apply after spec changes
  netforge apply`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spec file (default: netforge.yaml)")

	return cmd
}
