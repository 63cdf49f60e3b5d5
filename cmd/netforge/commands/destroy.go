package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/netforge/cmd/netforge/handlers"
)

// Destroy returns the command for tearing down the whole topology.
//
// Optional flags:
//
//	--config, -c: Path to topology spec YAML file (default: auto-detect netforge.yaml)
//	--yes, -y:    Skip the confirmation prompt
func Destroy() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the topology",
		Long: `Destroy every resource managed under the spec's name prefix.

Resources are deleted in reverse dependency order: associations first,
route tables and gateways next, the network last. The command asks for
confirmation unless --yes is given.

Examples:
  # Destroy with confirmation prompt
  netforge destroy

  # Destroy without prompting (automation)
  netforge destroy --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spec file (default: netforge.yaml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
