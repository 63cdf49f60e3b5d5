package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/netforge/cmd/netforge/handlers"
)

// Plan returns the command for previewing the changes an apply would make.
//
// Optional flags:
//
//	--config, -c: Path to topology spec YAML file (default: auto-detect netforge.yaml)
//	--detailed-exitcode: exit 2 instead of 0 when changes are pending
func Plan() *cobra.Command {
	var (
		configPath       string
		detailedExitcode bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the changes an apply would make",
		Long: `Show the changes an apply would make without touching anything.

The command derives the desired resource graph from the spec, lists what
currently exists in the account, and prints the create, update, and destroy
actions needed to converge.

Examples:
  # Plan using netforge.yaml in current directory
  netforge plan

  # Plan using a specific spec file
  netforge plan -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath, detailedExitcode)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spec file (default: netforge.yaml)")
	cmd.Flags().BoolVar(&detailedExitcode, "detailed-exitcode", false, "Exit with code 2 when changes are pending")

	return cmd
}
