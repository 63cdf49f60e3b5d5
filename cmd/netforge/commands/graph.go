package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/netforge/cmd/netforge/handlers"
)

// Graph returns the command for rendering the resource graph.
//
// Optional flags:
//
//	--config, -c:  Path to topology spec YAML file (default: auto-detect netforge.yaml)
//	--format, -f:  Output format: dot or mermaid (default: dot)
//	--cluster:     Group nodes of the same resource kind
func Graph() *cobra.Command {
	var (
		configPath string
		format     string
		cluster    bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resource graph",
		Long: `Render the spec's resource graph without touching the account.

Edges point from each resource to the resources it depends on.

Examples:
  # Graphviz DOT on stdout
  netforge graph | dot -Tsvg > topology.svg

  # Mermaid for embedding in markdown
  netforge graph -f mermaid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Graph(configPath, format, cluster, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spec file (default: netforge.yaml)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&cluster, "cluster", false, "Group nodes of the same resource kind")

	return cmd
}
