package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/netforge/cmd/netforge/handlers"
)

// Init returns the command for creating a topology spec.
//
// Flags:
//
//	--output, -o: Path to output file (default "netforge.yaml")
//	--prefix: name prefix; setting it skips the wizard
//	--top-block: top-level CIDR block
//	--zone: availability zone, repeatable
//	--nat-mode: single or per-zone
func Init() *cobra.Command {
	var (
		outputPath string
		opts       handlers.InitOptions
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a topology spec",
		Long: `Create a topology spec file.

Without flags this command guides you through configuring your network
topology step by step. It will ask about:

  - Topology identity (name prefix and top-level block)
  - Availability zones
  - NAT mode (single shared gateway or one per zone)
  - Remote state storage (optional)

Passing --prefix skips the wizard and builds the spec from flags, which
is what you want in scripts and CI:

  netforge init --prefix staging --zone eu-central-1a --zone eu-central-1b

The generated spec is minimal: omitted fields keep their defaults
and can be added by hand later.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, opts)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "netforge.yaml", "Output file path")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Name prefix (skips the wizard)")
	cmd.Flags().StringVar(&opts.TopBlock, "top-block", "", "Top-level CIDR block (default 10.0.0.0/16)")
	cmd.Flags().StringArrayVar(&opts.Zones, "zone", nil, "Availability zone (repeatable)")
	cmd.Flags().StringVar(&opts.NATMode, "nat-mode", "", "NAT mode: single or per-zone")

	return cmd
}
