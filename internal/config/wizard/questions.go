package wizard

import (
	"context"
	"net"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/netforge/internal/cidr"
	"github.com/imamik/netforge/internal/config"
)

// prefixRegex validates the name prefix: 1-32 lowercase characters starting
// with a letter.
var prefixRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// runIdentityGroup prompts for the name prefix and top-level block.
func runIdentityGroup(ctx context.Context, result *Result) error {
	result.TopBlock = config.DefaultTopBlock

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name Prefix").
				Description("Every resource name and tag derives from this prefix").
				Placeholder("my-topology").
				Value(&result.NamePrefix).
				Validate(validatePrefix),
			huh.NewInput().
				Title("Top-Level Block").
				Description("IPv4 block carved into per-zone subnets").
				Value(&result.TopBlock).
				Validate(validateCIDR),
		).Title("Topology Identity"),
	).RunWithContext(ctx)
}

// runZonesGroup prompts for the availability zones.
func runZonesGroup(ctx context.Context, result *Result) error {
	var zonesInput string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Availability Zones").
				Description("Comma-separated zone names, one subnet pair each (max 8)").
				Placeholder("eu-central-1a, eu-central-1b").
				Value(&zonesInput).
				Validate(validateZones),
		).Title("Zones"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	result.Zones = parseZones(zonesInput)
	return nil
}

// runNATGroup prompts for the NAT gateway mode.
func runNATGroup(ctx context.Context, result *Result) error {
	result.NATMode = string(config.NATModeSingle)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("NAT Mode").
				Description("Single is cheaper; per-zone survives a zone outage").
				Options(
					huh.NewOption("Single - one shared NAT gateway", string(config.NATModeSingle)),
					huh.NewOption("Per-zone - one NAT gateway per zone", string(config.NATModePerZone)),
				).
				Value(&result.NATMode),
		).Title("Egress"),
	).RunWithContext(ctx)
}

// runStateGroup prompts for optional remote state storage.
func runStateGroup(ctx context.Context, result *Result) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Store State Snapshots in S3?").
				Description("Snapshots record what was observed after each apply").
				Value(&result.UseRemoteState),
		).Title("State"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	if !result.UseRemoteState {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("State Bucket").
				Placeholder("my-netforge-state").
				Value(&result.StateBucket),
			huh.NewInput().
				Title("State Region").
				Placeholder("eu-central-1").
				Value(&result.StateRegion),
		).Title("Remote State"),
	).RunWithContext(ctx)
}

// validatePrefix validates the name prefix format.
func validatePrefix(s string) error {
	if s == "" {
		return errPrefixRequired
	}
	if !prefixRegex.MatchString(s) {
		return errPrefixInvalid
	}
	return nil
}

// validateCIDR validates a CIDR notation string using net.ParseCIDR.
func validateCIDR(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	if _, _, err := net.ParseCIDR(s); err != nil {
		return errCIDRInvalid
	}
	return nil
}

// validateZones validates the comma-separated zone list.
func validateZones(s string) error {
	zones := parseZones(s)
	if len(zones) == 0 {
		return errZonesRequired
	}
	if len(zones) > cidr.MaxZones {
		return errTooManyZones
	}
	return nil
}

// parseZones parses a comma-separated list of zone names.
func parseZones(input string) []string {
	parts := strings.Split(input, ",")
	zones := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			zones = append(zones, trimmed)
		}
	}
	return zones
}
