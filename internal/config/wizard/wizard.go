package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/netforge/internal/config"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Topology identity
	NamePrefix string
	TopBlock   string

	// Zones the subnet pairs span.
	Zones []string

	// NATMode is "single" or "per-zone".
	NATMode string

	// Remote state (optional)
	UseRemoteState bool
	StateBucket    string
	StateRegion    string
}

// RunWizard runs the interactive spec wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("topology identity: %w", err)
	}

	if err := runZonesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("zones: %w", err)
	}

	if err := runNATGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("nat mode: %w", err)
	}

	if err := runStateGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}

	return result, nil
}

// ToSpec converts wizard answers into a validated spec.
func (r *Result) ToSpec() (*config.Spec, error) {
	spec := &config.Spec{
		NamePrefix: r.NamePrefix,
		TopBlock:   r.TopBlock,
		Zones:      r.Zones,
		NATMode:    config.NATMode(r.NATMode),
	}
	if r.UseRemoteState {
		spec.State = config.StateConfig{
			Bucket: r.StateBucket,
			Region: r.StateRegion,
		}
	}

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
