package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/netforge/internal/config"
)

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid simple", input: "demo"},
		{name: "valid with hyphens", input: "prod-eu-west"},
		{name: "valid with digits", input: "net42"},
		{name: "empty", input: "", wantErr: errPrefixRequired},
		{name: "starts with digit", input: "1net", wantErr: errPrefixInvalid},
		{name: "uppercase", input: "Demo", wantErr: errPrefixInvalid},
		{name: "too long", input: "a-very-long-prefix-that-exceeds-the-character-limit", wantErr: errPrefixInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePrefix(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCIDR(t *testing.T) {
	assert.NoError(t, validateCIDR("10.0.0.0/16"))
	assert.ErrorIs(t, validateCIDR(""), errCIDRRequired)
	assert.ErrorIs(t, validateCIDR("10.0.0.0"), errCIDRInvalid)
	assert.ErrorIs(t, validateCIDR("not-a-cidr"), errCIDRInvalid)
}

func TestValidateZones(t *testing.T) {
	assert.NoError(t, validateZones("eu-central-1a"))
	assert.NoError(t, validateZones("a, b, c"))
	assert.ErrorIs(t, validateZones(""), errZonesRequired)
	assert.ErrorIs(t, validateZones(" , , "), errZonesRequired)
	assert.ErrorIs(t, validateZones("a,b,c,d,e,f,g,h,i"), errTooManyZones)
}

func TestParseZones(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseZones("a, b"))
	assert.Equal(t, []string{"a"}, parseZones("  a  "))
	assert.Empty(t, parseZones(""))
	assert.Equal(t, []string{"a", "b"}, parseZones("a,,b,"))
}

func TestResult_ToSpec(t *testing.T) {
	result := &Result{
		NamePrefix:     "demo",
		TopBlock:       "172.16.0.0/16",
		Zones:          []string{"eu-central-1a", "eu-central-1b"},
		NATMode:        "per-zone",
		UseRemoteState: true,
		StateBucket:    "demo-state",
		StateRegion:    "eu-central-1",
	}

	spec, err := result.ToSpec()
	require.NoError(t, err)

	assert.Equal(t, "demo", spec.NamePrefix)
	assert.Equal(t, "172.16.0.0/16", spec.TopBlock)
	assert.Equal(t, config.NATModePerZone, spec.NATMode)
	assert.Equal(t, "demo-state", spec.State.Bucket)

	// Defaults for unasked fields.
	assert.Equal(t, config.DefaultConcurrency, spec.Apply.Concurrency)
	assert.Equal(t, config.DefaultRetryMax, spec.Apply.RetryMaxAttempts)
}

func TestResult_ToSpecAppliesDefaults(t *testing.T) {
	result := &Result{
		NamePrefix: "demo",
		Zones:      []string{"eu-central-1a"},
	}

	spec, err := result.ToSpec()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTopBlock, spec.TopBlock)
	assert.Equal(t, config.DefaultNATMode, spec.NATMode)
}

func TestResult_ToSpecValidates(t *testing.T) {
	result := &Result{
		NamePrefix: "Invalid Prefix",
		Zones:      []string{"eu-central-1a"},
	}

	_, err := result.ToSpec()
	assert.ErrorIs(t, err, config.ErrInvalidSpec)
}
