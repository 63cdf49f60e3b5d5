package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// NATMode selects the cost/availability trade-off for private-tier egress.
type NATMode string

const (
	// NATModeSingle provisions one NAT gateway in the first public subnet,
	// shared by every private subnet. Cheapest, single point of failure.
	NATModeSingle NATMode = "single"

	// NATModePerZone provisions one NAT gateway per zone, each serving the
	// private subnet of the same zone. Survives a zone outage.
	NATModePerZone NATMode = "per-zone"
)

// Spec is the declarative input for one network topology.
// It is immutable once loaded; planning never mutates it.
type Spec struct {
	// NamePrefix is prepended to every resource name.
	NamePrefix string `mapstructure:"name_prefix" yaml:"name_prefix"`

	// TopBlock is the top-level IPv4 CIDR the subnet tiers are carved from.
	TopBlock string `mapstructure:"top_block" yaml:"top_block"`

	// Zones is the ordered list of availability zone identifiers.
	Zones []string `mapstructure:"zones" yaml:"zones"`

	// NATMode is "single" or "per-zone".
	NATMode NATMode `mapstructure:"nat_mode" yaml:"nat_mode"`

	// Tags are merged into every resource's tag set.
	Tags map[string]string `mapstructure:"tags" yaml:"tags"`

	// State configures optional observed-state snapshot persistence.
	State StateConfig `mapstructure:"state" yaml:"state"`

	// Apply configures convergence execution.
	Apply ApplyConfig `mapstructure:"apply" yaml:"apply"`
}

// StateConfig configures the S3 snapshot store. Snapshots are keyed by the
// spec identity so unrelated topologies never cross-contaminate plans.
type StateConfig struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Region string `mapstructure:"region" yaml:"region"`
}

// ApplyConfig tunes the convergence engine.
type ApplyConfig struct {
	// Concurrency bounds the worker pool for independent actions.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`

	// RetryMaxAttempts caps retries of transient provider errors per action.
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
}

// ID returns the stable identity of this topology, used to namespace
// persisted state. Two specs with the same prefix address the same topology.
func (s *Spec) ID() string {
	return s.NamePrefix
}

// Fingerprint returns a digest over the planning-relevant fields. It changes
// whenever a field that affects the generated graph changes, and is recorded
// alongside persisted snapshots to surface spec drift.
func (s *Spec) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", s.NamePrefix, s.TopBlock, strings.Join(s.Zones, ","), s.NATMode)
	return hex.EncodeToString(h.Sum(nil))[:12]
}
