// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/imamik/netforge/internal/cidr"
	"github.com/imamik/netforge/internal/config"
	"github.com/imamik/netforge/internal/convergence"
	"github.com/imamik/netforge/internal/platform/ec2"
	"github.com/imamik/netforge/internal/platform/s3"
	"github.com/imamik/netforge/internal/topology"
)

// SnapshotStore is the persistence surface handlers need. *s3.StateStore
// implements it; tests substitute an in-memory store.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *s3.Snapshot) error
	Load(ctx context.Context, prefix string) (*s3.Snapshot, error)
	Delete(ctx context.Context, prefix string) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadSpecFile loads the spec from a file.
	loadSpecFile = config.LoadFile

	// findSpecFile locates the default spec file.
	findSpecFile = config.FindSpecFile

	// newProvider creates the infrastructure backend.
	newProvider = func(ctx context.Context) (convergence.Provider, error) {
		return ec2.NewRealClient(ctx, "")
	}

	// newStateStore creates the snapshot store for a spec with remote state
	// configured.
	newStateStore = func(ctx context.Context, spec *config.Spec) (SnapshotStore, error) {
		client, err := s3.NewClient(ctx, spec.State.Region)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx, spec.State.Bucket); err != nil {
			return nil, err
		}
		return s3.NewStateStore(client, spec.State.Bucket), nil
	}
)

// loadSpec loads and validates the topology spec. If configPath is empty, it
// looks for netforge.yaml in the current directory.
func loadSpec(configPath string) (*config.Spec, error) {
	if configPath == "" {
		path, err := findSpecFile()
		if err != nil {
			return nil, err
		}
		configPath = path
	}
	return loadSpecFile(configPath)
}

// buildDesired derives the desired resource graph from the spec.
func buildDesired(spec *config.Spec) (*topology.Graph, error) {
	alloc, err := cidr.Allocate(spec.TopBlock, len(spec.Zones))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate subnet blocks: %w", err)
	}
	graph, err := topology.Build(spec, alloc)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource graph: %w", err)
	}
	return graph, nil
}

// newEngine builds a convergence engine tuned by the spec's apply settings.
func newEngine(provider convergence.Provider, spec *config.Spec, opts ...convergence.Option) *convergence.Engine {
	base := []convergence.Option{
		convergence.WithConcurrency(spec.Apply.Concurrency),
		convergence.WithRetry(spec.Apply.RetryMaxAttempts, time.Second),
	}
	return convergence.New(provider, append(base, opts...)...)
}

// warnOnSpecDrift compares the persisted snapshot's fingerprint against the
// current spec and logs when the spec changed since the last apply.
func warnOnSpecDrift(ctx context.Context, store SnapshotStore, spec *config.Spec) {
	snapshot, err := store.Load(ctx, spec.ID())
	if err != nil {
		return
	}
	if snapshot.Fingerprint != spec.Fingerprint() {
		log.Printf("Note: spec changed since last apply (%s -> %s)", snapshot.Fingerprint, spec.Fingerprint())
	}
}

// saveSnapshot persists what the provider reports after an operation.
// Failures are logged, not fatal: the account, not the snapshot, is the
// source of truth.
func saveSnapshot(ctx context.Context, store SnapshotStore, spec *config.Spec, observed *convergence.ObservedState) {
	err := store.Save(ctx, &s3.Snapshot{
		Prefix:      spec.ID(),
		Fingerprint: spec.Fingerprint(),
		TakenAt:     time.Now().UTC(),
		Nodes:       observed.Nodes(),
	})
	if err != nil {
		log.Printf("Warning: failed to save state snapshot: %v", err)
	}
}
