package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/netforge/internal/convergence"
)

// newMetrics creates the convergence metrics. Replaced in tests to avoid
// double registration on the default registerer.
var newMetrics = func() *convergence.Metrics {
	return convergence.NewMetrics(prometheus.DefaultRegisterer)
}

// Apply converges the account toward the spec.
//
// The workflow:
//  1. Load and validate the topology spec
//  2. Derive the desired resource graph from the CIDR allocation
//  3. Refresh observed state from the provider
//  4. Compute and execute the action plan in dependency order
//  5. Persist a state snapshot when remote state is configured
//
// A partially failed apply returns an error enumerating what failed and
// what was skipped; rerunning apply resumes from the observed state.
func Apply(ctx context.Context, configPath string) error {
	spec, err := loadSpec(configPath)
	if err != nil {
		return err
	}

	log.Printf("Applying topology: %s", spec.ID())

	graph, err := buildDesired(spec)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}
	engine := newEngine(provider, spec,
		convergence.WithObserver(convergence.NewConsoleObserver()),
		convergence.WithMetrics(newMetrics()),
	)

	var store SnapshotStore
	if spec.State.Bucket != "" {
		store, err = newStateStore(ctx, spec)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		warnOnSpecDrift(ctx, store, spec)
	}

	observed, err := engine.Refresh(ctx, spec.ID())
	if err != nil {
		return err
	}

	actions, err := convergence.Plan(graph, observed)
	if err != nil {
		return err
	}

	if len(actions) == 0 {
		log.Printf("No changes. Topology %q matches the spec.", spec.ID())
		if store != nil {
			saveSnapshot(ctx, store, spec, observed)
		}
		return nil
	}

	result := engine.Apply(ctx, actions)

	if store != nil {
		if after, refreshErr := engine.Refresh(ctx, spec.ID()); refreshErr == nil {
			saveSnapshot(ctx, store, spec, after)
		} else {
			log.Printf("Warning: failed to refresh state for snapshot: %v", refreshErr)
		}
	}

	if err := result.Err(); err != nil {
		return fmt.Errorf("apply incomplete: %w", err)
	}

	log.Printf("Topology %s applied: %d action(s) completed", spec.ID(), len(result.Applied))
	return nil
}
