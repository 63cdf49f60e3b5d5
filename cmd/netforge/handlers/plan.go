package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/imamik/netforge/internal/convergence"
)

// ErrChangesPending is returned by Plan in detailed-exitcode mode when the
// account does not match the spec. Callers map it to a distinct exit code.
var ErrChangesPending = errors.New("changes pending")

// Plan previews the changes an apply would make.
//
// It derives the desired graph from the spec, refreshes observed state from
// the provider, and prints the resulting actions without executing any.
// With detailedExitcode set, a non-empty plan returns ErrChangesPending.
func Plan(ctx context.Context, configPath string, detailedExitcode bool) error {
	spec, err := loadSpec(configPath)
	if err != nil {
		return err
	}

	graph, err := buildDesired(spec)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}
	engine := newEngine(provider, spec)

	if spec.State.Bucket != "" {
		if store, err := newStateStore(ctx, spec); err == nil {
			warnOnSpecDrift(ctx, store, spec)
		}
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
		return nil
	}

	log.Printf("Plan for %q: %d action(s)", spec.ID(), len(actions))
	for _, action := range actions {
		fmt.Printf("  %s\n", action)
	}
	if detailedExitcode {
		return fmt.Errorf("%w: %d action(s)", ErrChangesPending, len(actions))
	}
	return nil
}
