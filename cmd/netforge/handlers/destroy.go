package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/imamik/netforge/internal/convergence"
	"github.com/imamik/netforge/internal/topology"
)

// confirmDestroy prompts for confirmation. Replaced in tests.
var confirmDestroy = defaultConfirmDestroy

// Destroy tears down every resource managed under the spec's prefix.
//
// Resources are deleted in reverse dependency order. Unless skipConfirm is
// set, the user is asked to confirm after seeing how many resources exist.
func Destroy(ctx context.Context, configPath string, skipConfirm bool) error {
	spec, err := loadSpec(configPath)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}
	engine := newEngine(provider, spec,
		convergence.WithObserver(convergence.NewConsoleObserver()),
	)

	observed, err := engine.Refresh(ctx, spec.ID())
	if err != nil {
		return err
	}

	if observed.Len() == 0 {
		log.Printf("Nothing to destroy under prefix %q.", spec.ID())
		return nil
	}

	if !skipConfirm {
		ok, err := confirmDestroy(spec.ID(), observed.Len())
		if err != nil {
			return err
		}
		if !ok {
			log.Println("Destroy canceled.")
			return nil
		}
	}

	// Planning against an empty desired graph turns every observed
	// resource into a destroy action.
	actions, err := convergence.Plan(topology.NewGraph(), observed)
	if err != nil {
		return err
	}

	result := engine.Apply(ctx, actions)
	if err := result.Err(); err != nil {
		return fmt.Errorf("destroy incomplete: %w", err)
	}

	if spec.State.Bucket != "" {
		if store, storeErr := newStateStore(ctx, spec); storeErr == nil {
			if err := store.Delete(ctx, spec.ID()); err != nil {
				log.Printf("Warning: failed to delete state snapshot: %v", err)
			}
		}
	}

	log.Printf("Topology %s destroyed: %d resource(s) removed", spec.ID(), len(result.Applied))
	return nil
}

// defaultConfirmDestroy prompts via stdin.
func defaultConfirmDestroy(prefix string, count int) (bool, error) {
	fmt.Printf("\nThis will destroy %d resource(s) under prefix %q.\n", count, prefix)
	fmt.Print("Continue? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
