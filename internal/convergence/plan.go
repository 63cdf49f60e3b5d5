package convergence

import (
	"fmt"

	"github.com/imamik/netforge/internal/topology"
)

// Plan diffs the desired graph against the observed snapshot.
//
// Nodes absent from observed become creates, nodes present with differing
// attributes become updates, and observed nodes absent from the graph become
// destroys. Destroys come first (dependents before dependencies), then
// creates and updates in topological order. Planning is pure: it performs no
// I/O and never mutates its inputs.
func Plan(graph *topology.Graph, observed *ObservedState) ([]Action, error) {
	destroys, err := planDestroys(graph, observed)
	if err != nil {
		return nil, err
	}

	sorted, err := graph.TopoSort()
	if err != nil {
		return nil, err
	}

	actions := destroys
	for _, node := range sorted {
		live, ok := observed.Node(node.ID)
		switch {
		case !ok:
			actions = append(actions, Action{Op: OpCreate, Node: node})
		case !node.Matches(live):
			actions = append(actions, Action{Op: OpUpdate, Node: node, Prior: live})
		}
	}

	for i := range actions {
		actions[i].Rank = i
	}
	return actions, nil
}

// planDestroys orders the observed-only nodes in reverse topological order,
// so that, e.g., a route-table association is destroyed before the route
// table it references.
func planDestroys(graph *topology.Graph, observed *ObservedState) ([]Action, error) {
	doomed := make(map[topology.ID]bool)
	for _, node := range observed.Nodes() {
		if _, desired := graph.Node(node.ID); !desired {
			doomed[node.ID] = true
		}
	}
	if len(doomed) == 0 {
		return nil, nil
	}

	// Only edges within the destroy set constrain destroy order; edges into
	// surviving or unknown resources are dropped.
	stale := topology.NewGraph()
	for _, node := range observed.Nodes() {
		if !doomed[node.ID] {
			continue
		}
		trimmed := &topology.Node{ID: node.ID, Attrs: node.Attrs, Tags: node.Tags}
		for _, dep := range node.DependsOn {
			if doomed[dep] {
				trimmed.DependsOn = append(trimmed.DependsOn, dep)
			}
		}
		if err := stale.Add(trimmed); err != nil {
			return nil, err
		}
	}

	sorted, err := stale.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("observed state is not destroyable in order: %w", err)
	}

	actions := make([]Action, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		actions = append(actions, Action{Op: OpDestroy, Node: sorted[i]})
	}
	return actions, nil
}
