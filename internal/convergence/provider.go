package convergence

import (
	"context"
	"sort"

	"github.com/imamik/netforge/internal/topology"
)

// Provider is the infrastructure backend the engine converges against.
//
// Create must be idempotent: creating a resource that already exists with
// matching attributes is a no-op, not an error. Implementations mark
// non-retryable failures with retry.Fatal; everything else is treated as
// transient and retried by the engine.
type Provider interface {
	// Describe returns a snapshot of all live resources managed under the
	// given name prefix, with dependency references reconstructed.
	Describe(ctx context.Context, prefix string) ([]*topology.Node, error)

	// Create materializes the resource described by the node.
	Create(ctx context.Context, node *topology.Node) error

	// Update converges an existing resource's mutable attributes.
	Update(ctx context.Context, node *topology.Node) error

	// Delete removes the resource. Deleting an absent resource is a no-op.
	Delete(ctx context.Context, node *topology.Node) error
}

// ObservedState is a snapshot of provider-side reality, keyed by identity.
// It is taken once at the start of a planning cycle and never refreshed
// mid-apply; external mutation during an apply surfaces on the next cycle.
type ObservedState struct {
	nodes map[topology.ID]*topology.Node
}

// NewObservedState builds a snapshot from a list of observed nodes.
func NewObservedState(nodes []*topology.Node) *ObservedState {
	o := &ObservedState{nodes: make(map[topology.ID]*topology.Node, len(nodes))}
	for _, n := range nodes {
		o.nodes[n.ID] = n
	}
	return o
}

// Node returns the observed node with the given identity, if present.
func (o *ObservedState) Node(id topology.ID) (*topology.Node, bool) {
	n, ok := o.nodes[id]
	return n, ok
}

// Nodes returns the observed nodes in deterministic order.
func (o *ObservedState) Nodes() []*topology.Node {
	out := make([]*topology.Node, 0, len(o.nodes))
	for _, n := range o.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Len returns the number of observed nodes.
func (o *ObservedState) Len() int {
	return len(o.nodes)
}
