package convergence

import (
	"fmt"

	"github.com/imamik/netforge/internal/topology"
)

// Op is the kind of change an action performs.
type Op string

const (
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDestroy Op = "destroy"
)

// Action is one planned change to a single resource. Rank is the position in
// the planned order: dependencies before dependents for creates and updates,
// dependents before dependencies for destroys. For updates, Prior carries
// the observed node being replaced; the engine uses its dependency edges to
// sequence the update before destroys of resources it still references.
type Action struct {
	Op    Op
	Node  *topology.Node
	Prior *topology.Node
	Rank  int
}

// String renders the action for logs and plan output.
func (a Action) String() string {
	return fmt.Sprintf("%s %s", a.Op, a.Node.ID)
}
