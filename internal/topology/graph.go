package topology

import (
	"errors"
	"fmt"
	"sort"
)

// ErrGraphIntegrity marks a structural invariant violation in a built graph.
// The construction rules make this unreachable; the check is defensive.
var ErrGraphIntegrity = errors.New("graph integrity violation")

// Graph is the full set of resource nodes for one spec plus their edges.
type Graph struct {
	nodes map[ID]*Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[ID]*Node)}
}

// Add inserts a node. Adding a duplicate identity is an error.
func (g *Graph) Add(n *Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: duplicate node %s", ErrGraphIntegrity, n.ID)
	}
	g.nodes[n.ID] = n
	return nil
}

// Node returns the node with the given identity, if present.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in deterministic order (sorted by identity).
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Validate checks the structural invariants: every dependency references an
// existing node, every non-network node has at least one dependency, and the
// graph is acyclic.
func (g *Graph) Validate() error {
	for id, n := range g.nodes {
		if n.ID.Kind != KindNetwork && len(n.DependsOn) == 0 {
			return fmt.Errorf("%w: node %s has no dependencies", ErrGraphIntegrity, id)
		}
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return fmt.Errorf("%w: node %s depends on unknown node %s", ErrGraphIntegrity, id, dep)
			}
			if dep == id {
				return fmt.Errorf("%w: node %s depends on itself", ErrGraphIntegrity, id)
			}
		}
	}

	if _, err := g.TopoSort(); err != nil {
		return err
	}
	return nil
}

// TopoSort returns the nodes in an order where every node appears after all
// nodes it depends on. Ties break on identity, so the order is stable across
// rebuilds. Returns ErrGraphIntegrity if the graph contains a cycle.
func (g *Graph) TopoSort() ([]*Node, error) {
	indegree := make(map[ID]int, len(g.nodes))
	dependents := make(map[ID][]ID, len(g.nodes))

	for id, n := range g.nodes {
		if _, ok := indegree[id]; !ok {
			indegree[id] = 0
		}
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return nil, fmt.Errorf("%w: node %s depends on unknown node %s", ErrGraphIntegrity, id, dep)
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []ID
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]*Node, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			return ready[i].String() < ready[j].String()
		})
		next := ready[0]
		ready = ready[1:]

		sorted = append(sorted, g.nodes[next])
		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, fmt.Errorf("%w: dependency cycle detected", ErrGraphIntegrity)
	}
	return sorted, nil
}
