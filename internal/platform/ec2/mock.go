package ec2

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/netforge/internal/tags"
	"github.com/imamik/netforge/internal/topology"
)

// Mock is an in-memory provider backend for tests and dry runs. It honors
// the same contract as RealClient: idempotent creates, no-op deletes of
// absent resources, and tag-scoped listing.
type Mock struct {
	mu    sync.Mutex
	nodes map[topology.ID]*topology.Node

	// Calls records every mutating call as "op kind/name" in order.
	Calls []string

	// FailOn injects a persistent error for an identity.
	FailOn map[topology.ID]error

	// FailOnceOn injects an error for the first call touching an identity.
	FailOnceOn map[topology.ID]error
}

// NewMock returns an empty mock backend.
func NewMock() *Mock {
	return &Mock{
		nodes:      make(map[topology.ID]*topology.Node),
		FailOn:     make(map[topology.ID]error),
		FailOnceOn: make(map[topology.ID]error),
	}
}

// Seed preloads observed state without recording calls.
func (m *Mock) Seed(nodes ...*topology.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, node := range nodes {
		m.nodes[node.ID] = cloneNode(node)
	}
}

// Describe returns every stored node whose tags place it under the prefix.
func (m *Mock) Describe(_ context.Context, prefix string) ([]*topology.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, value := tags.SelectorForPrefix(prefix)
	var out []*topology.Node
	for _, node := range m.nodes {
		if node.Tags[key] == value {
			out = append(out, cloneNode(node))
		}
	}
	return out, nil
}

func (m *Mock) Create(_ context.Context, node *topology.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(node.ID, "create"); err != nil {
		return err
	}
	m.nodes[node.ID] = cloneNode(node)
	return nil
}

func (m *Mock) Update(_ context.Context, node *topology.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(node.ID, "update"); err != nil {
		return err
	}
	if _, ok := m.nodes[node.ID]; !ok {
		return fmt.Errorf("%s not found", node.ID)
	}
	m.nodes[node.ID] = cloneNode(node)
	return nil
}

func (m *Mock) Delete(_ context.Context, node *topology.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(node.ID, "delete"); err != nil {
		return err
	}
	delete(m.nodes, node.ID)
	return nil
}

// Node returns the stored node for an identity, or nil.
func (m *Mock) Node(id topology.ID) *topology.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.nodes[id]
	if !ok {
		return nil
	}
	return cloneNode(node)
}

// Len returns the number of stored nodes.
func (m *Mock) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// injected records the call and returns any configured failure. Callers hold
// the lock.
func (m *Mock) injected(id topology.ID, op string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("%s %s", op, id))
	if err, ok := m.FailOnceOn[id]; ok {
		delete(m.FailOnceOn, id)
		return err
	}
	if err, ok := m.FailOn[id]; ok {
		return err
	}
	return nil
}

func cloneNode(node *topology.Node) *topology.Node {
	out := &topology.Node{
		ID:    node.ID,
		Attrs: make(map[string]string, len(node.Attrs)),
		Tags:  make(map[string]string, len(node.Tags)),
	}
	for k, v := range node.Attrs {
		out.Attrs[k] = v
	}
	for k, v := range node.Tags {
		out.Tags[k] = v
	}
	out.DependsOn = append(out.DependsOn, node.DependsOn...)
	return out
}
