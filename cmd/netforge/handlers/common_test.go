package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/imamik/netforge/internal/config"
	"github.com/imamik/netforge/internal/convergence"
	"github.com/imamik/netforge/internal/platform/ec2"
	"github.com/imamik/netforge/internal/platform/s3"
)

// writeSpecFile writes a three-zone spec to a temp dir and returns its path.
func writeSpecFile(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netforge.yaml")
	content := `name_prefix: demo
zones:
  - eu-central-1a
  - eu-central-1b
  - eu-central-1c
` + extra
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// useMockProvider swaps the provider factory for an in-memory mock and
// restores it when the test ends.
func useMockProvider(t *testing.T) *ec2.Mock {
	t.Helper()
	mock := ec2.NewMock()
	original := newProvider
	newProvider = func(context.Context) (convergence.Provider, error) {
		return mock, nil
	}
	t.Cleanup(func() { newProvider = original })

	originalMetrics := newMetrics
	newMetrics = func() *convergence.Metrics { return nil }
	t.Cleanup(func() { newMetrics = originalMetrics })

	return mock
}

// memorySnapshotStore is an in-memory SnapshotStore for handler tests.
type memorySnapshotStore struct {
	snapshots map[string]*s3.Snapshot
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{snapshots: make(map[string]*s3.Snapshot)}
}

func (m *memorySnapshotStore) Save(_ context.Context, snapshot *s3.Snapshot) error {
	m.snapshots[snapshot.Prefix] = snapshot
	return nil
}

func (m *memorySnapshotStore) Load(_ context.Context, prefix string) (*s3.Snapshot, error) {
	snapshot, ok := m.snapshots[prefix]
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", prefix, s3.ErrObjectNotFound)
	}
	return snapshot, nil
}

func (m *memorySnapshotStore) Delete(_ context.Context, prefix string) error {
	delete(m.snapshots, prefix)
	return nil
}

// useMemoryStateStore swaps the state store factory and restores it after.
func useMemoryStateStore(t *testing.T) *memorySnapshotStore {
	t.Helper()
	store := newMemorySnapshotStore()
	original := newStateStore
	newStateStore = func(context.Context, *config.Spec) (SnapshotStore, error) {
		return store, nil
	}
	t.Cleanup(func() { newStateStore = original })
	return store
}
