package s3

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imamik/netforge/internal/topology"
)

// ObjectStore is the object surface the state store runs on. *Client
// implements it; tests use an in-memory map.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}

// Snapshot is the state record persisted after a successful refresh or
// apply: what was observed, for which spec revision, and when.
type Snapshot struct {
	Prefix      string           `json:"prefix"`
	Fingerprint string           `json:"fingerprint"`
	TakenAt     time.Time        `json:"takenAt"`
	Nodes       []*topology.Node `json:"nodes"`
}

// StateStore reads and writes snapshots under a fixed bucket.
type StateStore struct {
	objects ObjectStore
	bucket  string
}

// NewStateStore builds a state store over an object backend.
func NewStateStore(objects ObjectStore, bucket string) *StateStore {
	return &StateStore{objects: objects, bucket: bucket}
}

// snapshotKey returns the object key for one topology's snapshot.
func snapshotKey(prefix string) string {
	return fmt.Sprintf("netforge/%s/observed.json", prefix)
}

// Save persists a snapshot, replacing any previous one for the prefix.
func (s *StateStore) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for %q: %w", snapshot.Prefix, err)
	}
	if err := s.objects.PutObject(ctx, s.bucket, snapshotKey(snapshot.Prefix), data); err != nil {
		return fmt.Errorf("failed to save snapshot for %q: %w", snapshot.Prefix, err)
	}
	return nil
}

// Load returns the stored snapshot for a prefix. A missing snapshot is
// reported with ErrObjectNotFound so first runs can treat it as empty state.
func (s *StateStore) Load(ctx context.Context, prefix string) (*Snapshot, error) {
	data, err := s.objects.GetObject(ctx, s.bucket, snapshotKey(prefix))
	if err != nil {
		return nil, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %q: %w", prefix, err)
	}
	return &snapshot, nil
}

// Delete removes the snapshot for a prefix, typically after a full destroy.
func (s *StateStore) Delete(ctx context.Context, prefix string) error {
	if err := s.objects.DeleteObject(ctx, s.bucket, snapshotKey(prefix)); err != nil {
		return fmt.Errorf("failed to delete snapshot for %q: %w", prefix, err)
	}
	return nil
}
