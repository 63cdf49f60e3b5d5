package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/netforge/internal/convergence"
	"github.com/imamik/netforge/internal/retry"
	"github.com/imamik/netforge/internal/topology"
)

func TestApply_CreatesFullTopology(t *testing.T) {
	mock := useMockProvider(t)
	path := writeSpecFile(t, "")

	require.NoError(t, Apply(context.Background(), path))

	// 3 zones, single NAT: network, igw, 6 subnets, 1 nat, 2 route
	// tables, 6 associations.
	assert.Equal(t, 17, mock.Len())
}

func TestApply_SecondRunIsNoOp(t *testing.T) {
	mock := useMockProvider(t)
	path := writeSpecFile(t, "")

	require.NoError(t, Apply(context.Background(), path))
	created := len(mock.Calls)

	require.NoError(t, Apply(context.Background(), path))
	assert.Equal(t, created, len(mock.Calls), "second apply should not touch the provider")
}

func TestApply_PartialFailureReturnsError(t *testing.T) {
	mock := useMockProvider(t)
	path := writeSpecFile(t, "")

	igw := topology.ID{Kind: topology.KindInternetGateway, Name: "demo-igw"}
	mock.FailOn[igw] = retry.Fatal(errors.New("quota exceeded"))

	err := Apply(context.Background(), path)
	require.Error(t, err)

	var partial *convergence.PartialApplyError
	assert.ErrorAs(t, err, &partial)
	assert.NotEmpty(t, partial.Result.Failed)
	assert.NotEmpty(t, partial.Result.Skipped)
}

func TestApply_FailedApplyIsResumable(t *testing.T) {
	mock := useMockProvider(t)
	path := writeSpecFile(t, "")

	igw := topology.ID{Kind: topology.KindInternetGateway, Name: "demo-igw"}
	mock.FailOnceOn[igw] = retry.Fatal(errors.New("flake"))

	require.Error(t, Apply(context.Background(), path))
	require.NoError(t, Apply(context.Background(), path))
	assert.Equal(t, 17, mock.Len())
}

func TestApply_SavesSnapshot(t *testing.T) {
	useMockProvider(t)
	store := useMemoryStateStore(t)
	path := writeSpecFile(t, `state:
  bucket: demo-state
  region: eu-central-1
`)

	require.NoError(t, Apply(context.Background(), path))

	snapshot, ok := store.snapshots["demo"]
	require.True(t, ok)
	assert.Len(t, snapshot.Nodes, 17)
	assert.NotEmpty(t, snapshot.Fingerprint)
}

func TestApply_MissingSpecFileFails(t *testing.T) {
	useMockProvider(t)
	err := Apply(context.Background(), "/nonexistent/netforge.yaml")
	assert.Error(t, err)
}
