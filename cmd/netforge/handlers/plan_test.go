package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_DoesNotMutateProvider(t *testing.T) {
	mock := useMockProvider(t)
	path := writeSpecFile(t, "")

	require.NoError(t, Plan(context.Background(), path, false))
	assert.Empty(t, mock.Calls, "plan must never call mutating provider operations")
}

func TestPlan_AfterApplyReportsNoChanges(t *testing.T) {
	mock := useMockProvider(t)
	path := writeSpecFile(t, "")

	require.NoError(t, Apply(context.Background(), path))
	calls := len(mock.Calls)

	require.NoError(t, Plan(context.Background(), path, false))
	assert.Equal(t, calls, len(mock.Calls))
}

func TestPlan_DetailedExitcode(t *testing.T) {
	useMockProvider(t)
	path := writeSpecFile(t, "")

	err := Plan(context.Background(), path, true)
	require.ErrorIs(t, err, ErrChangesPending)

	require.NoError(t, Apply(context.Background(), path))
	assert.NoError(t, Plan(context.Background(), path, true))
}

func TestPlan_InvalidSpecFails(t *testing.T) {
	useMockProvider(t)
	path := writeSpecFile(t, "nat_mode: sideways\n")

	assert.Error(t, Plan(context.Background(), path, false))
}
