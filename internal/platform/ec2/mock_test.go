package ec2

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/netforge/internal/tags"
	"github.com/imamik/netforge/internal/topology"
)

func mockNode(prefix, name string, kind topology.Kind) *topology.Node {
	return &topology.Node{
		ID:    topology.ID{Kind: kind, Name: name},
		Attrs: map[string]string{},
		Tags:  tags.NewBuilder(prefix).WithName(name).Build(),
	}
}

func TestMock_DescribeFiltersByPrefix(t *testing.T) {
	m := NewMock()
	m.Seed(
		mockNode("alpha", "alpha", topology.KindNetwork),
		mockNode("beta", "beta", topology.KindNetwork),
	)

	nodes, err := m.Describe(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "alpha", nodes[0].ID.Name)
}

func TestMock_CreateUpdateDelete(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	node := mockNode("demo", "demo", topology.KindNetwork)

	require.NoError(t, m.Create(ctx, node))
	assert.Equal(t, 1, m.Len())

	node.Attrs["cidr"] = "10.0.0.0/16"
	require.NoError(t, m.Update(ctx, node))
	assert.Equal(t, "10.0.0.0/16", m.Node(node.ID).Attrs["cidr"])

	require.NoError(t, m.Delete(ctx, node))
	assert.Equal(t, 0, m.Len())

	// Deleting again converges instead of failing.
	require.NoError(t, m.Delete(ctx, node))
}

func TestMock_UpdateMissingNodeFails(t *testing.T) {
	m := NewMock()
	err := m.Update(context.Background(), mockNode("demo", "demo", topology.KindNetwork))
	assert.Error(t, err)
}

func TestMock_FailureInjection(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	node := mockNode("demo", "demo", topology.KindNetwork)

	boom := errors.New("boom")
	m.FailOnceOn[node.ID] = boom

	assert.ErrorIs(t, m.Create(ctx, node), boom)
	assert.NoError(t, m.Create(ctx, node))

	m.FailOn[node.ID] = boom
	assert.ErrorIs(t, m.Update(ctx, node), boom)
	assert.ErrorIs(t, m.Update(ctx, node), boom)
}

func TestMock_SeedDoesNotRecordCalls(t *testing.T) {
	m := NewMock()
	m.Seed(mockNode("demo", "demo", topology.KindNetwork))
	assert.Empty(t, m.Calls)

	require.NoError(t, m.Delete(context.Background(), mockNode("demo", "demo", topology.KindNetwork)))
	assert.Equal(t, []string{"delete network/demo"}, m.Calls)
}
