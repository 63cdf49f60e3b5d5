package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(kind Kind, name string, deps ...ID) *Node {
	return &Node{
		ID:        ID{Kind: kind, Name: name},
		Attrs:     map[string]string{},
		Tags:      map[string]string{},
		DependsOn: deps,
	}
}

func TestGraph_AddDuplicate(t *testing.T) {
	t.Parallel()
	g := NewGraph()
	require.NoError(t, g.Add(node(KindNetwork, "net")))

	err := g.Add(node(KindNetwork, "net"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
}

func TestGraph_Validate_OK(t *testing.T) {
	t.Parallel()
	g := NewGraph()
	net := node(KindNetwork, "net")
	require.NoError(t, g.Add(net))
	require.NoError(t, g.Add(node(KindInternetGateway, "igw", net.ID)))

	assert.NoError(t, g.Validate())
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	t.Parallel()
	g := NewGraph()
	require.NoError(t, g.Add(node(KindNetwork, "net")))
	require.NoError(t, g.Add(node(KindSubnet, "sub", ID{Kind: KindNetwork, Name: "ghost"})))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
}

func TestGraph_Validate_OrphanNode(t *testing.T) {
	t.Parallel()
	g := NewGraph()
	require.NoError(t, g.Add(node(KindNetwork, "net")))
	require.NoError(t, g.Add(node(KindSubnet, "orphan")))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "no dependencies")
}

func TestGraph_Validate_SelfDependency(t *testing.T) {
	t.Parallel()
	g := NewGraph()
	self := ID{Kind: KindSubnet, Name: "loop"}
	require.NoError(t, g.Add(node(KindNetwork, "net")))
	require.NoError(t, g.Add(node(KindSubnet, "loop", self)))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
}

func TestGraph_TopoSort_Cycle(t *testing.T) {
	t.Parallel()
	g := NewGraph()
	a := ID{Kind: KindSubnet, Name: "a"}
	b := ID{Kind: KindSubnet, Name: "b"}
	require.NoError(t, g.Add(node(KindSubnet, "a", b)))
	require.NoError(t, g.Add(node(KindSubnet, "b", a)))

	_, err := g.TopoSort()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "cycle")
}

func TestGraph_TopoSort_Deterministic(t *testing.T) {
	t.Parallel()
	build := func() *Graph {
		g := NewGraph()
		net := node(KindNetwork, "net")
		require.NoError(t, g.Add(net))
		for _, name := range []string{"c", "a", "b"} {
			require.NoError(t, g.Add(node(KindSubnet, name, net.ID)))
		}
		return g
	}

	first, err := build().TopoSort()
	require.NoError(t, err)
	second, err := build().TopoSort()
	require.NoError(t, err)

	require.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	// Siblings in identity order
	assert.Equal(t, "a", first[1].ID.Name)
	assert.Equal(t, "b", first[2].ID.Name)
	assert.Equal(t, "c", first[3].ID.Name)
}

func TestNode_Matches(t *testing.T) {
	t.Parallel()
	a := &Node{Attrs: map[string]string{"cidr": "10.0.0.0/20"}, Tags: map[string]string{"Name": "x"}}
	b := &Node{Attrs: map[string]string{"cidr": "10.0.0.0/20"}, Tags: map[string]string{"Name": "x"}}
	c := &Node{Attrs: map[string]string{"cidr": "10.0.16.0/20"}, Tags: map[string]string{"Name": "x"}}

	assert.True(t, a.Matches(b))
	assert.False(t, a.Matches(c))
	assert.False(t, a.Matches(nil))
}
