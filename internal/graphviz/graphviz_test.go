package graphviz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/netforge/internal/cidr"
	"github.com/imamik/netforge/internal/config"
	"github.com/imamik/netforge/internal/topology"
)

func demoGraph(t *testing.T) *topology.Graph {
	t.Helper()
	spec := &config.Spec{
		NamePrefix: "demo",
		TopBlock:   "10.0.0.0/16",
		Zones:      []string{"eu-central-1a", "eu-central-1b"},
		NATMode:    config.NATModeSingle,
	}
	alloc, err := cidr.Allocate(spec.TopBlock, len(spec.Zones))
	require.NoError(t, err)
	graph, err := topology.Build(spec, alloc)
	require.NoError(t, err)
	return graph
}

func TestGenerateString_DOT(t *testing.T) {
	g := &Generator{}
	out, err := g.GenerateString(demoGraph(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph"))
	assert.Contains(t, out, `"network/demo"`)
	assert.Contains(t, out, `"internet-gateway/demo-igw"`)
	assert.Contains(t, out, `label="demo-igw"`)

	// Gateway depends on the network.
	assert.Contains(t, out, `"internet-gateway/demo-igw"->"network/demo"`)
}

func TestGenerateString_Mermaid(t *testing.T) {
	g := &Generator{Format: FormatMermaid}
	out, err := g.GenerateString(demoGraph(t))
	require.NoError(t, err)

	assert.Contains(t, out, "graph TB")
	assert.Contains(t, out, "demo-igw")
}

func TestGenerate_ClusterByKind(t *testing.T) {
	g := &Generator{ClusterByKind: true}
	out, err := g.GenerateString(demoGraph(t))
	require.NoError(t, err)

	assert.Contains(t, out, "subgraph")
	assert.Contains(t, out, "subnet")
}

func TestGenerate_EveryNodeRendered(t *testing.T) {
	graph := demoGraph(t)
	g := &Generator{}
	out, err := g.GenerateString(graph)
	require.NoError(t, err)

	for _, node := range graph.Nodes() {
		assert.Contains(t, out, node.ID.String())
	}
}
