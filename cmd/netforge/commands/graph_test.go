package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph(t *testing.T) {
	cmd := Graph()

	require.NotNil(t, cmd)
	assert.Equal(t, "graph", cmd.Use)
}

func TestGraph_Flags(t *testing.T) {
	cmd := Graph()

	formatFlag := cmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "f", formatFlag.Shorthand)
	assert.Equal(t, "dot", formatFlag.DefValue)

	clusterFlag := cmd.Flags().Lookup("cluster")
	require.NotNil(t, clusterFlag)
	assert.Equal(t, "false", clusterFlag.DefValue)
}
