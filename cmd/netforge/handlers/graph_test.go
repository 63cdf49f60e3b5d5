package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_DOT(t *testing.T) {
	path := writeSpecFile(t, "")

	var out strings.Builder
	require.NoError(t, Graph(path, "dot", false, &out))

	assert.True(t, strings.HasPrefix(out.String(), "digraph"))
	assert.Contains(t, out.String(), "network/demo")
}

func TestGraph_Mermaid(t *testing.T) {
	path := writeSpecFile(t, "")

	var out strings.Builder
	require.NoError(t, Graph(path, "mermaid", false, &out))
	assert.Contains(t, out.String(), "graph TB")
}

func TestGraph_DefaultFormatIsDOT(t *testing.T) {
	path := writeSpecFile(t, "")

	var out strings.Builder
	require.NoError(t, Graph(path, "", false, &out))
	assert.True(t, strings.HasPrefix(out.String(), "digraph"))
}

func TestGraph_UnknownFormat(t *testing.T) {
	path := writeSpecFile(t, "")

	var out strings.Builder
	err := Graph(path, "ascii", false, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown graph format")
}
