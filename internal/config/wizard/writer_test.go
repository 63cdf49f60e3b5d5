package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/netforge/internal/config"
)

func TestWriteSpec_RoundTripsThroughLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netforge.yaml")

	spec := &config.Spec{
		NamePrefix: "demo",
		TopBlock:   "172.16.0.0/16",
		Zones:      []string{"eu-central-1a", "eu-central-1b"},
		NATMode:    config.NATModePerZone,
	}
	require.NoError(t, WriteSpec(spec, path))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, spec.NamePrefix, loaded.NamePrefix)
	assert.Equal(t, spec.TopBlock, loaded.TopBlock)
	assert.Equal(t, spec.Zones, loaded.Zones)
	assert.Equal(t, spec.NATMode, loaded.NATMode)
}

func TestWriteSpec_OmitsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netforge.yaml")

	spec := &config.Spec{
		NamePrefix: "demo",
		TopBlock:   config.DefaultTopBlock,
		Zones:      []string{"eu-central-1a"},
		NATMode:    config.NATModeSingle,
	}
	require.NoError(t, WriteSpec(spec, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "top_block")
	assert.NotContains(t, content, "state:")
	assert.Contains(t, content, "name_prefix: demo")
}

func TestWriteSpec_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netforge.yaml")

	spec := &config.Spec{
		NamePrefix: "demo",
		Zones:      []string{"eu-central-1a"},
	}
	require.NoError(t, WriteSpec(spec, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# netforge topology spec"))
	assert.Contains(t, string(data), "netforge apply -c "+path)
}

func TestWriteSpec_IncludesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netforge.yaml")

	spec := &config.Spec{
		NamePrefix: "demo",
		Zones:      []string{"eu-central-1a"},
		State:      config.StateConfig{Bucket: "demo-state", Region: "eu-central-1"},
	}
	require.NoError(t, WriteSpec(spec, path))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "demo-state", loaded.State.Bucket)
	assert.Equal(t, "eu-central-1", loaded.State.Region)
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.yaml")
	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	assert.True(t, FileExists(path))
}

func TestConfirmOverwrite_Injected(t *testing.T) {
	original := confirmOverwrite
	defer func() { confirmOverwrite = original }()

	confirmOverwrite = func(string) (bool, error) { return true, nil }
	ok, err := ConfirmOverwrite("some-path")
	require.NoError(t, err)
	assert.True(t, ok)
}
