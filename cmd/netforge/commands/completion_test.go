package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	cmd := Completion()

	require.NotNil(t, cmd)
	assert.Equal(t, "completion", cmd.Name())
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	cmd := Completion()
	err := cmd.Args(cmd, []string{"tcsh"})
	assert.Error(t, err)
}

func TestCompletion_RequiresExactlyOneArg(t *testing.T) {
	cmd := Completion()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.Error(t, cmd.Args(cmd, []string{"bash", "zsh"}))
	assert.NoError(t, cmd.Args(cmd, []string{"bash"}))
}
