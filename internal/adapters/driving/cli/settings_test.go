package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range settingsCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"list", "get", "set"}, names)
}

func TestSettingsCmd_SetGetList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "output.indent", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "output.indent = 4")

	out, err = execute(t, "settings", "get", "output.indent")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "output.indent = 4\n")
	assert.Contains(t, out, "iterate.context = false (default)")
}

func TestSettingsCmd_Errors(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "get", "no.such.key")
	assert.Error(t, err)

	_, err = execute(t, "settings", "set", "output.indent", "wide")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set output.indent")
}
