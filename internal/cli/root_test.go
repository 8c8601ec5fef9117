package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootInvalidFormat(t *testing.T) {
	_, err := executeCommand(t, "--format", "xml", "history", "--db", "x.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootUnknownFlag(t *testing.T) {
	_, err := executeCommand(t, "recommend", "--no-such-flag")
	require.Error(t, err)
}

func TestRootMissingRequiredFlag(t *testing.T) {
	_, err := executeCommand(t, "recommend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dagpropertydir")
}

func TestRootHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["recommend"])
	assert.True(t, names["history"])
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
}
