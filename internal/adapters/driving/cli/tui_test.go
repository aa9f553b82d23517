package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_Long(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "Upload")
	assert.Contains(t, tuiCmd.Long, "Browse")
	assert.Contains(t, tuiCmd.Long, "Admin")
}

func TestTUICmd_RequiresGate(t *testing.T) {
	loaded = &Services{}
	t.Cleanup(func() { loaded = nil })

	_, err := run(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
}

func TestMCPCmd_Subcommands(t *testing.T) {
	require.Len(t, mcpCmd.Commands(), 1)
	assert.Equal(t, "serve", mcpServeCmd.Name())

	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServe_RequiresGate(t *testing.T) {
	loaded = &Services{}
	t.Cleanup(func() { loaded = nil })

	_, err := run(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session gate is required")
}
