package tools

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-videoteam/internal/config"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reg, err := NewRegistry(&config.Config{}, nil, logger)
	require.NoError(t, err)
	return reg
}

func TestRegistryRegistersAllTools(t *testing.T) {
	reg := testRegistry(t)

	expected := []string{
		"get_inbox_threads",
		"get_message_detail",
		"search_contacts",
		"get_assignment_modal",
		"get_assignment_defaults",
		"assign_thread",
		"resolve_athlete_ids",
	}
	assert.Len(t, reg.ListTools(), len(expected))

	for _, name := range expected {
		tool, ok := reg.GetTool(name)
		require.True(t, ok, "missing tool %q", name)
		assert.Equal(t, name, tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.InputSchema())
	}

	_, ok := reg.GetTool("unknown_tool")
	assert.False(t, ok)
}

func TestGetToolDefinitions(t *testing.T) {
	reg := testRegistry(t)

	defs := reg.GetToolDefinitions()
	require.Len(t, defs, 7)
	for _, def := range defs {
		assert.NotEmpty(t, def["name"])
		assert.NotEmpty(t, def["description"])
		assert.NotNil(t, def["inputSchema"])
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]interface{}{
		"limit":  float64(25),
		"filter": "unassigned",
	}
	assert.Equal(t, 25, intParam(params, "limit"))
	assert.Equal(t, "unassigned", stringParam(params, "filter"))
	assert.Zero(t, intParam(params, "absent"))
	assert.Empty(t, stringParam(params, "absent"))
}
