package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
)

// GetAssignmentDefaultsTool looks up the recommended stage/status for a contact
type GetAssignmentDefaultsTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewGetAssignmentDefaultsTool creates a new assignment defaults tool
func NewGetAssignmentDefaultsTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *GetAssignmentDefaultsTool {
	return &GetAssignmentDefaultsTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *GetAssignmentDefaultsTool) Name() string {
	return "get_assignment_defaults"
}

// Description returns the tool description
func (t *GetAssignmentDefaultsTool) Description() string {
	return "Look up the recommended video progress stage and status for a contact. Empty when the dashboard has no recommendation"
}

// InputSchema returns the JSON schema for tool inputs
func (t *GetAssignmentDefaultsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"contact_id": map[string]interface{}{
				"type":        "string",
				"description": "Contact identifier from a search or the inbox listing",
			},
		},
		"required": []string{"contact_id"},
	}
}

// Execute executes the tool
func (t *GetAssignmentDefaultsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	contactID := stringParam(params, "contact_id")
	if contactID == "" {
		return nil, fmt.Errorf("contact_id is required")
	}

	return t.bridge.GetAssignmentDefaults(ctx, contactID), nil
}
