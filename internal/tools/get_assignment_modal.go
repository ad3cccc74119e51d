package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
)

// GetAssignmentModalTool fetches the assignment form state for a thread
type GetAssignmentModalTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewGetAssignmentModalTool creates a new assignment modal tool
func NewGetAssignmentModalTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *GetAssignmentModalTool {
	return &GetAssignmentModalTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *GetAssignmentModalTool) Name() string {
	return "get_assignment_modal"
}

// Description returns the tool description
func (t *GetAssignmentModalTool) Description() string {
	return "Fetch the assignment form for a thread: owner, stage, and status options plus pre-filled contact data"
}

// InputSchema returns the JSON schema for tool inputs
func (t *GetAssignmentModalTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"message_id": map[string]interface{}{
				"type":        "string",
				"description": "Thread message id from the inbox listing",
			},
			"item_code": map[string]interface{}{
				"type":        "string",
				"description": "Thread item code from the inbox listing",
			},
		},
		"required": []string{"message_id", "item_code"},
	}
}

// Execute executes the tool
func (t *GetAssignmentModalTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	messageID := stringParam(params, "message_id")
	itemCode := stringParam(params, "item_code")
	if messageID == "" || itemCode == "" {
		return nil, fmt.Errorf("message_id and item_code are required")
	}

	return t.bridge.GetAssignmentModal(ctx, messageID, itemCode)
}
