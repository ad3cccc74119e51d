package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
)

// GetMessageDetailTool fetches the full body of one message
type GetMessageDetailTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewGetMessageDetailTool creates a new message detail tool
func NewGetMessageDetailTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *GetMessageDetailTool {
	return &GetMessageDetailTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *GetMessageDetailTool) Name() string {
	return "get_message_detail"
}

// Description returns the tool description
func (t *GetMessageDetailTool) Description() string {
	return "Fetch the full message body for a thread, with quoted reply chains stripped"
}

// InputSchema returns the JSON schema for tool inputs
func (t *GetMessageDetailTool) InputSchema() map[string]interface{} {
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
func (t *GetMessageDetailTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	messageID := stringParam(params, "message_id")
	itemCode := stringParam(params, "item_code")
	if messageID == "" || itemCode == "" {
		return nil, fmt.Errorf("message_id and item_code are required")
	}

	return t.bridge.GetMessageDetail(ctx, messageID, itemCode)
}
