package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/workflow"
)

// AssignThreadTool assigns an inbox thread to a video team member
type AssignThreadTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewAssignThreadTool creates a new assign thread tool
func NewAssignThreadTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *AssignThreadTool {
	return &AssignThreadTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *AssignThreadTool) Name() string {
	return "assign_thread"
}

// Description returns the tool description
func (t *AssignThreadTool) Description() string {
	return "Assign an inbox thread to a video team member, resolving the contact and filling stage/status defaults automatically"
}

// InputSchema returns the JSON schema for tool inputs
func (t *AssignThreadTool) InputSchema() map[string]interface{} {
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
			"owner_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Assignee id; defaults to the modal's default owner",
			},
			"stage": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Video progress stage; defaults to the dashboard recommendation",
			},
			"status": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Video progress status; defaults to the dashboard recommendation",
			},
			"contact_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Contact id override, skipping the search step",
			},
			"athlete_main_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Main identifier override, used with contact_id",
			},
			"search_value": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Contact search override; defaults to the modal's pre-filled value",
			},
		},
		"required": []string{"message_id", "item_code"},
	}
}

// Execute executes the tool
func (t *AssignThreadTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	req := workflow.AssignRequest{
		MessageID:   stringParam(params, "message_id"),
		ItemCode:    stringParam(params, "item_code"),
		OwnerID:     stringParam(params, "owner_id"),
		Stage:       stringParam(params, "stage"),
		Status:      stringParam(params, "status"),
		ContactID:   stringParam(params, "contact_id"),
		MainID:      stringParam(params, "athlete_main_id"),
		SearchValue: stringParam(params, "search_value"),
	}
	if req.MessageID == "" || req.ItemCode == "" {
		return nil, fmt.Errorf("message_id and item_code are required")
	}

	return t.bridge.AssignThread(ctx, req)
}
