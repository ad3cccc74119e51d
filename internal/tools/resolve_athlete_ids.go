package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
)

// ResolveAthleteIDsTool resolves main identifiers for contact identifiers
type ResolveAthleteIDsTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewResolveAthleteIDsTool creates a new identifier resolution tool
func NewResolveAthleteIDsTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *ResolveAthleteIDsTool {
	return &ResolveAthleteIDsTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *ResolveAthleteIDsTool) Name() string {
	return "resolve_athlete_ids"
}

// Description returns the tool description
func (t *ResolveAthleteIDsTool) Description() string {
	return "Resolve athlete main identifiers for a batch of contact identifiers, using the local cache where possible"
}

// InputSchema returns the JSON schema for tool inputs
func (t *ResolveAthleteIDsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"contact_ids": map[string]interface{}{
				"type":        "array",
				"description": "Contact identifiers to resolve",
				"items": map[string]interface{}{
					"type": "string",
				},
			},
		},
		"required": []string{"contact_ids"},
	}
}

// Execute executes the tool
func (t *ResolveAthleteIDsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	raw, ok := params["contact_ids"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("contact_ids is required")
	}

	contactIDs := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok && id != "" {
			contactIDs = append(contactIDs, id)
		}
	}
	if len(contactIDs) == 0 {
		return nil, fmt.Errorf("contact_ids carries no usable ids")
	}

	result := t.bridge.ResolveAthleteIDs(ctx, contactIDs)
	return map[string]interface{}{
		"main_ids": result.MainIDs,
		"failures": result.Failures,
	}, nil
}
