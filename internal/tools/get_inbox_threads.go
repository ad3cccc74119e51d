package tools

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/inbox"
)

// GetInboxThreadsTool lists video team inbox threads
type GetInboxThreadsTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewGetInboxThreadsTool creates a new inbox listing tool
func NewGetInboxThreadsTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *GetInboxThreadsTool {
	return &GetInboxThreadsTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *GetInboxThreadsTool) Name() string {
	return "get_inbox_threads"
}

// Description returns the tool description
func (t *GetInboxThreadsTool) Description() string {
	return "List video team inbox threads with sender, subject, preview, and assignability"
}

// InputSchema returns the JSON schema for tool inputs
func (t *GetInboxThreadsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Optional: Maximum threads to return (default: 100)",
				"minimum":     1,
			},
			"filter": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Assignability filter",
				"enum":        []string{inbox.FilterBoth, inbox.FilterAssigned, inbox.FilterUnassigned},
			},
			"exclude_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Thread id to omit from results",
			},
			"max_pages": map[string]interface{}{
				"type":        "integer",
				"description": "Optional: Page cap for this call",
				"minimum":     1,
			},
		},
	}
}

// Execute executes the tool
func (t *GetInboxThreadsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	opts := inbox.ListOptions{
		Limit:     intParam(params, "limit"),
		Filter:    stringParam(params, "filter"),
		ExcludeID: stringParam(params, "exclude_id"),
		MaxPages:  intParam(params, "max_pages"),
	}

	threads, err := t.bridge.GetInboxThreads(ctx, opts)
	if err != nil {
		// Partial results are still worth returning; the error kind is
		// surfaced alongside so callers know the listing is incomplete.
		if bridgerr.Is(err, bridgerr.KindPartialResult) && len(threads) > 0 {
			return map[string]interface{}{
				"threads": threads,
				"partial": true,
				"error":   err.Error(),
			}, nil
		}
		return nil, err
	}

	return map[string]interface{}{
		"threads": threads,
		"count":   len(threads),
	}, nil
}
