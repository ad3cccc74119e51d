package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/contacts"
)

// SearchContactsTool searches dashboard contacts
type SearchContactsTool struct {
	config *config.Config
	bridge *bridge.Bridge
	logger *logrus.Logger
}

// NewSearchContactsTool creates a new contact search tool
func NewSearchContactsTool(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) *SearchContactsTool {
	return &SearchContactsTool{
		config: cfg,
		bridge: br,
		logger: logger,
	}
}

// Name returns the tool name
func (t *SearchContactsTool) Name() string {
	return "search_contacts"
}

// Description returns the tool description
func (t *SearchContactsTool) Description() string {
	return "Search contacts by name or email. Searches athletes first and falls back to parents unless a single category is forced"
}

// InputSchema returns the JSON schema for tool inputs
func (t *SearchContactsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Name or email to search for",
			},
			"category": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Search one category only, skipping the fallback",
				"enum":        []string{contacts.CategoryAthlete, contacts.CategoryParent},
			},
		},
		"required": []string{"query"},
	}
}

// Execute executes the tool
func (t *SearchContactsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	query := stringParam(params, "query")
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	// A forced category searches once, without the alternate-category fallback.
	if category := stringParam(params, "category"); category != "" {
		found, err := t.bridge.SearchContacts(ctx, query, category)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"contacts": found,
			"category": category,
			"no_match": len(found) == 0,
		}, nil
	}

	outcome, err := t.bridge.ResolveContact(ctx, query, contacts.CategoryAthlete)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
