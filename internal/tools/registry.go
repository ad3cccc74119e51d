package tools

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
)

// Registry manages MCP tools
type Registry struct {
	config *config.Config
	logger *logrus.Logger
	bridge *bridge.Bridge
	tools  map[string]Tool
}

// Tool represents an MCP tool
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(ctx context.Context, params map[string]interface{}) (interface{}, error)
}

// NewRegistry creates a new tool registry
func NewRegistry(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) (*Registry, error) {
	reg := &Registry{
		config: cfg,
		logger: logger,
		bridge: br,
		tools:  make(map[string]Tool),
	}

	reg.registerTools()

	return reg, nil
}

// registerTools registers all available tools
func (r *Registry) registerTools() {
	toolList := []Tool{
		NewGetInboxThreadsTool(r.config, r.bridge, r.logger),
		NewGetMessageDetailTool(r.config, r.bridge, r.logger),
		NewSearchContactsTool(r.config, r.bridge, r.logger),
		NewGetAssignmentModalTool(r.config, r.bridge, r.logger),
		NewGetAssignmentDefaultsTool(r.config, r.bridge, r.logger),
		NewAssignThreadTool(r.config, r.bridge, r.logger),
		NewResolveAthleteIDsTool(r.config, r.bridge, r.logger),
	}

	for _, tool := range toolList {
		if tool != nil {
			r.tools[tool.Name()] = tool
			r.logger.WithField("tool", tool.Name()).Debug("Registered tool")
		}
	}

	r.logger.WithField("count", len(r.tools)).Info("Registered tools")
}

// GetTool returns a tool by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// ListTools returns all registered tools
func (r *Registry) ListTools() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// GetToolDefinitions returns tool definitions for MCP
func (r *Registry) GetToolDefinitions() []map[string]interface{} {
	definitions := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		definitions = append(definitions, map[string]interface{}{
			"name":        tool.Name(),
			"description": tool.Description(),
			"inputSchema": tool.InputSchema(),
		})
	}
	return definitions
}

// stringParam reads an optional string parameter.
func stringParam(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

// intParam reads an optional integer parameter. JSON numbers decode as
// float64.
func intParam(params map[string]interface{}, key string) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return 0
}
