package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/tools"
)

// toolCallTimeout bounds one tool call end to end, including any re-login and
// retry cycles inside the transport.
const toolCallTimeout = 2 * time.Minute

// Server represents the MCP server
type Server struct {
	config *config.Config
	logger *logrus.Logger
	tools  *tools.Registry
	bridge *bridge.Bridge
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, br *bridge.Bridge, logger *logrus.Logger) (*Server, error) {
	toolRegistry, err := tools.NewRegistry(cfg, br, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool registry: %w", err)
	}

	return &Server{
		config: cfg,
		logger: logger,
		tools:  toolRegistry,
		bridge: br,
	}, nil
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.serve(ctx, os.Stdin, os.Stdout)
}

// serve runs the JSON-RPC loop. Decoding happens on its own goroutine so a
// cancelled context stops the server even while the input stream is idle.
func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("Starting MCP server with stdio transport")

	decoder := json.NewDecoder(in)
	encoder := json.NewEncoder(out)

	requests := make(chan map[string]interface{})
	readDone := make(chan error, 1)
	go func() {
		for {
			var req map[string]interface{}
			if err := decoder.Decode(&req); err != nil {
				if err == io.EOF {
					readDone <- nil
				} else {
					readDone <- err
				}
				return
			}
			select {
			case requests <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readDone:
			if err != nil {
				s.logger.WithError(err).Error("Failed to decode request")
			}
			return nil
		case req := <-requests:
			resp := s.handleRequest(ctx, req)
			if err := encoder.Encode(resp); err != nil {
				s.logger.WithError(err).Error("Failed to encode response")
			}
		}
	}
}

// handleRequest processes an MCP request
func (s *Server) handleRequest(ctx context.Context, req map[string]interface{}) map[string]interface{} {
	method, _ := req["method"].(string)
	id := req["id"]

	if method == "initialize" {
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"protocolVersion": "2024-11-05",
				"capabilities": map[string]interface{}{
					"tools": map[string]interface{}{},
				},
				"serverInfo": map[string]interface{}{
					"name":    "mcp-videoteam",
					"version": "1.0.0",
				},
			},
		}
	}

	if method == "tools/list" {
		toolDefs := s.tools.GetToolDefinitions()
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"tools": toolDefs,
			},
		}
	}

	if method == "tools/call" {
		params, _ := req["params"].(map[string]interface{})
		toolName, _ := params["name"].(string)
		arguments, _ := params["arguments"].(map[string]interface{})

		tool, exists := s.tools.GetTool(toolName)
		if !exists {
			return map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      id,
				"error": map[string]interface{}{
					"code":    -32601,
					"message": fmt.Sprintf("Tool not found: %s", toolName),
				},
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, toolCallTimeout)
		result, err := tool.Execute(callCtx, arguments)
		cancel()
		if err != nil {
			errObj := map[string]interface{}{
				"code":    -32603,
				"message": err.Error(),
			}
			// Machine-readable failure classification for automation callers.
			if kind := bridgerr.KindOf(err); kind != "" {
				errObj["data"] = map[string]interface{}{
					"kind": string(kind),
				}
			}
			return map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      id,
				"error":   errObj,
			}
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			resultJSON = []byte(fmt.Sprintf("%v", result))
		}

		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": string(resultJSON),
					},
				},
			},
		}
	}

	return map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method not found: %s", method),
		},
	}
}
