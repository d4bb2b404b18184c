package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notemind/notes"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(mcpServer *server.MCPServer, svc *notes.Service, chunkLimit int) {
	// Register all tools organized by category
	RegisterAboutTool(mcpServer)
	RegisterMarkdownTools(mcpServer)
	RegisterChunkingTool(mcpServer, chunkLimit)
	RegisterPageTools(mcpServer, svc)
	RegisterSearchTools(mcpServer, svc)
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}
