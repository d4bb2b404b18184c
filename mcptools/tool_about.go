package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const aboutText = "This MCP Server is a note-taking assistant: it extracts markdown from pasted text, " +
	"splits it into sections, stores pages by subject in Redis, generates flash cards and " +
	"searches notes semantically."

// RegisterAboutTool registers the about_notemind tool
func RegisterAboutTool(mcpServer *server.MCPServer) {
	aboutTool := mcp.NewTool("about_notemind",
		mcp.WithDescription("This tool provides information about the NoteMind MCP server."),
	)
	mcpServer.AddTool(aboutTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(aboutText), nil
	})
}
