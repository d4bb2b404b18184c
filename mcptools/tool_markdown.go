package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notemind/markdown"
	"notemind/models"
	"notemind/render"
)

// RegisterMarkdownTools registers the extract_markdown and sectionize_markdown tools
func RegisterMarkdownTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(extractMarkdownTool(), extractMarkdownHandler)
	mcpServer.AddTool(sectionizeMarkdownTool(), sectionizeMarkdownHandler)
}

func extractMarkdownTool() mcp.Tool {
	return mcp.NewTool("extract_markdown",
		mcp.WithDescription("Extract the markdown content from pasted text such as an AI assistant reply. Chatter around divider-delimited markdown is dropped and a leading 'Here is ...:' phrase is removed from plain text."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The pasted text"),
		),
	)
}

func extractMarkdownHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	return mcp.NewToolResultText(markdown.Extract(text)), nil
}

func sectionizeMarkdownTool() mcp.Tool {
	return mcp.NewTool("sectionize_markdown",
		mcp.WithDescription("Split markdown into ordered sections. Headers open sections, a standalone '---' line closes one, and untitled content becomes 'Introduction' or 'Section N'. Returns a JSON array of sections with title, label, level, content and html."),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("The markdown document to split"),
		),
	)
}

func sectionizeMarkdownHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	md, ok := args["markdown"].(string)
	if !ok {
		return mcp.NewToolResultError("markdown parameter is required"), nil
	}

	views, err := render.Sections(md)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render sections: %v", err)), nil
	}

	return jsonResult(models.SectionsResponse{Sections: views, Success: true})
}
