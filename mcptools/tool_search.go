package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notemind/models"
	"notemind/notes"
)

// RegisterSearchTools registers the search_notes tool
func RegisterSearchTools(mcpServer *server.MCPServer, svc *notes.Service) {
	mcpServer.AddTool(searchNotesTool(), searchNotesHandler(svc))
}

func searchNotesTool() mcp.Tool {
	return mcp.NewTool("search_notes",
		mcp.WithDescription("Search note sections similar to a text query. Returns sections ordered by similarity (closest first) with their page id and section title. Optionally filter by distance threshold."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text query to search for"),
		),
		mcp.WithNumber("max_count",
			mcp.Description("Maximum number of results to return (default: 5)"),
		),
		mcp.WithNumber("distance_threshold",
			mcp.Description("Optional distance threshold. Only returns sections with distance <= threshold"),
		),
	)
}

func searchNotesHandler(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		text, ok := args["text"].(string)
		if !ok || text == "" {
			return mcp.NewToolResultError("text parameter is required"), nil
		}

		maxCount := 0
		if mc, ok := args["max_count"].(float64); ok {
			maxCount = int(mc)
		}

		var distanceThreshold *float64
		if dt, ok := args["distance_threshold"].(float64); ok {
			distanceThreshold = &dt
		}

		results, err := svc.Search(ctx, text, maxCount, distanceThreshold)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search notes: %v", err)), nil
		}

		return jsonResult(models.SimilaritySearchResponse{Results: results, Success: true})
	}
}
