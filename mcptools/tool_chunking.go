package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notemind/markdown"
)

// RegisterChunkingTool registers the chunk_text tool. chunkLimit caps
// chunk_size, usually at the embedding dimension; zero means no cap.
func RegisterChunkingTool(mcpServer *server.MCPServer, chunkLimit int) {
	mcpServer.AddTool(chunkTextTool(), chunkTextHandler(chunkLimit))
}

func chunkTextTool() mcp.Tool {
	return mcp.NewTool("chunk_text",
		mcp.WithDescription("Split a document into fixed-size chunks with overlap, the way pages are chunked before embedding. Returns a JSON array of chunks."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("The document content to chunk"),
		),
		mcp.WithNumber("chunk_size",
			mcp.Required(),
			mcp.Description("Size of each chunk in bytes"),
		),
		mcp.WithNumber("overlap",
			mcp.Description("Number of bytes shared by consecutive chunks (default: 0, must be < chunk_size)"),
		),
	)
}

func chunkTextHandler(chunkLimit int) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		document, ok := args["document"].(string)
		if !ok || document == "" {
			return mcp.NewToolResultError("document parameter is required"), nil
		}

		chunkSize, ok := args["chunk_size"].(float64)
		if !ok || chunkSize <= 0 {
			return mcp.NewToolResultError("chunk_size must be a positive number"), nil
		}

		overlap, _ := args["overlap"].(float64)
		if overlap < 0 {
			return mcp.NewToolResultError("overlap must be a non-negative number"), nil
		}

		chunkSizeInt := int(chunkSize)
		overlapInt := int(overlap)

		if overlapInt >= chunkSizeInt {
			return mcp.NewToolResultError("overlap must be less than chunk_size"), nil
		}
		if chunkLimit > 0 && chunkSizeInt > chunkLimit {
			return mcp.NewToolResultError(fmt.Sprintf("chunk_size (%d) must be less than or equal to embedding dimension (%d)", chunkSizeInt, chunkLimit)), nil
		}

		chunks := markdown.ChunkText(document, chunkSizeInt, overlapInt)

		return jsonResult(map[string]any{
			"chunks":      chunks,
			"chunk_count": len(chunks),
			"success":     true,
		})
	}
}
