package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notemind/models"
	"notemind/notes"
)

// RegisterPageTools registers the create_page, list_pages and
// generate_flash_cards tools
func RegisterPageTools(mcpServer *server.MCPServer, svc *notes.Service) {
	mcpServer.AddTool(createPageTool(), createPageHandler(svc))
	mcpServer.AddTool(listPagesTool(), listPagesHandler(svc))
	mcpServer.AddTool(generateFlashCardsTool(), generateFlashCardsHandler(svc))
}

func createPageTool() mcp.Tool {
	return mcp.NewTool("create_page",
		mcp.WithDescription("Create a note page under a subject. The content is cleaned with extract_markdown, stored, and its sections are indexed for search_notes. Set subject_name to create a new subject instead of using subject_id."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The page title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The page content, raw or markdown"),
		),
		mcp.WithString("subject_id",
			mcp.Description("Id of an existing subject"),
		),
		mcp.WithString("subject_name",
			mcp.Description("Name of a subject to create for this page"),
		),
	)
}

func createPageHandler(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		title, _ := args["title"].(string)
		content, _ := args["content"].(string)
		subjectID, _ := args["subject_id"].(string)
		subjectName, _ := args["subject_name"].(string)

		if subjectID == "" && subjectName != "" {
			subject, err := svc.CreateSubject(ctx, subjectName)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create subject: %v", err)), nil
			}
			subjectID = subject.ID
		}

		page, err := svc.CreatePage(ctx, title, content, subjectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create page: %v", err)), nil
		}

		return jsonResult(models.PageResponse{Page: page, Success: true})
	}
}

func listPagesTool() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("List note pages, newest first, with a short preview. Optionally restricted to one subject."),
		mcp.WithString("subject_id",
			mcp.Description("Only list pages of this subject"),
		),
	)
}

func listPagesHandler(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		subjectID, _ := args["subject_id"].(string)

		pages, err := svc.ListPages(ctx, subjectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list pages: %v", err)), nil
		}

		return jsonResult(models.PagesResponse{Pages: pages, Success: true})
	}
}

func generateFlashCardsTool() mcp.Tool {
	return mcp.NewTool("generate_flash_cards",
		mcp.WithDescription("Generate and store 5 to 10 question/answer flash cards covering a page."),
		mcp.WithString("page_id",
			mcp.Required(),
			mcp.Description("Id of the page"),
		),
	)
}

func generateFlashCardsHandler(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		pageID, ok := args["page_id"].(string)
		if !ok || pageID == "" {
			return mcp.NewToolResultError("page_id parameter is required"), nil
		}

		cards, err := svc.GenerateFlashCards(ctx, pageID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to generate flash cards: %v", err)), nil
		}

		return jsonResult(models.FlashCardsResponse{FlashCards: cards, Success: true})
	}
}
