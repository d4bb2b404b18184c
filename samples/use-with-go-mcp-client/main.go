package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

type SearchResult struct {
	ID       string  `json:"id"`
	PageID   string  `json:"page_id"`
	Section  string  `json:"section"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

type PageResponse struct {
	Page struct {
		ID string `json:"id"`
	} `json:"page"`
	Success bool `json:"success"`
}

type FlashCardsResponse struct {
	FlashCards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"flash_cards"`
	Success bool `json:"success"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Success bool           `json:"success"`
}

var chunks = []string{
	`# Orcs
		Orcs are savage, brutish humanoids with dark green skin and prominent tusks.
		These fierce warriors inhabit dense forests where they hunt in packs,
		using crude but effective weapons forged from scavenged metal and bone.
		Their tribal society revolves around strength and combat prowess,
		making them formidable opponents for any adventurer brave enough to enter their woodland domain.`,

	`# Dragons
		Dragons are magnificent and ancient creatures of immense power, soaring through the skies on massive wings.
		These intelligent beings possess scales that shimmer like precious metals and breathe devastating elemental attacks.
		Known for their vast hoards of treasure and centuries of accumulated knowledge,
		dragons command both fear and respect throughout the realm.
		Their aerial dominance makes them nearly untouchable in their celestial domain.`,

	`# Goblins
		Goblins are small, cunning creatures with mottled green skin and sharp, pointed ears.
		Despite their diminutive size, they are surprisingly agile swimmers who have adapted to life around ponds and marshlands.
		These mischievous beings are known for their quick wit and tendency to play pranks on unwary travelers.
		They build elaborate underwater lairs connected by hidden tunnels beneath the murky pond waters.`,

	`# Krakens
		Krakens are colossal sea monsters with massive tentacles that can crush entire ships with ease.
		These legendary creatures dwell in the deepest ocean trenches, surfacing only to hunt or when disturbed.
		Their intelligence rivals that of the wisest sages, and their tentacles can stretch for hundreds of feet.
		Sailors speak in hushed tones of these maritime titans, whose very presence can create devastating whirlpools
		and tidal waves that reshape entire coastlines.`,
}

func main() {

	ctx := context.Background()

	// MCP client initialization
	fmt.Println("🚀 Initializing MCP StreamableHTTP client...")
	// Create HTTP transport
	httpURL := "http://localhost:9090/mcp"
	httpTransport, err := transport.NewStreamableHTTP(httpURL)
	if err != nil {
		log.Fatalf("Failed to create HTTP transport: %v", err)
	}
	// Create client with the transport
	mcpClient := client.NewClient(httpTransport)
	// Start the client
	if err := mcpClient.Start(ctx); err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "MCP-Go Simple Client Example",
		Version: "1.0.0",
	}
	initRequest.Params.Capabilities = mcp.ClientCapabilities{}

	_, err = mcpClient.Initialize(ctx, initRequest)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	// Tools listing
	toolsRequest := mcp.ListToolsRequest{}
	// Get the list of tools
	toolsResult, err := mcpClient.ListTools(ctx, toolsRequest)
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}
	fmt.Println("🛠️  Available tools:")
	for _, tool := range toolsResult.Tools {
		fmt.Printf("- %s: %s\n", tool.Name, tool.Description)
	}

	// Create a page with the `create_page` MCP tool; every creature becomes a section
	fmt.Println("\n\nCreation of the bestiary page...")
	pageRequest := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "create_page",
			Arguments: map[string]any{
				"title":        "Bestiary",
				"content":      strings.Join(chunks, "\n\n"),
				"subject_name": "Fantasy creatures",
			},
		},
	}
	pageResponse, err := mcpClient.CallTool(ctx, pageRequest)
	if err != nil {
		log.Fatalf("Error creating page: %v", err)
	}
	if pageResponse == nil || len(pageResponse.Content) == 0 {
		log.Fatalf("No response from create_page tool")
	}
	pageText := pageResponse.Content[0].(mcp.TextContent).Text
	if pageResponse.IsError {
		log.Fatalf("create_page failed: %s", pageText)
	}
	var page PageResponse
	if err := json.Unmarshal([]byte(pageText), &page); err != nil {
		log.Fatalf("Error parsing page: %v", err)
	}
	fmt.Println("🛠️  Page created:", page.Page.ID)

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Search for similar sections...")

	userInput := "Tell me something about the dragons"

	searchRequest := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "search_notes",
			Arguments: map[string]any{
				"text":               userInput,
				"max_count":          2,
				"distance_threshold": 0.7,
			},
		},
	}
	searchResponse, err := mcpClient.CallTool(ctx, searchRequest)
	if err != nil {
		log.Fatalf("Error search: %v", err)
	}
	if searchResponse == nil || len(searchResponse.Content) == 0 {
		log.Fatalf("No response from search tool")
	}

	searchResult := searchResponse.Content[0].(mcp.TextContent).Text

	// Parse the JSON response
	var response SearchResponse
	err = json.Unmarshal([]byte(searchResult), &response)
	if err != nil {
		log.Fatalf("Error parsing search result: %v", err)
	}

	// Loop through results
	fmt.Println("\n📋 Search Results:")
	for _, result := range response.Results {
		fmt.Printf("\nSection: %s (page %s)\n", result.Section, result.PageID)
		fmt.Printf("Distance: %f\n", result.Distance)
		fmt.Printf("Content: %s\n", result.Content)
		fmt.Println(strings.Repeat("-", 50))
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Flash cards for the bestiary...")

	cardsRequest := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "generate_flash_cards",
			Arguments: map[string]any{"page_id": page.Page.ID},
		},
	}
	cardsResponse, err := mcpClient.CallTool(ctx, cardsRequest)
	if err != nil {
		log.Fatalf("Error generating flash cards: %v", err)
	}
	if cardsResponse == nil || len(cardsResponse.Content) == 0 {
		log.Fatalf("No response from generate_flash_cards tool")
	}
	cardsText := cardsResponse.Content[0].(mcp.TextContent).Text
	if cardsResponse.IsError {
		log.Fatalf("generate_flash_cards failed: %s", cardsText)
	}

	var cards FlashCardsResponse
	if err := json.Unmarshal([]byte(cardsText), &cards); err != nil {
		log.Fatalf("Error parsing flash cards: %v", err)
	}
	for i, card := range cards.FlashCards {
		fmt.Printf("\n%d. Q: %s\n   A: %s\n", i+1, card.Question, card.Answer)
	}
}
