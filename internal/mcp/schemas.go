package mcp

import "github.com/mark3labs/mcp-go/mcp"

// indexDecksTool defines the index_decks tool schema
func indexDecksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_decks",
		Description: "Index slide decks from the given files or directories so their slides become searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "File and/or directory paths; directories are walked recursively for .ppt/.pptx files",
				},
				"workers": map[string]interface{}{
					"type":        "number",
					"description": "Number of decks extracted concurrently (default from configuration)",
				},
			},
			Required: []string{"paths"},
		},
	}
}

// searchSlidesTool defines the search_slides tool schema
func searchSlidesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_slides",
		Description: "Find slides whose extracted text contains the query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to look for in slide text",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default 10, max 100)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// findSimilarSlidesTool defines the find_similar_slides tool schema
func findSimilarSlidesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_similar_slides",
		Description: "Order slides by visual similarity to a reference slide, using perceptual fingerprint distance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "number",
					"description": "Id of the reference slide's document",
				},
				"ordinal": map[string]interface{}{
					"type":        "number",
					"description": "1-based slide number of the reference slide",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default 10, max 100)",
				},
			},
			Required: []string{"document_id", "ordinal"},
		},
	}
}

// getStatusTool defines the get_status tool schema
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report how many documents and slides the index holds",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
