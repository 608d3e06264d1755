// Package mcp exposes the text pipeline as Model Context Protocol tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/michaperki/mila/internal/app"
)

// ServerName and ServerVersion identify the MCP server.
const (
	ServerName    = "mila"
	ServerVersion = "0.1.0"
)

// NewServer creates an MCP server with every tool registered.
func NewServer(a *app.App) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(ServerName, ServerVersion)
	RegisterTools(server, a)
	return server
}

// RegisterTools registers all MCP tools with the server.
func RegisterTools(server *mcpserver.MCPServer, a *app.App) *Handlers {
	handlers := NewHandlers(a)

	// 1. segment_text - split text into tokenized sentence chunks
	server.AddTool(mcp.Tool{
		Name:        "segment_text",
		Description: "Split Hebrew text into sentences and tokens. Each token carries its surface, lemma and root; one-letter clitics (ו ה ב כ ל מ ש) are split off when the rest of the word looks like a word.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Hebrew text, with or without nikud",
				},
				"phrases": map[string]interface{}{
					"type":        "boolean",
					"description": "Also emit phrase chunks for sentences with several clauses",
					"default":     false,
				},
				"translate": map[string]interface{}{
					"type":        "boolean",
					"description": "Fill sentence translations and token glosses",
					"default":     false,
				},
			},
			Required: []string{"text"},
		},
	}, handlers.SegmentText)

	// 2. extract_root - find the three-letter root of a word
	server.AddTool(mcp.Tool{
		Name:        "extract_root",
		Description: "Find the root of a Hebrew word and report how it was found (dictionary, affix, pattern or bare).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"word": map[string]interface{}{
					"type":        "string",
					"description": "A single Hebrew word",
				},
			},
			Required: []string{"word"},
		},
	}, handlers.ExtractRoot)

	// 3. transliterate - Latin transliteration
	server.AddTool(mcp.Tool{
		Name:        "transliterate",
		Description: "Transliterate Hebrew text to Latin letters.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Hebrew text",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.Transliterate)

	// 4. strip_nikud - remove vowel points and cantillation
	server.AddTool(mcp.Tool{
		Name:        "strip_nikud",
		Description: "Remove nikud (vowel points and cantillation marks) from Hebrew text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Hebrew text",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.StripNikud)

	// 5. gloss_for_root - English gloss of a root
	server.AddTool(mcp.Tool{
		Name:        "gloss_for_root",
		Description: "Look up the English gloss of a Hebrew root, with example conjugations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"root": map[string]interface{}{
					"type":        "string",
					"description": "A Hebrew root, usually three letters",
				},
			},
			Required: []string{"root"},
		},
	}, handlers.GlossForRoot)

	// 6. search_gloss - reverse English lookup
	server.AddTool(mcp.Tool{
		Name:        "search_gloss",
		Description: "Find Hebrew roots whose gloss matches English words.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "English words, e.g. \"king\" or \"write letter\"",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchGloss)

	return handlers
}
