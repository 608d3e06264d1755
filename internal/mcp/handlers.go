package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/michaperki/mila/internal/app"
	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/lexicon"
	"github.com/michaperki/mila/internal/model"
	"github.com/michaperki/mila/internal/morph"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	app *app.App
	log *slog.Logger
}

// NewHandlers creates Handlers over a.
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{app: a, log: a.Logger.With("component", "mcp")}
}

// SegmentText handles the segment_text tool.
func (h *Handlers) SegmentText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	opts := app.ProcessOptions{
		Phrases:   request.GetBool("phrases", false),
		Translate: request.GetBool("translate", false),
	}
	chunks, err := h.app.Process(ctx, text, opts)
	if err != nil {
		// Segmentation itself cannot fail; keep the untranslated chunks.
		h.log.WarnContext(ctx, "segment_text translation failed", slog.String("error", err.Error()))
	}
	if chunks == nil {
		chunks = []model.Chunk{}
	}

	return jsonResult(map[string]interface{}{
		"chunks": chunks,
		"count":  len(chunks),
	})
}

// ExtractRoot handles the extract_root tool.
func (h *Handlers) ExtractRoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := request.RequireString("word")
	if err != nil || strings.TrimSpace(word) == "" {
		return mcp.NewToolResultError("word argument is required and must be a string"), nil
	}

	a := h.app.Extractor.Analyze(word)
	response := map[string]interface{}{
		"word":     word,
		"found":    a.Found(),
		"root":     a.Root,
		"method":   a.Method,
		"category": morph.Categorize(hebrew.StripNikud(word)),
	}
	if a.EntryID != "" {
		response["entry_id"] = a.EntryID
	}
	if a.Prefix != "" {
		response["prefix"] = a.Prefix
	}
	if a.Suffix != "" {
		response["suffix"] = a.Suffix
	}
	if a.Template != "" {
		response["template"] = a.Template
	}
	if gloss, ok := h.app.Lexicon.GlossForRoot(a.Root); ok {
		response["gloss"] = gloss
	}
	return jsonResult(response)
}

// Transliterate handles the transliterate tool.
func (h *Handlers) Transliterate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	return mcp.NewToolResultText(hebrew.Transliterate(text)), nil
}

// StripNikud handles the strip_nikud tool.
func (h *Handlers) StripNikud(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	return mcp.NewToolResultText(hebrew.StripNikud(text)), nil
}

// GlossForRoot handles the gloss_for_root tool.
func (h *Handlers) GlossForRoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := request.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError("root argument is required and must be a string"), nil
	}
	root = hebrew.StripNikud(strings.TrimSpace(root))

	gloss, ok := h.app.Lexicon.GlossForRoot(root)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no gloss for root %q", root)), nil
	}

	conj := morph.Conjugations(root)
	if conj == nil {
		conj = []string{}
	}
	return jsonResult(map[string]interface{}{
		"root":         root,
		"gloss":        gloss,
		"conjugations": conj,
	})
}

// SearchGloss handles the search_gloss tool.
func (h *Handlers) SearchGloss(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", 10)

	matches := h.app.Lexicon.SearchGloss(query, limit)
	if matches == nil {
		matches = []lexicon.Match{}
	}
	return jsonResult(map[string]interface{}{
		"query":   query,
		"matches": matches,
		"count":   len(matches),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
