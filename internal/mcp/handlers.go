package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessling/rostermap/internal/config"
	"github.com/tessling/rostermap/internal/errors"
	"github.com/tessling/rostermap/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{cfg: cfg}
}

// ConvertRequest represents the arguments for roster_convert.
type ConvertRequest struct {
	RosterText string `json:"roster_text"`
	Domain     string `json:"domain,omitempty"`
	Format     string `json:"format,omitempty"`
}

// InspectRequest represents the arguments for roster_inspect.
type InspectRequest struct {
	RosterText string `json:"roster_text"`
	Domain     string `json:"domain,omitempty"`
	Format     string `json:"format,omitempty"`
}

// HandleConvert handles the roster_convert tool call.
func (h *Handlers) HandleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConvertRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ConvertText(h.cfg, ops.ConvertTextInput{
		RosterText: input.RosterText,
		Domain:     input.Domain,
		Format:     ops.Format(input.Format),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInspect handles the roster_inspect tool call.
func (h *Handlers) HandleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InspectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Inspect(h.cfg, ops.InspectInput{
		RosterText: input.RosterText,
		Domain:     input.Domain,
		Format:     ops.Format(input.Format),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking file paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := err.(*errors.RosterError); ok {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
