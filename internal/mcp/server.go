package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/tessling/rostermap/internal/config"
)

// convertToolDef describes the roster_convert tool.
var convertToolDef = mcp.NewTool("roster_convert",
	mcp.WithDescription("Convert loosely structured roster text into a deduplicated List,Email table. Returns the rows and the rendered CSV."),
	mcp.WithString("roster_text",
		mcp.Required(),
		mcp.Description("The roster text: titled sections (lines ending in ':') containing contact lines."),
	),
	mcp.WithString("domain",
		mcp.Description("Fallback domain for synthesized emails (e.g. example.com). Required unless a default domain is configured."),
	),
	mcp.WithString("format",
		mcp.Description("Input format: 'text' (default) or 'markdown' (headings as list titles)."),
	),
)

// inspectToolDef describes the roster_inspect tool.
var inspectToolDef = mcp.NewTool("roster_inspect",
	mcp.WithDescription("Parse roster text without converting it: reports sections, records, and how each record would resolve (embedded, synthesized, or skipped)."),
	mcp.WithString("roster_text",
		mcp.Required(),
		mcp.Description("The roster text to inspect."),
	),
	mcp.WithString("domain",
		mcp.Description("Fallback domain used when reporting synthesized emails."),
	),
	mcp.WithString("format",
		mcp.Description("Input format: 'text' (default) or 'markdown'."),
	),
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"roster_convert": {
		def:     convertToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConvert },
	},
	"roster_inspect": {
		def:     inspectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInspect },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with rostermap tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"rostermap",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}
	for _, name := range ValidateDisabledTools(cfg.DisabledTools) {
		logrus.WithField("tool", name).Warn("unknown tool in disabled_tools")
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(cfg *config.Config, version string) error {
	s := NewServer(cfg, version)
	return server.ServeStdio(s)
}
