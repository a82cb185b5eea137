package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewArclintMCPServer creates an MCP server exposing validation of the
// manifest tree at root.
func NewArclintMCPServer(root, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"arclint",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, root)
	registerResources(s, root)

	return s
}
