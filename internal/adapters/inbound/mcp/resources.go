package mcp

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const rulesURI = "arclint://rules"

// registerResources registers all arclint MCP resources on the given server.
func registerResources(s *server.MCPServer, root string) {
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rule Catalog",
			mcplib.WithResourceDescription("Validation rules active for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(root),
	)
}

func handleRulesResource(root string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		infos, err := activeRules(root)
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshaling rules")
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      rulesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
