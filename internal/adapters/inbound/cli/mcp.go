package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/arclint/arclint/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the arclint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the arclint MCP server (stdio)",
		Long:  "Start the arclint MCP server using stdio transport, so assistants can validate manifests and list rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = "."
			}
			return server.ServeStdio(mcpadapter.NewArclintMCPServer(root, version))
		},
	}

	cmd.Flags().StringVar(&root, "path", "", "Manifest root (defaults to current working directory)")

	return cmd
}
