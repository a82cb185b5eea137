package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arclint/arclint/internal/adapters/outbound/config"
	"github.com/arclint/arclint/internal/adapters/outbound/fixer"
	"github.com/arclint/arclint/internal/adapters/outbound/gitinfo"
	"github.com/arclint/arclint/internal/adapters/outbound/loader"
	"github.com/arclint/arclint/internal/adapters/outbound/scanner"
	"github.com/arclint/arclint/internal/application"
	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/domain/rules"
	"github.com/arclint/arclint/internal/logging"
)

// registerTools registers all arclint MCP tools on the given server.
func registerTools(s *server.MCPServer, root string) {
	// 1. arclint_validate
	s.AddTool(
		mcplib.NewTool("arclint_validate",
			mcplib.WithDescription("Validates the ARC manifests under the project root and returns the report as JSON, including the exit code a CI run would produce"),
			mcplib.WithString("path", mcplib.Description("Subdirectory to validate, relative to the project root (default: the root)")),
			mcplib.WithBoolean("fix", mcplib.Description("Apply auto-fixes (trailing whitespace) in place")),
			mcplib.WithBoolean("dry_run", mcplib.Description("With fix, report the fixes without writing files")),
		),
		handleValidate(root),
	)

	// 2. arclint_list_rules
	s.AddTool(
		mcplib.NewTool("arclint_list_rules",
			mcplib.WithDescription("Lists the validation rules active for the project, honoring disabled_rules from .arclint.yaml"),
		),
		handleListRules(root),
	)
}

// validateResult is the JSON payload of arclint_validate.
type validateResult struct {
	ExitCode int            `json:"exit_code"`
	Report   *domain.Report `json:"report"`
}

func newValidateService() *application.ValidateService {
	return application.NewValidateService(
		scanner.New(),
		loader.New(),
		config.New(),
		fixer.New(),
		gitinfo.New(),
		// stdout carries the protocol, so narration is off.
		logging.NewDiscard(),
	)
}

func handleValidate(root string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		sub, _ := args["path"].(string)
		fix, _ := args["fix"].(bool)
		dryRun, _ := args["dry_run"].(bool)

		target, err := resolveWithin(root, sub)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report := newValidateService().Run(target, domain.ValidateOptions{
			Fix: domain.FixOptions{Enabled: fix, DryRun: dryRun},
		})
		return jsonResult(validateResult{ExitCode: report.ExitCode(), Report: report})
	}
}

func handleListRules(root string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		infos, err := activeRules(root)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(infos)
	}
}

func activeRules(root string) ([]rules.Info, error) {
	cfg, err := config.New().Load(root)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	return rules.Default(cfg).Describe(), nil
}

// resolveWithin joins sub onto root and rejects paths that escape it.
func resolveWithin(root, sub string) (string, error) {
	if sub == "" {
		return root, nil
	}
	if filepath.IsAbs(sub) {
		return "", errors.Newf("path %q must be relative to the project root", sub)
	}
	joined := filepath.Join(root, sub)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf("path %q escapes the project root", sub)
	}
	return joined, nil
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling result")
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
