package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/domain/rules"
)

func writeManifest(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func callTool(t *testing.T, h func() (*mcplib.CallToolResult, error)) (*mcplib.CallToolResult, string) {
	t.Helper()
	res, err := h()
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func toolRequest(args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{Params: mcplib.CallToolParams{Arguments: args}}
}

func TestNewArclintMCPServer(t *testing.T) {
	s := NewArclintMCPServer(".", "test")
	require.NotNil(t, s)

	tools := s.ListTools()
	expected := []string{"arclint_validate", "arclint_list_rules"}
	for _, name := range expected {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, len(expected))
}

func TestValidateTool_ReportsFindings(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "runner.yaml", "kind: RunnerDeployment\nspec:\n  template:\n    spec: {}\n")

	res, text := callTool(t, func() (*mcplib.CallToolResult, error) {
		return handleValidate(root)(t.Context(), toolRequest(nil))
	})
	assert.False(t, res.IsError)

	var out validateResult
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, domain.ExitInvalid, out.ExitCode)
	require.NotNil(t, out.Report)
	assert.Equal(t, 1, out.Report.InvalidFiles)
	assert.Equal(t, "struct-001", out.Report.Findings[0].RuleID)
}

func TestValidateTool_Subdirectory(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "bad/broken.yaml", "kind: [\n")
	writeManifest(t, root, "good/ok.yaml", "kind: Secret\n")

	_, text := callTool(t, func() (*mcplib.CallToolResult, error) {
		return handleValidate(root)(t.Context(), toolRequest(map[string]any{"path": "good"}))
	})

	var out validateResult
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, domain.ExitOK, out.ExitCode)
	assert.Equal(t, 1, out.Report.TotalFiles)
}

func TestValidateTool_FixDryRun(t *testing.T) {
	root := t.TempDir()
	content := "kind: Secret   \n"
	writeManifest(t, root, "s.yaml", content)

	_, text := callTool(t, func() (*mcplib.CallToolResult, error) {
		return handleValidate(root)(t.Context(), toolRequest(map[string]any{"fix": true, "dry_run": true}))
	})

	var out validateResult
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Len(t, out.Report.Fixes, 1)
	assert.True(t, out.Report.Fixes[0].DryRun)

	data, err := os.ReadFile(filepath.Join(root, "s.yaml"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestValidateTool_RejectsEscapingPath(t *testing.T) {
	root := t.TempDir()

	res, text := callTool(t, func() (*mcplib.CallToolResult, error) {
		return handleValidate(root)(t.Context(), toolRequest(map[string]any{"path": "../elsewhere"}))
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "escapes the project root")
}

func TestListRulesTool_HonorsConfig(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, ".arclint.yaml", "disabled_rules: [fmt-003]\n")

	_, text := callTool(t, func() (*mcplib.CallToolResult, error) {
		return handleListRules(root)(t.Context(), toolRequest(nil))
	})

	var infos []rules.Info
	require.NoError(t, json.Unmarshal([]byte(text), &infos))
	ids := make([]string, 0, len(infos))
	for _, in := range infos {
		ids = append(ids, in.ID)
	}
	assert.Contains(t, ids, "struct-001")
	assert.Contains(t, ids, "dup-001")
	assert.NotContains(t, ids, "fmt-003")
}

func TestListRulesTool_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, ".arclint.yaml", "max_line_length: -1\n")

	res, _ := callTool(t, func() (*mcplib.CallToolResult, error) {
		return handleListRules(root)(t.Context(), toolRequest(nil))
	})
	assert.True(t, res.IsError)
}

func TestRulesResource(t *testing.T) {
	root := t.TempDir()

	contents, err := handleRulesResource(root)(t.Context(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, rulesURI, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, "\"sec-003\"")
}

func TestResolveWithin(t *testing.T) {
	got, err := resolveWithin("/srv/manifests", "org-level")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/manifests", "org-level"), got)

	got, err = resolveWithin("/srv/manifests", "")
	require.NoError(t, err)
	assert.Equal(t, "/srv/manifests", got)

	_, err = resolveWithin("/srv/manifests", "/etc")
	assert.Error(t, err)

	_, err = resolveWithin("/srv/manifests", "a/../../b")
	assert.Error(t, err)
}
