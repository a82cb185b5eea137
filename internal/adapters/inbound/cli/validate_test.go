package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclint/arclint/internal/adapters/inbound/cli"
	"github.com/arclint/arclint/internal/domain"
)

const cleanRunner = `kind: RunnerDeployment
metadata:
  name: runners
spec:
  template:
    spec:
      repository: example/app
      securityContext:
        runAsNonRoot: true
`

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand_CleanTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "runner.yaml", cleanRunner)

	out, _, err := run(t, "validate", root)
	require.NoError(t, err)
	assert.Equal(t, 0, cli.ExitCode(err))
	assert.Contains(t, out, "PASSED")
}

func TestValidateCommand_InvalidExitsOne(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.yaml", "kind: [\n")

	out, _, err := run(t, "validate", root)
	require.Error(t, err)
	assert.Equal(t, domain.ExitInvalid, cli.ExitCode(err))
	assert.Contains(t, out, "syntax-000")
	assert.Contains(t, out, "FAILED")
}

func TestValidateCommand_MissingRootExitsTwo(t *testing.T) {
	out, _, err := run(t, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, domain.ExitEnvironment, cli.ExitCode(err))
	assert.Contains(t, out, "env-000")
}

func TestValidateCommand_WarningsOnlyExitZero(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "runner.yaml", "kind: RunnerDeployment\nspec:\n  template:\n    spec:\n      repository: example/app\n")

	out, _, err := run(t, "validate", root)
	require.NoError(t, err)
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "sec-001")
}

func TestValidateCommand_JSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "runner.yaml", cleanRunner)

	out, _, err := run(t, "validate", root, "--format", "json", "--verbose")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report), "stdout should hold only the JSON report")
	assert.Equal(t, 1, report.TotalFiles)
	assert.Equal(t, 1, report.ValidFiles)
}

func TestValidateCommand_UnknownFormat(t *testing.T) {
	_, _, err := run(t, "validate", t.TempDir(), "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, domain.ExitEnvironment, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "unknown format")
}

func TestValidateCommand_VerboseNarrates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "runner.yaml", cleanRunner)

	quiet, _, err := run(t, "validate", root)
	require.NoError(t, err)
	loud, _, err := run(t, "validate", root, "-v")
	require.NoError(t, err)

	assert.NotContains(t, quiet, "validated file")
	assert.Contains(t, loud, "validated file")
}

func TestValidateCommand_Fix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "s.yaml", "kind: Secret  \n")

	out, _, err := run(t, "validate", root, "--fix")
	require.NoError(t, err)
	assert.Contains(t, out, "fixed")

	data, err := os.ReadFile(filepath.Join(root, "s.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "kind: Secret\n", string(data))
}

func TestValidateCommand_FixFromEnvironment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "s.yaml", "kind: Secret  \n")
	t.Setenv("ARCLINT_FIX", "true")
	t.Setenv("ARCLINT_DRY_RUN", "true")

	out, _, err := run(t, "validate", root)
	require.NoError(t, err)
	assert.Contains(t, out, "would fix")

	data, err := os.ReadFile(filepath.Join(root, "s.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "kind: Secret  \n", string(data))
}

func TestValidateCommand_RecordAndHistory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "runner.yaml", cleanRunner)

	_, _, err := run(t, "validate", root, "--record")
	require.NoError(t, err)

	out, _, err := run(t, "history", root, "--json")
	require.NoError(t, err)

	var entries []domain.RunEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Passed)
	assert.Equal(t, 1, entries[0].TotalFiles)
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, _, err := run(t, "history", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No run history found.")
}

func TestRulesCommand_Table(t *testing.T) {
	out, _, err := run(t, "rules", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "struct-001")
	assert.Contains(t, out, "fmt-002")
}

func TestRulesCommand_JSONHonorsConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".arclint.yaml", "disabled_rules: [ns-001, ns-002]\n")

	out, _, err := run(t, "rules", root, "--json")
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	for _, in := range infos {
		assert.NotEqual(t, "ns-001", in["id"])
		assert.NotEqual(t, "ns-002", in["id"])
	}
	assert.Len(t, infos, len(domain.ValidRuleIDs)-2)
}

func TestRulesCommand_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".arclint.yaml", "bogus: 1\n")

	_, _, err := run(t, "rules", root)
	require.Error(t, err)
	assert.Equal(t, domain.ExitEnvironment, cli.ExitCode(err))
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "arclint dev")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, cli.ExitCode(nil))
	assert.Equal(t, 2, cli.ExitCode(errors.New("unknown flag")))
	assert.Equal(t, 1, cli.ExitCode(errors.Wrap(&cli.ExitError{Code: 1}, "context")))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit code 1", (&cli.ExitError{Code: 1}).Error())
	assert.Equal(t, "boom", (&cli.ExitError{Err: errors.New("boom"), Code: 2}).Error())
}
