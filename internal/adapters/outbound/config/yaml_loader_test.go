package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/arclint/arclint/internal/adapters/outbound/config"
	"github.com/arclint/arclint/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, appconfig.FileName), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "# nothing here\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
exclude_paths:
  - generated
disabled_rules:
  - fmt-003
  - ns-002
max_line_length: 120
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"generated"}, cfg.ExcludePaths)
	assert.Equal(t, []string{"fmt-003", "ns-002"}, cfg.DisabledRules)
	assert.Equal(t, 120, cfg.MaxLineLength)
	assert.Equal(t, domain.DefaultExtensions, cfg.Extensions, "unset fields fall back to defaults")
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "parsing .arclint.yaml")
}

func TestYAMLLoader_SchemaRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_line_lenght: 100\n")

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestYAMLLoader_SchemaRejectsWrongType(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_line_length: long\n")

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestYAMLLoader_UnknownRuleID(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "disabled_rules:\n  - sec-999\n")

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	assert.Contains(t, err.Error(), `unknown rule "sec-999"`)
}

func TestYAMLLoader_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "extensions: [.yaml, .json]\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".yaml", ".json"}, cfg.Extensions)
}
