package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultMaxLineLength is the fmt-003 threshold when none is configured.
const DefaultMaxLineLength = 200

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".yaml", ".yml"}

// ValidRuleIDs enumerates every rule id in the catalog, in declared order.
var ValidRuleIDs = []string{
	"struct-001", "cm-001",
	"sec-001", "sec-002", "sec-003", "cm-002",
	"tmpl-001", "fmt-001", "fmt-002", "fmt-003",
	"ns-001", "ns-002", "dup-001",
}

// ProjectConfig holds project-level configuration loaded from .arclint.yaml.
type ProjectConfig struct {
	Extensions    []string `yaml:"extensions"      json:"extensions,omitempty"`
	ExcludePaths  []string `yaml:"exclude_paths"   json:"exclude_paths,omitempty"`
	DisabledRules []string `yaml:"disabled_rules"  json:"disabled_rules,omitempty"`
	MaxLineLength int      `yaml:"max_line_length" json:"max_line_length,omitempty"`
}

// DefaultConfig returns the configuration used when no .arclint.yaml exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Extensions:    append([]string(nil), DefaultExtensions...),
		MaxLineLength: DefaultMaxLineLength,
	}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	def := DefaultConfig()
	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}
	if c.MaxLineLength == 0 {
		c.MaxLineLength = def.MaxLineLength
	}
	return c
}

// IsDisabled reports whether the rule id is switched off.
func (c ProjectConfig) IsDisabled(ruleID string) bool {
	for _, id := range c.DisabledRules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.Wrapf(ErrInvalidConfig, "extension %q must start with a dot", ext)
		}
	}

	for _, id := range c.DisabledRules {
		if !isValidRuleID(id) {
			return errors.Wrapf(ErrInvalidConfig, "unknown rule %q in disabled_rules", id)
		}
	}

	if c.MaxLineLength < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_line_length must be > 0 (got %d)", c.MaxLineLength)
	}

	for _, p := range c.ExcludePaths {
		if strings.TrimSpace(p) == "" {
			return errors.Wrap(ErrInvalidConfig, "exclude_paths entries must not be empty")
		}
	}

	return nil
}

func isValidRuleID(id string) bool {
	for _, v := range ValidRuleIDs {
		if v == id {
			return true
		}
	}
	return false
}
