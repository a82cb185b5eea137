package domain

// AppliedFix records an in-place rewrite performed in fix mode.
type AppliedFix struct {
	Path        string `json:"path"`
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	// DryRun marks a fix that was computed but not written.
	DryRun bool `json:"dry_run,omitempty"`
}

// FixOptions controls auto-fixing during a validation run.
type FixOptions struct {
	Enabled bool `json:"enabled"`
	// DryRun reports which fixes would apply without writing files.
	DryRun bool `json:"dry_run"`
}

// Active reports whether fixable rules should rewrite files.
func (o FixOptions) Active() bool { return o.Enabled && !o.DryRun }
