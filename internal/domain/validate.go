package domain

// ValidateOptions configures a validation run.
type ValidateOptions struct {
	Fix FixOptions `json:"fix"`
	// Verbose narrates per-file progress. It never changes outcomes.
	Verbose bool `json:"verbose"`
	// Jobs bounds the number of files processed concurrently. Values below
	// one mean sequential processing.
	Jobs int `json:"jobs,omitempty"`
}

// Workers returns the effective worker count.
func (o ValidateOptions) Workers() int {
	if o.Jobs < 1 {
		return 1
	}
	return o.Jobs
}
