package domain

// Exit codes of a validation run.
const (
	ExitOK          = 0
	ExitInvalid     = 1
	ExitEnvironment = 2
)

// Report aggregates a validation run. The session owns it while files are
// processed; after Finalize it is read-only.
type Report struct {
	Root         string        `json:"root"`
	Commit       string        `json:"commit,omitempty"`
	TotalFiles   int           `json:"total_files"`
	ValidFiles   int           `json:"valid_files"`
	InvalidFiles int           `json:"invalid_files"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	InfoCount    int           `json:"info_count"`
	Aborted      bool          `json:"aborted,omitempty"`
	Findings     []Finding     `json:"findings"`
	Files        []FileSummary `json:"files"`
	Fixes        []AppliedFix  `json:"fixes,omitempty"`
}

// NewReport creates an empty report for root.
func NewReport(root string) *Report {
	return &Report{Root: root, Findings: []Finding{}, Files: []FileSummary{}}
}

// AddFile appends one file's findings and fixes in their recorded order.
func (r *Report) AddFile(res FileResult) {
	summary := FileSummary{
		Path:      res.Path,
		Documents: res.Documents,
	}
	for _, fx := range res.Fixes {
		if !fx.DryRun {
			summary.Fixed = true
		}
	}
	for _, f := range res.Findings {
		switch f.Severity {
		case SeverityError:
			summary.Errors++
		case SeverityWarning:
			summary.Warnings++
		}
	}
	r.Findings = append(r.Findings, res.Findings...)
	r.Fixes = append(r.Fixes, res.Fixes...)
	r.Files = append(r.Files, summary)
}

// AddFinding records a top-level finding that is not tied to a scanned file,
// such as "no files found".
func (r *Report) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Abort records an environment-level failure. No further files are processed.
func (r *Report) Abort(message string) {
	r.Aborted = true
	r.Findings = append(r.Findings, Finding{
		File:     r.Root,
		RuleID:   RuleEnvironment,
		Severity: SeverityError,
		Message:  message,
	})
}

// Finalize computes the counters from the recorded findings and files.
func (r *Report) Finalize() {
	r.ErrorCount, r.WarningCount, r.InfoCount = 0, 0, 0
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		case SeverityInfo:
			r.InfoCount++
		}
	}

	r.TotalFiles = len(r.Files)
	r.ValidFiles, r.InvalidFiles = 0, 0
	for _, f := range r.Files {
		if f.Valid() {
			r.ValidFiles++
		} else {
			r.InvalidFiles++
		}
	}
}

// Passed reports whether the run should gate CI green.
func (r *Report) Passed() bool {
	return !r.Aborted && r.InvalidFiles == 0
}

// ExitCode maps the report to the process exit status.
func (r *Report) ExitCode() int {
	switch {
	case r.Aborted:
		return ExitEnvironment
	case r.InvalidFiles > 0:
		return ExitInvalid
	default:
		return ExitOK
	}
}
