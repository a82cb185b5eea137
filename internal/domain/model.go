package domain

import (
	"fmt"
	"strings"
)

// Severity classifies a finding. Only errors make a file invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Label is the upper-case tag used in rendered reports.
func (s Severity) Label() string { return strings.ToUpper(string(s)) }

// Stage groups rules. Stages run in declaration order.
type Stage int

const (
	StageSyntax Stage = iota
	StageStructural
	StageSecurity
	StageBestPractice
	StageCrossFile
)

func (s Stage) String() string {
	switch s {
	case StageSyntax:
		return "syntax"
	case StageStructural:
		return "structural"
	case StageSecurity:
		return "security"
	case StageBestPractice:
		return "best-practice"
	case StageCrossFile:
		return "cross-file"
	default:
		return "unknown"
	}
}

// Well-known document kinds the rule catalog keys off.
const (
	KindRunnerDeployment = "RunnerDeployment"
	KindConfigMap        = "ConfigMap"
)

// Reserved rule ids synthesized by the session rather than by a rule.
const (
	RuleSyntax      = "syntax-000"
	RuleEnvironment = "env-000"
	RuleNoFiles     = "scan-001"
)

// Document is one parsed unit of a manifest file. A file holding several
// "---" separated documents yields one Document per segment.
type Document struct {
	Path      string
	Index     int // 0 for single-document files, 1-based otherwise
	Line      int // first line of the segment in the file
	Kind      string
	Name      string
	Namespace string
	Raw       any
	Text      string
	// Lines maps dotted tree paths (spec.template.spec.containers[0]) to
	// the source line of the key.
	Lines map[string]int
	// Embedded holds decoded YAML bodies found in ConfigMap data, keyed by
	// data key.
	Embedded   map[string]Embedded
	ParseError error
}

// LineOf returns the file line for a tree path, or 0 when unknown.
func (d *Document) LineOf(path string) int {
	if d == nil || d.Lines == nil {
		return 0
	}
	return d.Lines[path]
}

// Ref returns the lightweight identity used by batch cross-file checks.
func (d *Document) Ref() ResourceRef {
	return ResourceRef{
		Path:      d.Path,
		Index:     d.Index,
		Line:      d.Line,
		Kind:      d.Kind,
		Name:      d.Name,
		Namespace: d.Namespace,
	}
}

// ResourceRef identifies a declared resource without holding its tree.
type ResourceRef struct {
	Path      string `json:"path"`
	Index     int    `json:"document,omitempty"`
	Line      int    `json:"line,omitempty"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

// Finding is a single rule outcome attributed to one file and one rule.
type Finding struct {
	File     string   `json:"file"`
	Document int      `json:"document,omitempty"`
	Line     int      `json:"line,omitempty"`
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Detail   []string `json:"detail,omitempty"`
	Fixable  bool     `json:"fixable,omitempty"`
}

// Location renders the file path, suffixed with the sub-document index for
// multi-document files.
func (f Finding) Location() string {
	if f.Document > 0 {
		return fmt.Sprintf("%s#%d", f.File, f.Document)
	}
	return f.File
}

// FileSummary is the per-file outcome kept on the report.
type FileSummary struct {
	Path      string `json:"path"`
	Documents int    `json:"documents"`
	Errors    int    `json:"errors"`
	Warnings  int    `json:"warnings"`
	Fixed     bool   `json:"fixed,omitempty"`
}

// Valid reports whether the file has no error-severity findings.
func (f FileSummary) Valid() bool { return f.Errors == 0 }

// FileResult is everything the session learned about one file.
type FileResult struct {
	Path      string
	Documents int
	Findings  []Finding
	Fixes     []AppliedFix
	Refs      []ResourceRef
}

// Embedded is a YAML body carried as a string inside another document, such
// as the policy.yaml entry of a ConfigMap.
type Embedded struct {
	Raw any
	Err error
}

// JoinPath appends a mapping key to a dotted tree path.
func JoinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// IndexPath appends a sequence index to a tree path.
func IndexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
