// Package rules holds the validation rule catalog and the rule set that
// evaluates parsed manifest documents.
package rules

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/arclint/arclint/internal/domain"
)

// Settings carries the tunable thresholds rules read.
type Settings struct {
	MaxLineLength int
}

// Hit is a single violation reported by a rule body. The rule set turns
// hits into findings, stamping the rule id and severity.
type Hit struct {
	Message string
	Line    int
	Detail  []string
}

// CheckFunc is a pure rule body. It must not mutate the document.
type CheckFunc func(doc *domain.Document, s Settings) []Hit

// FixFunc rewrites file content for auto-fixable rules.
type FixFunc func(content []byte) []byte

// Rule is a single named check over one document.
type Rule struct {
	ID       string
	Stage    domain.Stage
	Severity domain.Severity
	Summary  string
	// Kinds restricts the rule to documents of these kinds. Empty means all.
	Kinds []string
	Check CheckFunc
	Fix   FixFunc
	// FixNote describes what Fix did, for the applied-fix log.
	FixNote string
	// OncePerFile folds the rule's findings across the documents of one
	// file into a single finding. See MergeFile.
	OncePerFile bool
}

// AppliesTo reports whether the rule runs for documents of kind.
func (r Rule) AppliesTo(kind string) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Fixable reports whether the rule can rewrite files in fix mode.
func (r Rule) Fixable() bool { return r.Fix != nil }

// BatchHit is a violation found by a batch rule, attributed to one resource.
type BatchHit struct {
	Ref     domain.ResourceRef
	Message string
	Detail  []string
}

// BatchRule checks consistency across every document of a run. It sees
// resource references only, never document trees.
type BatchRule struct {
	ID       string
	Stage    domain.Stage
	Severity domain.Severity
	Summary  string
	Check    func(refs []domain.ResourceRef) []BatchHit
}

// Info describes a rule for listings.
type Info struct {
	ID       string          `json:"id"`
	Stage    string          `json:"stage"`
	Severity domain.Severity `json:"severity"`
	Summary  string          `json:"summary"`
	Kinds    []string        `json:"kinds,omitempty"`
	Fixable  bool            `json:"fixable"`
}

// RuleSet is an ordered collection of rules. Rules execute in stage order
// and, within a stage, in the order they were declared.
type RuleSet struct {
	rules    []Rule
	batch    []BatchRule
	settings Settings
}

// New builds a rule set. The declared order is kept within each stage.
func New(settings Settings, rules []Rule, batch []BatchRule) *RuleSet {
	ordered := append([]Rule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Stage < ordered[j].Stage
	})
	orderedBatch := append([]BatchRule(nil), batch...)
	sort.SliceStable(orderedBatch, func(i, j int) bool {
		return orderedBatch[i].Stage < orderedBatch[j].Stage
	})
	return &RuleSet{rules: ordered, batch: orderedBatch, settings: settings}
}

// Default returns the built-in catalog minus the rules disabled by cfg.
func Default(cfg domain.ProjectConfig) *RuleSet {
	cfg = cfg.WithDefaults()

	var rules []Rule
	for _, r := range Catalog() {
		if !cfg.IsDisabled(r.ID) {
			rules = append(rules, r)
		}
	}
	var batch []BatchRule
	for _, r := range BatchCatalog() {
		if !cfg.IsDisabled(r.ID) {
			batch = append(batch, r)
		}
	}

	return New(Settings{MaxLineLength: cfg.MaxLineLength}, rules, batch)
}

// Describe lists every rule, document rules first, in execution order.
func (s *RuleSet) Describe() []Info {
	infos := make([]Info, 0, len(s.rules)+len(s.batch))
	for _, r := range s.rules {
		infos = append(infos, Info{
			ID:       r.ID,
			Stage:    r.Stage.String(),
			Severity: r.Severity,
			Summary:  r.Summary,
			Kinds:    r.Kinds,
			Fixable:  r.Fixable(),
		})
	}
	for _, r := range s.batch {
		infos = append(infos, Info{
			ID:       r.ID,
			Stage:    r.Stage.String(),
			Severity: r.Severity,
			Summary:  r.Summary,
		})
	}
	return infos
}

// Evaluate runs every applicable rule against doc. Documents that failed to
// parse are never evaluated.
func (s *RuleSet) Evaluate(doc *domain.Document) []domain.Finding {
	if doc == nil || doc.ParseError != nil {
		return nil
	}

	var findings []domain.Finding
	for _, r := range s.rules {
		if !r.AppliesTo(doc.Kind) {
			continue
		}
		for _, h := range r.Check(doc, s.settings) {
			findings = append(findings, domain.Finding{
				File:     doc.Path,
				Document: doc.Index,
				Line:     h.Line,
				RuleID:   r.ID,
				Severity: r.Severity,
				Message:  h.Message,
				Detail:   h.Detail,
				Fixable:  r.Fixable(),
			})
		}
	}
	return findings
}

// MergeFile folds the findings of OncePerFile rules, gathered from every
// document of one file, into the first such finding. When the findings came
// from several documents each Detail entry is prefixed with its "#n"
// document index. Other findings pass through in order.
func (s *RuleSet) MergeFile(findings []domain.Finding) []domain.Finding {
	once := make(map[string]bool)
	for _, r := range s.rules {
		if r.OncePerFile {
			once[r.ID] = true
		}
	}
	if len(once) == 0 {
		return findings
	}

	grouped := make(map[string][]domain.Finding)
	for _, f := range findings {
		if once[f.RuleID] {
			grouped[f.RuleID] = append(grouped[f.RuleID], f)
		}
	}

	out := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		group, ok := grouped[f.RuleID]
		if !ok {
			out = append(out, f)
			continue
		}
		if group == nil {
			continue // already merged into the first occurrence
		}
		out = append(out, mergeFindings(group))
		grouped[f.RuleID] = nil
	}
	return out
}

func mergeFindings(group []domain.Finding) domain.Finding {
	if len(group) == 1 {
		return group[0]
	}
	merged := group[0]
	merged.Detail = nil
	for _, f := range group {
		if len(f.Detail) == 0 {
			merged.Detail = append(merged.Detail, fmt.Sprintf("#%d", f.Document))
			continue
		}
		for _, d := range f.Detail {
			merged.Detail = append(merged.Detail, fmt.Sprintf("#%d %s", f.Document, d))
		}
	}
	return merged
}

// EvaluateBatch runs the batch rules over every resource of a run.
// Findings come back in rule order, then reference order.
func (s *RuleSet) EvaluateBatch(refs []domain.ResourceRef) []domain.Finding {
	var findings []domain.Finding
	for _, r := range s.batch {
		for _, h := range r.Check(refs) {
			findings = append(findings, domain.Finding{
				File:     h.Ref.Path,
				Document: h.Ref.Index,
				Line:     h.Ref.Line,
				RuleID:   r.ID,
				Severity: r.Severity,
				Message:  h.Message,
				Detail:   h.Detail,
			})
		}
	}
	return findings
}

// Fix applies every auto-fixable rule to content in execution order and
// returns the rewritten content plus the rules that changed it.
func (s *RuleSet) Fix(content []byte) ([]byte, []Rule) {
	var applied []Rule
	for _, r := range s.rules {
		if r.Fix == nil {
			continue
		}
		fixed := r.Fix(content)
		if !bytes.Equal(fixed, content) {
			applied = append(applied, r)
			content = fixed
		}
	}
	return content, applied
}
