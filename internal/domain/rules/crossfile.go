package rules

import (
	"fmt"
	"strings"

	"github.com/arclint/arclint/internal/domain"
)

// Directory markers the namespace rules key off.
const (
	orgLevelMarker  = "org-level"
	repoLevelMarker = "repo-level"
)

var orgLevelNamespace = Rule{
	ID:       "ns-001",
	Stage:    domain.StageCrossFile,
	Severity: domain.SeverityWarning,
	Summary:  "org-level files should use a namespace containing \"arc\" or \"org\"",
	Check:    checkOrgLevelNamespace,
}

func checkOrgLevelNamespace(doc *domain.Document, _ Settings) []Hit {
	ns := doc.Namespace
	if ns == "" || !segmentContains(doc.Path, orgLevelMarker) {
		return nil
	}
	if strings.Contains(ns, "arc") || strings.Contains(ns, "org") {
		return nil
	}
	return []Hit{{
		Message: fmt.Sprintf("namespace %q of an org-level file should contain \"arc\" or \"org\"", ns),
		Line:    firstLine(doc, "metadata.namespace"),
	}}
}

var repoLevelNamespace = Rule{
	ID:       "ns-002",
	Stage:    domain.StageCrossFile,
	Severity: domain.SeverityWarning,
	Summary:  "repo-level files should not use arc or system namespaces",
	Check:    checkRepoLevelNamespace,
}

func checkRepoLevelNamespace(doc *domain.Document, _ Settings) []Hit {
	ns := doc.Namespace
	if ns == "" || !segmentContains(doc.Path, repoLevelMarker) {
		return nil
	}
	if !strings.Contains(ns, "arc") && !strings.Contains(ns, "system") {
		return nil
	}
	return []Hit{{
		Message: fmt.Sprintf("namespace %q of a repo-level file should not contain \"arc\" or \"system\"", ns),
		Line:    firstLine(doc, "metadata.namespace"),
	}}
}

var duplicateResources = BatchRule{
	ID:       "dup-001",
	Stage:    domain.StageCrossFile,
	Severity: domain.SeverityWarning,
	Summary:  "a kind/namespace/name must be declared only once across all files",
	Check:    checkDuplicates,
}

func checkDuplicates(refs []domain.ResourceRef) []BatchHit {
	first := make(map[string]domain.ResourceRef)
	var hits []BatchHit
	for _, ref := range refs {
		if ref.Kind == "" || ref.Name == "" {
			continue
		}
		key := ref.Kind + "/" + ref.Namespace + "/" + ref.Name
		orig, dup := first[key]
		if !dup {
			first[key] = ref
			continue
		}
		where := domain.Finding{File: orig.Path, Document: orig.Index}.Location()
		hits = append(hits, BatchHit{
			Ref:     ref,
			Message: fmt.Sprintf("%s %s is already declared in %s", ref.Kind, qualifiedName(ref), where),
			Detail:  []string{where},
		})
	}
	return hits
}

func qualifiedName(ref domain.ResourceRef) string {
	if ref.Namespace == "" {
		return ref.Name
	}
	return ref.Namespace + "/" + ref.Name
}
