package rules

import (
	"fmt"

	"github.com/arclint/arclint/internal/domain"
)

var securityContextPresent = Rule{
	ID:       "sec-001",
	Stage:    domain.StageSecurity,
	Severity: domain.SeverityWarning,
	Summary:  "RunnerDeployment should declare a securityContext",
	Kinds:    []string{domain.KindRunnerDeployment},
	Check:    checkSecurityContext,
}

func checkSecurityContext(doc *domain.Document, _ Settings) []Hit {
	if hasKey(doc.Raw, "securityContext") {
		return nil
	}
	return []Hit{{
		Message: "RunnerDeployment has no securityContext",
		Line:    firstLine(doc, "spec.template.spec", "spec"),
	}}
}

var resourceLimits = Rule{
	ID:       "sec-002",
	Stage:    domain.StageSecurity,
	Severity: domain.SeverityWarning,
	Summary:  "resource requests should be paired with limits",
	Check:    checkResourceLimits,
}

func checkResourceLimits(doc *domain.Document, _ Settings) []Hit {
	var hits []Hit
	walk(doc.Raw, "", func(path, key string, value any) {
		if key != "resources" {
			return
		}
		m, ok := asMap(value)
		if !ok {
			return
		}
		_, hasRequests := m["requests"]
		_, hasLimits := m["limits"]
		if hasRequests && !hasLimits {
			hits = append(hits, Hit{
				Message: fmt.Sprintf("%s sets requests without limits", path),
				Line:    doc.LineOf(path),
				Detail:  []string{path},
			})
		}
	})
	return hits
}

var runAsNonRoot = Rule{
	ID:       "sec-003",
	Stage:    domain.StageSecurity,
	Severity: domain.SeverityError,
	Summary:  "runAsNonRoot must not be explicitly false",
	Check:    checkRunAsNonRoot,
	// One finding per file, however many documents opt out.
	OncePerFile: true,
}

func checkRunAsNonRoot(doc *domain.Document, _ Settings) []Hit {
	var paths []string
	collect := func(prefix string) visitFunc {
		return func(path, key string, value any) {
			if key == "runAsNonRoot" && isFalse(value) {
				paths = append(paths, prefix+path)
			}
		}
	}

	walk(doc.Raw, "", collect(""))
	for _, key := range sortedEmbeddedKeys(doc) {
		emb := doc.Embedded[key]
		if emb.Err != nil {
			continue
		}
		walk(emb.Raw, "", collect(domain.JoinPath("data", key)+":"))
	}

	if len(paths) == 0 {
		return nil
	}
	return []Hit{{
		Message: "runAsNonRoot is explicitly set to false",
		Line:    firstLine(doc, paths[0], "data"),
		Detail:  paths,
	}}
}

var configMapPolicySecurity = Rule{
	ID:       "cm-002",
	Stage:    domain.StageSecurity,
	Severity: domain.SeverityWarning,
	Summary:  "ConfigMap policy body should declare a securityContext",
	Kinds:    []string{domain.KindConfigMap},
	Check:    checkPolicySecurity,
}

func checkPolicySecurity(doc *domain.Document, _ Settings) []Hit {
	emb, ok := doc.Embedded[policyKey]
	if !ok {
		return nil
	}
	line := firstLine(doc, domain.JoinPath("data", policyKey), "data")
	if emb.Err != nil {
		return []Hit{{
			Message: fmt.Sprintf("%s body is not valid YAML: %v", policyKey, emb.Err),
			Line:    line,
		}}
	}
	if hasKey(emb.Raw, "securityContext") {
		return nil
	}
	return []Hit{{
		Message: policyKey + " body has no securityContext",
		Line:    line,
	}}
}

func sortedEmbeddedKeys(doc *domain.Document) []string {
	m := make(map[string]any, len(doc.Embedded))
	for k := range doc.Embedded {
		m[k] = nil
	}
	return sortedKeys(m)
}
