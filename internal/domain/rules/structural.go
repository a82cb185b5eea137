package rules

import "github.com/arclint/arclint/internal/domain"

// policyKey is the ConfigMap data key holding the runner policy body.
const policyKey = "policy.yaml"

var structTargetRef = Rule{
	ID:       "struct-001",
	Stage:    domain.StageStructural,
	Severity: domain.SeverityError,
	Summary:  "RunnerDeployment must reference a repository or an organization",
	Kinds:    []string{domain.KindRunnerDeployment},
	Check:    checkTargetRef,
}

func checkTargetRef(doc *domain.Document, _ Settings) []Hit {
	found := false
	walk(doc.Raw, "", func(_, key string, value any) {
		if (key == "repository" || key == "organization") && nonEmptyScalar(value) {
			found = true
		}
	})
	if found {
		return nil
	}
	return []Hit{{
		Message: "RunnerDeployment declares neither a repository nor an organization",
		Line:    firstLine(doc, "spec.template.spec", "spec"),
	}}
}

var configMapPolicyKey = Rule{
	ID:       "cm-001",
	Stage:    domain.StageStructural,
	Severity: domain.SeverityWarning,
	Summary:  "ConfigMap should carry a policy.yaml data key",
	Kinds:    []string{domain.KindConfigMap},
	Check:    checkPolicyKey,
}

func checkPolicyKey(doc *domain.Document, _ Settings) []Hit {
	if _, ok := lookup(doc.Raw, "data", policyKey); ok {
		return nil
	}
	return []Hit{{
		Message: "ConfigMap has no " + policyKey + " data key",
		Line:    firstLine(doc, "data"),
	}}
}

// firstLine returns the line of the first known tree path, falling back to
// the document start.
func firstLine(doc *domain.Document, paths ...string) int {
	for _, p := range paths {
		if l := doc.LineOf(p); l > 0 {
			return l
		}
	}
	return doc.Line
}
