package rules_test

import (
	"strings"
	"testing"

	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/domain/rules"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// parseDoc builds a document from YAML source the way the loader does for a
// single-document file, without line information.
func parseDoc(t *testing.T, path, src string) *domain.Document {
	t.Helper()
	var raw any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))

	doc := &domain.Document{Path: path, Line: 1, Raw: raw, Text: src}
	if m, ok := raw.(map[string]any); ok {
		doc.Kind, _ = m["kind"].(string)
		if meta, ok := m["metadata"].(map[string]any); ok {
			doc.Name, _ = meta["name"].(string)
			doc.Namespace, _ = meta["namespace"].(string)
		}
		if data, ok := m["data"].(map[string]any); ok && doc.Kind == domain.KindConfigMap {
			doc.Embedded = map[string]domain.Embedded{}
			for k, v := range data {
				body, ok := v.(string)
				if !ok {
					continue
				}
				var emb any
				err := yaml.Unmarshal([]byte(body), &emb)
				if strings.HasSuffix(k, ".yaml") || strings.HasSuffix(k, ".yml") {
					doc.Embedded[k] = domain.Embedded{Raw: emb, Err: err}
				} else if _, isMap := emb.(map[string]any); err == nil && isMap {
					doc.Embedded[k] = domain.Embedded{Raw: emb}
				}
			}
		}
	}
	return doc
}

func evaluate(t *testing.T, path, src string) []domain.Finding {
	t.Helper()
	return rules.Default(domain.DefaultConfig()).Evaluate(parseDoc(t, path, src))
}

func ruleIDs(findings []domain.Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.RuleID)
	}
	return ids
}

func byRule(findings []domain.Finding, id string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.RuleID == id {
			out = append(out, f)
		}
	}
	return out
}

const compliantRunner = `apiVersion: actions.summerwind.dev/v1alpha1
kind: RunnerDeployment
metadata:
  name: org-runners
  namespace: arc-runners
spec:
  replicas: 2
  template:
    spec:
      organization: example
      securityContext:
        runAsNonRoot: true
      resources:
        requests:
          cpu: 500m
        limits:
          cpu: "1"
`
