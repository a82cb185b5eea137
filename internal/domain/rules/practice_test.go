package rules_test

import (
	"strings"
	"testing"

	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/domain/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholderSrc = `kind: RunnerDeployment
metadata:
  name: __RUNNER_NAME__
spec:
  template:
    spec:
      organization: __ORG__
      securityContext:
        runAsNonRoot: true
      labels:
        - __ORG__
`

func TestTmpl001_PlaceholdersOutsideTemplates(t *testing.T) {
	findings := byRule(evaluate(t, "org-level/runner.yaml", placeholderSrc), "tmpl-001")
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"__ORG__", "__RUNNER_NAME__"}, findings[0].Detail)
	assert.Equal(t, domain.SeverityWarning, findings[0].Severity)
}

func TestTmpl001_TemplatesDirectoryIsExempt(t *testing.T) {
	assert.Empty(t, byRule(evaluate(t, "templates/runner.yaml", placeholderSrc), "tmpl-001"))
	assert.Empty(t, byRule(evaluate(t, "configs/templates/org/runner.yaml", placeholderSrc), "tmpl-001"))
}

func TestTmpl001_SegmentMustMatchExactly(t *testing.T) {
	assert.Len(t, byRule(evaluate(t, "my-templates/runner.yaml", placeholderSrc), "tmpl-001"), 1)
	assert.Len(t, byRule(evaluate(t, "configs/templates.yaml", placeholderSrc), "tmpl-001"), 1,
		"the file name is not a directory segment")
}

func TestTmpl001_IgnoresComments(t *testing.T) {
	src := "kind: Secret\n# replace __TOKEN__ before applying\nmetadata:\n  name: s\n"
	assert.Empty(t, evaluate(t, "s.yaml", src))
}

func TestTmpl001_PlaceholderInKey(t *testing.T) {
	src := "kind: ConfigMap\ndata:\n  __KEY__: v\n  policy.yaml: \"securityContext: {}\"\n"
	findings := byRule(evaluate(t, "cm.yaml", src), "tmpl-001")
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"__KEY__"}, findings[0].Detail)
}

func TestTmpl001_TokenMustStartWithLetter(t *testing.T) {
	src := "kind: Secret\nmetadata:\n  name: a_____b\n  labels:\n    tier: __1__\n"
	assert.Empty(t, byRule(evaluate(t, "s.yaml", src), "tmpl-001"))
}

func TestFmt001_Tabs(t *testing.T) {
	src := "kind: Secret\nmetadata:\n  name: \"a\tb\"\n"
	findings := evaluate(t, "s.yaml", src)
	require.Equal(t, []string{"fmt-001"}, ruleIDs(findings))
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, []string{"line 3"}, findings[0].Detail)
}

func TestFmt002_TrailingWhitespace(t *testing.T) {
	src := "kind: Secret  \nmetadata:\n  name: s \n"
	findings := evaluate(t, "s.yaml", src)
	require.Equal(t, []string{"fmt-002"}, ruleIDs(findings))
	f := findings[0]
	assert.Equal(t, 1, f.Line)
	assert.Equal(t, []string{"line 1", "line 3"}, f.Detail)
	assert.Contains(t, f.Message, "2 line(s)")
	assert.True(t, f.Fixable)
}

func TestFmt002_LineNumbersOffsetByDocumentStart(t *testing.T) {
	doc := parseDoc(t, "s.yaml", "kind: Secret \n")
	doc.Line = 12
	findings := rules.Default(domain.DefaultConfig()).Evaluate(doc)
	require.Len(t, findings, 1)
	assert.Equal(t, 12, findings[0].Line)
}

func TestFmt002_CRLFIsNotWhitespace(t *testing.T) {
	src := "kind: Secret\r\nmetadata:\r\n  name: s\r\n"
	assert.Empty(t, evaluate(t, "s.yaml", src))
}

func TestFmt002_FixStripsTrailingWhitespace(t *testing.T) {
	set := rules.Default(domain.DefaultConfig())
	input := []byte("a: 1 \t\r\nb: 2   \nc: 3")
	fixed, _ := set.Fix(input)
	assert.Equal(t, "a: 1\r\nb: 2\nc: 3", string(fixed))
	assert.Equal(t, "a: 1 \t\r\nb: 2   \nc: 3", string(input), "input is left untouched")
}

func TestFmt003_LongLines(t *testing.T) {
	long := strings.Repeat("x", 201)
	src := "kind: Secret\nmetadata:\n  name: " + long + "\n"
	findings := evaluate(t, "s.yaml", src)
	require.Equal(t, []string{"fmt-003"}, ruleIDs(findings))
	assert.Contains(t, findings[0].Message, "exceed 200 characters")
}

func TestFmt003_ExactlyAtLimitIsFine(t *testing.T) {
	line := "k: " + strings.Repeat("x", 197)
	require.Len(t, line, 200)
	assert.Empty(t, evaluate(t, "s.yaml", line+"\n"))
}

func TestFmt003_CountsRunesNotBytes(t *testing.T) {
	line := "k: " + strings.Repeat("é", 197)
	assert.Empty(t, evaluate(t, "s.yaml", line+"\n"))
}

func TestFmt003_ConfiguredLimit(t *testing.T) {
	set := rules.Default(domain.ProjectConfig{MaxLineLength: 10})
	findings := set.Evaluate(parseDoc(t, "s.yaml", "name: abcdefghijkl\n"))
	require.Len(t, findings, 1)
	assert.Equal(t, "fmt-003", findings[0].RuleID)
	assert.Contains(t, findings[0].Message, "exceed 10 characters")
}
