package rules

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arclint/arclint/internal/domain"
)

// templatesDir marks directories whose files are expected to hold placeholders.
const templatesDir = "templates"

var placeholderPattern = regexp.MustCompile(`__[A-Z][A-Z0-9_]*__`)

var unresolvedPlaceholders = Rule{
	ID:       "tmpl-001",
	Stage:    domain.StageBestPractice,
	Severity: domain.SeverityWarning,
	Summary:  "non-template files must not contain __TOKEN__ placeholders",
	Check:    checkPlaceholders,
}

func checkPlaceholders(doc *domain.Document, _ Settings) []Hit {
	if hasSegment(doc.Path, templatesDir) {
		return nil
	}

	seen := make(map[string]bool)
	scan := func(s string) {
		for _, tok := range placeholderPattern.FindAllString(s, -1) {
			seen[tok] = true
		}
	}
	walk(doc.Raw, "", func(_, key string, _ any) { scan(key) })
	walkScalars(doc.Raw, func(v any) {
		if s, ok := v.(string); ok {
			scan(s)
		}
	})
	if len(seen) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return []Hit{{
		Message: "unresolved placeholder tokens: " + strings.Join(tokens, ", "),
		Line:    doc.Line,
		Detail:  tokens,
	}}
}

var noTabs = Rule{
	ID:       "fmt-001",
	Stage:    domain.StageBestPractice,
	Severity: domain.SeverityWarning,
	Summary:  "files should not contain tab characters",
	Check:    checkTabs,
}

func checkTabs(doc *domain.Document, _ Settings) []Hit {
	return lineHits(doc, func(line string) bool {
		return strings.ContainsRune(line, '\t')
	}, "contain tab characters")
}

var noTrailingWhitespace = Rule{
	ID:       "fmt-002",
	Stage:    domain.StageBestPractice,
	Severity: domain.SeverityWarning,
	Summary:  "lines should not end with whitespace (auto-fixable)",
	Check:    checkTrailingWhitespace,
	Fix:      stripTrailingWhitespace,
	FixNote:  "stripped trailing whitespace",
}

func checkTrailingWhitespace(doc *domain.Document, _ Settings) []Hit {
	return lineHits(doc, hasTrailingWhitespace, "end with trailing whitespace")
}

func hasTrailingWhitespace(line string) bool {
	return line != strings.TrimRight(line, " \t")
}

// stripTrailingWhitespace removes spaces and tabs before every line ending,
// keeping CRLF endings intact. The input is never modified.
func stripTrailingWhitespace(content []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(content))
	for i, l := range bytes.Split(content, []byte("\n")) {
		if i > 0 {
			out.WriteByte('\n')
		}
		cr := bytes.HasSuffix(l, []byte("\r"))
		l = bytes.TrimRight(bytes.TrimSuffix(l, []byte("\r")), " \t")
		out.Write(l)
		if cr {
			out.WriteByte('\r')
		}
	}
	return out.Bytes()
}

var lineLength = Rule{
	ID:       "fmt-003",
	Stage:    domain.StageBestPractice,
	Severity: domain.SeverityWarning,
	Summary:  "lines should not exceed the configured maximum length",
	Check:    checkLineLength,
}

func checkLineLength(doc *domain.Document, s Settings) []Hit {
	limit := s.MaxLineLength
	if limit <= 0 {
		limit = domain.DefaultMaxLineLength
	}
	return lineHits(doc, func(line string) bool {
		return utf8.RuneCountInString(line) > limit
	}, fmt.Sprintf("exceed %d characters", limit))
}

// lineHits reports one hit per document listing every matching line.
func lineHits(doc *domain.Document, match func(string) bool, what string) []Hit {
	var lines []string
	first := 0
	for i, l := range textLines(doc.Text) {
		if !match(l) {
			continue
		}
		n := doc.Line + i
		if first == 0 {
			first = n
		}
		lines = append(lines, fmt.Sprintf("line %d", n))
	}
	if len(lines) == 0 {
		return nil
	}
	return []Hit{{
		Message: fmt.Sprintf("%d line(s) %s", len(lines), what),
		Line:    first,
		Detail:  lines,
	}}
}
