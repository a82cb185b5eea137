// Package loader turns manifest files into parsed documents. YAML is the
// only registered format; files holding several "---" separated documents
// yield one document per segment.
package loader

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/arclint/arclint/internal/domain"
)

// decodeFunc parses the content of one file into documents.
type decodeFunc func(path string, content []byte) []*domain.Document

// Loader implements domain.DocumentLoader.
type Loader struct {
	decoders map[string]decodeFunc
}

func New() *Loader {
	return &Loader{decoders: map[string]decodeFunc{
		".yaml": decodeYAML,
		".yml":  decodeYAML,
	}}
}

// HasDecoder reports whether files with extension ext can be decoded.
func (l *Loader) HasDecoder(ext string) bool {
	_, ok := l.decoders[strings.ToLower(ext)]
	return ok
}

// Read returns the raw bytes of path.
func (l *Loader) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// Decode parses content. It never fails as a whole: a segment that cannot
// be parsed comes back as a document carrying ParseError.
func (l *Loader) Decode(path string, content []byte) []*domain.Document {
	decode, ok := l.decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return []*domain.Document{{
			Path:       path,
			Line:       1,
			Text:       string(content),
			ParseError: errors.Wrapf(domain.ErrNoDecoder, "%s", filepath.Ext(path)),
		}}
	}
	return decode(path, content)
}

func decodeYAML(path string, content []byte) []*domain.Document {
	segs := splitDocuments(string(content))
	docs := make([]*domain.Document, 0, len(segs))
	for _, seg := range segs {
		docs = append(docs, decodeSegment(seg)...)
	}
	for i, doc := range docs {
		doc.Path = path
		if len(docs) > 1 {
			doc.Index = i + 1
		}
	}
	return docs
}

type segment struct {
	line int
	text string
}

// splitDocuments cuts content on "---" marker lines. The marker belongs to
// the segment it opens, and text after it on the same line ("--- {kind: Pod}")
// is content of that segment. Leading and trailing runs holding only comments
// or blank lines are folded into the neighbouring segment so they do not
// count as documents.
func splitDocuments(content string) []segment {
	var (
		segs       []segment
		b          strings.Builder
		start      = 1
		hasContent bool
	)

	lines := strings.SplitAfter(content, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		if isMarker(l) && hasContent {
			segs = append(segs, segment{line: start, text: b.String()})
			b.Reset()
			start = i + 1
			hasContent = false
		}
		if isMarker(l) {
			if !isBlank(l[3:]) {
				hasContent = true
			}
		} else if !isBlank(l) {
			hasContent = true
		}
		b.WriteString(l)
	}

	switch {
	case hasContent || len(segs) == 0:
		segs = append(segs, segment{line: start, text: b.String()})
	case b.Len() > 0:
		segs[len(segs)-1].text += b.String()
	}
	return segs
}

func isMarker(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "---") {
		return false
	}
	return len(line) == 3 || line[3] == ' ' || line[3] == '\t'
}

func isBlank(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// decodeSegment decodes every non-empty YAML document in seg. A segment
// normally holds one. Any further document the decoder yields becomes its
// own Document with empty Text, so no document is dropped and text rules
// still run once per segment.
func decodeSegment(seg segment) []*domain.Document {
	offset := seg.line - 1
	nodes, err := contentNodes(seg.text)

	docs := make([]*domain.Document, 0, len(nodes)+1)
	for i, n := range nodes {
		doc := &domain.Document{Line: seg.line}
		if i == 0 {
			doc.Text = seg.text
		} else {
			doc.Line = n.Line + offset
		}
		fillDocument(doc, n, offset)
		docs = append(docs, doc)
	}

	switch {
	case err != nil:
		doc := &domain.Document{Line: seg.line, ParseError: shiftLines(err, offset)}
		if len(docs) == 0 {
			doc.Text = seg.text
		}
		docs = append(docs, doc)
	case len(docs) == 0:
		docs = append(docs, &domain.Document{Line: seg.line, Text: seg.text})
	}
	return docs
}

func fillDocument(doc *domain.Document, n *yaml.Node, offset int) {
	var raw any
	if err := n.Decode(&raw); err != nil {
		doc.ParseError = shiftLines(err, offset)
		return
	}
	doc.Raw = raw

	doc.Lines = make(map[string]int)
	indexLines(n, "", offset, doc.Lines)

	doc.Kind = stringAt(raw, "kind")
	doc.Name = stringAt(raw, "metadata", "name")
	doc.Namespace = stringAt(raw, "metadata", "namespace")

	if doc.Kind == domain.KindConfigMap {
		doc.Embedded = embeddedBodies(raw)
	}
}

// contentNodes returns the root node of every non-empty document in text,
// in order. A segment can open with bare markers, which decode as empty
// documents. Decoding stops at the first error, which is returned along
// with the nodes decoded before it.
func contentNodes(text string) ([]*yaml.Node, error) {
	var nodes []*yaml.Node
	dec := yaml.NewDecoder(strings.NewReader(text))
	for {
		var n yaml.Node
		err := dec.Decode(&n)
		if errors.Is(err, io.EOF) {
			return nodes, nil
		}
		if err != nil {
			return nodes, err
		}
		if !emptyDocument(&n) {
			nodes = append(nodes, n.Content[0])
		}
	}
}

func emptyDocument(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return true
	}
	c := n.Content[0]
	return c.Kind == yaml.ScalarNode && c.Tag == "!!null" && c.Value == ""
}

// indexLines records the file line of every mapping key and sequence item.
func indexLines(n *yaml.Node, path string, offset int, lines map[string]int) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			p := domain.JoinPath(path, key.Value)
			lines[p] = key.Line + offset
			indexLines(value, p, offset, lines)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			p := domain.IndexPath(path, i)
			lines[p] = item.Line + offset
			indexLines(item, p, offset, lines)
		}
	}
}

// embeddedBodies decodes ConfigMap data values that hold YAML. Values under
// .yaml/.yml keys are always decoded and keep their decode error. Values
// under other keys are kept only when they decode to a mapping, so plain
// strings are not mistaken for bodies.
func embeddedBodies(raw any) map[string]domain.Embedded {
	data, ok := mapAt(raw, "data")
	if !ok {
		return nil
	}
	out := make(map[string]domain.Embedded)
	for k, v := range data {
		body, ok := v.(string)
		if !ok {
			continue
		}
		var decoded any
		err := yaml.Unmarshal([]byte(body), &decoded)
		if isYAMLKey(k) {
			out[k] = domain.Embedded{Raw: decoded, Err: err}
			continue
		}
		if _, isMap := decoded.(map[string]any); err == nil && isMap {
			out[k] = domain.Embedded{Raw: decoded}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isYAMLKey(k string) bool {
	k = strings.ToLower(k)
	return strings.HasSuffix(k, ".yaml") || strings.HasSuffix(k, ".yml")
}

func mapAt(node any, keys ...string) (map[string]any, bool) {
	cur := node
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = m[k]
	}
	m, ok := cur.(map[string]any)
	return m, ok
}

func stringAt(node any, keys ...string) string {
	if len(keys) == 0 {
		return ""
	}
	m, ok := mapAt(node, keys[:len(keys)-1]...)
	if !ok {
		return ""
	}
	s, _ := m[keys[len(keys)-1]].(string)
	return s
}

var lineRef = regexp.MustCompile(`\bline (\d+)`)

// shiftLines rewrites segment-relative "line N" references in a decoder
// error to file lines.
func shiftLines(err error, offset int) error {
	if offset == 0 {
		return err
	}
	msg := lineRef.ReplaceAllStringFunc(err.Error(), func(m string) string {
		n, convErr := strconv.Atoi(strings.TrimPrefix(m, "line "))
		if convErr != nil {
			return m
		}
		return "line " + strconv.Itoa(n+offset)
	})
	return errors.New(msg)
}
