package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arclint/arclint/internal/domain"
)

// visitFunc is called for every mapping entry in a tree.
type visitFunc func(path, key string, value any)

// walk visits mapping entries depth-first with keys in sorted order, so
// callers see a deterministic sequence.
func walk(node any, path string, fn visitFunc) {
	switch v := node.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			p := domain.JoinPath(path, k)
			fn(p, k, v[k])
			walk(v[k], p, fn)
		}
	case map[any]any:
		m := stringKeys(v)
		for _, k := range sortedKeys(m) {
			p := domain.JoinPath(path, k)
			fn(p, k, m[k])
			walk(m[k], p, fn)
		}
	case []any:
		for i, item := range v {
			walk(item, domain.IndexPath(path, i), fn)
		}
	}
}

// walkScalars visits every scalar leaf (sequence items included).
func walkScalars(node any, fn func(value any)) {
	switch v := node.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			walkScalars(v[k], fn)
		}
	case map[any]any:
		m := stringKeys(v)
		for _, k := range sortedKeys(m) {
			walkScalars(m[k], fn)
		}
	case []any:
		for _, item := range v {
			walkScalars(item, fn)
		}
	default:
		fn(v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}

// asMap returns node as a string-keyed mapping.
func asMap(node any) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		return stringKeys(v), true
	}
	return nil, false
}

// lookup follows a chain of mapping keys from node.
func lookup(node any, keys ...string) (any, bool) {
	cur := node
	for _, k := range keys {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// hasKey reports whether any mapping in the tree has the given key.
func hasKey(node any, key string) bool {
	found := false
	walk(node, "", func(_, k string, _ any) {
		if k == key {
			found = true
		}
	})
	return found
}

// nonEmptyScalar reports whether value is a scalar with a non-blank rendering.
func nonEmptyScalar(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case map[string]any, map[any]any, []any:
		return false
	default:
		return true
	}
}

// isFalse reports whether value is boolean false, written either as a YAML
// bool or as a quoted string.
func isFalse(value any) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "false")
	}
	return false
}

// pathSegments splits a slash path into its non-empty segments.
func pathSegments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	return segs
}

// hasSegment reports whether any directory segment of path equals name.
// The file name itself is not considered.
func hasSegment(path, name string) bool {
	segs := pathSegments(path)
	if len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}
	for _, s := range segs {
		if s == name {
			return true
		}
	}
	return false
}

// segmentContains reports whether any directory segment of path contains
// marker as a substring.
func segmentContains(path, marker string) bool {
	segs := pathSegments(path)
	if len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}
	for _, s := range segs {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// textLines splits segment text into lines without their terminators.
func textLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
