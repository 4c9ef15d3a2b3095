package strutil

import (
	"fmt"
	"sort"
	"strings"
)

const defaultMaxStringLength = 64

// ObjectToString renders a document as an indented multi-line string for
// audit log lines. String values longer than 64 runes are truncated and
// nested maps are rendered recursively.
func ObjectToString(doc map[string]any) string {
	return objectToString(doc, defaultMaxStringLength, 0)
}

func objectToString(doc map[string]any, maxStringLength, depth int) string {
	if doc == nil {
		return "null"
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, strings.Repeat("  ", depth)+key+": "+valueToString(doc[key], maxStringLength, depth))
	}

	out := strings.Join(lines, "\n")
	if depth > 0 {
		out = "\n" + out
	}
	return out
}

func valueToString(value any, maxStringLength, depth int) string {
	switch v := value.(type) {
	case string:
		if len(v) > maxStringLength {
			return v[:maxStringLength] + "..."
		}
		return v
	case map[string]any:
		return objectToString(v, maxStringLength-2, depth+1)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DiffString reports the field-level changes between two versions of a
// document, one "key: old --> new" line per changed field. Fields missing
// from the new version are marked [REMOVED].
func DiffString(oldDoc, newDoc map[string]any) string {
	keys := make([]string, 0, len(oldDoc))
	for key := range oldDoc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		newValue, ok := newDoc[key]
		switch {
		case !ok:
			fmt.Fprintf(&b, "\n  %s [REMOVED]", key)
		case fmt.Sprintf("%v", oldDoc[key]) != fmt.Sprintf("%v", newValue):
			fmt.Fprintf(&b, "\n  %s: %v --> %v", key, oldDoc[key], newValue)
		}
	}
	return b.String()
}
