package docpath

import (
	"fmt"
	"strings"
)

// FormatList reduces values collected by a flatten segment to a single
// comma-joined string. Elements are rendered with their default string form,
// nulls and empty strings are dropped, and duplicates are removed keeping the
// first occurrence. Reports false when nothing survives.
//
// Scalar extractions bypass this entirely: numbers and other non-string
// scalars are never stringified.
func FormatList(values []any) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		s := render(v)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

// DeduplicateCommaList removes duplicate entries from a comma-separated
// string, trimming whitespace around each entry and keeping first-seen order.
// Empty input is returned unchanged. The operation is idempotent.
func DeduplicateCommaList(s string) string {
	if s == "" {
		return s
	}
	seen := make(map[string]struct{})
	parts := make([]string, 0, 4)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		parts = append(parts, item)
	}
	return strings.Join(parts, ", ")
}

func render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
