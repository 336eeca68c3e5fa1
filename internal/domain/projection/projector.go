package projection

import (
	"strings"

	"github.com/observekit/apmgate/internal/domain/docpath"
)

// identityFields are always copied from the source verbatim, regardless of
// configuration. They identify the record and are never renamed or dropped.
var identityFields = []string{"@timestamp", "userId", "userRole", "event", "appSessionId"}

// Project builds a reduced, renamed view of source according to cfg.
// The source document is never mutated. Fields that do not resolve are
// omitted entirely; a malformed source degrades to fields being skipped.
func Project(source map[string]any, cfg Config) map[string]any {
	out := make(map[string]any)
	if source == nil {
		return out
	}

	for _, name := range identityFields {
		if v, ok := source[name]; ok {
			out[name] = v
		}
	}

	for _, f := range cfg.fields {
		v := f.expr.Evaluate(source)
		if !v.Present() || v.Raw() == nil {
			continue
		}

		var value any
		if v.IsList() {
			joined, ok := docpath.FormatList(v.List())
			if !ok {
				continue
			}
			value = joined
		} else {
			value = v.Raw()
		}

		if s, ok := value.(string); ok && f.spec.NeedDedupe {
			value = docpath.DeduplicateCommaList(s)
		}

		dest := f.spec.displayName(f.path)
		if strings.Contains(dest, ".") {
			setNested(out, dest, value)
		} else {
			out[dest] = value
		}
	}
	return out
}

// setNested writes value at a dotted destination path, creating intermediate
// objects as needed. Existing non-object intermediates are replaced.
func setNested(obj map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	current := obj
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
