package projection

// RewriteKeys walks an arbitrary filter or sort structure and replaces every
// object key that matches a configured alias with its canonical field path.
// The transform is purely structural: it knows nothing about query semantics,
// which is safe because the alias namespace is validated to be unique and
// clear of query-DSL keywords. Non-matching keys and all non-object values
// pass through unchanged. The input is never mutated.
func RewriteKeys(node any, cfg Config) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for key, value := range n {
			if canonical, ok := cfg.Canonical(key); ok {
				key = canonical
			}
			out[key] = RewriteKeys(value, cfg)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, elem := range n {
			out[i] = RewriteKeys(elem, cfg)
		}
		return out
	default:
		return node
	}
}
