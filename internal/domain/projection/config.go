// Package projection rebuilds a filtered, renamed view of a semi-structured
// record from a declarative per-index field configuration, and rewrites alias
// names back to canonical field paths inside query filters.
package projection

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/observekit/apmgate/internal/domain/docpath"
)

// FieldSpec describes how one canonical field path is surfaced.
type FieldSpec struct {
	Description string
	Alias       string
	NeedDedupe  bool
}

// displayName returns the alias when set, otherwise the canonical path.
func (s FieldSpec) displayName(path string) string {
	if s.Alias != "" {
		return s.Alias
	}
	return path
}

type fieldEntry struct {
	path string
	expr docpath.Expression
	spec FieldSpec
}

// Config is the validated projection configuration for one index: an ordered
// list of canonical paths with their specs plus the derived alias map.
// The zero Config projects nothing beyond the whitelist.
type Config struct {
	fields  []fieldEntry
	aliases map[string]string
}

// reservedKeywords are query-DSL clause keywords that must stay addressable in
// filters, so they can never be claimed as aliases.
var reservedKeywords = map[string]struct{}{
	"bool": {}, "match": {}, "match_phrase": {}, "term": {}, "terms": {},
	"range": {}, "wildcard": {}, "regexp": {}, "fuzzy": {}, "prefix": {}, "exists": {},
}

// RawField is one field entry as it appears in the catalog file before
// normalization: either a bare description string or a detailed mapping.
type RawField struct {
	Path  string
	Value any
}

// Build normalizes raw field entries into a Config, preserving input order.
// Malformed entries degrade to a description-only spec with a warning; they
// never fail the build.
func Build(raw []RawField, logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := Config{aliases: make(map[string]string)}
	for _, rf := range raw {
		spec := normalizeSpec(rf, logger)
		cfg.fields = append(cfg.fields, fieldEntry{
			path: rf.Path,
			expr: docpath.Parse(rf.Path),
			spec: spec,
		})
	}
	cfg.validate(logger)
	return cfg
}

func normalizeSpec(rf RawField, logger *zap.Logger) FieldSpec {
	switch v := rf.Value.(type) {
	case string:
		return FieldSpec{Description: v}
	case map[string]any:
		spec := FieldSpec{}
		if d, ok := v["description"].(string); ok {
			spec.Description = d
		}
		if a, ok := v["alias"].(string); ok {
			spec.Alias = a
		}
		if n, ok := v["need_dedupe"].(bool); ok {
			spec.NeedDedupe = n
		}
		return spec
	default:
		logger.Warn("unrecognized field spec shape, using stringified value as description",
			zap.String("field", rf.Path))
		return FieldSpec{Description: fmt.Sprintf("%v", rf.Value)}
	}
}

// validate enforces alias uniqueness (first occurrence wins) and keeps the
// alias namespace clear of query-DSL keywords. Violations drop the alias and
// log; they never abort.
func (c *Config) validate(logger *zap.Logger) {
	var dedupeFields []string
	for i := range c.fields {
		f := &c.fields[i]
		if f.spec.NeedDedupe {
			dedupeFields = append(dedupeFields, f.path)
		}
		alias := f.spec.Alias
		if alias == "" {
			continue
		}
		if _, reserved := reservedKeywords[alias]; reserved {
			logger.Error("alias collides with a query keyword, dropping",
				zap.String("alias", alias),
				zap.String("field", f.path))
			f.spec.Alias = ""
			continue
		}
		if prev, dup := c.aliases[alias]; dup {
			logger.Error("duplicate alias, keeping first occurrence",
				zap.String("alias", alias),
				zap.String("kept_field", prev),
				zap.String("dropped_field", f.path))
			f.spec.Alias = ""
			continue
		}
		c.aliases[alias] = f.path
	}
	if len(dedupeFields) > 0 {
		logger.Info("fields with deduplication enabled", zap.Strings("fields", dedupeFields))
	}
}

// Len returns the number of configured fields.
func (c Config) Len() int { return len(c.fields) }

// Spec returns the field spec for a canonical path.
func (c Config) Spec(path string) (FieldSpec, bool) {
	for _, f := range c.fields {
		if f.path == path {
			return f.spec, true
		}
	}
	return FieldSpec{}, false
}

// Canonical resolves an alias back to its canonical path.
func (c Config) Canonical(alias string) (string, bool) {
	path, ok := c.aliases[alias]
	return path, ok
}

// Fields calls fn for every configured field in declaration order.
func (c Config) Fields(fn func(path string, spec FieldSpec)) {
	for _, f := range c.fields {
		fn(f.path, f.spec)
	}
}
