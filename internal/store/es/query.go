package es

import "sort"

// dslKeywords are query-DSL clause types accepted verbatim at the top level
// of a filters object.
var dslKeywords = []string{
	"bool", "match", "match_phrase", "term", "terms", "range",
	"wildcard", "regexp", "fuzzy", "prefix", "exists",
}

// BuildQuery turns a filters object into a full search request body.
//
// If filters already use the query DSL (any clause keyword at the top level)
// they become the query as-is. Otherwise every key/value pair is wrapped in a
// bool.must clause: a range clause when the value is a map carrying gte/lte,
// a term clause otherwise.
func BuildQuery(filters map[string]any, size, from int, sort []any) map[string]any {
	body := map[string]any{
		"size": size,
		"from": from,
	}

	if hasDSLClause(filters) {
		body["query"] = filters
	} else {
		must := make([]any, 0, len(filters))
		for _, key := range sortedKeys(filters) {
			value := filters[key]
			if isRange(value) {
				must = append(must, map[string]any{"range": map[string]any{key: value}})
			} else {
				must = append(must, map[string]any{"term": map[string]any{key: value}})
			}
		}
		body["query"] = map[string]any{"bool": map[string]any{"must": must}}
	}

	if len(sort) > 0 {
		body["sort"] = sort
	}
	return body
}

// sortedKeys keeps clause order, and with it the serialized body, stable
// across calls with equal filters.
func sortedKeys(filters map[string]any) []string {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func hasDSLClause(filters map[string]any) bool {
	for _, kw := range dslKeywords {
		if _, ok := filters[kw]; ok {
			return true
		}
	}
	return false
}

func isRange(value any) bool {
	m, ok := value.(map[string]any)
	if !ok {
		return false
	}
	_, gte := m["gte"]
	_, lte := m["lte"]
	return gte || lte
}
