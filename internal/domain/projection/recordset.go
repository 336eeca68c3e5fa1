package projection

// ProcessRecordSet projects the _source payload of every hit in a search
// response. The expected shape is {"hits": {"hits": [{"_source": {...}}]}};
// anything else is returned unchanged. Hit order is preserved and no hits are
// dropped. Hits without a _source payload pass through as-is.
func ProcessRecordSet(result map[string]any, cfg Config) map[string]any {
	hitsWrapper, ok := result["hits"].(map[string]any)
	if !ok {
		return result
	}
	hits, ok := hitsWrapper["hits"].([]any)
	if !ok {
		return result
	}

	for _, h := range hits {
		hit, ok := h.(map[string]any)
		if !ok {
			continue
		}
		source, ok := hit["_source"].(map[string]any)
		if !ok {
			continue
		}
		hit["_source"] = Project(source, cfg)
	}
	return result
}
