package projection

import (
	"testing"

	"go.uber.org/zap"
)

func TestBuild_NormalizesShapes(t *testing.T) {
	cfg := Build([]RawField{
		{Path: "userId", Value: "User identifier"},
		{Path: "details.summary.mos", Value: map[string]any{
			"description": "Score",
			"alias":       "mos",
			"need_dedupe": false,
		}},
		{Path: "details.issues[].reason", Value: map[string]any{
			"description": "Reasons",
			"alias":       "issueReason",
			"need_dedupe": true,
		}},
		{Path: "odd", Value: 42},
	}, zap.NewNop())

	if cfg.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", cfg.Len())
	}

	spec, ok := cfg.Spec("userId")
	if !ok || spec.Description != "User identifier" || spec.Alias != "" || spec.NeedDedupe {
		t.Errorf("bare string spec = %+v", spec)
	}

	spec, _ = cfg.Spec("details.issues[].reason")
	if spec.Alias != "issueReason" || !spec.NeedDedupe {
		t.Errorf("detailed spec = %+v", spec)
	}

	spec, ok = cfg.Spec("odd")
	if !ok || spec.Description != "42" {
		t.Errorf("unrecognized shape should stringify, got %+v", spec)
	}
}

func TestBuild_PreservesOrder(t *testing.T) {
	cfg := Build([]RawField{
		{Path: "c", Value: "third"},
		{Path: "a", Value: "first"},
		{Path: "b", Value: "second"},
	}, nil)

	var order []string
	cfg.Fields(func(path string, _ FieldSpec) { order = append(order, path) })
	want := []string{"c", "a", "b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestValidate_DuplicateAliasFirstWins(t *testing.T) {
	cfg := Build([]RawField{
		{Path: "first.path", Value: map[string]any{"description": "a", "alias": "dup"}},
		{Path: "second.path", Value: map[string]any{"description": "b", "alias": "dup"}},
	}, zap.NewNop())

	canonical, ok := cfg.Canonical("dup")
	if !ok || canonical != "first.path" {
		t.Errorf("Canonical(dup) = %q, %v; want first.path", canonical, ok)
	}

	spec, _ := cfg.Spec("second.path")
	if spec.Alias != "" {
		t.Errorf("losing field kept alias %q", spec.Alias)
	}
}

func TestValidate_ReservedKeywordAliasDropped(t *testing.T) {
	cfg := Build([]RawField{
		{Path: "some.field", Value: map[string]any{"description": "d", "alias": "range"}},
	}, zap.NewNop())

	if _, ok := cfg.Canonical("range"); ok {
		t.Error("query keyword must not be usable as an alias")
	}
	spec, _ := cfg.Spec("some.field")
	if spec.Alias != "" {
		t.Errorf("alias should be dropped, got %q", spec.Alias)
	}
}

func TestConfig_ZeroValue(t *testing.T) {
	var cfg Config
	if cfg.Len() != 0 {
		t.Errorf("zero config Len() = %d", cfg.Len())
	}
	if _, ok := cfg.Canonical("anything"); ok {
		t.Error("zero config should resolve no aliases")
	}
}
