package es

import (
	"reflect"
	"testing"
)

func TestBuildQuery_SimpleFiltersBecomeTermClauses(t *testing.T) {
	body := BuildQuery(map[string]any{"userId": "u1"}, 50, 0, nil)

	if body["size"] != 50 || body["from"] != 0 {
		t.Errorf("window = %v/%v", body["size"], body["from"])
	}

	query := body["query"].(map[string]any)
	must := query["bool"].(map[string]any)["must"].([]any)
	want := []any{map[string]any{"term": map[string]any{"userId": "u1"}}}
	if !reflect.DeepEqual(must, want) {
		t.Errorf("must = %#v, want %#v", must, want)
	}
}

func TestBuildQuery_RangeValues(t *testing.T) {
	body := BuildQuery(map[string]any{
		"mos": map[string]any{"gte": 3.0, "lte": 5.0},
	}, 10, 0, nil)

	must := body["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	want := []any{map[string]any{"range": map[string]any{"mos": map[string]any{"gte": 3.0, "lte": 5.0}}}}
	if !reflect.DeepEqual(must, want) {
		t.Errorf("must = %#v, want %#v", must, want)
	}
}

func TestBuildQuery_DSLPassthrough(t *testing.T) {
	for _, kw := range []string{"bool", "match", "term", "range", "exists", "wildcard"} {
		t.Run(kw, func(t *testing.T) {
			filters := map[string]any{kw: map[string]any{"field": "v"}}
			body := BuildQuery(filters, 10, 5, nil)

			if !reflect.DeepEqual(body["query"], filters) {
				t.Errorf("query = %#v, want filters verbatim", body["query"])
			}
			if body["from"] != 5 {
				t.Errorf("from = %v, want 5", body["from"])
			}
		})
	}
}

func TestBuildQuery_Sort(t *testing.T) {
	sort := []any{map[string]any{"@timestamp": "desc"}}
	body := BuildQuery(map[string]any{"userId": "u1"}, 10, 0, sort)
	if !reflect.DeepEqual(body["sort"], sort) {
		t.Errorf("sort = %#v, want %#v", body["sort"], sort)
	}

	body = BuildQuery(map[string]any{"userId": "u1"}, 10, 0, nil)
	if _, ok := body["sort"]; ok {
		t.Error("empty sort must not be attached")
	}
}

func TestBuildQuery_ClauseOrderStable(t *testing.T) {
	filters := func() map[string]any {
		return map[string]any{
			"userId":       "u1",
			"appSessionId": "s1",
			"event":        "click",
		}
	}

	want := []any{
		map[string]any{"term": map[string]any{"appSessionId": "s1"}},
		map[string]any{"term": map[string]any{"event": "click"}},
		map[string]any{"term": map[string]any{"userId": "u1"}},
	}
	for i := 0; i < 20; i++ {
		body := BuildQuery(filters(), 10, 0, nil)
		must := body["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
		if !reflect.DeepEqual(must, want) {
			t.Fatalf("iteration %d: must = %#v, want key-ordered %#v", i, must, want)
		}
	}
}

func TestBuildQuery_EmptyFilters(t *testing.T) {
	body := BuildQuery(map[string]any{}, 100, 0, nil)
	must := body["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	if len(must) != 0 {
		t.Errorf("must = %#v, want empty", must)
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for missing addresses")
	}
	c, err := NewClient(Config{Addresses: []string{"http://localhost:9200"}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.timeout <= 0 {
		t.Error("default timeout not applied")
	}
}
