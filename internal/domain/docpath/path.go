// Package docpath evaluates dotted field paths against JSON-like documents.
//
// A path is a dot-separated list of segments. Besides plain object keys two
// array forms are understood: "name[]" applies the rest of the path to every
// element of the array at "name" and collects the results, "name[i]" picks a
// single element by index. Evaluation never fails: anything that does not
// resolve (missing key, wrong type, index out of range) comes back absent.
package docpath

import (
	"regexp"
	"strconv"
	"strings"
)

type segmentKind int

const (
	segField segmentKind = iota
	segFlatten
	segIndex
)

type segment struct {
	name  string
	kind  segmentKind
	index int
}

var arrayRegex = regexp.MustCompile(`^(.+)\[(\d*)\]$`)

// Expression is a parsed field path (immutable value object).
type Expression struct {
	raw      string
	segments []segment
}

// Parse parses a dotted path. It accepts any string: segments that do not
// match the "name[]" or "name[i]" forms are treated as plain field lookups.
func Parse(path string) Expression {
	parts := strings.Split(path, ".")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		m := arrayRegex.FindStringSubmatch(part)
		if m == nil {
			segments = append(segments, segment{name: part, kind: segField})
			continue
		}
		if m[2] == "" {
			segments = append(segments, segment{name: m[1], kind: segFlatten})
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			segments = append(segments, segment{name: part, kind: segField})
			continue
		}
		segments = append(segments, segment{name: m[1], kind: segIndex, index: idx})
	}
	return Expression{raw: path, segments: segments}
}

// String returns the original path string.
func (e Expression) String() string { return e.raw }

// HasFlatten reports whether any segment uses the "name[]" form.
func (e Expression) HasFlatten() bool {
	for _, s := range e.segments {
		if s.kind == segFlatten {
			return true
		}
	}
	return false
}

// Value is the outcome of evaluating an Expression against a document.
// An absent Value is distinct from a present null.
type Value struct {
	raw     any
	list    bool
	present bool
}

// Absent is the missing-value result.
var Absent = Value{}

func scalar(v any) Value      { return Value{raw: v, present: true} }
func listValue(v []any) Value { return Value{raw: v, list: true, present: true} }

// Present reports whether the path resolved to anything.
func (v Value) Present() bool { return v.present }

// IsList reports whether the value was collected by a flatten segment.
func (v Value) IsList() bool { return v.list }

// Raw returns the underlying value ([]any when IsList).
func (v Value) Raw() any { return v.raw }

// List returns the collected elements, or nil for scalar/absent values.
func (v Value) List() []any {
	if !v.list {
		return nil
	}
	l, _ := v.raw.([]any)
	return l
}

// Evaluate resolves the expression against a document tree as produced by
// encoding/json (map[string]any, []any, scalars). It never panics.
func (e Expression) Evaluate(doc any) Value {
	return evaluate(doc, e.segments)
}

func evaluate(doc any, segments []segment) Value {
	if len(segments) == 0 {
		return scalar(doc)
	}
	seg, rest := segments[0], segments[1:]

	obj, ok := doc.(map[string]any)
	if !ok {
		return Absent
	}
	child, ok := obj[seg.name]
	if !ok {
		return Absent
	}

	switch seg.kind {
	case segField:
		return evaluate(child, rest)

	case segIndex:
		arr, ok := child.([]any)
		if !ok || seg.index < 0 || seg.index >= len(arr) {
			return Absent
		}
		return evaluate(arr[seg.index], rest)

	case segFlatten:
		arr, ok := child.([]any)
		if !ok {
			return Absent
		}
		collected := make([]any, 0, len(arr))
		for _, elem := range arr {
			v := evaluate(elem, rest)
			if !v.Present() || v.Raw() == nil {
				continue
			}
			if v.IsList() {
				collected = append(collected, v.List()...)
				continue
			}
			collected = append(collected, v.Raw())
		}
		if len(collected) == 0 {
			return Absent
		}
		return listValue(collected)
	}
	return Absent
}
