// Package catalog loads the static per-index field configuration.
//
// The catalog file maps index names to their projectable fields and notable
// event types. It is read once at process start and immutable afterwards;
// query traffic never touches it for writing, so concurrent reads need no
// locking.
package catalog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/observekit/apmgate/internal/domain/projection"
)

// Event is one notable event type recorded in an index.
type Event struct {
	Name        string
	Description string
}

// Index holds the configuration of one index.
type Index struct {
	Projection projection.Config
	Events     []Event
}

// FieldInfo describes a configured field for introspection.
type FieldInfo struct {
	OriginalName string
	Description  string
	Alias        string
	NeedDedupe   bool
}

// Catalog is the read-only set of configured indexes.
type Catalog struct {
	indexes map[string]Index
	names   []string
}

// Load reads and parses the catalog file.
func Load(path string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data, logger)
}

// Parse builds a Catalog from raw YAML. Index entries with an unexpected
// structure are skipped with a warning; field-level problems degrade inside
// projection.Build. Only unreadable YAML fails the parse.
func Parse(data []byte, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{indexes: make(map[string]Index)}
	if len(root.Content) == 0 {
		return c, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return c, nil
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		node := doc.Content[i+1]
		if node.Kind != yaml.MappingNode {
			logger.Warn("skipping index with unexpected structure", zap.String("index", name))
			continue
		}
		idx := parseIndex(node, logger)
		c.indexes[name] = idx
		c.names = append(c.names, name)
	}

	for _, name := range c.names {
		logger.Info("loaded index configuration",
			zap.String("index", name),
			zap.Int("fields", c.indexes[name].Projection.Len()),
			zap.Int("events", len(c.indexes[name].Events)))
	}
	return c, nil
}

// parseIndex reads one index mapping. Fields may live under a "fields" submap
// or directly at the index level (everything except "events").
func parseIndex(node *yaml.Node, logger *zap.Logger) Index {
	var (
		raw       []projection.RawField
		events    []Event
		hasFields bool
	)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "events":
			events = parseEvents(val)
		case "fields":
			if val.Kind == yaml.MappingNode {
				hasFields = true
				raw = parseFields(val, logger)
			}
		}
	}

	if !hasFields {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if key == "events" {
				continue
			}
			raw = append(raw, rawField(key, node.Content[i+1], logger))
		}
	}

	return Index{Projection: projection.Build(raw, logger), Events: events}
}

func parseFields(node *yaml.Node, logger *zap.Logger) []projection.RawField {
	raw := make([]projection.RawField, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		raw = append(raw, rawField(node.Content[i].Value, node.Content[i+1], logger))
	}
	return raw
}

func rawField(path string, node *yaml.Node, logger *zap.Logger) projection.RawField {
	var value any
	if err := node.Decode(&value); err != nil {
		logger.Warn("undecodable field value", zap.String("field", path), zap.Error(err))
		value = node.Value
	}
	return projection.RawField{Path: path, Value: value}
}

// parseEvents accepts a list of single-pair {name: description} mappings or
// bare event name strings.
func parseEvents(node *yaml.Node) []Event {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	events := make([]Event, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			events = append(events, Event{Name: item.Value})
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				events = append(events, Event{
					Name:        item.Content[i].Value,
					Description: item.Content[i+1].Value,
				})
			}
		}
	}
	return events
}

// Names returns index names in file order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Has reports whether an index is configured.
func (c *Catalog) Has(name string) bool {
	_, ok := c.indexes[name]
	return ok
}

// Projection returns the projection configuration for an index. Unknown
// indexes get the zero Config, which projects only identity fields.
func (c *Catalog) Projection(name string) projection.Config {
	return c.indexes[name].Projection
}

// Events returns the configured events of an index.
func (c *Catalog) Events(name string) []Event {
	return c.indexes[name].Events
}

// ListFields returns the introspection view of an index: display name (alias
// when configured, canonical path otherwise) to field metadata.
func (c *Catalog) ListFields(name string) map[string]FieldInfo {
	cfg := c.indexes[name].Projection
	fields := make(map[string]FieldInfo, cfg.Len())
	cfg.Fields(func(path string, spec projection.FieldSpec) {
		display := path
		if spec.Alias != "" {
			display = spec.Alias
		}
		fields[display] = FieldInfo{
			OriginalName: path,
			Description:  spec.Description,
			Alias:        spec.Alias,
			NeedDedupe:   spec.NeedDedupe,
		}
	})
	return fields
}
