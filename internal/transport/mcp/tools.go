// Package mcp exposes the relay as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/observekit/apmgate/internal/usecase/query"
)

// QueryService is the query usecase surface the tools need.
type QueryService interface {
	ListIndexes() []query.IndexInfo
	QueryIndex(ctx context.Context, req query.Request) (map[string]any, error)
}

// ListIndexesInput is the (empty) input of the list_indexes tool.
type ListIndexesInput struct{}

// FieldDescriptor describes one configured field of an index.
type FieldDescriptor struct {
	OriginalName string `json:"original_name" jsonschema:"canonical field path in the stored document"`
	Description  string `json:"description" jsonschema:"human-readable field description"`
	Alias        string `json:"alias,omitempty" jsonschema:"display name substituted for the canonical path"`
	NeedDedupe   bool   `json:"need_dedupe,omitempty" jsonschema:"whether comma-separated values are deduplicated"`
}

// EventDescriptor describes one notable event type of an index.
type EventDescriptor struct {
	Name        string `json:"name" jsonschema:"event name"`
	Description string `json:"description,omitempty" jsonschema:"event description"`
}

// IndexDescriptor describes one configured index.
type IndexDescriptor struct {
	Name   string                     `json:"name" jsonschema:"index name"`
	Fields map[string]FieldDescriptor `json:"fields" jsonschema:"queryable fields keyed by display name"`
	Events []EventDescriptor          `json:"events,omitempty" jsonschema:"notable event types recorded in this index"`
}

// ListIndexesResult is the output of the list_indexes tool.
type ListIndexesResult struct {
	Indexes []IndexDescriptor `json:"indexes" jsonschema:"configured indexes"`
}

// ListIndexesTool defines the MCP tool schema for listing indexes.
func ListIndexesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_indexes",
		Description: "Lists the available indexes with their queryable fields and event types.",
	}
}

// ListIndexesHandler returns the configured index catalog.
func ListIndexesHandler(svc QueryService) mcp.ToolHandlerFor[ListIndexesInput, ListIndexesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListIndexesInput) (*mcp.CallToolResult, ListIndexesResult, error) {
		infos := svc.ListIndexes()
		result := ListIndexesResult{Indexes: make([]IndexDescriptor, 0, len(infos))}
		for _, info := range infos {
			fields := make(map[string]FieldDescriptor, len(info.Fields))
			for display, f := range info.Fields {
				fields[display] = FieldDescriptor{
					OriginalName: f.OriginalName,
					Description:  f.Description,
					Alias:        f.Alias,
					NeedDedupe:   f.NeedDedupe,
				}
			}
			events := make([]EventDescriptor, 0, len(info.Events))
			for _, e := range info.Events {
				events = append(events, EventDescriptor{Name: e.Name, Description: e.Description})
			}
			result.Indexes = append(result.Indexes, IndexDescriptor{
				Name:   info.Name,
				Fields: fields,
				Events: events,
			})
		}
		return nil, result, nil
	}
}

// QueryIndexInput is the input of the query_index tool. Filter and sort keys
// may use either canonical field paths or configured aliases.
type QueryIndexInput struct {
	Index   string           `json:"index" jsonschema:"index name"`
	Filters map[string]any   `json:"filters" jsonschema:"query filters, either simple key/value pairs or raw query DSL"`
	Size    int              `json:"size,omitempty" jsonschema:"result window size (default 100)"`
	From    int              `json:"from,omitempty" jsonschema:"result window offset"`
	Sort    []map[string]any `json:"sort,omitempty" jsonschema:"sort specification"`
}

// QueryIndexResult is the output of the query_index tool: the store response
// with every record reduced to its configured fields under display names.
type QueryIndexResult struct {
	HitCount  int            `json:"hit_count" jsonschema:"number of returned records"`
	RecordSet map[string]any `json:"record_set" jsonschema:"projected store response"`
}

// QueryIndexTool defines the MCP tool schema for querying an index.
func QueryIndexTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "query_index",
		Description: "Queries an index and returns records reduced to their configured fields.",
	}
}

// QueryIndexHandler relays a query through the query service.
func QueryIndexHandler(svc QueryService, logger *zap.Logger) mcp.ToolHandlerFor[QueryIndexInput, QueryIndexResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input QueryIndexInput) (*mcp.CallToolResult, QueryIndexResult, error) {
		if input.Index == "" {
			return nil, QueryIndexResult{}, fmt.Errorf("index is required")
		}

		sort := make([]any, 0, len(input.Sort))
		for _, item := range input.Sort {
			sort = append(sort, item)
		}

		recordSet, err := svc.QueryIndex(ctx, query.Request{
			Index:   input.Index,
			Filters: input.Filters,
			Size:    input.Size,
			From:    input.From,
			Sort:    sort,
		})
		if err != nil {
			logger.Error("query_index failed", zap.String("index", input.Index), zap.Error(err))
			return nil, QueryIndexResult{}, fmt.Errorf("query index %q: %w", input.Index, err)
		}

		return nil, QueryIndexResult{
			HitCount:  hitCount(recordSet),
			RecordSet: recordSet,
		}, nil
	}
}

func hitCount(recordSet map[string]any) int {
	wrapper, ok := recordSet["hits"].(map[string]any)
	if !ok {
		return 0
	}
	hits, _ := wrapper["hits"].([]any)
	return len(hits)
}
