// Package query relays index queries to the document store, canonicalizing
// alias field names on the way in and projecting returned records on the way
// out.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/observekit/apmgate/internal/catalog"
	"github.com/observekit/apmgate/internal/domain"
	"github.com/observekit/apmgate/internal/domain/projection"
	"github.com/observekit/apmgate/internal/metrics"
	"github.com/observekit/apmgate/internal/store/es"
)

// DefaultSize is the result window used when a request does not set one.
const DefaultSize = 100

// Service handles index introspection and query relay.
type Service struct {
	store   Store
	cache   ResponseCache // nil when caching is disabled
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// New creates a query service. cache may be nil.
func New(store Store, cache ResponseCache, cat *catalog.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, catalog: cat, logger: logger}
}

// IndexInfo describes one configured index for introspection.
type IndexInfo struct {
	Name   string
	Fields map[string]catalog.FieldInfo
	Events []catalog.Event
}

// ListIndexes returns all configured indexes in catalog file order.
func (s *Service) ListIndexes() []IndexInfo {
	names := s.catalog.Names()
	out := make([]IndexInfo, 0, len(names))
	for _, name := range names {
		out = append(out, IndexInfo{
			Name:   name,
			Fields: s.catalog.ListFields(name),
			Events: s.catalog.Events(name),
		})
	}
	return out
}

// ListFields returns the introspection view of one index.
func (s *Service) ListFields(index string) map[string]catalog.FieldInfo {
	return s.catalog.ListFields(index)
}

// CanonicalizeFilters rewrites alias keys in a filters object back to
// canonical field paths.
func (s *Service) CanonicalizeFilters(index string, filters map[string]any) map[string]any {
	rewritten, _ := projection.RewriteKeys(filters, s.catalog.Projection(index)).(map[string]any)
	return rewritten
}

// CanonicalizeSort rewrites alias keys in a sort specification.
func (s *Service) CanonicalizeSort(index string, sort []any) []any {
	rewritten, _ := projection.RewriteKeys(sort, s.catalog.Projection(index)).([]any)
	return rewritten
}

// Project reshapes every record of a store response for the given index.
// Unknown indexes reduce records to identity fields only.
func (s *Service) Project(index string, recordSet map[string]any) map[string]any {
	return projection.ProcessRecordSet(recordSet, s.catalog.Projection(index))
}

// Request is one query_index invocation.
type Request struct {
	Index   string
	Filters map[string]any
	Size    int
	From    int
	Sort    []any
}

// QueryIndex relays a query: aliases are canonicalized, the query body is
// built, the store is called (through the cache when configured) and the
// response records are projected.
func (s *Service) QueryIndex(ctx context.Context, req Request) (map[string]any, error) {
	if !s.catalog.Has(req.Index) {
		return nil, fmt.Errorf("%w: %q", domain.ErrIndexNotFound, req.Index)
	}
	if req.Size <= 0 {
		req.Size = DefaultSize
	}
	if req.From < 0 {
		req.From = 0
	}

	filters := s.CanonicalizeFilters(req.Index, req.Filters)
	sort := s.CanonicalizeSort(req.Index, req.Sort)
	body := es.BuildQuery(filters, req.Size, req.From, sort)

	s.logger.Info("querying index",
		zap.String("index", req.Index),
		zap.Int("size", req.Size),
		zap.Int("from", req.From))

	start := time.Now()
	result, err := s.fetch(ctx, req.Index, body)
	metrics.QueryDuration.WithLabelValues(req.Index).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(req.Index, "error").Inc()
		return nil, err
	}
	metrics.QueriesTotal.WithLabelValues(req.Index, "ok").Inc()

	projected := s.Project(req.Index, result)
	metrics.ProjectedHitsTotal.WithLabelValues(req.Index).Add(float64(hitCount(projected)))
	return projected, nil
}

// fetch runs the store search, consulting the cache first when configured.
func (s *Service) fetch(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	var key string
	if s.cache != nil {
		key = cacheKey(index, body)
		if data, ok := s.cache.Get(ctx, key); ok {
			var cached map[string]any
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.QueryCacheTotal.WithLabelValues("hit").Inc()
				return cached, nil
			}
			s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		}
		metrics.QueryCacheTotal.WithLabelValues("miss").Inc()
	}

	result, err := s.store.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, key, data)
		}
	}
	return result, nil
}

func cacheKey(index string, body map[string]any) string {
	data, _ := json.Marshal(body)
	sum := sha256.Sum256(data)
	return "q:" + index + ":" + hex.EncodeToString(sum[:])
}

func hitCount(result map[string]any) int {
	wrapper, ok := result["hits"].(map[string]any)
	if !ok {
		return 0
	}
	hits, _ := wrapper["hits"].([]any)
	return len(hits)
}
