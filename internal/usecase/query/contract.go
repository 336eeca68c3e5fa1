package query

import "context"

// Store executes search requests against the document store.
type Store interface {
	Search(ctx context.Context, index string, body map[string]any) (map[string]any, error)
}

// ResponseCache stores serialized query responses. Implementations are
// best-effort: a failed Get is a miss and a failed Set is silent.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}
