package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by the xxh3 hash of their source.
var globalCache sync.Map

// state tracks the parse result for one source.
type state struct {
	once   sync.Once
	spec   *Spec
	err    error
	source string
}

// ParseCached parses a specification like [ParseString], remembering the
// result. Concurrent calls with the same source parse it only once.
//
// Each successful call returns a distinct *Spec, so callers never observe
// each other's modifications.
func ParseCached(ctx context.Context, s string, opts ...Option) (*Spec, error) {
	o := applyOptions(opts...)

	hash := xxh3.HashString(s)
	key := strconv.FormatUint(hash, 36)

	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid cache entry type"))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", cacheHit))

	entry.once.Do(func() {
		entry.source = s
		entry.spec, entry.err = ParseString(ctx, s, opts...)
	})

	// Sources with equal hashes but different text must not share a result.
	if entry.source != s {
		return ParseString(ctx, s, opts...)
	}

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.spec.clone(), nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Range(func(key, _ any) bool {
		globalCache.Delete(key)

		return true
	})
}
