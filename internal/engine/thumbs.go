package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ThumbRequest asks the coordinator to resolve one distinct thumbnail key.
// Callers pre-suppress duplicate keys; records sharing a channel submit a
// single request between them.
type ThumbRequest struct {
	Key       ThumbKey
	SourceURL string
}

// ResolveAll resolves every request and returns key → cached file path for
// the ones that succeeded. Cache hits are answered synchronously; misses go
// to a bounded worker pool and ResolveAll blocks until the whole batch has
// settled — no entry is ever left pending.
//
// There is no cross-query stampede protection: two concurrent queries racing
// on the same key may fetch twice. Writes are atomic renames to the same
// deterministic path, so the race wastes a fetch but cannot corrupt.
func (c *ThumbCache) ResolveAll(ctx context.Context, reqs []ThumbRequest) map[ThumbKey]string {
	resolved := make(map[ThumbKey]string, len(reqs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(cfg.MaxWorkers)

	for _, req := range reqs {
		if path, ok := c.hit(req.Key); ok {
			resolved[req.Key] = path
			continue
		}
		req := req
		g.Go(func() error {
			if path, ok := c.Resolve(ctx, req.Key, req.SourceURL); ok {
				mu.Lock()
				resolved[req.Key] = path
				mu.Unlock()
			}
			return nil // individual failures degrade to the default icon
		})
	}
	g.Wait()
	return resolved
}
