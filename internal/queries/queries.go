// Package queries puts the resource clients behind the query cache. Reads are
// keyed and coalesced; every mutation invalidates the key prefixes listed for it
// in Invalidations, and only after the server accepted the write.
package queries

import (
	"context"

	"github.com/rs/zerolog"

	"adminconsole/internal/api"
	"adminconsole/internal/cache"
)

type Config struct {
	API    *api.Client
	Cache  *cache.Cache
	Logger zerolog.Logger
}

type Queries struct {
	api   *api.Client
	cache *cache.Cache
	log   zerolog.Logger
}

func New(cfg Config) *Queries {
	if cfg.Cache == nil {
		cfg.Cache = cache.New(cache.Config{Logger: cfg.Logger})
	}
	return &Queries{api: cfg.API, cache: cfg.Cache, log: cfg.Logger}
}

// API exposes the uncached clients for calls that are neither reads nor
// cache-affecting writes, such as login and the feedback export.
func (q *Queries) API() *api.Client { return q.api }

// Reset drops every cached entry. Used when the signed-in identity changes.
func (q *Queries) Reset(ctx context.Context) error {
	return q.cache.Invalidate(ctx, cache.Key{})
}

// Wait blocks until background refetches settle.
func (q *Queries) Wait() { q.cache.Wait() }

func read[T any](ctx context.Context, q *Queries, key cache.Key, fn func(context.Context) (T, error)) (T, error) {
	return cache.Fetch(ctx, q.cache, key, fn)
}

func mutate[T any](ctx context.Context, q *Queries, op Op, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	q.invalidate(ctx, op)
	return v, nil
}

func mutateErr(ctx context.Context, q *Queries, op Op, fn func(context.Context) error) error {
	_, err := mutate(ctx, q, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// invalidate never fails the mutation: the write already happened server-side.
func (q *Queries) invalidate(ctx context.Context, op Op) {
	prefixes := Invalidations[op]
	if len(prefixes) == 0 {
		q.log.Error().Str("op", string(op)).Msg("mutation has no invalidation targets")
		return
	}
	if err := q.cache.Invalidate(context.WithoutCancel(ctx), prefixes...); err != nil {
		q.log.Error().Err(err).Str("op", string(op)).Msg("invalidate after mutation")
	}
}
