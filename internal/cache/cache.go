package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"adminconsole/internal/metrics"
)

const (
	DefaultStaleTime = time.Minute
	DefaultGCTime    = 5 * time.Minute
)

type Config struct {
	Store     Store
	StaleTime time.Duration
	GCTime    time.Duration
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// Cache is a keyed query cache. Reads within StaleTime are served from the
// store; older entries are served immediately while one background refetch
// replaces them. Concurrent reads of the same key share a single fetch.
type Cache struct {
	store     Store
	staleTime time.Duration
	gcTime    time.Duration
	log       zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	group singleflight.Group

	// marks records, per invalidated prefix, the tick of its last
	// invalidation. A result is stored only if no prefix of its key was
	// invalidated while it was being fetched.
	genMu sync.RWMutex
	tick  uint64
	marks map[string]mark

	mu         sync.Mutex
	refreshing map[string]bool
	wg         sync.WaitGroup
}

func New(cfg Config) *Cache {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = DefaultStaleTime
	}
	if cfg.GCTime <= 0 {
		cfg.GCTime = DefaultGCTime
	}
	if cfg.GCTime < cfg.StaleTime {
		cfg.GCTime = cfg.StaleTime
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		store:      cfg.Store,
		staleTime:  cfg.StaleTime,
		gcTime:     cfg.GCTime,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
		now:        cfg.Now,
		refreshing: map[string]bool{},
		marks:      map[string]mark{},
	}
}

type mark struct {
	prefix Key
	tick   uint64
}

type loader func(ctx context.Context) ([]byte, error)

// Fetch returns the cached value for key, calling fn on a miss. fn's result is
// JSON-encoded for storage, so T must round-trip through encoding/json.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	load := func(ctx context.Context) ([]byte, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	if e := c.lookup(ctx, key); e != nil {
		var v T
		err := json.Unmarshal(e.Value, &v)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Str("key", key.String()).Msg("discarding undecodable cache entry")
		case c.now().Sub(e.UpdatedAt) < c.staleTime:
			c.count(func(m *metrics.Metrics) { m.CacheHits.Inc() })
			return v, nil
		default:
			c.count(func(m *metrics.Metrics) { m.CacheStale.Inc() })
			c.refresh(ctx, key, load)
			return v, nil
		}
	}

	c.count(func(m *metrics.Metrics) { m.CacheMisses.Inc() })
	b, err := c.load(ctx, key, load)
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return zero, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func (c *Cache) lookup(ctx context.Context, key Key) *Entry {
	e, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key.String()).Msg("cache read failed")
		return nil
	}
	return e
}

// generation is the tick of the latest invalidation covering key.
func (c *Cache) generation(key Key) uint64 {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	return c.generationLocked(key)
}

func (c *Cache) generationLocked(key Key) uint64 {
	var g uint64
	for _, m := range c.marks {
		if m.tick > g && key.HasPrefix(m.prefix) {
			g = m.tick
		}
	}
	return g
}

// load shares one fetch between concurrent readers of key. The fetch runs
// detached from any reader's context; each reader stops waiting when its own
// ctx is done.
func (c *Cache) load(ctx context.Context, key Key, fn loader) ([]byte, error) {
	gen := c.generation(key)
	flight := key.String() + "@" + strconv.FormatUint(gen, 10)
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		b, err := fn(shared)
		if err != nil {
			return nil, err
		}
		c.save(shared, key, gen, b)
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Cache) save(ctx context.Context, key Key, gen uint64, b []byte) {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	if c.generationLocked(key) != gen {
		c.log.Debug().Str("key", key.String()).Msg("dropping result fetched before invalidation")
		return
	}
	if err := c.store.Set(ctx, key, Entry{Value: b, UpdatedAt: c.now()}, c.gcTime); err != nil {
		c.log.Warn().Err(err).Str("key", key.String()).Msg("cache write failed")
	}
}

func (c *Cache) refresh(ctx context.Context, key Key, fn loader) {
	id := key.String()
	c.mu.Lock()
	if c.refreshing[id] {
		c.mu.Unlock()
		return
	}
	c.refreshing[id] = true
	c.wg.Add(1)
	c.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, id)
			c.mu.Unlock()
		}()
		if _, err := c.load(bg, key, fn); err != nil {
			c.log.Warn().Err(err).Str("key", id).Msg("background refetch failed")
		}
	}()
}

// Invalidate drops every entry whose key starts with one of prefixes, so the
// next read of those keys waits for a fresh fetch.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) error {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	c.tick++
	for _, p := range prefixes {
		if len(p) == 0 {
			// The empty prefix covers every key; older marks are redundant.
			clear(c.marks)
		}
		c.marks[p.String()] = mark{prefix: append(Key(nil), p...), tick: c.tick}
	}

	var errs []error
	for _, p := range prefixes {
		n, err := c.store.DeletePrefix(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", p, err))
			continue
		}
		c.count(func(m *metrics.Metrics) { m.Invalidations.Inc() })
		c.log.Debug().Str("prefix", p.String()).Int("entries", n).Msg("invalidated")
	}
	return errors.Join(errs...)
}

// Wait blocks until in-flight background refetches finish.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) count(f func(m *metrics.Metrics)) {
	if c.metrics != nil {
		f(c.metrics)
	}
}
