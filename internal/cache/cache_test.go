package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"adminconsole/internal/metrics"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(store Store) (*Cache, *clock, *metrics.Metrics) {
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := metrics.New()
	c := New(Config{Store: store, StaleTime: time.Minute, GCTime: 5 * time.Minute, Metrics: m, Now: clk.Now})
	return c, clk, m
}

func TestKeyPrefix(t *testing.T) {
	k := K("config", "agents", "list")
	if !k.HasPrefix(Key{"config", "agents"}) {
		t.Fatalf("expected prefix match")
	}
	if K("config", "agents-v2").HasPrefix(Key{"config", "agents"}) {
		t.Fatalf("prefix must compare whole elements")
	}
	if !K("users", "list", 20, 0).Equal(Key{"users", "list", "20", "0"}) {
		t.Fatalf("unexpected key %v", K("users", "list", 20, 0))
	}
	if got := K("conversation-detail", "a/b").String(); got != "conversation-detail/a%2Fb" {
		t.Fatalf("unexpected encoding %q", got)
	}
	flag := true
	if got := K("c", "list", &flag, nil)[2:]; got[0] != "true" || got[1] != "" {
		t.Fatalf("unexpected segments %v", got)
	}
}

func TestFetchServesFreshEntryWithoutRefetch(t *testing.T) {
	c, clk, m := newTestCache(NewMemoryStore())
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, c, K("users", "list"), fn)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("unexpected value %v", got)
		}
		clk.Advance(10 * time.Second)
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}
	if testutil.ToFloat64(m.CacheHits) != 2 || testutil.ToFloat64(m.CacheMisses) != 1 {
		t.Fatalf("unexpected counters hits=%v misses=%v", testutil.ToFloat64(m.CacheHits), testutil.ToFloat64(m.CacheMisses))
	}
}

func TestFetchStaleServesOldValueAndRefreshes(t *testing.T) {
	c, clk, m := newTestCache(NewMemoryStore())
	ctx := context.Background()
	var version atomic.Int32
	fn := func(context.Context) (int32, error) {
		return version.Add(1), nil
	}

	if v, _ := Fetch(ctx, c, K("stats"), fn); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	clk.Advance(2 * time.Minute)

	v, err := Fetch(ctx, c, K("stats"), fn)
	if err != nil || v != 1 {
		t.Fatalf("stale read should return cached 1, got %d err=%v", v, err)
	}
	c.Wait()
	if testutil.ToFloat64(m.CacheStale) != 1 {
		t.Fatalf("expected stale counter 1")
	}

	if v, _ := Fetch(ctx, c, K("stats"), fn); v != 2 {
		t.Fatalf("expected refreshed 2, got %d", v)
	}
}

func TestFetchCoalescesConcurrentReads(t *testing.T) {
	c, _, _ := newTestCache(NewMemoryStore())
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "ok", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, c, K("config", "agents"), fn)
			if err != nil {
				t.Errorf("fetch: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one shared fetch, got %d", calls.Load())
	}
	for _, r := range results {
		if r != "ok" {
			t.Fatalf("unexpected result %q", r)
		}
	}
}

func TestFetchErrorIsNotCached(t *testing.T) {
	c, _, _ := newTestCache(NewMemoryStore())
	ctx := context.Background()
	boom := errors.New("boom")
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}
	if _, err := Fetch(ctx, c, K("x"), fn); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if v, err := Fetch(ctx, c, K("x"), fn); err != nil || v != 7 {
		t.Fatalf("expected 7, got %d err=%v", v, err)
	}
}

func TestInvalidateForcesRefetchOfMatchingPrefix(t *testing.T) {
	c, _, m := newTestCache(NewMemoryStore())
	ctx := context.Background()
	counts := map[string]int{}
	fetcher := func(name string) func(context.Context) (int, error) {
		return func(context.Context) (int, error) {
			counts[name]++
			return counts[name], nil
		}
	}

	Fetch(ctx, c, K("config", "agents", "list"), fetcher("agents"))
	Fetch(ctx, c, K("config", "orchestrator"), fetcher("orch"))
	Fetch(ctx, c, K("users", "list"), fetcher("users"))

	if err := c.Invalidate(ctx, Key{"config"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if v, _ := Fetch(ctx, c, K("config", "agents", "list"), fetcher("agents")); v != 2 {
		t.Fatalf("agents should refetch, got %d", v)
	}
	if v, _ := Fetch(ctx, c, K("config", "orchestrator"), fetcher("orch")); v != 2 {
		t.Fatalf("orchestrator should refetch, got %d", v)
	}
	if v, _ := Fetch(ctx, c, K("users", "list"), fetcher("users")); v != 1 {
		t.Fatalf("users should stay cached, got %d", v)
	}
	if testutil.ToFloat64(m.Invalidations) != 1 {
		t.Fatalf("expected one invalidation")
	}
}

func TestResultFetchedBeforeInvalidationIsNotStored(t *testing.T) {
	c, _, _ := newTestCache(NewMemoryStore())
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int)

	go func() {
		v, _ := Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()
	<-started
	if err := c.Invalidate(ctx, Key{"users"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	close(release)
	if v := <-done; v != 1 {
		t.Fatalf("in-flight caller should still get its result, got %d", v)
	}

	v, _ := Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) { return 2, nil })
	if v != 2 {
		t.Fatalf("pre-invalidation result must not be served, got %d", v)
	}
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb, "test")

	if e, err := s.Get(ctx, K("missing")); err != nil || e != nil {
		t.Fatalf("expected miss, got %v err=%v", e, err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, k := range []Key{
		K("config", "agents"),
		K("config", "agents", "list"),
		K("config", "agents-v2"),
		K("users", "list", "a*b"),
	} {
		if err := s.Set(ctx, k, Entry{Value: []byte(`"v"`), UpdatedAt: now}, time.Minute); err != nil {
			t.Fatalf("set %v: %v", k, err)
		}
	}

	e, err := s.Get(ctx, K("config", "agents", "list"))
	if err != nil || e == nil || string(e.Value) != `"v"` || !e.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected entry %+v err=%v", e, err)
	}
	if ttl := mr.TTL("test:config/agents/list"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	n, err := s.DeletePrefix(ctx, Key{"config", "agents"})
	if err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
	if !mr.Exists("test:config/agents-v2") {
		t.Fatalf("sibling key must survive")
	}
	if !mr.Exists("test:users/list/a%2Ab") && !mr.Exists("test:users/list/a*b") {
		t.Fatalf("users key must survive")
	}
}

func TestCacheOverRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	shared := NewRedisStore(rdb, "")
	a, _, _ := newTestCache(shared)
	b, _, _ := newTestCache(shared)

	type row struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if _, err := Fetch(ctx, a, K("admins"), func(context.Context) ([]row, error) {
		return []row{{ID: "1", Name: "root"}}, nil
	}); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	got, err := Fetch(ctx, b, K("admins"), func(context.Context) ([]row, error) {
		t.Fatalf("second process should read the shared entry")
		return nil, nil
	})
	if err != nil || len(got) != 1 || got[0].Name != "root" {
		t.Fatalf("unexpected shared read %v err=%v", got, err)
	}
}

func TestCancelledReaderDoesNotFailSharedFetch(t *testing.T) {
	c, _, _ := newTestCache(NewMemoryStore())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fn := func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 42, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := Fetch(ctxA, c, K("users", "list"), fn)
		errA <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), c, K("users", "list"), fn)
		resB <- result{v, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled reader should see context.Canceled, got %v", err)
	}
	close(release)

	r := <-resB
	if r.err != nil || r.v != 42 {
		t.Fatalf("live reader: value=%d err=%v", r.v, r.err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one shared fetch, got %d", calls.Load())
	}
	if v, err := Fetch(context.Background(), c, K("users", "list"), fn); err != nil || v != 42 {
		t.Fatalf("shared result should be cached: value=%d err=%v", v, err)
	}
}

func TestInvalidatingOtherPrefixKeepsInFlightResult(t *testing.T) {
	c, _, _ := newTestCache(NewMemoryStore())
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started
	if err := c.Invalidate(ctx, Key{"config", "tools"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	close(release)
	<-done

	v, _ := Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) { return 2, nil })
	if v != 1 {
		t.Fatalf("unrelated invalidation must not drop the result, got %d", v)
	}
}

func TestResetInvalidationCoversEveryKey(t *testing.T) {
	c, _, _ := newTestCache(NewMemoryStore())
	ctx := context.Background()
	Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) { return 1, nil })
	if err := c.Invalidate(ctx, Key{"users"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := c.Invalidate(ctx, Key{}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v, _ := Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) { return 2, nil }); v != 2 {
		t.Fatalf("expected refetch after reset, got %d", v)
	}
	if v, _ := Fetch(ctx, c, K("users", "list"), func(context.Context) (int, error) { return 3, nil }); v != 2 {
		t.Fatalf("fresh result after reset should be cached, got %d", v)
	}
}
