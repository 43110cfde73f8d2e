package cache_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"ojarena/internal/common/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	if err != nil {
		t.Fatalf("new cache failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func encodeInt(v int) (string, error) { return strconv.Itoa(v), nil }

func TestGetWithCachedFetchesOnce(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 3; i++ {
		got, err := cache.GetWithCached(ctx, c, "answer", time.Minute, time.Second,
			func(v int) bool { return v == 0 }, encodeInt, strconv.Atoi, fetch)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != 42 {
			t.Fatalf("unexpected value: %d", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
	if ttl := mr.TTL("answer"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl: %v", ttl)
	}
}

func TestGetWithCachedStoresEmptyMarker(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 0, nil
	}
	for i := 0; i < 2; i++ {
		if _, err := cache.GetWithCached(ctx, c, "none", time.Minute, time.Second,
			func(v int) bool { return v == 0 }, encodeInt, strconv.Atoi, fetch); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected the empty marker to be served, got %d fetches", calls)
	}
	if got, _ := mr.Get("none"); got != cache.NullCacheValue {
		t.Fatalf("expected null marker, got %q", got)
	}
}

func TestGetWithCachedPropagatesFetchError(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	_, err := cache.GetWithCached(context.Background(), c, "broken", time.Minute, time.Second,
		func(v int) bool { return v == 0 }, encodeInt, strconv.Atoi,
		func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if mr.Exists("broken") {
		t.Fatalf("failed fetch must not be cached")
	}
}

func TestIncrAndMissingKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	if got, err := c.Get(ctx, "missing"); err != nil || got != "" {
		t.Fatalf("expected empty miss, got %q, %v", got, err)
	}
	for want := int64(1); want <= 2; want++ {
		got, err := c.Incr(ctx, "gen")
		if err != nil || got != want {
			t.Fatalf("incr = %d, %v; want %d", got, err, want)
		}
	}
}

func TestJitterTTL(t *testing.T) {
	ttl := 10 * time.Second
	for i := 0; i < 20; i++ {
		got := cache.JitterTTL(ttl)
		if got > ttl || got < 9*time.Second {
			t.Fatalf("jittered ttl out of range: %v", got)
		}
	}
	if got := cache.JitterTTL(0); got != 0 {
		t.Fatalf("expected zero ttl untouched, got %v", got)
	}
}
