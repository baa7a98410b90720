package coverage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func sampleResult() Result {
	return Result{
		Coordinates: Coordinates{Latitude: -26.2041, Longitude: 28.0473},
		Province:    "Gauteng",
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Sources: map[string]SourceCoverage{
			SourceWMS: {
				Source:       SourceWMS,
				Available:    true,
				Observations: []Observation{{Technology: "4G", Available: true, Quality: 85, Strength: StrengthMedium}},
			},
		},
		Errors:  []EndpointError{},
		Success: true,
	}
}

func TestMemoryCache_HitWithinTTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(func() time.Time { return clock })

	cache.Put(context.Background(), "a", sampleResult(), 5*time.Minute)

	clock = clock.Add(4 * time.Minute)
	got, ok := cache.Get(context.Background(), "a")
	if !ok {
		t.Fatal("expected a cache hit within the TTL")
	}
	if !got.Success || got.Province != "Gauteng" {
		t.Fatalf("cached value mangled: %+v", got)
	}
}

func TestMemoryCache_LazyExpiry(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(func() time.Time { return clock })

	cache.Put(context.Background(), "a", sampleResult(), 5*time.Minute)

	clock = clock.Add(6 * time.Minute)
	if _, ok := cache.Get(context.Background(), "a"); ok {
		t.Fatal("expected a miss after the TTL")
	}

	cache.mu.Lock()
	_, stillThere := cache.items["a"]
	cache.mu.Unlock()
	if stillThere {
		t.Fatal("expired entry must be evicted on read")
	}
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() {
		_ = client.Close()
	}()

	cache := NewRedisCache(client, nil)
	ctx := context.Background()

	cache.Put(ctx, "a", sampleResult(), 5*time.Minute)

	got, ok := cache.Get(ctx, "a")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if !got.Success || len(got.Sources[SourceWMS].Observations) != 1 {
		t.Fatalf("cached value mangled: %+v", got)
	}

	mr.FastForward(6 * time.Minute)
	if _, ok := cache.Get(ctx, "a"); ok {
		t.Fatal("expected a miss after the TTL")
	}
}

func TestRedisCache_MissOnUnknownKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() {
		_ = client.Close()
	}()

	cache := NewRedisCache(client, nil)
	if _, ok := cache.Get(context.Background(), "nope"); ok {
		t.Fatal("expected a miss for an unknown key")
	}
}
