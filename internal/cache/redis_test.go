package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serdal-zonemap/internal/cache"
	"github.com/serdal-zonemap/internal/enrich"
)

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedis(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "zonemap:test")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`{"type":"FeatureCollection","features":[]}`)
	require.NoError(t, c.Set(ctx, "zonemap:test", payload))

	got, ok, err := c.Get(ctx, "zonemap:test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestRedisCache_StoresCompressedWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	payload := []byte(`{"features":["aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]}`)
	require.NoError(t, c.Set(ctx, "zonemap:ttl", payload))

	raw, err := mr.Get("zonemap:ttl")
	require.NoError(t, err)
	assert.Less(t, len(raw), len(payload))
	assert.Equal(t, time.Minute, mr.TTL("zonemap:ttl"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "zonemap:ttl")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("zonemap:bad", "\x0a\x01"))

	_, ok, err := c.Get(context.Background(), "zonemap:bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	f := enrich.Filter{UnitType: "Apartment", Rooms: "2", Quarter: "Q1-2024"}

	k1 := cache.Key("geojson", "abc", f, enrich.Investor)
	k2 := cache.Key("geojson", "abc", f, enrich.EndUser)
	k3 := cache.Key("geojson", "def", f, enrich.Investor)
	k4 := cache.Key("geojson", "abc", enrich.Filter{UnitType: "Apartment:2", Quarter: "Q1-2024"}, enrich.Investor)

	assert.Equal(t, "zonemap:geojson:abc:Apartment:2:Q1-2024:Investor", k1)
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
}
