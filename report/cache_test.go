package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) (*PDFCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPDFCache(client, time.Hour), mr
}

func TestPDFCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	key := cache.Key("document", "<html>facture</html>")
	pdf := []byte("%PDF-1.7 fake")

	miss, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.Nil(t, miss)

	require.NoError(t, cache.Set(ctx, key, pdf))

	hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, pdf, hit)
}

func TestPDFCacheKeyTracksContent(t *testing.T) {
	cache, _ := testCache(t)

	a := cache.Key("document", "<html>v1</html>")
	b := cache.Key("document", "<html>v2</html>")
	c := cache.Key("receivables", "<html>v1</html>")

	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, a, cache.Key("document", "<html>v1</html>"))
}

func TestPDFCacheEntriesExpire(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	key := cache.Key("receivables", "<html>report</html>")
	require.NoError(t, cache.Set(ctx, key, []byte("pdf")))

	mr.FastForward(2 * time.Hour)

	miss, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.Nil(t, miss)
}

func TestPDFCacheWithoutRedisIsNoop(t *testing.T) {
	cache := NewPDFCache(nil, time.Hour)
	ctx := context.Background()

	miss, err := cache.Get(ctx, "pdf:document:deadbeef")
	require.NoError(t, err)
	require.Nil(t, miss)
	require.NoError(t, cache.Set(ctx, "pdf:document:deadbeef", []byte("pdf")))
}
