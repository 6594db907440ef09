package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedGoods struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_CachesFetchResult(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedGoods) func() error {
		return func() error {
			fetches++
			dest.ID = 1
			dest.Name = "Desk"
			return nil
		}
	}

	var first cachedGoods
	require.NoError(t, Aside(ctx, GoodsKey(1), &first, GoodsTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "Desk", first.Name)

	var second cachedGoods
	require.NoError(t, Aside(ctx, GoodsKey(1), &second, GoodsTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should come from cache")
	assert.Equal(t, "Desk", second.Name)
}

func TestAside_ExpiryTriggersRefetch(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var dest cachedGoods
	fetch := func() error {
		fetches++
		dest.ID = 1
		dest.Name = "Desk"
		return nil
	}

	require.NoError(t, Aside(ctx, GoodsKey(1), &dest, time.Second, fetch))
	mr.FastForward(2 * time.Second)
	require.NoError(t, Aside(ctx, GoodsKey(1), &dest, time.Second, fetch))
	assert.Equal(t, 2, fetches)
}

func TestInvalidateGoods(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, GoodsKey(7), cachedGoods{ID: 7, Name: "Lamp"}, GoodsTTL))

	var dest cachedGoods
	found, err := GetJSON(ctx, GoodsKey(7), &dest)
	require.NoError(t, err)
	require.True(t, found)

	InvalidateGoods(ctx, 7)

	found, err = GetJSON(ctx, GoodsKey(7), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHelpers_NilClientDegradesGracefully(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var dest cachedGoods
	found, err := GetJSON(ctx, GoodsKey(1), &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, GoodsKey(1), cachedGoods{ID: 1}, GoodsTTL))

	fetched := false
	err = Aside(ctx, GoodsKey(1), &dest, GoodsTTL, func() error {
		fetched = true
		dest.ID = 1
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, fetched)
}
