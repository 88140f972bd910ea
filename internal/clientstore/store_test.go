package clientstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type favorite struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func stores(t *testing.T) map[string]Store {
	rs, _ := setupRedisStore(t)
	return map[string]Store{
		"redis":  rs,
		"memory": NewMemoryStore(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := []favorite{{ID: "1", Name: "RTX 4070"}, {ID: "2", Name: "Ryzen 7"}}

			require.NoError(t, Save(ctx, s, "sess-1", KeyFavorites, in))

			out, err := Load[[]favorite](ctx, s, nil, "sess-1", KeyFavorites)
			require.NoError(t, err)
			assert.Equal(t, in, out)

			other, err := Load[[]favorite](ctx, s, nil, "sess-2", KeyFavorites)
			require.NoError(t, err)
			assert.Nil(t, other)
		})
	}
}

func TestStore_MalformedDocumentResets(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "sess", KeyCart, []byte("{not json")))

			out, err := Load[[]favorite](ctx, s, nil, "sess", KeyCart)
			require.NoError(t, err)
			assert.Nil(t, out)

			ok, err := Exists(ctx, s, "sess", KeyCart)
			require.NoError(t, err)
			assert.False(t, ok, "corrupt document should be removed")
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, Save(ctx, s, "sess", KeyPendingOrder, map[string]string{"a": "b"}))
			require.NoError(t, s.Delete(ctx, "sess", KeyPendingOrder))

			_, err := s.Get(ctx, "sess", KeyPendingOrder)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting twice is fine.
			assert.NoError(t, s.Delete(ctx, "sess", KeyPendingOrder))
		})
	}
}

func TestRedisStore_KeyLayoutAndTTL(t *testing.T) {
	s, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "abc", KeyCart, []byte("[]")))

	assert.True(t, mr.Exists("client:abc:cart"))
	assert.Equal(t, time.Hour, mr.TTL("client:abc:cart"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "abc", KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	s, mr := setupRedisStore(t)
	mr.Close()

	_, err := s.Get(context.Background(), "abc", KeyCart)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
