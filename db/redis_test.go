// api/db/redis_test.go
package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_KeyValue(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, found, err := store.Get(ctx, "token:missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetWithTTL(ctx, "token:abc", `{"token":"abc"}`, time.Minute))

	value, found, err := store.Get(ctx, "token:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"token":"abc"}`, value)
	assert.Equal(t, time.Minute, mr.TTL("token:abc"))

	exists, err := store.Exists(ctx, "token:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	mr.FastForward(time.Minute + time.Second)
	exists, err = store.Exists(ctx, "token:abc")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.SetWithTTL(ctx, "usuario:1", "{}", time.Minute))
	require.NoError(t, store.Delete(ctx, "usuario:1"))
	assert.False(t, mr.Exists("usuario:1"))
}

func TestRedisStore_QueueIsFIFO(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, store.Push(ctx, "cola_tareas", p))
	}
	n, err := store.Len(ctx, "cola_tareas")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	first, ok, err := store.Pop(ctx, "cola_tareas")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", first)

	require.NoError(t, store.PushFront(ctx, "cola_tareas", first))

	var drained []string
	for {
		p, ok, err := store.Pop(ctx, "cola_tareas")
		require.NoError(t, err)
		if !ok {
			break
		}
		drained = append(drained, p)
	}
	assert.Equal(t, []string{"a", "b", "c"}, drained)
}

func TestRedisStore_Lock(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	owner, locked, err := store.LockResource(ctx, "queue:cola_tareas", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.NotEmpty(t, owner)
	held, err := mr.Get("lock:queue:cola_tareas")
	require.NoError(t, err)
	assert.Equal(t, owner, held)

	_, locked, err = store.LockResource(ctx, "queue:cola_tareas", time.Minute)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, store.UnlockResource(ctx, "queue:cola_tareas", owner))
	assert.False(t, mr.Exists("lock:queue:cola_tareas"))

	_, locked, err = store.LockResource(ctx, "queue:cola_tareas", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestRedisStore_LockOwnership(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	owner, locked, err := store.LockResource(ctx, "queue:cola_tareas", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	mr.FastForward(30 * time.Second)
	ok, err := store.RefreshLock(ctx, "queue:cola_tareas", owner, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("lock:queue:cola_tareas"))

	mr.FastForward(2 * time.Minute)
	other, locked, err := store.LockResource(ctx, "queue:cola_tareas", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	ok, err = store.RefreshLock(ctx, "queue:cola_tareas", owner, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.UnlockResource(ctx, "queue:cola_tareas", owner))
	held, err := mr.Get("lock:queue:cola_tareas")
	require.NoError(t, err)
	assert.Equal(t, other, held)
}

func TestRedisStore_RateLimit(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for i := 0; i < 2; i++ {
		allowed, err := store.RateLimit(ctx, "10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := store.RateLimit(ctx, "10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = store.RateLimit(ctx, "10.0.0.2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisStore_ConnectionFailure(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "token:abc")
	assert.Error(t, err)
}

func TestSealer(t *testing.T) {
	t.Run("empty key passes values through", func(t *testing.T) {
		s, err := NewSealer("")
		require.NoError(t, err)
		assert.Nil(t, s)

		sealed, err := s.Seal([]byte("plain"))
		require.NoError(t, err)
		assert.Equal(t, "plain", sealed)

		opened, err := s.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, "plain", string(opened))
	})

	t.Run("wrong key length", func(t *testing.T) {
		_, err := NewSealer("short")
		assert.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		s, err := NewSealer(strings.Repeat("k", 32))
		require.NoError(t, err)

		sealed, err := s.Seal([]byte(`{"scopes":["read"]}`))
		require.NoError(t, err)
		assert.NotContains(t, sealed, "scopes")

		opened, err := s.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, `{"scopes":["read"]}`, string(opened))
	})

	t.Run("other key cannot open", func(t *testing.T) {
		a, err := NewSealer(strings.Repeat("a", 32))
		require.NoError(t, err)
		b, err := NewSealer(strings.Repeat("b", 32))
		require.NoError(t, err)

		sealed, err := a.Seal([]byte("secret"))
		require.NoError(t, err)
		_, err = b.Open(sealed)
		assert.Error(t, err)
	})
}
