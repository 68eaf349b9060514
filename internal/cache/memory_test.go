package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "old", time.Minute))
	require.NoError(t, store.Set(ctx, "k", "new", time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

// Ленивое выселение протухшего ключа не должно затирать значение,
// записанное конкурентным Set между снятием read-лока и взятием write-лока
func TestMemoryStore_ExpiredEvictionKeepsConcurrentSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		store := NewMemoryStore()
		store.entries["k"] = memoryEntry{value: "stale", expiresAt: time.Now().Add(-time.Minute)}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "k")
		}()
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "k", "fresh", time.Minute)
		}()
		wg.Wait()

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Удаление отсутствующего ключа не ошибка
	assert.NoError(t, store.Delete(ctx, "k"))
}
