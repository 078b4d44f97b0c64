package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	store.Set(ctx, "projects:list:{}", []byte("payload"), time.Minute)

	val, ok := store.Get(ctx, "projects:list:{}")
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), val)

	_, ok = store.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	store.Set(ctx, "key", []byte("v"), 20*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := store.Get(ctx, "key")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryZeroTTLNotStored(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	store.Set(ctx, "key", []byte("v"), 0)
	_, ok := store.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	store.Set(ctx, "projects:list:{}", []byte("a"), time.Minute)
	store.Set(ctx, "projects:slug:x", []byte("b"), time.Minute)
	store.Set(ctx, "blog:list:{}", []byte("c"), time.Minute)

	store.DeletePrefix(ctx, "projects:")

	_, ok := store.Get(ctx, "projects:list:{}")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "projects:slug:x")
	assert.False(t, ok)

	// Other prefixes survive
	_, ok = store.Get(ctx, "blog:list:{}")
	assert.True(t, ok)
}

func TestNoopStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := Noop{}

	store.Set(ctx, "key", []byte("v"), time.Minute)
	_, ok := store.Get(ctx, "key")
	assert.False(t, ok)
	assert.NoError(t, store.Close())
}
