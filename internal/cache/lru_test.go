package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segy/resource"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := t.Context()
	k := Key{Blob: "a.sgy", Block: 3}

	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	c.Set(ctx, k, []byte("abc"))
	v, ok := c.Get(ctx, k)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), v)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(3), c.Size())
	assert.Equal(t, 1, c.Len())
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRUBlockCache(30, nil)
	ctx := t.Context()
	for i := int64(0); i < 3; i++ {
		c.Set(ctx, Key{Blob: "f", Block: i}, make([]byte, 10))
	}
	// Touch block 0 so block 1 is the oldest.
	_, ok := c.Get(ctx, Key{Blob: "f", Block: 0})
	require.True(t, ok)

	c.Set(ctx, Key{Blob: "f", Block: 3}, make([]byte, 10))
	_, ok = c.Get(ctx, Key{Blob: "f", Block: 1})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Blob: "f", Block: 0})
	assert.True(t, ok)
	assert.Equal(t, int64(30), c.Size())
}

func TestLRU_TooLarge(t *testing.T) {
	c := NewLRUBlockCache(8, nil)
	c.Set(t.Context(), Key{Blob: "f"}, make([]byte, 9))
	assert.Equal(t, 0, c.Len())
}

func TestLRU_UpdateAndController(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c := NewLRUBlockCache(50, rc)
	ctx := t.Context()
	k := Key{Blob: "f", Block: 1}

	c.Set(ctx, k, make([]byte, 8))
	assert.Equal(t, int64(8), rc.MemoryUsage())

	// Growing past the controller limit keeps the old value.
	c.Set(ctx, k, make([]byte, 12))
	v, ok := c.Get(ctx, k)
	require.True(t, ok)
	assert.Len(t, v, 8)

	c.Set(ctx, k, make([]byte, 4))
	assert.Equal(t, int64(4), c.Size())
	assert.Equal(t, int64(4), rc.MemoryUsage())

	require.NoError(t, c.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Invalidate(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := t.Context()
	c.Set(ctx, Key{Blob: "a", Block: 0}, []byte{1})
	c.Set(ctx, Key{Blob: "a", Block: 1}, []byte{2})
	c.Set(ctx, Key{Blob: "b", Block: 0}, []byte{3})

	c.Invalidate(func(k Key) bool { return k.Blob == "a" })
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, Key{Blob: "b", Block: 0})
	assert.True(t, ok)
}
