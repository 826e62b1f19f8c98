package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	value, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: 10 * time.Millisecond})
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(10 * time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestLRUEviction(t *testing.T) {
	evicted := map[string]any{}
	c := New(Config{
		MaxItems: 2,
		OnEviction: func(key string, value any) {
			evicted[key] = value
		},
	})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	// Touch "a" so "b" becomes the least recently used.
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, evicted["b"])
	assert.Equal(t, 2, c.Len())
}

func TestDelete(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestOverwriteKeepsSingleEntry(t *testing.T) {
	c := New(Config{MaxItems: 10})
	defer c.Close()

	c.Set("a", 1)
	c.Set("a", 2)
	value, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, value)
	assert.Equal(t, 1, c.Len())
}
