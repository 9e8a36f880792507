package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := NewCache(50*time.Millisecond, 100*time.Millisecond)

	c.Set(CacheKeyBlog(1, "my-blog"), "value")

	v, ok := c.Get(CacheKeyBlog(1, "my-blog"))
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	_, ok = c.Get(CacheKeyBlog(2, "my-blog"))
	assert.False(t, ok)

	time.Sleep(60 * time.Millisecond)

	_, ok = c.Get(CacheKeyBlog(1, "my-blog"))
	assert.False(t, ok)
}

func TestCacheCustomExpiration(t *testing.T) {
	c := NewCache(10*time.Millisecond, 100*time.Millisecond)

	c.Set(CacheKeyUserByUsername("alice"), 42, 200*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	v, ok := c.Get(CacheKeyUserByUsername("alice"))
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	c.Set(CacheKeyEntry(1, "first-post"), "value")
	c.Flush()

	_, ok := c.Get(CacheKeyEntry(1, "first-post"))
	assert.False(t, ok)
}
