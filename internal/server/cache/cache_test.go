package cache

import (
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c := New(5*time.Minute, 0)

	t.Run("set and get", func(t *testing.T) {
		c.Set("vehicles", []string{"1", "2"})
		v, ok := c.Get("vehicles")
		require.True(t, ok)
		assert.Equal(t, []string{"1", "2"}, v)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := c.Get("nope")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		c.Set("makes", []string{"Ford"})
		c.Delete("makes")
		_, ok := c.Get("makes")
		assert.False(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		c.Set("a", 1)
		c.Set("b", 2)
		c.Clear()
		assert.Zero(t, c.ItemCount())
		assert.Equal(t, Stats{}, c.Stats())
	})
}

func TestCache_SetIfGeneration(t *testing.T) {
	t.Run("stores when unchanged", func(t *testing.T) {
		c := New(time.Minute, 0)
		gen := c.Generation()
		assert.True(t, c.SetIfGeneration("vehicles", "fresh", gen))
		v, ok := c.Get("vehicles")
		require.True(t, ok)
		assert.Equal(t, "fresh", v)
	})

	t.Run("drops value computed before a clear", func(t *testing.T) {
		c := New(time.Minute, 0)
		gen := c.Generation()
		c.Clear()
		assert.False(t, c.SetIfGeneration("vehicles", "stale", gen))
		_, ok := c.Get("vehicles")
		assert.False(t, ok)
		assert.Zero(t, c.ItemCount())
	})

	t.Run("clear advances generation", func(t *testing.T) {
		c := New(time.Minute, 0)
		before := c.Generation()
		c.Clear()
		c.Clear()
		assert.Equal(t, before+2, c.Generation())
	})
}

func TestCache_TTL(t *testing.T) {
	c := New(time.Minute, 0)
	c.SetWithTTL("short", "x", 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"no query", nil, "vehicles"},
		{"sorted params", url.Values{"sort": {"price-asc"}, "make": {"Ford"}}, "vehicles?make=Ford&sort=price-asc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key("vehicles", tt.query))
		})
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New(time.Minute, 0)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key("vehicles", url.Values{"year_min": {strconv.Itoa(n)}})
			c.Set(key, n)
			_, _ = c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, c.ItemCount())
}
