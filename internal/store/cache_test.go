package store

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("symbols", []string{"RELIANCE", "TCS"})
	v, ok := c.Get("symbols")
	if !ok {
		t.Fatal("Get() miss after Set()")
	}
	syms, ok := v.([]string)
	if !ok || len(syms) != 2 {
		t.Errorf("got %v", v)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(time.Minute)
	if _, ok := c.Get("absent"); ok {
		t.Error("Get() hit for a key never set")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired immediately")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("k", "v")
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived Invalidate()")
	}
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Flush()")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("entry survived Flush()")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(time.Minute)
	done := make(chan struct{})

	go func() {
		for i := 0; i < 500; i++ {
			c.Set("k", i)
		}
		close(done)
	}()
	for i := 0; i < 500; i++ {
		c.Get("k")
	}
	<-done
}
