package cache_test

import (
	"testing"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("user-1:balances", "a")
	c.Set("user-1:budgets", "b")
	c.Set("user-2:balances", "c")

	c.DeletePrefix("user-1:")

	if _, ok := c.Get("user-1:balances"); ok {
		t.Error("expected user-1:balances to be deleted")
	}
	if _, ok := c.Get("user-1:budgets"); ok {
		t.Error("expected user-1:budgets to be deleted")
	}
	if _, ok := c.Get("user-2:balances"); !ok {
		t.Error("expected user-2:balances to survive")
	}
}
