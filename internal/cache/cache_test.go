package cache

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("http", "Jaha")
	if a != Key("http", "Jaha") {
		t.Error("keys should be stable")
	}
	if a == Key("openai", "Jaha") || a == Key("http", "Jaha ") {
		t.Error("keys should differ by namespace and text")
	}
	if !strings.HasPrefix(a, "gncorpora:v1:") {
		t.Errorf("unexpected key prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss on empty cache")
	}
	_ = c.Set("k", []byte(`{"a":1}`), 0)
	if v, ok := c.Get("k"); !ok || string(v) != `{"a":1}` {
		t.Errorf("unexpected value: %s", v)
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("http", "Jaha")

	if err := c.Set(key, []byte(`{"label":"grn"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := c.Get(key); !ok || string(v) != `{"label":"grn"}` {
		t.Errorf("unexpected value: %s", v)
	}

	// A fresh instance over the same directory sees the entry
	if _, ok := NewDiskCache(dir, time.Hour).Get(key); !ok {
		t.Error("expected entry to persist on disk")
	}

	if err := c.Set(key, []byte("not json"), 0); err == nil {
		t.Error("expected error for non-JSON value")
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Delete of a missing entry should succeed: %v", err)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	_ = c.Set("k", []byte("null"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache_Corrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	_ = c.Set("k", []byte("null"), 0)

	path := c.path("k")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected corrupt entry to miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected corrupt entry removed")
	}
}

func TestLayeredCache(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	_ = c.Set("k", []byte("null"), 0)

	// A second process only has the disk layer
	fresh := NewLayeredCache(time.Minute, dir, time.Hour)
	if v, ok := fresh.Get("k"); !ok || string(v) != "null" {
		t.Errorf("expected disk hit, got %s", v)
	}
	if _, ok := fresh.Get("missing"); ok {
		t.Error("expected miss")
	}

	hits, misses := fresh.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	if err := c.Clear(); err != nil {
		t.Errorf("Clear failed: %v", err)
	}
	if _, ok := NewLayeredCache(time.Minute, dir, time.Hour).Get("k"); ok {
		t.Error("expected miss after Clear")
	}
}
