package upstream

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if err := cache.Set("esm_master", "v6.1.2", "https://api.github.com"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	version, ok := cache.Get("esm_master")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if version != "v6.1.2" {
		t.Errorf("expected v6.1.2, got %q", version)
	}

	if _, ok := cache.Get("esm_parser"); ok {
		t.Error("expected cache miss for unset tool")
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Now()
	cache, err := NewCache(t.TempDir(),
		WithTTL(time.Hour),
		WithNowFunc(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if err := cache.Set("esm_master", "v6.1.2", "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok := cache.Get("esm_master"); !ok {
		t.Fatal("expected hit before expiry")
	}

	// Advance past the TTL
	now = now.Add(2 * time.Hour)

	if _, ok := cache.Get("esm_master"); ok {
		t.Error("expected miss after TTL expired")
	}
}

func TestCacheGetWithForce(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if err := cache.Set("esm_master", "v6.1.2", "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok := cache.GetWithForce("esm_master", true); ok {
		t.Error("force should bypass the cache")
	}
	if _, ok := cache.GetWithForce("esm_master", false); !ok {
		t.Error("expected hit without force")
	}
}

func TestCachePersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if err := cache.Set("esm_runscripts", "v6.2.0", "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reloaded, err := NewCache(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	version, ok := reloaded.Get("esm_runscripts")
	if !ok {
		t.Fatal("expected entry to survive reload")
	}
	if version != "v6.2.0" {
		t.Errorf("expected v6.2.0, got %q", version)
	}
}

func TestCacheCorruptedFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cache.json"), []byte("not json{"), 0644); err != nil {
		t.Fatalf("failed to write corrupted cache: %v", err)
	}

	cache, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache failed on corrupted file: %v", err)
	}

	if len(cache.Entries) != 0 {
		t.Errorf("expected empty cache, got %d entries", len(cache.Entries))
	}

	// The corrupted file is replaced on the next save
	if err := cache.Set("esm_master", "v1.0.0", "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	reloaded, err := NewCache(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if _, ok := reloaded.Get("esm_master"); !ok {
		t.Error("expected entry after overwriting corrupted cache")
	}
}

func TestCacheDelete(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if err := cache.Set("esm_master", "v6.1.2", "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete("esm_master"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := cache.Get("esm_master"); ok {
		t.Error("expected miss after delete")
	}
}
