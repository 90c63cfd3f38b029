package promptcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scoutqa/scoutqa/internal/model"
)

func TestKey_Deterministic(t *testing.T) {
	k1 := Key(model.DefectConsoleError, "Console error: boom", "stack trace here")
	k2 := Key(model.DefectConsoleError, "Console error: boom", "stack trace here")
	if k1 != k2 {
		t.Errorf("Key() not deterministic: %q != %q", k1, k2)
	}
	if k3 := Key(model.DefectConsoleError, "Console error: boom", "different details"); k3 == k1 {
		t.Error("Key() should differ when details differ")
	}
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"))

	key := Key(model.DefectBrokenLink, "Broken link: /x", "Returned 404")
	if _, ok := c.Get(key); ok {
		t.Fatal("expected empty cache to miss")
	}

	c.Put(key, "Fix the link target.")
	hint, ok := c.Get(key)
	if !ok || hint != "Fix the link target." {
		t.Errorf("Get() = %q, %v, want hint, true", hint, ok)
	}
}

func TestCache_PersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c1 := New(path)
	key := Key(model.DefectAccessibility, "image-alt: Images must have alternate text", "details")
	c1.Put(key, "Add descriptive alt text.")

	c2 := New(path)
	hint, ok := c2.Get(key)
	if !ok || hint != "Add descriptive alt text." {
		t.Errorf("reloaded Get() = %q, %v, want hint, true", hint, ok)
	}
}

func TestCache_MissingFileIsNotError(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "does-not-exist.json"))
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCache_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(path)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for corrupt file", c.Len())
	}
}
