// Package promptcache is the process-wide store of previously generated
// remediation hints (spec §4.5 cache contract / §4.6 GLOSSARY entry),
// persisted as a single JSON file with a temp-file-then-rename write,
// grounded on the atomic manifest save pattern used for crawl state in
// the retrieval pack's crawldocs manifest.
package promptcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/model"
)

// Key derives the cache key from spec §4.5: "<type>::<title>::<first 12
// hex chars of SHA-256(details)>".
func Key(defectType model.DefectType, title, details string) string {
	sum := sha256.Sum256([]byte(details))
	return fmt.Sprintf("%s::%s::%s", defectType, title, hex.EncodeToString(sum[:])[:12])
}

// Cache is a mutex-guarded, file-backed map of cache keys to entries.
type Cache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]model.CacheEntry
}

// New loads the cache from path, if present. A missing file is not an
// error; a corrupt file is logged and the cache starts empty.
func New(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]model.CacheEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("prompt cache read failed, starting empty", "path", path, "error", err)
		}
		return c
	}

	var loaded map[string]model.CacheEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("prompt cache file corrupt, starting empty", "path", path, "error", err)
		return c
	}

	c.entries = loaded
	return c
}

// Get returns the cached hint for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	return entry.Hint, true
}

// Put stores hint under key and persists the cache. Last writer wins
// under concurrent Put calls for the same key.
func (c *Cache) Put(key, hint string) {
	c.mu.Lock()
	c.entries[key] = model.CacheEntry{Hint: hint, CreatedAt: time.Now()}
	snapshot := c.cloneLocked()
	c.mu.Unlock()

	if err := c.persist(snapshot); err != nil {
		logger.Warn("prompt cache persist failed", "path", c.path, "error", err)
	}
}

func (c *Cache) cloneLocked() map[string]model.CacheEntry {
	clone := make(map[string]model.CacheEntry, len(c.entries))
	for k, v := range c.entries {
		clone[k] = v
	}
	return clone
}

// persist writes entries to c.path via a temp file and atomic rename.
func (c *Cache) persist(entries map[string]model.CacheEntry) error {
	if c.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".promptcache-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
