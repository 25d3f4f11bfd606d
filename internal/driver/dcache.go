package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"synthizer/internal/diag"
)

// cacheSchemaVersion invalidates every stored entry when the cached
// payload layout or the diagnostic codes change meaning.
const cacheSchemaVersion uint32 = 1

// CacheEntry is the msgpack-encoded value stored per source hash.
type CacheEntry struct {
	Schema      uint32            `msgpack:"schema"`
	Path        string            `msgpack:"path"`
	Diagnostics []diag.Diagnostic `msgpack:"diagnostics"`
	Entrypoint  string            `msgpack:"entrypoint"`
}

// DiskCache memoizes check results keyed by source content hash, so a
// directory re-check only pays for files that actually changed.
type DiskCache struct {
	mu   sync.RWMutex
	root string
}

// OpenDiskCache places the cache under XDG_CACHE_HOME (or the OS
// default user cache dir) and creates the directory if needed.
func OpenDiskCache() (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		base, err = os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
	}
	root := filepath.Join(base, "synthizer", "check")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{root: root}, nil
}

// OpenDiskCacheAt uses an explicit directory, mainly for tests.
func OpenDiskCacheAt(root string) (*DiskCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{root: root}, nil
}

func (c *DiskCache) pathFor(hash [32]byte) string {
	return filepath.Join(c.root, hex.EncodeToString(hash[:])+".mp")
}

// Get looks up a prior result for the given content hash. A missing
// entry is (nil, false, nil); a corrupted or stale-schema entry is
// dropped and reported as a miss.
func (c *DiskCache) Get(hash [32]byte) (*CacheEntry, bool, error) {
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(hash))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var payload CacheEntry
	if err := msgpack.Unmarshal(data, &payload); err != nil || payload.Schema != cacheSchemaVersion {
		c.drop(hash)
		return nil, false, nil
	}
	return &payload, true, nil
}

// Put stores a result for the given content hash. The entry is written
// to a temp file and renamed so readers never observe a partial write.
func (c *DiskCache) Put(hash [32]byte, payload CacheEntry) error {
	payload.Schema = cacheSchemaVersion
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.root, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.pathFor(hash)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

func (c *DiskCache) drop(hash [32]byte) {
	c.mu.Lock()
	os.Remove(c.pathFor(hash))
	c.mu.Unlock()
}

// DropAll removes the whole cache directory and recreates it empty.
func (c *DiskCache) DropAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doomed := c.root + ".doomed"
	if err := os.Rename(c.root, doomed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.MkdirAll(c.root, 0o755)
		}
		return fmt.Errorf("evict cache: %w", err)
	}
	if err := os.RemoveAll(doomed); err != nil {
		return fmt.Errorf("evict cache: %w", err)
	}
	return os.MkdirAll(c.root, 0o755)
}
