// Package cache stores API responses keyed by request URL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	appDir  = "red"
	fileExt = ".json"
)

// FileCache keeps responses on disk so they survive between CLI runs
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFileCache creates the cache directory and returns a cache using it
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	return &FileCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/red, falling back to ~/.cache/red
func DefaultCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, appDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir+"-cache")
	}

	return filepath.Join(home, ".cache", appDir)
}

// Dir returns the directory entries are written to
func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+fileExt)
}

// readEntry loads and decodes one file. Unreadable entries are removed.
func (c *FileCache) readEntry(filename string) (fileEntry, bool) {
	var entry fileEntry

	// #nosec G304 -- filename is a hash inside the cache directory
	data, err := os.ReadFile(filename)
	if err != nil {
		return entry, false
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		log.Debug().Str("file", filename).Msg("dropping corrupt cache entry")
		_ = os.Remove(filename)
		return entry, false
	}

	return entry, true
}

// Get returns the stored response for key if it has not expired
func (c *FileCache) Get(key string) ([]byte, bool) {
	filename := c.path(key)

	entry, ok := c.readEntry(filename)
	if !ok {
		return nil, false
	}

	if entry.Key != "" && entry.Key != key {
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		_ = os.Remove(filename)
		return nil, false
	}

	return entry.Data, true
}

// Set stores value under key. The write goes through a temp file so a
// concurrent reader never sees a half-written entry.
func (c *FileCache) Set(key string, value []byte) error {
	data, err := json.Marshal(fileEntry{
		Key:       key,
		Data:      value,
		ExpiresAt: c.now().Add(c.ttl),
	})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), c.path(key))
}

// Clear removes every entry and reports how many were deleted
func (c *FileCache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		if os.Remove(filepath.Join(c.dir, entry.Name())) == nil {
			removed++
		}
	}

	return removed, nil
}

// Cleanup removes expired and corrupt entries
func (c *FileCache) Cleanup() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	now := c.now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}

		filename := filepath.Join(c.dir, entry.Name())
		fe, ok := c.readEntry(filename)
		if ok && now.After(fe.ExpiresAt) {
			_ = os.Remove(filename)
		}
	}

	return nil
}
