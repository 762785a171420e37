// Package cache stores inference translation responses as JSON blobs on
// disk, keyed by a hash of the normalized request text.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/doeshing/termsense/internal/domain"
)

// FileCache memoizes translation responses across sessions. Entries expire
// after a TTL and the directory is bounded by evicting the oldest files.
type FileCache struct {
	dir        string
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
}

type cacheEntry struct {
	Key       string                   `json:"key"`
	Response  domain.NLCommandResponse `json:"response"`
	CreatedAt time.Time                `json:"created_at"`
}

// NewFileCache roots the cache at dir. An empty dir defaults to
// ~/.termsense/cache/translations.
func NewFileCache(dir string) *FileCache {
	if dir == "" {
		dir = filepath.Join(userHome(), ".termsense", "cache", "translations")
	}
	return &FileCache{
		dir:        dir,
		maxEntries: 100,
		ttl:        24 * time.Hour,
	}
}

// Get retrieves a cached translation. Expired entries are removed and
// reported as misses; corrupt files are treated as misses.
func (c *FileCache) Get(key string) (domain.NLCommandResponse, bool) {
	if key == "" {
		return domain.NLCommandResponse{}, false
	}
	path := c.pathFor(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NLCommandResponse{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return domain.NLCommandResponse{}, false
	}
	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		_ = os.Remove(path)
		return domain.NLCommandResponse{}, false
	}
	return entry.Response, true
}

// Set stores a translation response.
func (c *FileCache) Set(key string, value domain.NLCommandResponse) error {
	if key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(cacheEntry{Key: key, Response: value, CreatedAt: time.Now()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.pathFor(key), data, domain.SecureFilePermissions); err != nil {
		return err
	}
	return c.evictIfNeeded()
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".json")
}

func (c *FileCache) evictIfNeeded() error {
	if c.maxEntries <= 0 {
		return nil
	}
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(files) <= c.maxEntries {
		return nil
	}
	type fileInfo struct {
		name string
		mod  time.Time
	}
	var infos []fileInfo
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{name: f.Name(), mod: info.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].mod.Before(infos[j].mod) })
	for len(infos) > c.maxEntries {
		old := infos[0]
		_ = os.Remove(filepath.Join(c.dir, old.name))
		infos = infos[1:]
	}
	return nil
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
