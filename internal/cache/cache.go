// Package cache provides file-backed caching of fetched pull-request lists
// so that closely spaced sync ticks do not hammer the GitHub API.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeberry/pulldash/internal/constants"
	"github.com/codeberry/pulldash/internal/model"
)

// cacheVersion should be incremented when the cache format changes to
// invalidate old entries.
const cacheVersion = 1

// ListEntry represents a cached list of pull requests for one repository.
type ListEntry struct {
	PRs      []model.PullRequest `json:"prs"`
	CachedAt time.Time           `json:"cachedAt"`
	Version  int                 `json:"version"`
}

// Cache stores per-repository PR lists under the user cache directory.
type Cache struct {
	dir string
	ttl time.Duration
}

// New creates a cache instance rooted at ~/.cache/pulldash/lists.
func New() (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	cacheDir = filepath.Join(cacheDir, "pulldash", "lists")
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{dir: cacheDir, ttl: constants.PRListCacheTTL}, nil
}

// NewWithDir creates a cache at the given directory (for testing).
func NewWithDir(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// key generates a file name for a repository's list.
func (c *Cache) key(repoFullName string) string {
	safeName := strings.ReplaceAll(repoFullName, "/", "_")
	return fmt.Sprintf("prs_%s.json", safeName)
}

// Get retrieves the cached list for a repository if present and fresh.
func (c *Cache) Get(repoFullName string) ([]model.PullRequest, bool) {
	path := filepath.Join(c.dir, c.key(repoFullName))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry ListEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.Version != cacheVersion {
		return nil, false
	}
	if time.Since(entry.CachedAt) > c.ttl {
		return nil, false
	}

	return entry.PRs, true
}

// Set caches the list for a repository.
func (c *Cache) Set(repoFullName string, prs []model.PullRequest) error {
	entry := ListEntry{
		PRs:      prs,
		CachedAt: time.Now(),
		Version:  cacheVersion,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := filepath.Join(c.dir, c.key(repoFullName))
	return os.WriteFile(path, data, 0600)
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// Stats returns the total and still-valid entry counts.
func (c *Cache) Stats() (total int, valid int, err error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		total++

		data, err := os.ReadFile(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		var entry ListEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if entry.Version == cacheVersion && time.Since(entry.CachedAt) <= c.ttl {
			valid++
		}
	}

	return total, valid, nil
}
