// Package cache provides localized filesystem-based caching for transient search results and provider responses.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/where"
)

// TTL bounds how long a cached search result stays valid. Platform catalogs
// change rarely enough that a day is safe, and stream links are never cached
// here at all.
const TTL = 24 * time.Hour

func dir() string {
	d := filepath.Join(where.Cache(), "search")
	_ = filesystem.API().MkdirAll(d, 0755)
	return d
}

// GenerateKey derives a deterministic cache identifier from a query and provider pair.
func GenerateKey(query, provider string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.ReplaceAll(query, " ", "")) + provider))
	return hex.EncodeToString(sum[:])
}

// Read deserializes a cached entry into target. Returns false when the entry
// is missing, expired or unreadable.
func Read(key string, target interface{}) bool {
	fs := filesystem.API()
	path := filepath.Join(dir(), key)

	info, err := fs.Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	raw, err := fs.ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, target) == nil
}

// Write persists a serializable entry using an atomic file swap.
func Write(key string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fs := filesystem.API()
	path := filepath.Join(dir(), key)
	tmp := path + ".tmp"

	if err := fs.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}

	return fs.Rename(tmp, path)
}

// CollectGarbage prunes expired entries. Meant to run on its own goroutine
// at startup.
func CollectGarbage() {
	fs := filesystem.API()
	entries, err := fs.ReadDir(dir())
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if time.Since(entry.ModTime()) > TTL {
			_ = fs.Remove(filepath.Join(dir(), entry.Name()))
		}
	}
}
