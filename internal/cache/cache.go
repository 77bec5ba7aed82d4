package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key namespaces
const (
	NamespaceSearch  = "search"
	NamespaceArticle = "article"
	NamespaceVerify  = "verify"
)

// Key generates a cache key from a namespace and the parts identifying
// the cached value.
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "newsguard:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// Load decodes a JSON value stored under key
func Load[T any](c Cache, key string) (T, bool) {
	var v T
	if c == nil {
		return v, false
	}
	data, ok := c.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// Store encodes v as JSON under key
func Store[T any](c Cache, key string, v T, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}

// New builds the cache described by cfg: memory in front of either redis
// or the disk directory. A disabled cache is a no-op.
func New(cfg model.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		return Nop{}, nil
	}

	memory := NewMemoryCache(cfg.MemoryTTL, 10*time.Minute).WithLimits(cfg.MemoryItems, cfg.MaxEntryBytes)

	if cfg.RedisAddr != "" {
		redis, err := NewRedisCache(cfg.RedisAddr, cfg.DiskTTL)
		if err != nil {
			return nil, err
		}
		logger.Debug("cache backed by redis", zap.String("addr", cfg.RedisAddr))
		return NewLayeredCache(memory, redis), nil
	}

	dir := ExpandHome(cfg.Dir)
	logger.Debug("cache backed by disk", zap.String("dir", dir))
	return NewLayeredCache(memory, NewDiskCache(dir, cfg.DiskTTL)), nil
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
