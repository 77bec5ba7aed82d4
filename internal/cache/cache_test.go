package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/newsguard/internal/model"
)

func TestKey(t *testing.T) {
	k1 := Key(NamespaceSearch, "floods in assam")
	k2 := Key(NamespaceSearch, "floods in assam")
	k3 := Key(NamespaceArticle, "floods in assam")
	k4 := Key(NamespaceSearch, "floods", "in assam")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
	assert.True(t, strings.HasPrefix(k1, "newsguard:v1:search:"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	val, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), val)

	require.NoError(t, c.Set("short", []byte("2"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok, "expired entry must miss")

	require.NoError(t, c.Delete("a"))
	_, ok = c.Get("a")
	assert.False(t, ok)

	require.NoError(t, c.Set("b", []byte("3"), 0))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Bounds(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0).WithLimits(2, 4)

	require.NoError(t, c.Set("big", []byte("12345"), 0))
	_, ok := c.Get("big")
	assert.False(t, ok, "oversized value is not kept")

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("b", []byte("2"), 0))
	require.NoError(t, c.Set("c", []byte("3"), 0))
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("c")
	assert.False(t, ok, "full cache refuses new keys")

	require.NoError(t, c.Set("a", []byte("9"), 0), "existing keys can be replaced")
	val, _ := c.Get("a")
	assert.Equal(t, []byte("9"), val)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestMemoryCache_Copies(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	in := []byte("abc")
	require.NoError(t, c.Set("k", in, 0))
	in[0] = 'x'

	out, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), out)
	out[1] = 'y'

	again, _ := c.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key(NamespaceArticle, "https://example.com/a")

	require.NoError(t, c.Set(key, []byte("payload"), 0))
	val, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), val)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must be renamed away")
	assert.NotContains(t, entries[0].Name(), ":")

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Delete(key), "deleting a missing key is not an error")
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("k", []byte("v"), time.Minute))
	_, ok := c.Get("k")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	_, err := os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err), "expired entry must be removed")
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cache"), []byte("{not json"), 0644))
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestLayeredCache_Promotes(t *testing.T) {
	front := NewMemoryCache(time.Minute, time.Minute)
	back := NewDiskCache(t.TempDir(), time.Hour)
	c := NewLayeredCache(front, back)

	require.NoError(t, back.Set("k", []byte("v"), 0))

	val, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	val, ok = front.Get("k")
	require.True(t, ok, "hit in back layer must be promoted")
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestLoadStore(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	article := model.ReferenceArticle{URL: "https://example.com", Content: "text"}

	require.NoError(t, Store(c, "k", article, 0))
	got, ok := Load[model.ReferenceArticle](c, "k")
	require.True(t, ok)
	assert.Equal(t, article, got)

	require.NoError(t, c.Set("bad", []byte("nope"), 0))
	_, ok = Load[model.ReferenceArticle](c, "bad")
	assert.False(t, ok)

	_, ok = Load[model.ReferenceArticle](nil, "k")
	assert.False(t, ok)
	assert.NoError(t, Store[model.ReferenceArticle](nil, "k", article, 0))
}

func TestNew(t *testing.T) {
	c, err := New(model.CacheConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	c, err = New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("v"), 0))
	_, ok := c.Get("k")
	assert.True(t, ok)

	_, err = New(model.CacheConfig{Enabled: true, RedisAddr: "redis://:bad url"}, nil)
	assert.Error(t, err)
}

func TestNew_MemoryLimitsAndStats(t *testing.T) {
	c, err := New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour, MemoryItems: 8, MaxEntryBytes: 4}, nil)
	require.NoError(t, err)
	layered, ok := c.(*LayeredCache)
	require.True(t, ok)

	require.NoError(t, c.Set("small", []byte("ok"), 0))
	require.NoError(t, c.Set("large", []byte("too large for memory"), 0))

	_, ok = c.Get("small")
	assert.True(t, ok)
	got, ok := c.Get("large")
	assert.True(t, ok, "oversized entries are still served by the back layer")
	assert.Equal(t, "too large for memory", string(got))

	hits, misses := layered.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".newsguard/cache"), ExpandHome("~/.newsguard/cache"))
	assert.Equal(t, "/tmp/x", ExpandHome("/tmp/x"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
