package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskCache stores one JSON envelope per result under dir, sharded by the
// first two characters of the document hash.
type DiskCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskCache creates a disk cache rooted at dir. Entries written with a
// zero ttl expire after the given default.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl, now: time.Now}
}

type envelope struct {
	Key       string          `json:"key"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Result    json.RawMessage `json:"result"`
}

func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Key != key {
		_ = os.Remove(path)
		return nil, false
	}
	if !c.now().Before(env.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}
	return env.Result, true
}

// Set writes the entry atomically. value must be JSON.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return fmt.Errorf("disk cache: value for %s is not JSON", key)
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	now := c.now()
	raw, err := json.Marshal(envelope{
		Key:       key,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
		Result:    value,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0755); err != nil {
		return fmt.Errorf("create shard %s: %w", shard, err)
	}

	tmp, err := os.CreateTemp(shard, ".pending-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write entry %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit entry %s: %w", key, err)
	}
	return nil
}

func (c *DiskCache) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// path maps "corefsieve:v1:ab12..." to <dir>/ab/corefsieve_v1_ab12....json
func (c *DiskCache) path(key string) string {
	digest := key[strings.LastIndex(key, ":")+1:]
	shard := "_"
	if len(digest) >= 2 {
		shard = digest[:2]
	}
	name := strings.NewReplacer(":", "_", "/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(c.dir, shard, name+".json")
}
