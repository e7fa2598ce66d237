package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResultKey derives the cache key of a resolution: the same document under
// the same resolve configuration always yields the same chains.
func ResultKey(doc *model.Document, cfg model.ResolveConfig) (string, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	h := sha256.New()
	h.Write(docJSON)
	h.Write([]byte{0})
	h.Write(cfgJSON)
	return "corefsieve:v1:" + hex.EncodeToString(h.Sum(nil)), nil
}

// GetResult loads a cached result
func GetResult(c Cache, key string) (*model.Result, bool) {
	data, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		_ = c.Delete(key)
		return nil, false
	}
	return &result, true
}

// SetResult stores a result with the cache's default TTL
func SetResult(c Cache, key string, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return c.Set(key, data, 0)
}
