package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *model.Document {
	return &model.Document{
		ID:   "doc",
		Text: "Alice sleeps",
		Mentions: []*model.Mention{
			{ID: 0, Span: model.Span{Start: 0, End: 5}, Text: "Alice", Type: model.MentionProper},
		},
	}
}

func TestResultKey(t *testing.T) {
	cfg := model.DefaultConfig().Resolve

	k1, err := ResultKey(sampleDoc(), cfg)
	require.NoError(t, err)
	k2, err := ResultKey(sampleDoc(), cfg)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Contains(t, k1, "corefsieve:v1:")

	cfg.PronounWindow = 1
	k3, err := ResultKey(sampleDoc(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3, "config changes the key")

	doc := sampleDoc()
	doc.Mentions[0].Type = model.MentionNominal
	k4, err := ResultKey(doc, model.DefaultConfig().Resolve)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4, "document changes the key")
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Clear())
	assert.Zero(t, c.Len())
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	entry := filepath.Join(dir, "ab", "corefsieve_v1_abc.json")
	require.NoError(t, c.Set("corefsieve:v1:abc", []byte(`{"x":1}`), 0))
	_, err := os.Stat(entry)
	require.NoError(t, err)

	got, ok := c.Get("corefsieve:v1:abc")
	require.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(got))

	now = now.Add(2 * time.Hour)
	_, ok = c.Get("corefsieve:v1:abc")
	assert.False(t, ok)
	_, err = os.Stat(entry)
	assert.True(t, os.IsNotExist(err), "expired entries are removed")
}

func TestDiskCache_RejectsNonJSON(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	assert.Error(t, c.Set("k", []byte("not json"), 0))
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	require.NoError(t, os.MkdirAll(filepath.Dir(c.path("k")), 0755))
	require.NoError(t, os.WriteFile(c.path("k"), []byte("{broken"), 0644))

	_, ok := c.Get("k")
	assert.False(t, ok)
	_, err := os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskCache_KeyMismatch(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	require.NoError(t, c.Set("corefsieve:v1:abc", []byte(`1`), 0))

	// a renamed entry file must not answer for another key
	other := "corefsieve:v1:abd"
	require.NoError(t, os.Rename(c.path("corefsieve:v1:abc"), c.path(other)))
	_, ok := c.Get(other)
	assert.False(t, ok)
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	memory := NewMemoryCache(time.Minute, time.Minute)
	disk := NewDiskCache(t.TempDir(), time.Hour)
	c := NewTiered(memory, disk)

	require.NoError(t, disk.Set("k", []byte(`"v"`), 0))
	_, ok := memory.Get("k")
	require.False(t, ok)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, `"v"`, string(got))

	_, ok = memory.Get("k")
	assert.True(t, ok, "disk hit is promoted to memory")

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestLayeredCache_WriteThrough(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Hour)
	require.NoError(t, c.Set("corefsieve:v1:ff00", []byte(`{}`), 0))
	for i, tier := range c.tiers {
		_, ok := tier.Get("corefsieve:v1:ff00")
		assert.True(t, ok, "tier %d", i)
	}

	require.NoError(t, c.Clear())
	_, ok := c.Get("corefsieve:v1:ff00")
	assert.False(t, ok)
}

func TestResultHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	result := &model.Result{
		DocumentID: "doc",
		Chains:     []model.Chain{{ID: 0, Mentions: []int{0, 2}, Name: "Alice", Size: 2, Signature: "P1"}},
	}

	require.NoError(t, SetResult(c, "key", result))
	got, ok := GetResult(c, "key")
	require.True(t, ok)
	assert.Equal(t, result.Chains, got.Chains)

	require.NoError(t, c.Set("bad", []byte("{"), 0))
	_, ok = GetResult(c, "bad")
	assert.False(t, ok)
	_, ok = c.Get("bad")
	assert.False(t, ok, "undecodable entries are evicted")
}
