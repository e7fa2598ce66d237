package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(model.DefaultConfig()), "")

	assert.Contains(t, keys, "resolve.pronoun_window")
	assert.Contains(t, keys, "resolve.sieves")
	assert.Contains(t, keys, "cache.memory_ttl")
	assert.Contains(t, keys, "concurrency.docs_per_second")
	assert.NotContains(t, keys, "resolve")
}

func TestLoadConfig_Env(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetEnvPrefix("COREFSIEVE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	t.Setenv("COREFSIEVE_RESOLVE_PRONOUN_WINDOW", "5")
	t.Setenv("COREFSIEVE_RESOLVE_FALLBACK_ORDER", "document")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Resolve.PronounWindow)
	assert.Equal(t, model.FallbackDocument, cfg.Resolve.FallbackOrder)

	// Untouched keys keep their defaults
	assert.Equal(t, model.DefaultConfig().Resolve.Sieves, cfg.Resolve.Sieves)
	assert.Equal(t, 15, cfg.Resolve.DisplayNameMax)
}

func TestLoadConfig_File(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolve:\n  we_override: false\n  sieves: [exact_match]\ncache:\n  memory_ttl: 5m\n"), 0644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Resolve.WeOverride)
	assert.Equal(t, []string{"exact_match"}, cfg.Resolve.Sieves)
	assert.Equal(t, "5m0s", cfg.Cache.MemoryTTL.String())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	// Existing files are never overwritten
	assert.Error(t, writeDefaultConfig(path))
}

func TestApplyResolveFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addResolveFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--window", "1", "--sieves", "pronominal,exact_match", "--no-we"}))

	cfg := model.DefaultConfig()
	applyResolveFlags(cmd, cfg)

	assert.Equal(t, 1, cfg.Resolve.PronounWindow)
	assert.Equal(t, []string{"pronominal", "exact_match"}, cfg.Resolve.Sieves)
	assert.False(t, cfg.Resolve.WeOverride)

	// Unset flags leave configuration alone
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, model.FallbackReverse, cfg.Resolve.FallbackOrder)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"corpus/news/ap-0042.json": "ap-0042",
		"my doc?.yaml":             "my-doc_",
		"a|b:c.yml":                "a_b_c",
		".json":                    "document",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	seen := make(map[string]int)
	assert.Equal(t, "doc", uniqueSlug(seen, "doc"))
	assert.Equal(t, "doc-2", uniqueSlug(seen, "doc"))
	assert.Equal(t, "other", uniqueSlug(seen, "other"))
	assert.Equal(t, "doc-3", uniqueSlug(seen, "doc"))
}
