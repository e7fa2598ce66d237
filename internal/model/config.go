package model

import "time"

// Fallback orders for sentences without a unique dependency root
const (
	FallbackReverse  = "reverse"
	FallbackDocument = "document"
)

// Config is the complete resolver configuration
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Resolve     ResolveConfig     `yaml:"resolve" mapstructure:"resolve"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// InputConfig controls document loading
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"` // Largest document file accepted
}

// ResolveConfig tunes the sieve pipeline
type ResolveConfig struct {
	Sieves            []string `yaml:"sieves" mapstructure:"sieves"`                         // Enabled sieves, applied in canonical order
	PronounWindow     int      `yaml:"pronoun_window" mapstructure:"pronoun_window"`         // Sentences searched backwards for pronoun antecedents
	FallbackOrder     string   `yaml:"fallback_order" mapstructure:"fallback_order"`         // reverse or document
	WeOverride        bool     `yaml:"we_override" mapstructure:"we_override"`               // Run the we/our post-pass
	WeForms           []string `yaml:"we_forms" mapstructure:"we_forms"`                     // Exact lowercase texts collected by the post-pass
	DisplayNameMax    int      `yaml:"display_name_max" mapstructure:"display_name_max"`     // Runes kept in chain names
	ParallelRelations bool     `yaml:"parallel_relations" mapstructure:"parallel_relations"` // Extract relations per sentence concurrently
}

// CacheConfig controls result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch resolution
type ConcurrencyConfig struct {
	Workers       int     `yaml:"workers" mapstructure:"workers"`
	DocsPerSecond float64 `yaml:"docs_per_second" mapstructure:"docs_per_second"` // Per source directory, 0 disables throttling
	Burst         int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose      bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeTrace bool `yaml:"include_trace" mapstructure:"include_trace"` // Rule trace section in Markdown reports
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	sieves := make([]string, 0, len(RuleOrder)-1)
	for _, r := range RuleOrder {
		if r != RuleWeOverride {
			sieves = append(sieves, string(r))
		}
	}

	return &Config{
		Input: InputConfig{
			MaxBytes: 16 << 20,
		},
		Resolve: ResolveConfig{
			Sieves:            sieves,
			PronounWindow:     3,
			FallbackOrder:     FallbackReverse,
			WeOverride:        true,
			WeForms:           []string{"we", "our"},
			DisplayNameMax:    15,
			ParallelRelations: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".corefsieve/cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
			Burst:   5,
		},
		Output: OutputConfig{
			IncludeTrace: true,
		},
	}
}
