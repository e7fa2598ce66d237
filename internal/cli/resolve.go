package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	noCache       bool
	noTrace       bool
	noWe          bool
	fallbackOrder string
	pronounWindow int
	sieveNames    []string
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <document>",
	Short: "Resolve coreference chains in one annotated document",
	Long: `Resolve reads an annotated document (JSON or YAML) and:
- Filters candidate mentions
- Orders mentions by dependency traversal
- Extracts apposition, predicate-nominative and relative-pronoun relations
- Runs the sieves and the we/our post-pass
- Reports every chain with the rules that built it

Example:
  corefsieve resolve article.json
  corefsieve resolve article.yaml --json chains.json --md chains.md
  corefsieve resolve article.json --sieves exact_match,pronominal --window 2`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	// Output flags
	resolveCmd.Flags().StringVar(&outJSON, "json", "chains.json", "output JSON path")
	resolveCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	resolveCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "resolution timeout")

	addResolveFlags(resolveCmd)
}

// addResolveFlags registers the flags shared by resolve and batch
func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&noTrace, "no-trace", false, "omit the rule trace from Markdown reports")
	cmd.Flags().BoolVar(&noWe, "no-we", false, "disable the we/our post-pass")
	cmd.Flags().StringVar(&fallbackOrder, "fallback", model.FallbackReverse, "mention order for sentences without a unique root (reverse, document)")
	cmd.Flags().IntVar(&pronounWindow, "window", 3, "previous sentences searched for pronoun antecedents")
	cmd.Flags().StringSliceVar(&sieveNames, "sieves", nil, "comma-separated sieves to run (default: all)")
}

// applyResolveFlags overrides configuration with explicitly set flags
func applyResolveFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-trace") {
		cfg.Output.IncludeTrace = !noTrace
	}
	if flags.Changed("no-we") {
		cfg.Resolve.WeOverride = !noWe
	}
	if flags.Changed("fallback") {
		cfg.Resolve.FallbackOrder = strings.ToLower(fallbackOrder)
	}
	if flags.Changed("window") {
		cfg.Resolve.PronounWindow = pronounWindow
	}
	if flags.Changed("sieves") {
		cfg.Resolve.Sieves = sieveNames
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyResolveFlags(cmd, cfg)

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Resolving: %s\n", path)
		fmt.Fprintf(os.Stderr, "Sieves: %s\n", strings.Join(cfg.Resolve.Sieves, ", "))
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("configure pipeline: %w", err)
	}

	resolved, err := p.ResolveFile(ctx, path)
	if err != nil {
		logger.Error("Resolution failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("resolve failed: %w", err)
	}

	if verbose {
		stats := resolved.Result.Stats
		fmt.Fprintf(os.Stderr, "✓ Kept %d of %d mentions\n", stats.Surviving, stats.InputMentions)
		fmt.Fprintf(os.Stderr, "✓ Built %d chains\n", len(resolved.Result.Chains))
		if resolved.Cached {
			fmt.Fprintf(os.Stderr, "✓ Served from cache\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(resolved.Result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
