package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/pipeline"
)

// Resolver resolves one document file
type Resolver interface {
	ResolveFile(ctx context.Context, path string) (*pipeline.ResolveResult, error)
}

// DocumentJob resolves a single document file
type DocumentJob struct {
	Path     string
	Resolver Resolver
	Limiter  *Limiter
}

// Execute executes the resolution job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Path); err != nil {
			return &DocumentResult{Path: j.Path, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	resolved, err := j.Resolver.ResolveFile(ctx, j.Path)
	if err != nil {
		return &DocumentResult{Path: j.Path, Error: err}
	}
	return &DocumentResult{
		Path:   j.Path,
		Result: resolved.Result,
		Cached: resolved.Cached,
	}
}

// DocumentResult represents the result of a resolution job
type DocumentResult struct {
	Path   string
	Result *model.Result
	Cached bool
	Error  error
}

// GetError returns the error from the resolution
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor resolves many documents concurrently
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. A non-positive
// docsPerSecond disables throttling.
func NewBatchProcessor(resolver Resolver, concurrency int, docsPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
	}
	if docsPerSecond > 0 {
		b.limiter = NewLimiter(docsPerSecond, burst)
	}
	return b
}

// ProcessPaths resolves the given files. Results are in input order.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		job := &DocumentJob{
			Path:     path,
			Resolver: b.resolver,
			Limiter:  b.limiter,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	docResults := make([]*DocumentResult, len(results))
	for i, result := range results {
		docResults[i] = result.(*DocumentResult)
	}

	return docResults
}

// ProcessFile reads document paths from a list file and resolves them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*DocumentResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ProcessDir resolves every document under dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*DocumentResult, error) {
	paths, err := CollectDocuments(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Relative paths are taken relative to the list file.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// CollectDocuments walks dir and returns every JSON or YAML document,
// sorted by path
func CollectDocuments(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := pipeline.FormatOf(path); err == nil {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
