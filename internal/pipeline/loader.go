package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
	"gopkg.in/yaml.v3"
)

// Document formats accepted by the loader
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Loader reads annotated documents from disk
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader that rejects files larger than maxBytes
func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	return &Loader{maxBytes: maxBytes}
}

// LoadResult contains the decoded document and where it came from
type LoadResult struct {
	Document *model.Document
	Path     string
	Format   string
	Subject  string
}

// Load reads and decodes a document file. The format follows the extension.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Read one byte past the limit to detect oversized files
	limitedReader := io.LimitReader(f, l.maxBytes+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("document %s exceeds %d bytes", path, l.maxBytes)
	}

	doc, err := Decode(bytes.NewReader(body), format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	subject := extractSubject(path)
	if doc.ID == "" {
		doc.ID = subject
	}

	return &LoadResult{
		Document: doc,
		Path:     path,
		Format:   format,
		Subject:  subject,
	}, nil
}

// Decode parses a document in the given format
func Decode(r io.Reader, format string) (*model.Document, error) {
	var doc model.Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &doc, nil
}

// FormatOf maps a file extension to a document format
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document extension: %s", path)
	}
}

// extractSubject derives a human-readable subject from the file name
func extractSubject(path string) string {
	base := filepath.Base(path)

	// Remove file extensions
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}

	// De-slugify: replace underscores and hyphens with spaces
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")

	return base
}
