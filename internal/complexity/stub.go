//go:build !cgo

package complexity

import (
	"context"
	"errors"

	"codesnap/internal/parsers"
)

// ErrNoCGO is returned when complexity analysis is unavailable due to missing CGO.
var ErrNoCGO = errors.New("complexity analysis requires CGO (tree-sitter)")

// Analyzer computes complexity metrics for source files.
// This is a stub implementation for non-CGO builds.
type Analyzer struct{}

// NewAnalyzer creates a new complexity analyzer.
// Returns nil when CGO is disabled; registry is accepted only to keep the
// constructor signature identical across build tags.
func NewAnalyzer(registry *parsers.Registry) *Analyzer {
	return nil
}

// AnalyzeFile analyzes a single file and returns complexity metrics.
// Stub implementation returns an error.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileComplexity, error) {
	return nil, ErrNoCGO
}

// AnalyzeSource analyzes source code bytes.
// Stub implementation returns an error.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, source []byte, lang Language) (*FileComplexity, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether complexity analysis is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
