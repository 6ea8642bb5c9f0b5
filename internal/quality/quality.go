// Package quality probes source files for the opaque QualityMetrics a
// Snapshot carries. The composite score has no prescribed formula; it
// exists to give downstream tooling a relative signal, not an audit trail.
package quality

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"codesnap/internal/complexity"
	"codesnap/internal/parsers"
	"codesnap/internal/snapshot"
)

// FileInput is one file handed to the prober.
type FileInput struct {
	RelPath string
	Source  []byte
}

// Prober computes QualityMetrics over a set of files.
type Prober interface {
	Probe(ctx context.Context, files []FileInput) (snapshot.QualityMetrics, error)
}

// CompositeProber is the default Prober: it reuses codesnap/internal/
// complexity's cyclomatic/cognitive analysis (itself walking the AST
// registry already parsed for symbol/dependency extraction) as the
// complexity signal, and derives maintainability and an overall score
// from it. When built without CGO, complexity.NewAnalyzer returns nil and
// the prober degrades to a neutral score with a topIssues entry noting
// the missing signal.
type CompositeProber struct {
	analyzer *complexity.Analyzer
}

// NewCompositeProber constructs the default Prober over registry, the
// same parsers.Registry the assembler/differ use to extract symbols.
func NewCompositeProber(registry *parsers.Registry) *CompositeProber {
	return &CompositeProber{analyzer: complexity.NewAnalyzer(registry)}
}

const (
	neutralScore          = 50.0
	neutralMaintainability = 50.0
)

// Probe computes aggregate complexity across files and folds it into a
// 0-100 score and maintainability figure, plus up to five flagged
// high-complexity functions as TopIssues.
func (p *CompositeProber) Probe(ctx context.Context, files []FileInput) (snapshot.QualityMetrics, error) {
	if p.analyzer == nil {
		return snapshot.QualityMetrics{
			Score:           neutralScore,
			Complexity:      0,
			Maintainability: neutralMaintainability,
			TopIssues:       []string{"complexity analysis unavailable (built without cgo)"},
		}, nil
	}

	var totalCyclomatic, totalFunctions int
	type issue struct {
		label string
		score int
	}
	var issues []issue

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.RelPath))
		lang, ok := complexity.LanguageFromExtension(ext)
		if !ok {
			continue
		}
		fc, err := p.analyzer.AnalyzeSource(ctx, f.RelPath, f.Source, lang)
		if err != nil || fc.Error != "" {
			continue
		}
		totalCyclomatic += fc.TotalCyclomatic
		totalFunctions += fc.FunctionCount
		for _, fn := range fc.Functions {
			if fn.Cyclomatic >= 10 {
				issues = append(issues, issue{
					label: fmt.Sprintf("%s:%s (cyclomatic %d)", f.RelPath, fn.Name, fn.Cyclomatic),
					score: fn.Cyclomatic,
				})
			}
		}
	}

	avgCyclomatic := 0.0
	if totalFunctions > 0 {
		avgCyclomatic = float64(totalCyclomatic) / float64(totalFunctions)
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].score > issues[j].score })
	var topIssues []string
	for i := 0; i < len(issues) && i < 5; i++ {
		topIssues = append(topIssues, issues[i].label)
	}

	maintainability := clamp(100 - avgCyclomatic*4)
	score := clamp(100 - avgCyclomatic*3)

	return snapshot.QualityMetrics{
		Score:           score,
		Complexity:      avgCyclomatic,
		Maintainability: maintainability,
		TopIssues:       topIssues,
	}, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
