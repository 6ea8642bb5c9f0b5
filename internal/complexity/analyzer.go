//go:build cgo

package complexity

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"codesnap/internal/parsers"
)

// Analyzer computes complexity metrics for source files by walking the
// *parsers.AST the registry's Contract already produced for symbol and
// dependency extraction, rather than running its own tree-sitter parse.
type Analyzer struct {
	registry *parsers.Registry
}

// NewAnalyzer constructs an Analyzer over registry. The registry must have
// a Contract registered for every extension LanguageFromExtension
// recognises; analysis of an extension with no registered Contract is
// skipped rather than treated as fatal.
func NewAnalyzer(registry *parsers.Registry) *Analyzer {
	return &Analyzer{registry: registry}
}

// AnalyzeFile analyzes a source file and returns complexity metrics.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileComplexity, error) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := LanguageFromExtension(ext)
	if !ok {
		return &FileComplexity{
			Path:  path,
			Error: "unsupported file extension: " + ext,
		}, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return &FileComplexity{
			Path:  path,
			Error: "failed to read file: " + err.Error(),
		}, nil
	}

	return a.AnalyzeSource(ctx, path, source, lang)
}

// AnalyzeSource parses source through the shared parser registry and
// walks the resulting AST for complexity metrics.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, source []byte, lang Language) (*FileComplexity, error) {
	ext := strings.ToLower(filepath.Ext(path))
	contract, err := a.registry.GetByExtension(ext)
	if err != nil {
		return &FileComplexity{
			Path:     path,
			Language: lang,
			Error:    err.Error(),
		}, nil
	}

	ast, err := contract.Parse(ctx, source, path)
	if err != nil {
		return &FileComplexity{
			Path:     path,
			Language: lang,
			Error:    err.Error(),
		}, nil
	}

	fc := &FileComplexity{
		Path:      path,
		Language:  lang,
		Functions: make([]ComplexityResult, 0),
	}

	functionTypes := GetFunctionNodeTypes(lang)
	for _, fn := range findNodes(ast.Root, functionTypes) {
		fc.Functions = append(fc.Functions, analyzeFunction(fn, lang))
	}

	fc.Aggregate()
	return fc, nil
}

// analyzeFunction computes complexity for a single function node.
func analyzeFunction(node parsers.Node, lang Language) ComplexityResult {
	return ComplexityResult{
		Name:       functionName(node),
		StartLine:  node.Range.StartLine,
		EndLine:    node.Range.EndLine,
		Lines:      node.Range.EndLine - node.Range.StartLine + 1,
		Cyclomatic: computeCyclomaticComplexity(node, lang),
		Cognitive:  computeCognitiveComplexity(node, lang),
	}
}

// computeCyclomaticComplexity calculates cyclomatic complexity.
// Cyclomatic = E - N + 2P, but simpler: count decision points + 1
func computeCyclomaticComplexity(node parsers.Node, lang Language) int {
	complexity := 1 // Base complexity

	decisionTypes := GetDecisionNodeTypes(lang)
	for _, dn := range findNodes(node, decisionTypes) {
		if dn.Kind == "binary_expression" || dn.Kind == "boolean_operator" {
			if IsBooleanOperator(dn, lang) {
				complexity++
			}
		} else {
			complexity++
		}
	}

	return complexity
}

// computeCognitiveComplexity calculates cognitive complexity.
// Cognitive complexity adds weight for nesting depth.
func computeCognitiveComplexity(node parsers.Node, lang Language) int {
	return computeCognitiveRecursive(node, lang, 0)
}

func computeCognitiveRecursive(node parsers.Node, lang Language, nestingLevel int) int {
	complexity := 0

	decisionTypes := GetDecisionNodeTypes(lang)
	nestingTypes := GetNestingNodeTypes(lang)

	isDecision := contains(decisionTypes, node.Kind)
	isNesting := contains(nestingTypes, node.Kind)

	if isDecision {
		if node.Kind == "binary_expression" || node.Kind == "boolean_operator" {
			if IsBooleanOperator(node, lang) {
				complexity += 1 + nestingLevel
			}
		} else {
			complexity += 1 + nestingLevel
		}
	}

	childNesting := nestingLevel
	if isNesting {
		childNesting++
	}

	for _, child := range node.Children {
		complexity += computeCognitiveRecursive(child, lang, childNesting)
	}

	return complexity
}

// findNodes finds all nodes of the given kinds in the AST, depth-first.
func findNodes(root parsers.Node, kinds []string) []parsers.Node {
	var result []parsers.Node

	var walk func(parsers.Node)
	walk = func(n parsers.Node) {
		if contains(kinds, n.Kind) {
			result = append(result, n)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}

	walk(root)
	return result
}

// IsAvailable returns whether complexity analysis is available.
// Returns true when CGO is enabled.
func IsAvailable() bool {
	return true
}
