// Package extract drives the parser Registry across a project's files to
// produce the symbol, dependency, and structure data a Snapshot needs.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"codesnap/internal/parsers"
	"codesnap/internal/snapshot"
)

// kindTable maps the open-ended kind strings parsers.SymbolRecord carries
// onto the Snapshot's closed SymbolKind set.
var kindTable = map[string]snapshot.SymbolKind{
	"function":  snapshot.KindFunction,
	"method":    snapshot.KindMethod,
	"class":     snapshot.KindClass,
	"interface": snapshot.KindInterface,
	"type":      snapshot.KindType,
	"enum":      snapshot.KindEnum,
	"variable":  snapshot.KindVariable,
	"property":  snapshot.KindProperty,
	"parameter": snapshot.KindParameter,
}

func mapKind(raw string) snapshot.SymbolKind {
	if k, ok := kindTable[raw]; ok {
		return k
	}
	return snapshot.KindConstruct
}

// FileResult is everything extraction produces for a single file.
type FileResult struct {
	RelPath   string
	Language  string
	Symbols   []snapshot.CompressedSymbol
	Imports   []string
	Exports   []string
	Edges     []snapshot.DependencyEdgeRecord
	LineCount int
}

// Extractor drives a parsers.Registry over discovered source files.
type Extractor struct {
	registry *parsers.Registry
}

// New creates an Extractor over registry.
func New(registry *parsers.Registry) *Extractor {
	return &Extractor{registry: registry}
}

// ProcessFile parses source (read from a file at relPath, relative to the
// project root) and extracts its symbols and dependency edges. Files whose
// extension has no registered parser return an empty, non-error result so
// callers can still count and hash the file.
func (e *Extractor) ProcessFile(ctx context.Context, relPath string, source []byte) (FileResult, error) {
	result := FileResult{RelPath: relPath, LineCount: countLines(source)}

	ext := filepath.Ext(relPath)
	parser, err := e.registry.GetByExtension(ext)
	if err != nil {
		return result, nil
	}

	ast, err := parser.Parse(ctx, source, relPath)
	if err != nil {
		return result, fmt.Errorf("extract %s: %w", relPath, err)
	}

	symbolRecords, err := parser.ExtractSymbols(ast)
	if err != nil {
		return result, fmt.Errorf("extract symbols %s: %w", relPath, err)
	}
	depRecords, err := parser.ExtractDependencies(ast)
	if err != nil {
		return result, fmt.Errorf("extract dependencies %s: %w", relPath, err)
	}

	result.Language = languageTag(parser, ext)
	result.Symbols = make([]snapshot.CompressedSymbol, 0, len(symbolRecords))
	for _, rec := range symbolRecords {
		sym := snapshot.CompressedSymbol{
			Name:      rec.Name,
			KindCode:  mapKind(rec.Kind),
			StartLine: rec.Location.StartLine,
			EndLine:   rec.Location.EndLine,
			Exported:  isExported(rec.Name, rec.Modifiers),
			Parent:    rec.Scope,
		}
		result.Symbols = append(result.Symbols, sym)
		if sym.Exported {
			result.Exports = append(result.Exports, sym.Name)
		}
	}

	for _, dep := range depRecords {
		result.Imports = append(result.Imports, dep.Path)
		result.Edges = append(result.Edges, snapshot.DependencyEdgeRecord{
			From: relPath,
			To:   dep.Path,
			Kind: mapEdgeKind(dep.Kind),
		})
	}

	return result, nil
}

func mapEdgeKind(k parsers.DependencyKind) snapshot.EdgeKind {
	switch k {
	case parsers.DepRequire:
		return snapshot.EdgeRequire
	case parsers.DepInclude:
		return snapshot.EdgeInclude
	default:
		return snapshot.EdgeImport
	}
}

func languageTag(p parsers.Contract, ext string) string {
	langs := p.SupportedLanguages()
	if len(langs) == 1 {
		return langs[0]
	}
	for _, l := range langs {
		if strings.Contains(ext, l) {
			return l
		}
	}
	if len(langs) > 0 {
		return langs[0]
	}
	return ""
}

// isExported reports whether a symbol is visible outside its declaring
// file. Go-style capitalized-name export is used as the default rule;
// an explicit "export"/"public" modifier (as set for JS/TS/TSX exports)
// overrides it.
func isExported(name string, modifiers []string) bool {
	for _, m := range modifiers {
		switch m {
		case "export", "public":
			return true
		case "private", "unexported":
			return false
		}
	}
	return len(name) > 0 && strings.ToUpper(name[:1]) == name[:1] && strings.ToLower(name[:1]) != name[:1]
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	return bytes.Count(source, []byte("\n")) + 1
}

// BuildModuleSummary rolls up a FileResult into a snapshot.ModuleSummary.
func BuildModuleSummary(r FileResult) snapshot.ModuleSummary {
	return snapshot.ModuleSummary{
		RelPath:         r.RelPath,
		ExportCount:     len(r.Exports),
		DependencyCount: len(r.Imports),
		LineCount:       r.LineCount,
	}
}
