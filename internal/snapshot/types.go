// Package snapshot defines the Snapshot data model and the Assembler that
// builds one from a project tree.
package snapshot

import "codesnap/internal/compressor"

// CompressionLevel mirrors compressor.Level at the Snapshot boundary; kept
// as a distinct string type so the wire format is stable even if the
// compressor package's internal representation changes.
type CompressionLevel string

const (
	LevelMinimal CompressionLevel = "minimal"
	LevelMedium  CompressionLevel = "medium"
	LevelFull    CompressionLevel = "full"
)

// ToCompressorLevel converts a CompressionLevel to its compressor.Level.
func (l CompressionLevel) ToCompressorLevel() compressor.Level {
	switch l {
	case LevelMinimal:
		return compressor.Minimal
	case LevelFull:
		return compressor.Full
	default:
		return compressor.Medium
	}
}

// CompressedCode is the compressed body plus the fields needed to judge
// compression effectiveness and, at Full, invert identifier renaming.
type CompressedCode struct {
	Body            string            `json:"body" toml:"body"`
	SymbolMap       map[string]string `json:"symbolMap,omitempty" toml:"symbol_map,omitempty"`
	OriginalLines   int               `json:"originalLines" toml:"original_lines"`
	CompressedLines int               `json:"compressedLines" toml:"compressed_lines"`
}

// SymbolKind is a one- or two-letter code drawn from a closed set.
type SymbolKind string

const (
	KindFunction  SymbolKind = "f"
	KindClass     SymbolKind = "c"
	KindVariable  SymbolKind = "v"
	KindInterface SymbolKind = "i"
	KindType      SymbolKind = "t"
	KindEnum      SymbolKind = "e"
	KindMethod    SymbolKind = "m"
	KindProperty  SymbolKind = "p"
	KindParameter SymbolKind = "pm"
	KindConstruct SymbolKind = "ct"
)

// CompressedSymbol is a named, located declaration extracted from a file.
type CompressedSymbol struct {
	Name      string     `json:"name" toml:"name"`
	KindCode  SymbolKind `json:"kindCode" toml:"kind"`
	StartLine int        `json:"startLine" toml:"start_line"`
	EndLine   int        `json:"endLine" toml:"end_line"`
	Exported  bool       `json:"exported,omitempty" toml:"exported,omitempty"`
	Signature string     `json:"signature,omitempty" toml:"signature,omitempty"`
	Parent    string     `json:"parent,omitempty" toml:"parent,omitempty"`
}

// ModuleSummary is a per-file rollup used in Structure.Modules.
type ModuleSummary struct {
	RelPath         string `json:"relPath" toml:"rel_path"`
	ExportCount     int    `json:"exportCount" toml:"export_count"`
	DependencyCount int    `json:"dependencyCount" toml:"dependency_count"`
	LineCount       int    `json:"lineCount" toml:"line_count"`
}

// EdgeKind mirrors depgraph.EdgeKind at the Snapshot boundary.
type EdgeKind string

const (
	EdgeImport  EdgeKind = "import"
	EdgeRequire EdgeKind = "require"
	EdgeInclude EdgeKind = "include"
)

// DependencyEdgeRecord is one directed relation between two files.
type DependencyEdgeRecord struct {
	From string   `json:"from" toml:"from"`
	To   string   `json:"to" toml:"to"`
	Kind EdgeKind `json:"kind" toml:"kind"`
}

// QualityMetrics is treated as opaque input from the quality probe; no
// formula is prescribed for Score.
type QualityMetrics struct {
	Score           float64  `json:"score" toml:"score"`
	Complexity      float64  `json:"complexity" toml:"complexity"`
	Maintainability float64  `json:"maintainability" toml:"maintainability"`
	TopIssues       []string `json:"topIssues,omitempty" toml:"top_issues,omitempty"`
}

// Structure holds the project's directory set and per-file summaries.
type Structure struct {
	Directories []string        `json:"directories" toml:"directories"`
	Modules     []ModuleSummary `json:"modules" toml:"modules"`
}

// Dependencies holds the edge list and the raw import/export path lists
// per file, as produced directly by parser extraction.
type Dependencies struct {
	Edges         []DependencyEdgeRecord `json:"edges" toml:"edges"`
	ImportsByFile map[string][]string    `json:"importsByFile,omitempty" toml:"imports_by_file,omitempty"`
	ExportsByFile map[string][]string    `json:"exportsByFile,omitempty" toml:"exports_by_file,omitempty"`
}

// Meta holds project-wide rollups.
type Meta struct {
	FileHashes map[string]string `json:"fileHashes" toml:"file_hashes"`
	TotalFiles int               `json:"totalFiles" toml:"total_files"`
	TotalLines int               `json:"totalLines" toml:"total_lines"`
	Languages  []string          `json:"languages" toml:"languages"`
}

// Snapshot is the root record describing a project at a point in time.
// Top-level TOML keys are kept short (v, p, t, h, l, s, y, dp, c, q, md)
// to hold down the size of large snapshots; map-valued fields (Symbols,
// Code, FileHashes, ImportsByFile, ExportsByFile) rely on go-toml/v2's
// lexically-sorted map-key marshaling for deterministic output, rather
// than being pre-converted to sorted slices.
type Snapshot struct {
	Version          string                        `json:"version" toml:"v"`
	ProjectName      string                        `json:"projectName" toml:"p"`
	CreatedAtEpochMs int64                         `json:"createdAtEpochMs" toml:"t"`
	ProjectHash      string                        `json:"projectHash" toml:"h"`
	CompressionLevel CompressionLevel              `json:"compressionLevel" toml:"l"`
	Structure        Structure                     `json:"structure" toml:"s"`
	Symbols          map[string][]CompressedSymbol `json:"symbols" toml:"y"`
	Dependencies     Dependencies                  `json:"dependencies" toml:"dp"`
	Code             map[string]CompressedCode     `json:"code" toml:"c"`
	Quality          QualityMetrics                `json:"quality" toml:"q"`
	Meta             Meta                          `json:"meta" toml:"md"`

	// Unknown carries top-level fields present on load that this version
	// of the model does not recognise, so Store can round-trip them on
	// save without dropping data written by a newer format version.
	Unknown map[string]interface{} `json:"-" toml:"-"`
}

// FormatVersion is the semver string stamped into newly assembled
// snapshots.
const FormatVersion = "1.0.0"

// NewEmpty returns a Snapshot with every collection initialised, suitable
// as the starting point for assembly.
func NewEmpty(projectName string, level CompressionLevel) *Snapshot {
	return &Snapshot{
		Version:          FormatVersion,
		ProjectName:      projectName,
		CompressionLevel: level,
		Structure:        Structure{Directories: []string{}, Modules: []ModuleSummary{}},
		Symbols:          map[string][]CompressedSymbol{},
		Dependencies: Dependencies{
			Edges:         []DependencyEdgeRecord{},
			ImportsByFile: map[string][]string{},
			ExportsByFile: map[string][]string{},
		},
		Code: map[string]CompressedCode{},
		Meta: Meta{
			FileHashes: map[string]string{},
			Languages:  []string{},
		},
	}
}
