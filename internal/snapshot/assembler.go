package snapshot

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"codesnap/internal/compressor"
	"codesnap/internal/cycles"
	"codesnap/internal/depgraph"
	"codesnap/internal/extract"
	"codesnap/internal/hashutil"
	"codesnap/internal/logging"
	"codesnap/internal/parsers"
	"codesnap/internal/quality"
)

// SnapshotOptions configures a single Assemble run.
type SnapshotOptions struct {
	ProjectPath       string
	OutputPath        string
	Level             CompressionLevel
	Incremental       bool
	ExcludeGlobs      []string
	IncludeExtensions []string
	IncludeTests      bool
	Silent            bool
	Workers           int
	FileTimeout       time.Duration
}

// defaultExcludeGlobs are applied in addition to any caller-supplied
// ExcludeGlobs, matching dependency install dirs, build output, and VCS
// metadata.
var defaultExcludeGlobs = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
}

var testFileGlobs = []string{
	"**/*_test.go",
	"**/*.test.ts",
	"**/*.test.js",
	"**/*.spec.ts",
	"**/*.spec.js",
	"**/testdata/**",
	"**/__tests__/**",
}

func (o *SnapshotOptions) applyDefaults() {
	if o.Level == "" {
		o.Level = LevelFull
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.FileTimeout <= 0 {
		o.FileTimeout = 30 * time.Second
	}
	if len(o.IncludeExtensions) == 0 {
		o.IncludeExtensions = []string{".go", ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts", ".py"}
	}
}

// Assembler orchestrates the parser registry, extractor, compressor,
// dependency graph, cycle detector, and quality probe into a full
// Snapshot. One Assembler may be reused across runs; it holds no
// per-run state between calls to Assemble.
type Assembler struct {
	registry *parsers.Registry
	extractor *extract.Extractor
	prober    quality.Prober
	logger    *logging.Logger
}

// NewAssembler constructs an Assembler over registry, using prober for
// quality metrics. If logger is nil, a default human-format logger at
// info level is created.
func NewAssembler(registry *parsers.Registry, prober quality.Prober, logger *logging.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel})
	}
	return &Assembler{
		registry:  registry,
		extractor: extract.New(registry),
		prober:    prober,
		logger:    logger,
	}
}

// AssembleResult bundles the Snapshot with side data the spec asks the
// assembler to compute but not embed: cycle reports and the run's
// correlation ID.
type AssembleResult struct {
	Snapshot *Snapshot
	Cycles   []cycles.CircularDependency
	RunID    string
}

type fileUnit struct {
	relPath string
	abs     string
	hash    string
}

type fileAssembly struct {
	relPath string
	result  extract.FileResult
	code    CompressedCode
	skipped bool
}

// Assemble builds a fresh Snapshot from scratch per the documented
// control flow: discover -> hash -> per-file extract+compress (fanned
// out across a bounded worker pool) -> serialising merge -> structure ->
// cycles -> quality -> projectHash -> meta.
func (a *Assembler) Assemble(ctx context.Context, opts SnapshotOptions) (*AssembleResult, error) {
	opts.applyDefaults()
	runID := uuid.NewString()

	units, err := discoverFiles(opts)
	if err != nil {
		return nil, fmt.Errorf("assemble: discover files: %w", err)
	}

	assemblies := a.processFiles(ctx, units, opts)

	snap := NewEmpty(projectNameFromPath(opts.ProjectPath), opts.Level)
	graph := depgraph.NewGraph()
	dirSet := map[string]bool{}

	// Serialising merge stage: iterate in path-sorted order so output is
	// independent of worker completion order.
	sort.Slice(assemblies, func(i, j int) bool { return assemblies[i].relPath < assemblies[j].relPath })

	for _, u := range units {
		snap.Meta.FileHashes[u.relPath] = u.hash
		graph.AddNode(u.relPath)
		collectDirs(u.relPath, dirSet)
	}

	for _, asm := range assemblies {
		if asm.skipped {
			continue
		}
		snap.Symbols[asm.relPath] = asm.result.Symbols
		snap.Code[asm.relPath] = asm.code
		if len(asm.result.Imports) > 0 {
			snap.Dependencies.ImportsByFile[asm.relPath] = asm.result.Imports
		}
		if len(asm.result.Exports) > 0 {
			snap.Dependencies.ExportsByFile[asm.relPath] = asm.result.Exports
		}
		for _, edge := range asm.result.Edges {
			snap.Dependencies.Edges = append(snap.Dependencies.Edges, edge)
			graph.AddEdge(edge.From, edge.To, depgraph.EdgeKind(edge.Kind))
		}
		snap.Structure.Modules = append(snap.Structure.Modules, extract.BuildModuleSummary(asm.result))
		snap.Meta.TotalLines += asm.result.LineCount
	}

	snap.Structure.Directories = sortedKeys(dirSet)

	cycleReport := cycles.DetectCycles(graph, cycles.DefaultOptions())

	if a.prober != nil {
		inputs := make([]quality.FileInput, 0, len(units))
		for _, u := range units {
			if src, err := os.ReadFile(u.abs); err == nil {
				inputs = append(inputs, quality.FileInput{RelPath: u.relPath, Source: src})
			}
		}
		if metrics, err := a.prober.Probe(ctx, inputs); err == nil {
			snap.Quality = metrics
		} else {
			a.logger.Warn("quality probe failed, embedding zero-value metrics", map[string]interface{}{"error": err.Error()})
		}
	}

	snap.ProjectHash = hashutil.HashProjectMap(snap.Meta.FileHashes)
	snap.Meta.TotalFiles = len(units)
	snap.Meta.Languages = sortedKeys(languagesOf(units))
	snap.CreatedAtEpochMs = epochMillisNow()

	return &AssembleResult{Snapshot: snap, Cycles: cycleReport, RunID: runID}, nil
}

func (a *Assembler) processFiles(ctx context.Context, units []fileUnit, opts SnapshotOptions) []fileAssembly {
	out := make([]fileAssembly, len(units))
	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup

	for i, u := range units {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, u fileUnit) {
			defer wg.Done()
			defer func() { <-sem }()

			fileCtx, cancel := context.WithTimeout(ctx, opts.FileTimeout)
			defer cancel()

			source, err := os.ReadFile(u.abs)
			if err != nil {
				a.logger.Warn("skipping unreadable file", map[string]interface{}{"path": u.relPath, "error": err.Error()})
				out[i] = fileAssembly{relPath: u.relPath, skipped: true}
				return
			}

			result, err := a.extractor.ProcessFile(fileCtx, u.relPath, source)
			if err != nil {
				a.logger.Warn("parser error, keeping hash entry only", map[string]interface{}{"path": u.relPath, "error": err.Error()})
				out[i] = fileAssembly{relPath: u.relPath, skipped: true}
				return
			}

			compressed := compressor.Compress(string(source), opts.Level.ToCompressorLevel(), result.Language)
			out[i] = fileAssembly{
				relPath: u.relPath,
				result:  result,
				code: CompressedCode{
					Body:            compressed.Body,
					SymbolMap:       compressed.SymbolMap,
					OriginalLines:   compressed.OriginalLines,
					CompressedLines: compressed.CompressedLines,
				},
			}
		}(i, u)
	}

	wg.Wait()
	return out
}

func discoverFiles(opts SnapshotOptions) ([]fileUnit, error) {
	excludes := append(append([]string{}, defaultExcludeGlobs...), opts.ExcludeGlobs...)
	if !opts.IncludeTests {
		excludes = append(excludes, testFileGlobs...)
	}

	extSet := map[string]bool{}
	for _, e := range opts.IncludeExtensions {
		extSet[strings.ToLower(e)] = true
	}

	var units []fileUnit
	err := filepath.WalkDir(opts.ProjectPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(opts.ProjectPath, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !extSet[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}
		for _, g := range excludes {
			if matched, _ := doublestar.Match(g, rel); matched {
				return nil
			}
		}

		source, err := os.ReadFile(p)
		if err != nil {
			return nil // unreadable files are skipped, not fatal to discovery
		}
		units = append(units, fileUnit{relPath: rel, abs: p, hash: hashutil.HashBytes(source)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(units, func(i, j int) bool { return units[i].relPath < units[j].relPath })
	return units, nil
}

func collectDirs(relPath string, dirs map[string]bool) {
	dir := path.Dir(relPath)
	for dir != "." && dir != "/" && dir != "" {
		dirs[dir] = true
		dir = path.Dir(dir)
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var extensionLanguageNames = map[string]string{
	".ts": "TypeScript", ".tsx": "TypeScript", ".mts": "TypeScript", ".cts": "TypeScript",
	".js": "JavaScript", ".jsx": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript",
	".go":    "Go",
	".py":    "Python",
	".pyw":   "Python",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".kts":   "Kotlin",
	".swift": "Swift",
}

func languagesOf(units []fileUnit) map[string]bool {
	out := map[string]bool{}
	for _, u := range units {
		if name, ok := extensionLanguageNames[strings.ToLower(filepath.Ext(u.relPath))]; ok {
			out[name] = true
		}
	}
	return out
}

func projectNameFromPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Base(p)
	}
	return filepath.Base(abs)
}

// epochMillisNow is the sole wall-clock read in the assembler, isolated so
// the incremental differ (which must also stamp createdAtEpochMs) can
// share the same seam if a fixed clock is ever injected for testing.
func epochMillisNow() int64 {
	return time.Now().UnixMilli()
}
