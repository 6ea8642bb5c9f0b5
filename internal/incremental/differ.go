// Package incremental updates an existing snapshot.Snapshot against the
// current state of a project tree instead of rebuilding it from scratch,
// re-extracting only the files that actually changed.
package incremental

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"codesnap/internal/compressor"
	"codesnap/internal/depgraph"
	"codesnap/internal/extract"
	"codesnap/internal/hashutil"
	"codesnap/internal/logging"
	"codesnap/internal/parsers"
	"codesnap/internal/quality"
	"codesnap/internal/snapshot"
)

// ChangeKind classifies how a file's presence or content changed relative
// to the prior snapshot.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
)

// Change is one classified file, with its new hash when applicable.
type Change struct {
	RelPath string
	Kind    ChangeKind
	Hash    string
}

// Options mirrors the subset of snapshot.SnapshotOptions the differ needs.
type Options struct {
	ProjectPath       string
	ExcludeGlobs      []string
	IncludeExtensions []string
	IncludeTests      bool
	Workers           int
	RefreshQuality    bool
	// Level is the compression level the prior snapshot was built at.
	// Added/Modified files are recompressed at this level rather than a
	// level guessed from a sample of the prior snapshot's CompressedCode.
	Level compressor.Level
}

// Differ applies targeted updates to a previously assembled Snapshot.
type Differ struct {
	registry  *parsers.Registry
	extractor *extract.Extractor
	prober    quality.Prober
	logger    *logging.Logger
}

// NewDiffer constructs a Differ sharing the same parser registry and
// quality prober an Assembler would use, so incremental and full builds
// extract symbols identically.
func NewDiffer(registry *parsers.Registry, prober quality.Prober, logger *logging.Logger) *Differ {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel})
	}
	return &Differ{
		registry:  registry,
		extractor: extract.New(registry),
		prober:    prober,
		logger:    logger,
	}
}

// Result bundles the updated snapshot with the change set that produced it.
type Result struct {
	Snapshot *snapshot.Snapshot
	Changes  []Change
}

// Classify walks projectPath under opts and compares the resulting file
// hashes against prior.Meta.FileHashes, returning the classified change
// set. It does not mutate prior.
func Classify(prior *snapshot.Snapshot, opts Options) ([]Change, error) {
	current, err := discoverCurrent(opts)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var changes []Change
	for relPath, hash := range current {
		seen[relPath] = true
		priorHash, existed := prior.Meta.FileHashes[relPath]
		switch {
		case !existed:
			changes = append(changes, Change{RelPath: relPath, Kind: Added, Hash: hash})
		case priorHash != hash:
			changes = append(changes, Change{RelPath: relPath, Kind: Modified, Hash: hash})
		}
	}
	for relPath := range prior.Meta.FileHashes {
		if !seen[relPath] {
			changes = append(changes, Change{RelPath: relPath, Kind: Deleted})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].RelPath < changes[j].RelPath })
	return changes, nil
}

// Apply classifies the current tree against prior and mutates a copy of
// prior in place per the Added/Modified/Deleted rules. If the change set
// is empty, an unmodified copy of prior is returned (the identity path),
// createdAtEpochMs included.
func (d *Differ) Apply(ctx context.Context, prior *snapshot.Snapshot, opts Options) (*Result, error) {
	changes, err := Classify(prior, opts)
	if err != nil {
		return nil, err
	}

	snap := cloneSnapshot(prior)
	if len(changes) == 0 {
		return &Result{Snapshot: snap, Changes: changes}, nil
	}

	graph := rebuildGraph(snap)

	for _, ch := range changes {
		switch ch.Kind {
		case Deleted:
			removeFile(snap, graph, ch.RelPath)
		case Added, Modified:
			if ch.Kind == Modified {
				removeFile(snap, graph, ch.RelPath)
			}
			if err := d.applyFile(ctx, snap, graph, opts, ch); err != nil {
				d.logger.Warn("incremental: failed to re-extract file", map[string]interface{}{"path": ch.RelPath, "error": err.Error()})
			}
		}
	}

	snap.Structure.Directories = rebuildDirectories(snap)
	snap.ProjectHash = hashutil.HashProjectMap(snap.Meta.FileHashes)
	snap.Meta.TotalFiles = len(snap.Meta.FileHashes)
	snap.Meta.TotalLines = sumLines(snap)
	snap.Meta.Languages = languagesFromHashes(snap.Meta.FileHashes)

	if d.prober != nil && opts.RefreshQuality {
		inputs := collectQualityInputs(opts, snap)
		if metrics, err := d.prober.Probe(ctx, inputs); err == nil {
			snap.Quality = metrics
		} else {
			d.logger.Warn("incremental: quality refresh failed, keeping prior metrics", map[string]interface{}{"error": err.Error()})
		}
	}

	snap.CreatedAtEpochMs = nowEpochMillis()

	return &Result{Snapshot: snap, Changes: changes}, nil
}

func (d *Differ) applyFile(ctx context.Context, snap *snapshot.Snapshot, graph *depgraph.Graph, opts Options, ch Change) error {
	abs := filepath.Join(opts.ProjectPath, filepath.FromSlash(ch.RelPath))
	source, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	result, err := d.extractor.ProcessFile(ctx, ch.RelPath, source)
	if err != nil {
		snap.Meta.FileHashes[ch.RelPath] = ch.Hash
		return err
	}

	level := opts.Level
	if level == "" {
		level = snap.CompressionLevel.ToCompressorLevel()
	}
	compressed := compressor.Compress(string(source), level, result.Language)

	graph.AddNode(ch.RelPath)
	snap.Symbols[ch.RelPath] = result.Symbols
	snap.Code[ch.RelPath] = snapshot.CompressedCode{
		Body:            compressed.Body,
		SymbolMap:       compressed.SymbolMap,
		OriginalLines:   compressed.OriginalLines,
		CompressedLines: compressed.CompressedLines,
	}
	if len(result.Imports) > 0 {
		snap.Dependencies.ImportsByFile[ch.RelPath] = result.Imports
	}
	if len(result.Exports) > 0 {
		snap.Dependencies.ExportsByFile[ch.RelPath] = result.Exports
	}
	for _, edge := range result.Edges {
		snap.Dependencies.Edges = append(snap.Dependencies.Edges, edge)
		graph.AddEdge(edge.From, edge.To, depgraph.EdgeKind(edge.Kind))
	}
	snap.Structure.Modules = append(snap.Structure.Modules, extract.BuildModuleSummary(result))
	snap.Meta.FileHashes[ch.RelPath] = ch.Hash

	return nil
}

func removeFile(snap *snapshot.Snapshot, graph *depgraph.Graph, relPath string) {
	delete(snap.Meta.FileHashes, relPath)
	delete(snap.Symbols, relPath)
	delete(snap.Code, relPath)
	delete(snap.Dependencies.ImportsByFile, relPath)
	delete(snap.Dependencies.ExportsByFile, relPath)

	filtered := snap.Structure.Modules[:0]
	for _, m := range snap.Structure.Modules {
		if m.RelPath != relPath {
			filtered = append(filtered, m)
		}
	}
	snap.Structure.Modules = filtered

	filteredEdges := snap.Dependencies.Edges[:0]
	for _, e := range snap.Dependencies.Edges {
		if e.From != relPath && e.To != relPath {
			filteredEdges = append(filteredEdges, e)
		}
	}
	snap.Dependencies.Edges = filteredEdges

	graph.RemoveNode(relPath)
}

func rebuildGraph(snap *snapshot.Snapshot) *depgraph.Graph {
	g := depgraph.NewGraph()
	for relPath := range snap.Meta.FileHashes {
		g.AddNode(relPath)
	}
	for _, e := range snap.Dependencies.Edges {
		g.AddEdge(e.From, e.To, depgraph.EdgeKind(e.Kind))
	}
	return g
}

func rebuildDirectories(snap *snapshot.Snapshot) []string {
	dirs := map[string]bool{}
	for relPath := range snap.Meta.FileHashes {
		dir := filepath.ToSlash(filepath.Dir(relPath))
		for dir != "." && dir != "/" && dir != "" {
			dirs[dir] = true
			dir = filepath.ToSlash(filepath.Dir(dir))
		}
	}
	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func sumLines(snap *snapshot.Snapshot) int {
	total := 0
	for _, code := range snap.Code {
		total += code.OriginalLines
	}
	return total
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

var defaultIncludeExtensions = []string{".go", ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts", ".py"}

// discoverCurrent walks opts.ProjectPath the same way the full Assembler
// does, returning a relPath -> content hash map for every file that would
// currently be included in a fresh build.
func discoverCurrent(opts Options) (map[string]string, error) {
	excludes := append(append([]string{}, defaultExcludeGlobs...), opts.ExcludeGlobs...)
	if !opts.IncludeTests {
		excludes = append(excludes, testFileGlobs...)
	}

	includeExtensions := opts.IncludeExtensions
	if len(includeExtensions) == 0 {
		includeExtensions = defaultIncludeExtensions
	}
	extSet := map[string]bool{}
	for _, e := range includeExtensions {
		extSet[strings.ToLower(e)] = true
	}

	out := map[string]string{}
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
			return nil
		}
		out[rel] = hashutil.HashBytes(source)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func languagesFromHashes(hashes map[string]string) []string {
	set := map[string]bool{}
	for relPath := range hashes {
		if name, ok := extensionLanguageNames[strings.ToLower(filepath.Ext(relPath))]; ok {
			set[name] = true
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectQualityInputs(opts Options, snap *snapshot.Snapshot) []quality.FileInput {
	inputs := make([]quality.FileInput, 0, len(snap.Meta.FileHashes))
	for relPath := range snap.Meta.FileHashes {
		abs := filepath.Join(opts.ProjectPath, filepath.FromSlash(relPath))
		if src, err := os.ReadFile(abs); err == nil {
			inputs = append(inputs, quality.FileInput{RelPath: relPath, Source: src})
		}
	}
	return inputs
}

func cloneSnapshot(s *snapshot.Snapshot) *snapshot.Snapshot {
	clone := *s
	clone.Meta.FileHashes = cloneStringMap(s.Meta.FileHashes)
	clone.Meta.Languages = append([]string{}, s.Meta.Languages...)

	clone.Symbols = make(map[string][]snapshot.CompressedSymbol, len(s.Symbols))
	for k, v := range s.Symbols {
		clone.Symbols[k] = append([]snapshot.CompressedSymbol{}, v...)
	}

	clone.Code = make(map[string]snapshot.CompressedCode, len(s.Code))
	for k, v := range s.Code {
		clone.Code[k] = v
	}

	clone.Dependencies.Edges = append([]snapshot.DependencyEdgeRecord{}, s.Dependencies.Edges...)
	clone.Dependencies.ImportsByFile = cloneStringSliceMap(s.Dependencies.ImportsByFile)
	clone.Dependencies.ExportsByFile = cloneStringSliceMap(s.Dependencies.ExportsByFile)

	clone.Structure.Directories = append([]string{}, s.Structure.Directories...)
	clone.Structure.Modules = append([]snapshot.ModuleSummary{}, s.Structure.Modules...)

	if s.Unknown != nil {
		clone.Unknown = make(map[string]interface{}, len(s.Unknown))
		for k, v := range s.Unknown {
			clone.Unknown[k] = v
		}
	}

	return &clone
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringSliceMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string{}, v...)
	}
	return out
}

// nowEpochMillis is the differ's sole wall-clock read.
func nowEpochMillis() int64 {
	return time.Now().UnixMilli()
}
