package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"codesnap/internal/config"
	snaperrors "codesnap/internal/errors"
	"codesnap/internal/incremental"
	"codesnap/internal/logging"
	"codesnap/internal/parsers"
	"codesnap/internal/quality"
	"codesnap/internal/snapshot"
	"codesnap/internal/snapshotstore"
)

var (
	buildOutput       string
	buildLevel        string
	buildIncremental  bool
	buildExcludeGlobs []string
	buildIncludeTests bool
	buildWorkers      int
	buildFormat       string
	buildRefreshQual  bool
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build or update a compressed snapshot of a project",
	Long: `Build assembles a Snapshot of the project at path: file hashes,
extracted symbols and dependency edges, hierarchically compressed source,
and quality metrics. With --incremental and an existing snapshot at
--output, only changed files are re-processed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "Path to write the snapshot to (defaults to the project config or .codesnap/snapshot.toml)")
	buildCmd.Flags().StringVar(&buildLevel, "level", "", "Compression level: minimal, medium, full")
	buildCmd.Flags().BoolVar(&buildIncremental, "incremental", false, "Update an existing snapshot instead of rebuilding from scratch")
	buildCmd.Flags().StringArrayVar(&buildExcludeGlobs, "exclude", nil, "Additional exclude glob (repeatable)")
	buildCmd.Flags().BoolVar(&buildIncludeTests, "include-tests", false, "Include test files and fixtures")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "Worker pool size (defaults to config or 4)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "human", "Output format: human, json, yaml")
	buildCmd.Flags().BoolVar(&buildRefreshQual, "refresh-quality", false, "Recompute project-level quality metrics on an incremental update")
	rootCmd.AddCommand(buildCmd)
}

// BuildResult is the CLI-facing summary of a build or incremental update.
type BuildResult struct {
	ProjectName string   `json:"projectName"`
	ProjectHash string   `json:"projectHash"`
	OutputPath  string   `json:"outputPath"`
	TotalFiles  int      `json:"totalFiles"`
	TotalLines  int      `json:"totalLines"`
	Languages   []string `json:"languages"`
	Incremental bool     `json:"incremental"`
	ChangedFiles int     `json:"changedFiles,omitempty"`
	DurationMs  int64    `json:"durationMs"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	projectPath := "."
	if len(args) == 1 {
		projectPath = args[0]
	}
	abs, err := resolveProjectPath(projectPath)
	if err != nil {
		return snaperrors.NewValidationError("path", projectPath, err)
	}

	cfg, err := config.LoadConfig(abs)
	if err != nil {
		return snaperrors.NewConfigError(config.ProjectFileName, "Config", err)
	}

	opts := snapshotOptionsFromConfig(abs, cfg)
	applyBuildFlagOverrides(cmd, &opts)

	registry, err := buildRegistry()
	if err != nil {
		return snaperrors.WrapError(snaperrors.ParserInitialization, "failed to build parser registry", err)
	}
	prober := quality.NewCompositeProber(registry)
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel})

	start := time.Now()
	result, err := buildOrUpdate(cmd.Context(), registry, prober, logger, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(parentDir(opts.OutputPath), 0755); err != nil {
		return snaperrors.NewFileError(opts.OutputPath, "mkdir", err)
	}
	if err := snapshotstore.Save(opts.OutputPath, result.Snapshot); err != nil {
		return snaperrors.NewFileError(opts.OutputPath, "save", err)
	}

	cliResult := &BuildResult{
		ProjectName: result.Snapshot.ProjectName,
		ProjectHash: result.Snapshot.ProjectHash,
		OutputPath:  opts.OutputPath,
		TotalFiles:  result.Snapshot.Meta.TotalFiles,
		TotalLines:  result.Snapshot.Meta.TotalLines,
		Languages:   result.Snapshot.Meta.Languages,
		Incremental: result.usedIncremental,
		ChangedFiles: result.changedFiles,
		DurationMs:  time.Since(start).Milliseconds(),
	}

	out, err := FormatResponse(cliResult, OutputFormat(buildFormat), func() string {
		return snapshotstore.Summarize(result.Snapshot)
	})
	if err != nil {
		return snaperrors.WrapError(snaperrors.ValidationError, "failed to format output", err)
	}
	fmt.Println(out)
	return nil
}

type buildOutcome struct {
	Snapshot        *snapshot.Snapshot
	usedIncremental bool
	changedFiles    int
}

// buildOrUpdate implements the decision spec.md §4.8 step 2 describes:
// hand off to the incremental differ only when --incremental is set AND
// an existing snapshot at opts.OutputPath deserialises cleanly; otherwise
// fall back to a fresh full build.
func buildOrUpdate(ctx context.Context, registry *parsers.Registry, prober quality.Prober, logger *logging.Logger, opts snapshot.SnapshotOptions) (*buildOutcome, error) {
	if opts.Incremental && opts.OutputPath != "" {
		if prior, err := snapshotstore.Load(opts.OutputPath); err == nil {
			differ := incremental.NewDiffer(registry, prober, logger)
			result, err := differ.Apply(ctx, prior, incremental.Options{
				ProjectPath:       opts.ProjectPath,
				ExcludeGlobs:      opts.ExcludeGlobs,
				IncludeExtensions: opts.IncludeExtensions,
				IncludeTests:      opts.IncludeTests,
				Workers:           opts.Workers,
				RefreshQuality:    buildRefreshQual,
				Level:             prior.CompressionLevel.ToCompressorLevel(),
			})
			if err != nil {
				return nil, snaperrors.WrapError(snaperrors.FileErrorCode, "incremental update failed", err)
			}
			return &buildOutcome{Snapshot: result.Snapshot, usedIncremental: true, changedFiles: len(result.Changes)}, nil
		}
		logger.Warn("no usable prior snapshot at output path, falling back to a full build", map[string]interface{}{"path": opts.OutputPath})
	}

	assembler := snapshot.NewAssembler(registry, prober, logger)
	result, err := assembler.Assemble(ctx, opts)
	if err != nil {
		return nil, snaperrors.WrapError(snaperrors.ValidationError, "snapshot assembly failed", err)
	}
	return &buildOutcome{Snapshot: result.Snapshot, usedIncremental: false}, nil
}

// resolveProjectPath validates and absolutizes a CLI-supplied project
// path, rejecting anything that isn't a directory.
func resolveProjectPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// snapshotOptionsFromConfig seeds a SnapshotOptions from the loaded
// project configuration, before CLI flags are layered on top.
func snapshotOptionsFromConfig(projectPath string, cfg *config.Config) snapshot.SnapshotOptions {
	output := cfg.Snapshot.OutputPath
	if !filepath.IsAbs(output) {
		output = filepath.Join(projectPath, output)
	}
	return snapshot.SnapshotOptions{
		ProjectPath:       projectPath,
		OutputPath:        output,
		Level:             parseCompressionLevel(cfg.Snapshot.Level),
		ExcludeGlobs:      append([]string{}, cfg.Snapshot.ExcludeGlobs...),
		IncludeExtensions: append([]string{}, cfg.Snapshot.IncludeExtensions...),
		IncludeTests:      cfg.Snapshot.IncludeTests,
		Workers:           cfg.Workers.Count,
		FileTimeout:       time.Duration(cfg.Workers.TimeoutMs) * time.Millisecond,
	}
}

// applyBuildFlagOverrides layers explicitly-set CLI flags over opts,
// leaving config-derived defaults untouched for flags the caller never
// passed.
func applyBuildFlagOverrides(cmd *cobra.Command, opts *snapshot.SnapshotOptions) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.OutputPath = buildOutput
	}
	if flags.Changed("level") {
		opts.Level = parseCompressionLevel(buildLevel)
	}
	if flags.Changed("exclude") {
		opts.ExcludeGlobs = append(opts.ExcludeGlobs, buildExcludeGlobs...)
	}
	if flags.Changed("include-tests") {
		opts.IncludeTests = buildIncludeTests
	}
	if flags.Changed("workers") {
		opts.Workers = buildWorkers
	}
	opts.Incremental = buildIncremental
}

func parseCompressionLevel(s string) snapshot.CompressionLevel {
	switch s {
	case "minimal":
		return snapshot.LevelMinimal
	case "full":
		return snapshot.LevelFull
	case "medium":
		return snapshot.LevelMedium
	default:
		return snapshot.LevelFull
	}
}

// parentDir returns the directory snapshotstore.Save's atomic write needs
// to exist, defaulting to "." for a bare filename.
func parentDir(outputPath string) string {
	dir := filepath.Dir(outputPath)
	if dir == "" {
		return "."
	}
	return dir
}
