package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// EnvOverride records an environment variable override that was applied
// on top of the loaded configuration, kept for diagnostic output.
type EnvOverride struct {
	EnvVar    string
	Path      string
	Value     interface{}
	FromValue string
}

// LoadResult contains the loaded config plus metadata about how it was loaded.
type LoadResult struct {
	Config       *Config
	ConfigPath   string
	EnvOverrides []EnvOverride
	UsedDefaults bool
}

// Config is the complete codesnap configuration: the defaults a project
// file (.codesnap.toml) can override, layered with environment variables.
type Config struct {
	Version int `mapstructure:"version" toml:"version"`

	Snapshot SnapshotConfig `mapstructure:"snapshot" toml:"snapshot"`
	Workers  WorkersConfig  `mapstructure:"workers" toml:"workers"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
}

// SnapshotConfig holds the defaults applied to a SnapshotOptions request
// when the caller (CLI or embedder) does not set a field explicitly.
type SnapshotConfig struct {
	Level             string   `mapstructure:"level" toml:"level"`
	ExcludeGlobs       []string `mapstructure:"excludeGlobs" toml:"exclude_globs"`
	IncludeExtensions  []string `mapstructure:"includeExtensions" toml:"include_extensions"`
	IncludeTests       bool     `mapstructure:"includeTests" toml:"include_tests"`
	OutputPath         string   `mapstructure:"outputPath" toml:"output_path"`
}

// WorkersConfig bounds the assembler's parallel file-processing pool.
type WorkersConfig struct {
	Count      int `mapstructure:"count" toml:"count"`
	TimeoutMs  int `mapstructure:"timeoutMs" toml:"timeout_ms"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `mapstructure:"format" toml:"format"`
	Level  string `mapstructure:"level" toml:"level"`
}

// CurrentConfigVersion is the schema version DefaultConfig stamps.
const CurrentConfigVersion = 1

// DefaultConfig returns the built-in configuration used when no project
// file is present.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Snapshot: SnapshotConfig{
			Level:             "medium",
			ExcludeGlobs:      []string{"**/node_modules/**", "**/.git/**", "**/vendor/**", "**/dist/**", "**/build/**"},
			IncludeExtensions: []string{},
			IncludeTests:      true,
			OutputPath:        ".codesnap/snapshot.toml",
		},
		Workers: WorkersConfig{
			Count:     4,
			TimeoutMs: 30000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// ProjectFileName is the name of the per-project configuration file,
// loaded from the project root with github.com/BurntSushi/toml.
const ProjectFileName = ".codesnap.toml"

// LoadConfig loads configuration for repoRoot, applying the project file
// (if present) over the defaults and environment variables over both.
func LoadConfig(repoRoot string) (*Config, error) {
	result, err := LoadConfigWithDetails(repoRoot)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails loads configuration and reports how it was loaded.
func LoadConfigWithDetails(repoRoot string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}

	projectPath := filepath.Join(repoRoot, ProjectFileName)
	if _, err := os.Stat(projectPath); err == nil {
		cfg := DefaultConfig()
		if _, err := toml.DecodeFile(projectPath, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ProjectFileName, err)
		}
		result.Config = cfg
		result.ConfigPath = projectPath
	} else {
		result.UsedDefaults = true
	}

	v := viper.New()
	v.SetEnvPrefix("CODESNAP")
	v.AutomaticEnv()
	result.EnvOverrides = applyEnvOverrides(result.Config, v)

	return result, nil
}

type envVarDef struct {
	path    string
	varType string // "string", "int", "bool"
}

var envVarMappings = map[string]envVarDef{
	"CODESNAP_LOG_LEVEL":       {path: "logging.level", varType: "string"},
	"CODESNAP_LOG_FORMAT":      {path: "logging.format", varType: "string"},
	"CODESNAP_SNAPSHOT_LEVEL":  {path: "snapshot.level", varType: "string"},
	"CODESNAP_INCLUDE_TESTS":   {path: "snapshot.includeTests", varType: "bool"},
	"CODESNAP_WORKERS_COUNT":   {path: "workers.count", varType: "int"},
	"CODESNAP_WORKERS_TIMEOUT": {path: "workers.timeoutMs", varType: "int"},
}

// applyEnvOverrides applies environment variable overrides on top of cfg.
// v is unused for value lookup (os.Getenv is authoritative here) but kept
// so callers can inspect v.AllSettings() for debugging.
func applyEnvOverrides(cfg *Config, _ *viper.Viper) []EnvOverride {
	var overrides []EnvOverride

	for envVar, def := range envVarMappings {
		value, ok := os.LookupEnv(envVar)
		if !ok || value == "" {
			continue
		}

		var parsed interface{}
		var err error
		switch def.varType {
		case "string":
			parsed = value
		case "int":
			parsed, err = strconv.Atoi(value)
		case "bool":
			parsed, err = strconv.ParseBool(value)
		}
		if err != nil {
			continue
		}

		if applyOverride(cfg, def.path, parsed) {
			overrides = append(overrides, EnvOverride{
				EnvVar:    envVar,
				Path:      def.path,
				Value:     parsed,
				FromValue: value,
			})
		}
	}

	return overrides
}

func applyOverride(cfg *Config, path string, value interface{}) bool {
	parts := strings.SplitN(path, ".", 2)
	if len(parts) != 2 {
		return false
	}

	switch parts[0] {
	case "logging":
		switch parts[1] {
		case "level":
			if v, ok := value.(string); ok {
				cfg.Logging.Level = v
				return true
			}
		case "format":
			if v, ok := value.(string); ok {
				cfg.Logging.Format = v
				return true
			}
		}
	case "snapshot":
		switch parts[1] {
		case "level":
			if v, ok := value.(string); ok {
				cfg.Snapshot.Level = v
				return true
			}
		case "includeTests":
			if v, ok := value.(bool); ok {
				cfg.Snapshot.IncludeTests = v
				return true
			}
		}
	case "workers":
		switch parts[1] {
		case "count":
			if v, ok := value.(int); ok {
				cfg.Workers.Count = v
				return true
			}
		case "timeoutMs":
			if v, ok := value.(int); ok {
				cfg.Workers.TimeoutMs = v
				return true
			}
		}
	}
	return false
}

// GetSupportedEnvVars returns every environment variable LoadConfig honors.
func GetSupportedEnvVars() []string {
	vars := make([]string, 0, len(envVarMappings))
	for v := range envVarMappings {
		vars = append(vars, v)
	}
	return vars
}

// SupportedConfigVersions lists schema versions this code can handle.
var SupportedConfigVersions = []int{1}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	supported := false
	for _, v := range SupportedConfigVersions {
		if c.Version == v {
			supported = true
			break
		}
	}
	if !supported {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	switch c.Snapshot.Level {
	case "minimal", "medium", "full":
	default:
		return &ConfigError{Field: "snapshot.level", Message: fmt.Sprintf("invalid compression level %q", c.Snapshot.Level)}
	}
	if c.Workers.Count < 1 {
		return &ConfigError{Field: "workers.count", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError reports a single invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
