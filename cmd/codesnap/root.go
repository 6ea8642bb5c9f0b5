package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codesnap",
	Short: "codesnap - compressed, LLM-ready snapshots of a codebase",
	Long: `codesnap builds a compact, structured snapshot of a project: file
hashes, extracted symbols and dependency edges, hierarchically compressed
source, and quality metrics, serialized to a single portable document.`,
	Version: version,
}

// version is stamped at build time via -ldflags; it defaults to "dev" for
// local builds.
var version = "dev"

func init() {
	rootCmd.SetVersionTemplate("codesnap version {{.Version}}\n")
}
