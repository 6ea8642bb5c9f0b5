package main

import (
	"codesnap/internal/parsers"
	"codesnap/internal/parsers/treesitter"
)

// buildRegistry constructs the parser Registry the CLI wires into every
// snapshot operation. External-process parsers (e.g. for languages with no
// tree-sitter grammar in this build) would be registered here too, gated
// on the relevant *_PARSER_BIN environment variable being set.
func buildRegistry() (*parsers.Registry, error) {
	registry := parsers.NewRegistry()
	if err := registry.Register(treesitter.New()); err != nil {
		return nil, err
	}
	return registry, nil
}
