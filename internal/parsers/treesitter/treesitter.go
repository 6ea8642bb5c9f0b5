// Package treesitter implements the in-process parsers.Contract for the
// languages with mature github.com/smacker/go-tree-sitter grammars.
package treesitter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"codesnap/internal/parsers"
)

// ContractVersion is the version this implementation reports to the
// Registry; bumping the major component signals a breaking change to
// ExtractSymbols/ExtractDependencies output shape.
const ContractVersion = "v1.0.0"

// declSpec names the tree-sitter node types that introduce a symbol for one
// language, and which child field holds the symbol's name.
type declSpec struct {
	nodeType string
	kind     string
	nameTag  string // "name" field tag, or "" to use the first identifier child
}

type langTable struct {
	language   *sitter.Language
	extensions []string
	decls      []declSpec
	importType string // node type for import/require statements
}

var tables = map[string]langTable{
	"go": {
		language:   golang.GetLanguage(),
		extensions: []string{".go"},
		decls: []declSpec{
			{nodeType: "function_declaration", kind: "function", nameTag: "name"},
			{nodeType: "method_declaration", kind: "method", nameTag: "name"},
			{nodeType: "type_spec", kind: "type", nameTag: "name"},
		},
		importType: "import_declaration",
	},
	"javascript": {
		language:   javascript.GetLanguage(),
		extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		decls: []declSpec{
			{nodeType: "function_declaration", kind: "function", nameTag: "name"},
			{nodeType: "class_declaration", kind: "class", nameTag: "name"},
			{nodeType: "method_definition", kind: "method", nameTag: "name"},
			{nodeType: "lexical_declaration", kind: "variable", nameTag: ""},
		},
		importType: "import_statement",
	},
	"typescript": {
		language:   typescript.GetLanguage(),
		extensions: []string{".ts", ".mts", ".cts"},
		decls: []declSpec{
			{nodeType: "function_declaration", kind: "function", nameTag: "name"},
			{nodeType: "class_declaration", kind: "class", nameTag: "name"},
			{nodeType: "interface_declaration", kind: "interface", nameTag: "name"},
			{nodeType: "type_alias_declaration", kind: "type", nameTag: "name"},
			{nodeType: "method_definition", kind: "method", nameTag: "name"},
			{nodeType: "lexical_declaration", kind: "variable", nameTag: ""},
		},
		importType: "import_statement",
	},
	"tsx": {
		language:   tsx.GetLanguage(),
		extensions: []string{".tsx"},
		decls: []declSpec{
			{nodeType: "function_declaration", kind: "function", nameTag: "name"},
			{nodeType: "class_declaration", kind: "class", nameTag: "name"},
			{nodeType: "interface_declaration", kind: "interface", nameTag: "name"},
			{nodeType: "type_alias_declaration", kind: "type", nameTag: "name"},
			{nodeType: "method_definition", kind: "method", nameTag: "name"},
		},
		importType: "import_statement",
	},
	"python": {
		language:   python.GetLanguage(),
		extensions: []string{".py", ".pyw"},
		decls: []declSpec{
			{nodeType: "function_definition", kind: "function", nameTag: "name"},
			{nodeType: "class_definition", kind: "class", nameTag: "name"},
		},
		importType: "import_statement",
	},
}

// Parser implements parsers.Contract over go-tree-sitter. A single
// sitter.Parser is reused per call under a mutex since sitter.Parser is not
// safe for concurrent Parse calls. Parsed trees are cached by file path on
// the instance so later ExtractSymbols/ExtractDependencies/FindReferences
// calls against the same *AST can re-derive language-specific node info.
type Parser struct {
	mu    sync.Mutex
	sp    *sitter.Parser
	trees sync.Map // filePath -> *liveTree
}

// New creates a Parser supporting go, javascript, typescript, tsx, python.
func New() *Parser {
	return &Parser{sp: sitter.NewParser()}
}

func (p *Parser) Name() string    { return "treesitter" }
func (p *Parser) Version() string { return ContractVersion }

func (p *Parser) SupportedExtensions() []string {
	var out []string
	for _, t := range tables {
		out = append(out, t.extensions...)
	}
	return out
}

func (p *Parser) SupportedLanguages() []string {
	out := make([]string, 0, len(tables))
	for lang := range tables {
		out = append(out, lang)
	}
	return out
}

func languageForExtension(ext string) (string, bool) {
	for lang, t := range tables {
		for _, e := range t.extensions {
			if e == ext {
				return lang, true
			}
		}
	}
	return "", false
}

type liveTree struct {
	tree   *sitter.Tree
	source []byte
	lang   string
}

// Parse parses source and returns a generic AST. The concrete sitter.Tree
// is cached by filePath so later ExtractSymbols/ExtractDependencies calls
// against the same *AST can re-derive language-specific node info.
func (p *Parser) Parse(ctx context.Context, source []byte, filePath string) (*parsers.AST, error) {
	ext := extOf(filePath)
	lang, ok := languageForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("treesitter: unsupported extension %q", ext)
	}

	p.mu.Lock()
	p.sp.SetLanguage(tables[lang].language)
	tree, err := p.sp.ParseCtx(ctx, nil, source)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("treesitter: parse %s: %w", filePath, err)
	}

	root := translateNode(tree.RootNode(), source)
	p.trees.Store(filePath, &liveTree{tree: tree, source: source, lang: lang})

	return &parsers.AST{FilePath: filePath, Root: root}, nil
}

func extOf(filePath string) string {
	i := strings.LastIndexByte(filePath, '.')
	if i < 0 {
		return ""
	}
	return filePath[i:]
}

func translateNode(n *sitter.Node, source []byte) parsers.Node {
	if n == nil {
		return parsers.Node{}
	}
	out := parsers.Node{
		Kind: n.Type(),
		Range: parsers.Range{
			StartLine:   int(n.StartPoint().Row) + 1,
			StartColumn: int(n.StartPoint().Column) + 1,
			EndLine:     int(n.EndPoint().Row) + 1,
			EndColumn:   int(n.EndPoint().Column) + 1,
		},
	}
	childCount := int(n.ChildCount())
	if childCount == 0 {
		out.Text = n.Content(source)
		return out
	}
	out.Children = make([]parsers.Node, 0, childCount)
	for i := 0; i < childCount; i++ {
		out.Children = append(out.Children, translateNode(n.Child(i), source))
	}
	return out
}

// ExtractSymbols walks the cached sitter.Tree for ast.FilePath and returns
// one SymbolRecord per matched declaration node.
func (p *Parser) ExtractSymbols(ast *parsers.AST) ([]parsers.SymbolRecord, error) {
	lt, ok := p.trees.Load(ast.FilePath)
	if !ok {
		return nil, fmt.Errorf("treesitter: no cached parse for %s", ast.FilePath)
	}
	live := lt.(*liveTree)
	table := tables[live.lang]

	var out []parsers.SymbolRecord
	walkDecls(live.tree.RootNode(), nil, live.source, table, live.lang, "", &out)
	return out, nil
}

// exportStatementTypes names the tree-sitter node type that wraps a
// top-level declaration to mark it as module-exported, per language.
// Go and Python have no such wrapper node: Go exported-ness is
// capitalization-based and Python has no export keyword.
var exportStatementTypes = map[string]string{
	"javascript": "export_statement",
	"typescript": "export_statement",
	"tsx":        "export_statement",
}

// walkDecls walks n depth-first, emitting a SymbolRecord for every node
// matching one of table's decls. parent is n's immediate parent, used to
// detect a wrapping export_statement so Modifiers can carry an "export"
// marker for extract.isExported to consume.
func walkDecls(n *sitter.Node, parent *sitter.Node, source []byte, table langTable, lang string, scope string, out *[]parsers.SymbolRecord) {
	if n == nil {
		return
	}
	nextScope := scope
	for _, spec := range table.decls {
		if n.Type() != spec.nodeType {
			continue
		}
		name, ok := declName(n, source, spec)
		if !ok {
			break
		}
		var modifiers []string
		if exportType, ok := exportStatementTypes[lang]; ok && parent != nil && parent.Type() == exportType {
			modifiers = append(modifiers, "export")
		}
		*out = append(*out, parsers.SymbolRecord{
			Name: name,
			Kind: spec.kind,
			Location: parsers.Range{
				StartLine:   int(n.StartPoint().Row) + 1,
				StartColumn: int(n.StartPoint().Column) + 1,
				EndLine:     int(n.EndPoint().Row) + 1,
				EndColumn:   int(n.EndPoint().Column) + 1,
			},
			Scope:     scope,
			Modifiers: modifiers,
		})
		if spec.kind == "class" || spec.kind == "interface" {
			nextScope = name
		}
		break
	}

	childCount := int(n.ChildCount())
	for i := 0; i < childCount; i++ {
		walkDecls(n.Child(i), n, source, table, lang, nextScope, out)
	}
}

func declName(n *sitter.Node, source []byte, spec declSpec) (string, bool) {
	if spec.nameTag != "" {
		if nameNode := n.ChildByFieldName(spec.nameTag); nameNode != nil {
			return nameNode.Content(source), true
		}
		return "", false
	}
	// No named field (e.g. JS lexical_declaration): use the first
	// variable_declarator's identifier child.
	childCount := int(n.ChildCount())
	for i := 0; i < childCount; i++ {
		child := n.Child(i)
		if child.Type() == "variable_declarator" {
			if id := child.ChildByFieldName("name"); id != nil {
				return id.Content(source), true
			}
		}
	}
	return "", false
}

// ExtractDependencies walks the cached tree for import/require statements
// and returns one DependencyRecord per import path found.
func (p *Parser) ExtractDependencies(ast *parsers.AST) ([]parsers.DependencyRecord, error) {
	lt, ok := p.trees.Load(ast.FilePath)
	if !ok {
		return nil, fmt.Errorf("treesitter: no cached parse for %s", ast.FilePath)
	}
	live := lt.(*liveTree)
	table := tables[live.lang]

	var out []parsers.DependencyRecord
	walkImports(live.tree.RootNode(), live.source, table, live.lang, &out)
	return out, nil
}

func walkImports(n *sitter.Node, source []byte, table langTable, lang string, out *[]parsers.DependencyRecord) {
	if n == nil {
		return
	}
	if n.Type() == table.importType {
		for _, path := range importPaths(n, source, lang) {
			out2 := parsers.DependencyRecord{
				Path:       path,
				Kind:       parsers.DepImport,
				IsRelative: parsers.IsRelativePath(path),
			}
			*out = append(*out, out2)
		}
	}
	childCount := int(n.ChildCount())
	for i := 0; i < childCount; i++ {
		walkImports(n.Child(i), source, table, lang, out)
	}
}

// importPaths extracts the quoted/interpreted string literal(s) naming the
// imported module from an import/import_declaration node. Go groups
// multiple specs under one import_declaration; JS/TS/Python each name one
// path per statement.
func importPaths(n *sitter.Node, source []byte, lang string) []string {
	var paths []string
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		switch node.Type() {
		case "interpreted_string_literal", "string", "raw_string_literal":
			paths = append(paths, trimQuotes(node.Content(source)))
			return
		case "dotted_name":
			if lang == "python" {
				paths = append(paths, node.Content(source))
				return
			}
		}
		childCount := int(node.ChildCount())
		for i := 0; i < childCount; i++ {
			walk(node.Child(i))
		}
	}
	walk(n)
	return paths
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// FindReferences walks the cached tree and returns every identifier node
// whose text equals symbol.
func (p *Parser) FindReferences(ast *parsers.AST, symbol string) ([]parsers.Location, error) {
	lt, ok := p.trees.Load(ast.FilePath)
	if !ok {
		return nil, fmt.Errorf("treesitter: no cached parse for %s", ast.FilePath)
	}
	live := lt.(*liveTree)

	var out []parsers.Location
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "identifier" && n.Content(live.source) == symbol {
			out = append(out, parsers.Location{
				FilePath: ast.FilePath,
				Range: parsers.Range{
					StartLine:   int(n.StartPoint().Row) + 1,
					StartColumn: int(n.StartPoint().Column) + 1,
					EndLine:     int(n.EndPoint().Row) + 1,
					EndColumn:   int(n.EndPoint().Column) + 1,
				},
			})
		}
		childCount := int(n.ChildCount())
		for i := 0; i < childCount; i++ {
			walk(n.Child(i))
		}
	}
	walk(live.tree.RootNode())
	return out, nil
}
