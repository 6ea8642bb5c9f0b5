package treesitter

import (
	"context"
	"testing"

	"codesnap/internal/parsers"
)

func TestParseAndExtractSymbolsGo(t *testing.T) {
	src := []byte("package main\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n")
	p := New()
	ast, err := p.Parse(context.Background(), src, "main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	symbols, err := p.ExtractSymbols(ast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Name != "Add" || symbols[0].Kind != "function" {
		t.Fatalf("expected one Add function symbol, got %+v", symbols)
	}
}

func TestExtractDependenciesGo(t *testing.T) {
	src := []byte("package main\n\nimport (\n\t\"fmt\"\n\t\"os\"\n)\n\nfunc main() { fmt.Println(os.Args) }\n")
	p := New()
	ast, err := p.Parse(context.Background(), src, "main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deps, err := p.ExtractDependencies(ast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("expected two imports, got %+v", deps)
	}
	seen := map[string]bool{}
	for _, d := range deps {
		seen[d.Path] = true
	}
	if !seen["fmt"] || !seen["os"] {
		t.Fatalf("expected fmt and os imports, got %+v", deps)
	}
}

func TestExtractSymbolsTypeScript(t *testing.T) {
	src := []byte("export class Widget {\n  render() {}\n}\n\nfunction build() {}\n")
	p := New()
	ast, err := p.Parse(context.Background(), src, "widget.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	symbols, err := p.ExtractSymbols(ast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var foundClass, foundMethod, foundFunc bool
	for _, s := range symbols {
		switch {
		case s.Name == "Widget" && s.Kind == "class":
			foundClass = true
		case s.Name == "render" && s.Kind == "method":
			foundMethod = true
		case s.Name == "build" && s.Kind == "function":
			foundFunc = true
		}
	}
	if !foundClass || !foundMethod || !foundFunc {
		t.Fatalf("expected class, method, and function symbols, got %+v", symbols)
	}
}

func TestExtractSymbolsTypeScriptExportModifier(t *testing.T) {
	src := []byte("export function add(a: number, b: number) {\n  return a + b;\n}\n\nfunction helper() {\n  return 1;\n}\n")
	p := New()
	ast, err := p.Parse(context.Background(), src, "a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	symbols, err := p.ExtractSymbols(ast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var add, helper *parsers.SymbolRecord
	for i := range symbols {
		switch symbols[i].Name {
		case "add":
			add = &symbols[i]
		case "helper":
			helper = &symbols[i]
		}
	}
	if add == nil || helper == nil {
		t.Fatalf("expected add and helper symbols, got %+v", symbols)
	}
	if len(add.Modifiers) == 0 || add.Modifiers[0] != "export" {
		t.Errorf("expected add to carry an export modifier, got %+v", add.Modifiers)
	}
	if len(helper.Modifiers) != 0 {
		t.Errorf("expected helper to carry no modifiers, got %+v", helper.Modifiers)
	}
}

func TestExtractDependenciesTypeScript(t *testing.T) {
	src := []byte("import { readFile } from './fs-helper';\n\nexport function load() {}\n")
	p := New()
	ast, err := p.Parse(context.Background(), src, "loader.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deps, err := p.ExtractDependencies(ast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 || deps[0].Path != "./fs-helper" || !deps[0].IsRelative {
		t.Fatalf("expected one relative import, got %+v", deps)
	}
}

func TestFindReferences(t *testing.T) {
	src := []byte("package main\n\nfunc helper() {}\n\nfunc main() {\n\thelper()\n\thelper()\n}\n")
	p := New()
	ast, err := p.Parse(context.Background(), src, "main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refs, err := p.FindReferences(ast, "helper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 references (decl + 2 calls), got %d: %+v", len(refs), refs)
	}
}

func TestUnsupportedExtensionErrors(t *testing.T) {
	p := New()
	_, err := p.Parse(context.Background(), []byte("fn main() {}"), "main.rs")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestSupportedLanguagesIncludesCoreFive(t *testing.T) {
	p := New()
	langs := map[string]bool{}
	for _, l := range p.SupportedLanguages() {
		langs[l] = true
	}
	for _, want := range []string{"go", "javascript", "typescript", "tsx", "python"} {
		if !langs[want] {
			t.Fatalf("expected %q in supported languages, got %v", want, p.SupportedLanguages())
		}
	}
}
