// Package compressor converts source text into CompressedCode at one of
// three fidelity levels. It is purely textual: it never parses and must
// not crash on syntactically invalid input.
package compressor

import (
	"regexp"
	"sort"
	"strings"
)

// Level is one of the three supported compression fidelities.
type Level string

const (
	Minimal Level = "minimal"
	Medium  Level = "medium"
	Full    Level = "full"
)

// Result is the CompressedCode produced for one file.
type Result struct {
	Body            string            `json:"body"`
	SymbolMap       map[string]string `json:"symbolMap,omitempty"`
	OriginalLines   int               `json:"originalLines"`
	CompressedLines int               `json:"compressedLines"`
}

// Compress reduces source at the given level. language selects the
// local-binding keyword set used by Full-level renaming; languages absent
// from localBindingKeywords fall back to Medium-equivalent output (no
// renaming), per the documented per-language gating policy.
func Compress(source string, level Level, language string) Result {
	originalLines := countLines(source)

	switch level {
	case Minimal:
		body := compressMinimal(source, language)
		return Result{Body: body, OriginalLines: originalLines, CompressedLines: countLines(body)}
	case Full:
		medium := compressMedium(source)
		body, symbolMap := renameLocalIdentifiers(medium, language)
		return Result{Body: body, SymbolMap: symbolMap, OriginalLines: originalLines, CompressedLines: countLines(body)}
	default: // Medium and any unrecognised level degrade to Medium
		body := compressMedium(source)
		return Result{Body: body, OriginalLines: originalLines, CompressedLines: countLines(body)}
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// declarationPrefixes are line-start patterns that open a declaration whose
// body should be collected until brace depth returns to zero.
var declarationPrefixes = regexp.MustCompile(
	`^\s*(export\s+)?(default\s+)?(async\s+)?(abstract\s+)?` +
		`(function\b|class\b|interface\b|type\b|enum\b|const\s+\w+\s*=\s*(async\s*)?\(|` +
		`(public|private|protected|static)?\s*\w+\s*\()`,
)

// compressMinimal retains only declaration signatures: lines matching a
// declaration prefix, collected until brace depth returns to zero, emitted
// as one joined line per declaration.
func compressMinimal(source, _ string) string {
	lines := strings.Split(source, "\n")
	var out []string

	inBlockComment := false
	depth := 0
	var collecting []string

	flush := func() {
		if len(collecting) > 0 {
			out = append(out, strings.Join(collecting, " "))
			collecting = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inBlockComment {
			if idx := strings.Index(trimmed, "*/"); idx >= 0 {
				inBlockComment = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/*") && !strings.Contains(trimmed, "*/") {
			inBlockComment = true
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			continue
		}

		if depth > 0 {
			collecting = append(collecting, trimmed)
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 {
				depth = 0
				flush()
			}
			continue
		}

		if declarationPrefixes.MatchString(line) {
			collecting = append(collecting, trimmed)
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 {
				depth = 0
				flush()
			}
		}
	}
	flush()

	return strings.Join(out, "\n")
}

var (
	lineCommentPattern  = regexp.MustCompile(`//.*$`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]+`)
)

// compressMedium removes comments, drops empty lines, and collapses
// whitespace. A "//" immediately preceded by ":" (as in a URL) is not
// treated as a comment opener.
func compressMedium(source string) string {
	noBlockComments := blockCommentPattern.ReplaceAllString(source, "")

	lines := strings.Split(noBlockComments, "\n")
	var out []string

	for _, line := range lines {
		stripped := stripLineComment(line)
		collapsed := multiSpacePattern.ReplaceAllString(stripped, " ")
		trimmed := strings.TrimSpace(collapsed)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return strings.Join(out, "\n")
}

func stripLineComment(line string) string {
	loc := lineCommentPattern.FindStringIndex(line)
	if loc == nil {
		return line
	}
	if loc[0] > 0 && line[loc[0]-1] == ':' {
		return line
	}
	return line[:loc[0]]
}

// localBindingKeywords lists, per language, the keywords that introduce a
// local binding eligible for Full-level renaming. Languages absent here are
// gated out of renaming (see Compress).
var localBindingKeywords = map[string][]string{
	"typescript": {"let", "const", "var"},
	"javascript": {"let", "const", "var"},
	"tsx":        {"let", "const", "var"},
}

// denyList is the closed set of reserved/built-in/common names that must
// never be renamed.
var denyList = map[string]bool{}

func init() {
	for _, name := range strings.Split(
		"Array,Boolean,Date,Error,Function,JSON,Math,Number,Object,Promise,RegExp,String,Symbol,"+
			"console,window,document,process,require,module,exports,__dirname,__filename,type,interface,"+
			"namespace,declare,abstract,as,readonly,keyof,infer,unknown,never,any,id,name,data,value,index,"+
			"item,key,result,error,response,request,params,options,config,props,state,context,event,callback",
		",") {
		denyList[name] = true
	}
}

var identifierPattern = regexp.MustCompile(`\b[A-Za-z_$][A-Za-z0-9_$]*\b`)

// renameLocalIdentifiers renames local-binding identifiers to short
// aliases (a, b, ..., z, aa, ab, ...), applying the substitution as a
// whole-word replacement across body. Returns the rewritten body and the
// short->original symbolMap (empty if no identifier qualifies).
func renameLocalIdentifiers(body, language string) (string, map[string]string) {
	keywords := localBindingKeywords[strings.ToLower(language)]
	if len(keywords) == 0 {
		return body, map[string]string{}
	}

	candidates := findCandidates(body, keywords)
	if len(candidates) == 0 {
		return body, map[string]string{}
	}

	symbolMap := make(map[string]string, len(candidates))
	replacements := make(map[string]string, len(candidates))
	counter := 0
	for _, name := range candidates {
		if _, already := replacements[name]; already {
			continue
		}
		alias := shortAlias(counter)
		counter++
		replacements[name] = alias
		symbolMap[alias] = name
	}

	out := identifierPattern.ReplaceAllStringFunc(body, func(match string) string {
		if alias, ok := replacements[match]; ok {
			return alias
		}
		return match
	})

	return out, symbolMap
}

// findCandidates returns, in first-seen order, every identifier introduced
// by one of keywords that qualifies for renaming: lowercase-starting,
// longer than one character, and not in denyList.
func findCandidates(body string, keywords []string) []string {
	var out []string
	seen := map[string]bool{}

	kwPattern := regexp.MustCompile(`\b(` + strings.Join(keywords, "|") + `)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	for _, m := range kwPattern.FindAllStringSubmatch(body, -1) {
		name := m[2]
		if seen[name] {
			continue
		}
		if !qualifies(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	return out
}

func qualifies(name string) bool {
	if len(name) <= 1 {
		return false
	}
	if denyList[name] {
		return false
	}
	first := name[0]
	return first >= 'a' && first <= 'z'
}

// shortAlias returns the n-th alias in the sequence a, b, ..., z, aa, ab, ...
func shortAlias(n int) string {
	const base = 26
	var letters []byte
	for {
		letters = append([]byte{byte('a' + n%base)}, letters...)
		n = n/base - 1
		if n < 0 {
			break
		}
	}
	return string(letters)
}

// Decompress inverts a Full-level symbolMap, replacing every short alias in
// body with its original identifier. Used to validate the compression
// round-trip property.
func Decompress(body string, symbolMap map[string]string) string {
	if len(symbolMap) == 0 {
		return body
	}

	aliases := make([]string, 0, len(symbolMap))
	for alias := range symbolMap {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool { return len(aliases[i]) > len(aliases[j]) })

	return identifierPattern.ReplaceAllStringFunc(body, func(match string) string {
		if original, ok := symbolMap[match]; ok {
			return original
		}
		return match
	})
}
