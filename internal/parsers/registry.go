package parsers

import (
	"strconv"
	"strings"
	"sync"
	"time"

	cerrors "codesnap/internal/errors"
)

// Metadata is the registry's public view of a registered parser.
type Metadata struct {
	Name                string    `json:"name"`
	Version             string    `json:"version"`
	SupportedExtensions []string  `json:"supportedExtensions"`
	SupportedLanguages  []string  `json:"supportedLanguages"`
	RegisteredAt        time.Time `json:"registeredAt"`
}

// Registry holds parser implementations keyed by name, language tag, and
// file extension. It is safe for concurrent use; register blocks lookups
// only for the duration of the write.
type Registry struct {
	mu          sync.RWMutex
	byName      map[string]Contract
	byExtension map[string]Contract
	byLanguage  map[string]Contract
	meta        map[string]Metadata
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]Contract),
		byExtension: make(map[string]Contract),
		byLanguage:  make(map[string]Contract),
		meta:        make(map[string]Metadata),
	}
}

// Register adds p to the registry. Fails with DuplicateParser if a parser
// with the same name is already registered.
func (r *Registry) Register(p Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.byName[name]; exists {
		return cerrors.NewDuplicateParserError(name)
	}

	r.byName[name] = p
	for _, ext := range p.SupportedExtensions() {
		r.byExtension[normalizeExtension(ext)] = p
	}
	for _, lang := range p.SupportedLanguages() {
		r.byLanguage[strings.ToLower(lang)] = p
	}
	r.meta[name] = Metadata{
		Name:                name,
		Version:             p.Version(),
		SupportedExtensions: p.SupportedExtensions(),
		SupportedLanguages:  p.SupportedLanguages(),
		RegisteredAt:        time.Now().UTC(),
	}

	return nil
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// GetByName resolves a parser by its registered name. If requiredVersion
// is non-empty, the resolved parser's version must satisfy it (major-version
// compatible) or IncompatibleVersion is returned.
func (r *Registry) GetByName(name, requiredVersion string) (Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	if !ok {
		return nil, cerrors.NewParserNotFoundError("name", name)
	}
	if requiredVersion != "" && !Satisfies(requiredVersion, p.Version()) {
		return nil, cerrors.NewIncompatibleVersionError(name, requiredVersion, p.Version())
	}
	return p, nil
}

// GetByExtension resolves a parser by file extension, case-insensitively,
// matching the leading dot.
func (r *Registry) GetByExtension(ext string) (Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byExtension[normalizeExtension(ext)]
	if !ok {
		return nil, cerrors.NewParserNotFoundError("extension", ext)
	}
	return p, nil
}

// GetByLanguage resolves a parser by language tag, case-insensitively.
func (r *Registry) GetByLanguage(lang string) (Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byLanguage[strings.ToLower(lang)]
	if !ok {
		return nil, cerrors.NewParserNotFoundError("language", lang)
	}
	return p, nil
}

// List returns metadata records for every registered parser, sorted by
// name for deterministic output.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.meta))
	for _, m := range r.meta {
		out = append(out, m)
	}
	sortMetadata(out)
	return out
}

func sortMetadata(m []Metadata) {
	for i := 1; i < len(m); i++ {
		for j := i; j > 0 && m[j].Name < m[j-1].Name; j-- {
			m[j], m[j-1] = m[j-1], m[j]
		}
	}
}

// Satisfies reports whether actual's major version is compatible with
// required, using semver-style "vMAJOR.MINOR.PATCH" strings. Only the
// major component is compared, matching the registry's documented
// negotiation policy.
func Satisfies(required, actual string) bool {
	reqMajor, ok1 := majorVersion(required)
	actMajor, ok2 := majorVersion(actual)
	if !ok1 || !ok2 {
		return required == actual
	}
	return reqMajor == actMajor
}

func majorVersion(v string) (int, bool) {
	v = strings.TrimPrefix(v, "v")
	parts := strings.SplitN(v, ".", 2)
	if len(parts) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
