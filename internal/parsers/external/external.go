// Package external implements parsers.Contract by delegating to a spawned
// child process that speaks a line-delimited JSON protocol on stdin/stdout.
// It exists for languages with no tree-sitter grammar in the pack (e.g. a
// Swift or C# front-end) where parsing is cheapest to delegate to an
// existing external tool rather than reimplement in Go.
package external

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"codesnap/internal/parsers"
)

// ProcessState mirrors the Starting/Ready/Dead lifecycle a supervised
// external parser process moves through.
type ProcessState string

const (
	StateStarting ProcessState = "starting"
	StateReady    ProcessState = "ready"
	StateDead     ProcessState = "dead"
)

// Config names the external binary and the language/extension set it
// claims to handle.
type Config struct {
	Name                string
	VersionString       string
	Command             string
	Args                []string
	Extensions          []string
	Languages           []string
	RequestTimeout      time.Duration
}

// request/response is the line-delimited JSON protocol spoken over the
// child's stdin/stdout. One object per line, always answered in order.
type request struct {
	Op       string `json:"op"` // "parse", "symbols", "dependencies", "references"
	FilePath string `json:"filePath,omitempty"`
	Source   string `json:"source,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

type response struct {
	Error        string                     `json:"error,omitempty"`
	AST          parsers.Node               `json:"ast,omitempty"`
	Symbols      []parsers.SymbolRecord     `json:"symbols,omitempty"`
	Dependencies []parsers.DependencyRecord `json:"dependencies,omitempty"`
	References   []parsers.Location         `json:"references,omitempty"`
}

// Process supervises one child parser process. Calls are serialized under
// mu because a single-concurrent binary cannot interleave stdin writes
// with stdout reads from two goroutines.
type Process struct {
	cfg Config

	mu     sync.Mutex
	state  ProcessState
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// New creates a Process for cfg. The child is not spawned until the first
// request of any kind.
func New(cfg Config) *Process {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Process{cfg: cfg, state: StateStarting}
}

func (p *Process) Name() string                 { return p.cfg.Name }
func (p *Process) Version() string              { return p.cfg.VersionString }
func (p *Process) SupportedExtensions() []string { return p.cfg.Extensions }
func (p *Process) SupportedLanguages() []string  { return p.cfg.Languages }

// State returns the process's current lifecycle state.
func (p *Process) State() ProcessState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Process) ensureStarted() error {
	if p.cmd != nil {
		return nil
	}
	cmd := exec.Command(p.cfg.Command, p.cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("external(%s): stdin pipe: %w", p.cfg.Name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("external(%s): stdout pipe: %w", p.cfg.Name, err)
	}
	if err := cmd.Start(); err != nil {
		p.state = StateDead
		return fmt.Errorf("external(%s): start: %w", p.cfg.Name, err)
	}
	p.cmd = cmd
	p.stdin = stdin
	p.stdout = bufio.NewReader(stdout)
	p.state = StateReady
	return nil
}

func (p *Process) call(ctx context.Context, req request) (*response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateDead {
		return nil, fmt.Errorf("external(%s): process is dead", p.cfg.Name)
	}
	if err := p.ensureStarted(); err != nil {
		return nil, err
	}

	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("external(%s): encode request: %w", p.cfg.Name, err)
	}
	line = append(line, '\n')

	type result struct {
		resp *response
		err  error
	}
	done := make(chan result, 1)

	go func() {
		if _, err := p.stdin.Write(line); err != nil {
			done <- result{err: fmt.Errorf("external(%s): write request: %w", p.cfg.Name, err)}
			return
		}
		raw, err := p.stdout.ReadBytes('\n')
		if err != nil {
			done <- result{err: fmt.Errorf("external(%s): read response: %w", p.cfg.Name, err)}
			return
		}
		var resp response
		if err := json.Unmarshal(raw, &resp); err != nil {
			done <- result{err: fmt.Errorf("external(%s): decode response: %w", p.cfg.Name, err)}
			return
		}
		if resp.Error != "" {
			done <- result{err: fmt.Errorf("external(%s): %s", p.cfg.Name, resp.Error)}
			return
		}
		done <- result{resp: &resp}
	}()

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-callCtx.Done():
		p.state = StateDead
		p.killLocked()
		return nil, fmt.Errorf("external(%s): request timed out: %w", p.cfg.Name, callCtx.Err())
	}
}

func (p *Process) killLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	if p.stdin != nil {
		p.stdin.Close()
	}
}

// Shutdown terminates the child process, if running.
func (p *Process) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killLocked()
	p.state = StateDead
	return nil
}

// Parse sends the file to the child process and translates its JSON AST
// response into the generic AST shape.
func (p *Process) Parse(ctx context.Context, source []byte, filePath string) (*parsers.AST, error) {
	resp, err := p.call(ctx, request{Op: "parse", FilePath: filePath, Source: string(source)})
	if err != nil {
		return nil, err
	}
	return &parsers.AST{FilePath: filePath, Root: resp.AST}, nil
}

// ExtractSymbols re-requests symbol extraction for the file named by ast.
func (p *Process) ExtractSymbols(ast *parsers.AST) ([]parsers.SymbolRecord, error) {
	resp, err := p.call(context.Background(), request{Op: "symbols", FilePath: ast.FilePath})
	if err != nil {
		return nil, err
	}
	return resp.Symbols, nil
}

// ExtractDependencies re-requests dependency extraction for ast's file.
func (p *Process) ExtractDependencies(ast *parsers.AST) ([]parsers.DependencyRecord, error) {
	resp, err := p.call(context.Background(), request{Op: "dependencies", FilePath: ast.FilePath})
	if err != nil {
		return nil, err
	}
	return resp.Dependencies, nil
}

// FindReferences asks the child process to locate every reference to
// symbol within ast's file.
func (p *Process) FindReferences(ast *parsers.AST, symbol string) ([]parsers.Location, error) {
	resp, err := p.call(context.Background(), request{Op: "references", FilePath: ast.FilePath, Symbol: symbol})
	if err != nil {
		return nil, err
	}
	return resp.References, nil
}
