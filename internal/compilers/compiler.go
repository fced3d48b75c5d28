// Package compilers provides the interface to external smart-contract
// compilers that report a contract's external interface.
package compilers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrCompilerFailed is returned when compiler output indicates an error.
	ErrCompilerFailed = errors.New("compiler reported an error")
	// ErrNoCompiler is returned when no registered compiler is installed.
	ErrNoCompiler = errors.New("no supported compiler found")
)

// Compiler produces the external interface text of a contract
type Compiler interface {
	// Metadata
	Name() string        // "vyper"
	DisplayName() string // "Vyper"
	Binary() string      // executable that is run

	// Detection
	Detect() (bool, error)
	Version(ctx context.Context) (string, error)

	// Interface extraction
	ExternalInterface(ctx context.Context, contractPath string) (*Output, error)
}

// Output holds the complete stdout and stderr of one compiler run.
type Output struct {
	Stdout string
	Stderr string
}

// Failed reports whether the run should be treated as a compilation error:
// stdout is empty or mentions "Error", and stderr has content.
func (o *Output) Failed() bool {
	return (o.Stdout == "" || strings.Contains(o.Stdout, "Error")) && o.Stderr != ""
}

// Err returns ErrCompilerFailed wrapped with stderr when the run failed.
func (o *Output) Err() error {
	if !o.Failed() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCompilerFailed, strings.TrimSpace(o.Stderr))
}

// Registry holds the available compilers
type Registry struct {
	compilers map[string]Compiler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		compilers: make(map[string]Compiler),
	}
}

// Register adds a compiler to the registry
func (r *Registry) Register(c Compiler) {
	r.compilers[c.Name()] = c
}

// Get retrieves a compiler by name
func (r *Registry) Get(name string) (Compiler, bool) {
	c, ok := r.compilers[name]
	return c, ok
}

// List returns all registered compilers sorted by name
func (r *Registry) List() []Compiler {
	list := make([]Compiler, 0, len(r.compilers))
	for _, c := range r.compilers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Detect returns the first registered compiler available on this machine
func (r *Registry) Detect() (Compiler, error) {
	list := r.List()
	tried := make([]string, 0, len(list))
	for _, c := range list {
		found, err := c.Detect()
		if err == nil && found {
			return c, nil
		}
		tried = append(tried, c.Binary())
	}
	return nil, fmt.Errorf("%w (tried %s)", ErrNoCompiler, strings.Join(tried, ", "))
}
