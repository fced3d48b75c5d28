// Package vyper runs the Vyper compiler to obtain external interfaces.
package vyper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/pendergraft/ifacecheck/internal/compilers"
)

// DefaultBinary is the executable looked up on PATH
const DefaultBinary = "vyper"

// Compiler implements compilers.Compiler for Vyper
type Compiler struct {
	binary string
	logger *slog.Logger
}

var _ compilers.Compiler = (*Compiler)(nil)

// New creates a Vyper compiler that runs binary. An empty binary uses
// DefaultBinary.
func New(binary string, logger *slog.Logger) *Compiler {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{binary: binary, logger: logger}
}

// Name returns the compiler identifier
func (c *Compiler) Name() string {
	return "vyper"
}

// DisplayName returns a human-readable name
func (c *Compiler) DisplayName() string {
	return "Vyper"
}

// Binary returns the executable this compiler runs
func (c *Compiler) Binary() string {
	return c.binary
}

// Detect checks whether the binary can be found
func (c *Compiler) Detect() (bool, error) {
	_, err := exec.LookPath(c.binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Version returns the first line printed by "vyper --version", for example
// "0.3.10+commit.91361694".
func (c *Compiler) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	if out.Failed() || strings.TrimSpace(out.Stdout) == "" {
		return "", fmt.Errorf("reading %s version: %s", c.binary, strings.TrimSpace(out.Stderr))
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out.Stdout), "\n")
	return strings.TrimSpace(line), nil
}

// ExternalInterface runs "vyper -f external_interface <path>". A non-zero
// exit status is not an error; callers inspect Output.Failed.
func (c *Compiler) ExternalInterface(ctx context.Context, contractPath string) (*compilers.Output, error) {
	return c.run(ctx, "-f", "external_interface", contractPath)
}

func (c *Compiler) run(ctx context.Context, args ...string) (*compilers.Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running compiler", "binary", c.binary, "args", args)

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("running %s: %w", c.binary, err)
	}

	out := &compilers.Output{Stdout: stdout.String(), Stderr: stderr.String()}
	c.logger.Debug("compiler finished",
		"binary", c.binary,
		"exit_code", cmd.ProcessState.ExitCode(),
		"stdout_bytes", len(out.Stdout),
		"stderr_bytes", len(out.Stderr),
	)
	return out, nil
}
