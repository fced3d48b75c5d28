package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pendergraft/ifacecheck/internal/compare"
	"github.com/pendergraft/ifacecheck/internal/compilers"
	"github.com/pendergraft/ifacecheck/internal/compilers/vyper"
	"github.com/pendergraft/ifacecheck/internal/config"
	"github.com/pendergraft/ifacecheck/internal/extract"
	"github.com/pendergraft/ifacecheck/internal/report"
	"github.com/pendergraft/ifacecheck/internal/signature"
	"github.com/pendergraft/ifacecheck/internal/validation"
)

// checkFlags are persistent flags shared by every command
type checkFlags struct {
	strict         bool
	noStrict       bool
	skipUnused     bool
	noSkipUnused   bool
	disableColor   bool
	noDisableColor bool
	failOnProblems bool
	format         string
	vyper          string
	minVersion     string
}

func (f *checkFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolVar(&f.strict, "strict", false, "only print confirmed problems; ignore possible false positives and do not print DONE")
	pf.BoolVar(&f.skipUnused, "skip-unused", false, "skip checking for (low priority) unused interface definitions")
	pf.BoolVar(&f.disableColor, "disable-color", false, "print findings in the default console font")
	pf.BoolVar(&f.noStrict, "no-strict", false, "turn off strict mode set by env or project config")
	pf.BoolVar(&f.noSkipUnused, "no-skip-unused", false, "check unused definitions even when env or project config skips them")
	pf.BoolVar(&f.noDisableColor, "no-disable-color", false, "print colored findings even when env or project config disables color")
	pf.BoolVar(&f.failOnProblems, "fail-on-problems", false, "exit with status 1 when a mismatch or unused definition is found")
	pf.StringVar(&f.format, "format", "", "output format: text, json or yaml (default text)")
	pf.StringVar(&f.vyper, "vyper", "", "vyper executable (default vyper on PATH)")
	pf.StringVar(&f.minVersion, "min-vyper-version", "", "require at least this compiler version")
}

// checkTarget is one interface comparison. Nil overrides use the run-wide
// settings.
type checkTarget struct {
	CalledPath string
	CallerPath string
	Interface  string
	Strict     *bool
	SkipUnused *bool
}

// settings is the effective configuration after flags, env and project
// config are merged
type settings struct {
	compilerBinary string
	compilerSet    bool // binary chosen by flag, env or project config
	minVersion     string
	format         report.Format
	palette        report.Palette
	options        compare.Options
	failOnProblems bool
	logger         *slog.Logger
}

// resolveSettings merges configuration sources in order of precedence:
// flags, environment, project config, built-in defaults.
func resolveSettings(cmd *cobra.Command, flags *checkFlags) (*settings, error) {
	base := config.Defaults()
	failOnProblems := false

	project := loadProjectConfigSilent()
	if project != nil {
		project.applyTo(&base)
		failOnProblems = project.FailOnProblems
	}

	cfg, err := config.LoadWithDefaults(base)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fl := cmd.Flags()
	compilerSet := os.Getenv("IFACECHECK_VYPER") != "" || (project != nil && project.Vyper != "")
	if fl.Changed("vyper") {
		cfg.Compiler.Binary = flags.vyper
		compilerSet = true
	}
	if fl.Changed("min-vyper-version") {
		cfg.Compiler.MinVersion = flags.minVersion
	}
	if fl.Changed("format") {
		cfg.Output.Format = flags.format
	}
	if flags.noStrict {
		cfg.Check.Strict = false
	}
	if fl.Changed("strict") {
		cfg.Check.Strict = flags.strict
	}
	if flags.noSkipUnused {
		cfg.Check.SkipUnused = false
	}
	if fl.Changed("skip-unused") {
		cfg.Check.SkipUnused = flags.skipUnused
	}
	if fl.Changed("fail-on-problems") {
		failOnProblems = flags.failOnProblems
	}
	if flags.noDisableColor {
		cfg.Output.Color = config.ColorAlways
	}
	if flags.disableColor {
		cfg.Output.Color = config.ColorNever
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	palette, err := choosePalette(cfg.Output.Color, stdoutIsTerminal)
	if err != nil {
		return nil, err
	}

	return &settings{
		compilerBinary: cfg.Compiler.Binary,
		compilerSet:    compilerSet,
		minVersion:     cfg.Compiler.MinVersion,
		format:         format,
		palette:        palette,
		options: compare.Options{
			Strict:     cfg.Check.Strict,
			SkipUnused: cfg.Check.SkipUnused,
		},
		failOnProblems: failOnProblems,
		logger:         setupLogger(cfg.Logging, cmd.ErrOrStderr()),
	}, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// choosePalette maps a color mode to a palette
func choosePalette(mode string, isTerminal func() bool) (report.Palette, error) {
	switch mode {
	case config.ColorAlways, "":
		return report.ANSIPalette(), nil
	case config.ColorNever:
		return report.PlainPalette(), nil
	case config.ColorAuto:
		if isTerminal() {
			return report.ANSIPalette(), nil
		}
		return report.PlainPalette(), nil
	default:
		return report.Palette{}, fmt.Errorf("unknown color mode %q (want always, never or auto)", mode)
	}
}

// newRegistry returns the compilers ifacecheck can run
func newRegistry(s *settings) *compilers.Registry {
	registry := compilers.NewRegistry()
	registry.Register(vyper.New(s.compilerBinary, s.logger))
	return registry
}

// selectCompiler returns the configured compiler. When no binary was
// configured, the first compiler installed on this machine is used.
func selectCompiler(registry *compilers.Registry, s *settings) (compilers.Compiler, error) {
	if !s.compilerSet {
		c, err := registry.Detect()
		if err != nil {
			return nil, fmt.Errorf("%w; set --vyper or IFACECHECK_VYPER", err)
		}
		s.logger.Debug("compiler detected", "compiler", c.Name(), "binary", c.Binary())
		return c, nil
	}
	c, ok := registry.Get("vyper")
	if !ok {
		return nil, fmt.Errorf("compiler %q is not registered", "vyper")
	}
	return c, nil
}

// runChecks compares every target and writes one report to out.
func runChecks(ctx context.Context, out io.Writer, s *settings, targets []checkTarget) error {
	compiler, err := selectCompiler(newRegistry(s), s)
	if err != nil {
		return err
	}
	if s.minVersion != "" {
		version, err := compiler.Version(ctx)
		if err != nil {
			return err
		}
		if err := validation.CheckMinimumVersion(version, s.minVersion); err != nil {
			return err
		}
		s.logger.Debug("compiler version accepted", "version", version, "minimum", s.minVersion)
	}

	rep := report.New(out, s.format, s.palette, s.options.Strict)

	problems := 0
	for _, t := range targets {
		result, err := runCheck(ctx, compiler, rep, s, t)
		if err != nil {
			return err
		}
		if result.HasProblems() {
			problems++
		}
	}

	if err := rep.Done(); err != nil {
		return err
	}

	if s.failOnProblems && problems > 0 {
		s.logger.Info("problems found", "checks", len(targets), "failing", problems)
		return &ExitError{Code: 1}
	}
	return nil
}

// runCheck compares one caller interface block against the called
// contract's compiler-reported interface.
func runCheck(ctx context.Context, compiler compilers.Compiler, rep *report.Reporter, s *settings, t checkTarget) (*compare.Result, error) {
	output, err := compiler.ExternalInterface(ctx, t.CalledPath)
	if err != nil {
		return nil, fmt.Errorf("extracting external interface of %s: %w", t.CalledPath, err)
	}
	if output.Failed() {
		s.logger.Debug("compiler failed", "contract", t.CalledPath, "error", output.Err())
		if err := rep.CompilerFailure(compiler.Name(), output.Stderr); err != nil {
			return nil, err
		}
		return nil, &ExitError{Code: 1}
	}

	source, err := os.ReadFile(t.CallerPath)
	if err != nil {
		return nil, fmt.Errorf("reading caller contract: %w", err)
	}

	// A name that is not an identifier can never be declared
	var block *extract.Block
	err = extract.ErrInterfaceNotFound
	if validation.ValidateInterfaceName(t.Interface) == nil {
		block, err = extract.Extract(string(source), t.Interface)
	}
	if errors.Is(err, extract.ErrInterfaceNotFound) {
		if err := rep.InterfaceNotFound(); err != nil {
			return nil, err
		}
		return nil, &ExitError{Code: 1}
	}
	if err != nil {
		return nil, fmt.Errorf("interface %s in %s: %w", t.Interface, t.CallerPath, err)
	}

	caller := signature.Normalize(block.Interface)
	called := signature.Normalize(output.Stdout)
	s.logger.Debug("interfaces normalized",
		"interface", t.Interface,
		"end_line", block.EndLine,
		"caller_declarations", caller.Len(),
		"called_declarations", called.Len(),
	)

	opts := s.options
	if t.Strict != nil {
		opts.Strict = *t.Strict
	}
	if t.SkipUnused != nil {
		opts.SkipUnused = *t.SkipUnused
	}

	result := compare.Compare(compare.Target{
		CalledPath: t.CalledPath,
		CallerPath: t.CallerPath,
		Interface:  t.Interface,
	}, caller, called, block.Remainder, opts)

	if err := rep.Result(result); err != nil {
		return nil, err
	}
	return result, nil
}
