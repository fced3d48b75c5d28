package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/pendergraft/ifacecheck/internal/config"
)

// projectConfigFiles is the search order for project config files
var projectConfigFiles = []string{"ifacecheck.toml", ".ifacecheck.toml"}

// ProjectConfig is the project-level TOML configuration
type ProjectConfig struct {
	Vyper           string       `toml:"vyper,omitempty"`
	MinVyperVersion string       `toml:"min_vyper_version,omitempty"`
	Strict          bool         `toml:"strict,omitempty"`
	SkipUnused      bool         `toml:"skip_unused,omitempty"`
	FailOnProblems  bool         `toml:"fail_on_problems,omitempty"`
	Color           string       `toml:"color,omitempty"`
	Format          string       `toml:"format,omitempty"`
	Checks          []CheckEntry `toml:"check,omitempty"`

	// dir is the directory the config was loaded from; check paths are
	// relative to it
	dir string
}

// CheckEntry is one [[check]] table
type CheckEntry struct {
	Called     string `toml:"called"`
	Caller     string `toml:"caller"`
	Interface  string `toml:"interface"`
	Strict     *bool  `toml:"strict,omitempty"`
	SkipUnused *bool  `toml:"skip_unused,omitempty"`
}

// applyTo overlays non-empty project settings on base
func (p *ProjectConfig) applyTo(base *config.Config) {
	if p.Vyper != "" {
		base.Compiler.Binary = p.resolvePath(p.Vyper)
	}
	if p.MinVyperVersion != "" {
		base.Compiler.MinVersion = p.MinVyperVersion
	}
	if p.Color != "" {
		base.Output.Color = p.Color
	}
	if p.Format != "" {
		base.Output.Format = p.Format
	}
	base.Check.Strict = base.Check.Strict || p.Strict
	base.Check.SkipUnused = base.Check.SkipUnused || p.SkipUnused
}

// resolvePath makes a relative path (containing a separator) relative to
// the config directory. Bare names are left for PATH lookup.
func (p *ProjectConfig) resolvePath(path string) string {
	if p.dir == "" || filepath.IsAbs(path) || filepath.Base(path) == path {
		return path
	}
	return filepath.Join(p.dir, path)
}

// targets converts [[check]] entries to check targets
func (p *ProjectConfig) targets() ([]checkTarget, error) {
	targets := make([]checkTarget, 0, len(p.Checks))
	for i, c := range p.Checks {
		if c.Called == "" || c.Caller == "" || c.Interface == "" {
			return nil, fmt.Errorf("check #%d: called, caller and interface are required", i+1)
		}
		targets = append(targets, checkTarget{
			CalledPath: p.resolveFile(c.Called),
			CallerPath: p.resolveFile(c.Caller),
			Interface:  c.Interface,
			Strict:     c.Strict,
			SkipUnused: c.SkipUnused,
		})
	}
	return targets, nil
}

func (p *ProjectConfig) resolveFile(path string) string {
	if p.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}

func createConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(createConfigInitCmd())
	cmd.AddCommand(createConfigShowCmd())

	return cmd
}

func createConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create config file",
		Long: `Create an ifacecheck.toml configuration file in the current directory.

The file stores the compiler to use, default switches and the list of
interface checks run by 'ifacecheck batch'.

EXAMPLES:
  # Create config
  ifacecheck config init

  # Overwrite existing config
  ifacecheck config init --force
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config")

	return cmd
}

func createConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current config",
		Long: `Display the configuration sources and the effective settings.

EXAMPLES:
  ifacecheck config show
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}
}

const projectConfigTemplate = `# ifacecheck project configuration

# Vyper executable (name on PATH or path relative to this file)
vyper = "vyper"

# Fail when the compiler is older than this version
# min_vyper_version = "0.3.7"

# Only report confirmed problems
strict = false

# Skip the unused interface definition check
skip_unused = false

# Exit with status 1 when a problem is found
fail_on_problems = false

# always, never or auto
color = "always"

# text, json or yaml
format = "text"

# Interface checks run by 'ifacecheck batch'
# [[check]]
# called = "contracts/Vault.vy"
# caller = "contracts/Strategy.vy"
# interface = "Vault"
# skip_unused = true
`

func runConfigInit(cmd *cobra.Command, force bool) error {
	configPath := projectConfigFiles[0]

	// Check if any config file already exists
	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil && !force {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", name)
		}
	}

	if err := os.WriteFile(configPath, []byte(projectConfigTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", configPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Add [[check]] entries to %s\n", configPath)
	fmt.Fprintln(out, "  2. Run 'ifacecheck batch'")

	return nil
}

func runConfigShow(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration sources (in order of precedence):")
	fmt.Fprintln(out)

	// 1. Command line flags
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "   --vyper, --min-vyper-version, --[no-]strict, --[no-]skip-unused, --[no-]disable-color, --format, --config")
	fmt.Fprintln(out)

	// 2. Environment variables
	fmt.Fprintln(out, "2. Environment variables")
	for _, key := range []string{
		"IFACECHECK_VYPER", "IFACECHECK_MIN_VYPER_VERSION", "IFACECHECK_COLOR",
		"IFACECHECK_FORMAT", "IFACECHECK_STRICT", "IFACECHECK_SKIP_UNUSED",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		if value := os.Getenv(key); value != "" {
			fmt.Fprintf(out, "   %s=%s\n", key, value)
		} else {
			fmt.Fprintf(out, "   %s=(not set)\n", key)
		}
	}
	fmt.Fprintln(out)

	// 3. Project config
	fmt.Fprintln(out, "3. Project config (ifacecheck.toml or .ifacecheck.toml)")
	project, configPath, err := loadProjectConfig()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "   (not found)")
		} else {
			fmt.Fprintf(out, "   Error: %v\n", err)
		}
	} else {
		fmt.Fprintf(out, "   Loaded from: %s\n", configPath)
		if project.Vyper != "" {
			fmt.Fprintf(out, "   vyper: %s\n", project.Vyper)
		}
		if project.MinVyperVersion != "" {
			fmt.Fprintf(out, "   min_vyper_version: %s\n", project.MinVyperVersion)
		}
		fmt.Fprintf(out, "   checks: %d\n", len(project.Checks))
	}
	fmt.Fprintln(out)

	cfg := config.Defaults()
	if project != nil {
		project.applyTo(&cfg)
	}
	effective, err := config.LoadWithDefaults(cfg)
	if err != nil {
		return err
	}

	// Effective config
	fmt.Fprintln(out, "Effective configuration:")
	fmt.Fprintf(out, "   Vyper:       %s\n", effective.Compiler.Binary)
	if effective.Compiler.MinVersion != "" {
		fmt.Fprintf(out, "   Min version: %s\n", effective.Compiler.MinVersion)
	}
	fmt.Fprintf(out, "   Strict:      %t\n", effective.Check.Strict)
	fmt.Fprintf(out, "   Skip unused: %t\n", effective.Check.SkipUnused)
	fmt.Fprintf(out, "   Color:       %s\n", effective.Output.Color)
	fmt.Fprintf(out, "   Format:      %s\n", effective.Output.Format)

	return nil
}

// loadProjectConfig loads the project config from the first matching config file.
// Returns the config, the path it was loaded from, and an error.
func loadProjectConfig() (*ProjectConfig, string, error) {
	// If --config flag was provided, use that directly
	if cfgFile != "" {
		cfg, err := loadProjectConfigFromPath(cfgFile)
		if err != nil {
			return nil, cfgFile, err
		}
		return cfg, cfgFile, nil
	}

	// Search for config files in order
	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil {
			cfg, err := loadProjectConfigFromPath(name)
			if err != nil {
				return nil, name, err
			}
			return cfg, name, nil
		}
	}
	return nil, "", os.ErrNotExist
}

// loadProjectConfigFromPath loads a project config from a specific path
func loadProjectConfigFromPath(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ProjectConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	cfg.dir = filepath.Dir(path)

	return &cfg, nil
}

// loadProjectConfigSilent loads the project config, returning nil when it
// is missing or unreadable. Parse failures are reported as a warning.
func loadProjectConfigSilent() *ProjectConfig {
	cfg, _, err := loadProjectConfig()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		// Show actionable errors (parse failures)
		fmt.Fprintf(os.Stderr, "Warning: failed to load project config: %v\n", err)
		return nil
	}
	return cfg
}
