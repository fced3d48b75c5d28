package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

// ExitError carries a process exit status for a failure whose message was
// already written to the console.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit status.
// The second result reports whether a message still needs to be printed.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, false
	}
	return 1, true
}

// Execute runs the CLI
func Execute(ctx context.Context, version string) error {
	return newRootCmd(version).ExecuteContext(ctx)
}

func newRootCmd(version string) *cobra.Command {
	flags := &checkFlags{}

	rootCmd := &cobra.Command{
		Use:   "ifacecheck <called.vy> <caller.vy> <InterfaceName>",
		Short: "Check a Vyper interface declaration against the called contract",
		Long: `ifacecheck compares an interface block declared in a caller contract with the
external interface the Vyper compiler reports for the called contract.

Every function declared in the caller's interface must exist in the called
contract. Declarations that are never invoked as ".name(" in the rest of the
caller contract are reported as unused.

EXAMPLES:
  # Check the Vault interface declared in Strategy.vy
  ifacecheck contracts/Vault.vy contracts/Strategy.vy Vault

  # Only report confirmed problems, e.g. in CI
  ifacecheck contracts/Vault.vy contracts/Strategy.vy Vault --strict --fail-on-problems

  # Run every check listed in ifacecheck.toml
  ifacecheck batch
`,
		Version:       version,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd, flags)
			if err != nil {
				return err
			}
			target := checkTarget{
				CalledPath: args[0],
				CallerPath: args[1],
				Interface:  args[2],
			}
			return runChecks(cmd.Context(), cmd.OutOrStdout(), settings, []checkTarget{target})
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "project config file (default: ifacecheck.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL or warn)")
	flags.register(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(createBatchCmd(flags))
	rootCmd.AddCommand(createConfigCmd())
	rootCmd.AddCommand(createCompilerCmd(flags))

	return rootCmd
}
