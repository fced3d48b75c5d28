package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func createBatchCmd(flags *checkFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run every check listed in the project config",
		Long: `Run each [[check]] entry of ifacecheck.toml and print one combined report.

Per-check strict and skip_unused values override the run-wide settings.
DONE is printed once after all checks.

EXAMPLES:
  # Use ifacecheck.toml from the current directory
  ifacecheck batch

  # Use a specific config and fail CI on problems
  ifacecheck batch --config ci/ifacecheck.toml --strict --fail-on-problems
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, path, err := loadProjectConfig()
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("no project config found (run 'ifacecheck config init')")
				}
				return fmt.Errorf("loading %s: %w", path, err)
			}

			targets, err := project.targets()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if len(targets) == 0 {
				return fmt.Errorf("%s has no [[check]] entries", path)
			}

			settings, err := resolveSettings(cmd, flags)
			if err != nil {
				return err
			}
			settings.logger.Debug("running batch", "config", path, "checks", len(targets))

			return runChecks(cmd.Context(), cmd.OutOrStdout(), settings, targets)
		},
	}
}
