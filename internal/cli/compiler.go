package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pendergraft/ifacecheck/internal/validation"
)

func createCompilerCmd(flags *checkFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compiler",
		Short: "Show the compiler used to extract external interfaces",
		Long: `Show which Vyper executable ifacecheck will run and the version it reports.

Without --vyper, IFACECHECK_VYPER or a project 'vyper' setting, the compiler
is looked up on PATH.

EXAMPLES:
  ifacecheck compiler
  ifacecheck compiler --vyper ./venv/bin/vyper --min-vyper-version 0.3.7
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd, flags)
			if err != nil {
				return err
			}
			c, err := selectCompiler(newRegistry(s), s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			found, err := c.Detect()
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s not found (set --vyper or IFACECHECK_VYPER)", c.Binary())
			}

			version, err := c.Version(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Compiler: %s\n", c.DisplayName())
			fmt.Fprintf(out, "Binary:   %s\n", c.Binary())
			fmt.Fprintf(out, "Version:  %s\n", version)
			if validation.IsPrerelease(version) {
				fmt.Fprintln(out, "          (prerelease)")
			}

			if s.minVersion != "" {
				if err := validation.CheckMinimumVersion(version, s.minVersion); err != nil {
					return err
				}
				fmt.Fprintf(out, "Minimum:  %s (ok)\n", s.minVersion)
			}
			return nil
		},
	}

	return cmd
}
