package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// fmtOpts holds the command-line flags for the fmt command.
type fmtOpts struct {
	write   bool // rewrite the file in place
	check   bool // exit non-zero if the file is not canonical
	lenient bool
}

// newFmtCmd creates the fmt command. It rewrites a requirements file in
// canonical form: normalized names, no whitespace inside constraints,
// comments preserved.
func newFmtCmd() *cobra.Command {
	var opts fmtOpts

	cmd := &cobra.Command{
		Use:   "fmt <requirements-file>",
		Short: "Rewrite a requirements file in canonical form",
		Long: `Rewrite a pip requirements file in canonical form. Formatting is
idempotent: formatting an already-canonical file changes nothing.

By default the result is printed to stdout. With --write the file is
rewritten in place; with --check nothing is written and the command exits
non-zero if the file is not already canonical.

Examples:
  reqsmith fmt requirements.txt
  reqsmith fmt --write requirements.txt
  reqsmith fmt --check requirements.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := args[0]
			if path == "-" && (opts.write || opts.check) {
				return fmt.Errorf("--write and --check require a file, not stdin")
			}
			// A pyproject.toml can be read but not rewritten: formatting
			// would replace the TOML source with requirements lines.
			if isPyProject(path) && (opts.write || opts.check) {
				return fmt.Errorf("%s is a pyproject.toml; --write and --check only apply to requirements files", path)
			}
			m, err := loadManifest(path, opts.lenient)
			if err != nil {
				return err
			}
			formatted := m.Format()

			switch {
			case opts.check:
				original, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if string(original) != formatted {
					return fmt.Errorf("%s is not canonically formatted", path)
				}
				printSuccess("%s is canonically formatted", path)
				return nil

			case opts.write:
				if err := m.WriteFile(path); err != nil {
					return err
				}
				printSuccess("formatted %s", path)
				printDetail("%d requirements", len(m.Requirements))
				return nil

			default:
				fmt.Print(formatted)
				return nil
			}
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite the file in place")
	cmd.Flags().BoolVar(&opts.check, "check", false, "exit non-zero if the file is not canonical")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "skip pip option and URL lines instead of rejecting them")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}
