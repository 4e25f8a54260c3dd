package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/config"
	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/pypi"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	lenient bool
	pypi    bool // also verify every package against the index
	refresh bool // bypass the metadata cache
}

// newCheckCmd creates the check command. It validates a requirements file
// and reports the first problem with its line number. With --pypi every
// package is additionally checked against the index: it must exist, and
// its latest release must satisfy the declared constraint.
func newCheckCmd(cfg *config.Config) *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check <requirements-file>",
		Short: "Validate a requirements file",
		Long: `Validate a pip requirements file: every line must be blank, a comment,
or a dependency declaration with a well-formed version constraint, and no
package may be declared twice.

With --pypi, every package is also checked against the package index:
it must exist, and its latest release must satisfy the declared
constraint.

Exits non-zero when the file does not validate.

Examples:
  reqsmith check requirements.txt
  reqsmith check --lenient requirements.txt
  reqsmith check --pypi requirements.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			m, err := loadManifest(args[0], opts.lenient)
			if err != nil {
				var pe *manifest.ParseError
				if errors.As(err, &pe) {
					printError("line %d: %s", pe.Line, pe.Reason)
					printDetail("%s", pe.Input)
					return fmt.Errorf("%s does not validate", args[0])
				}
				return err
			}

			if opts.pypi {
				if err := checkIndex(c.Context(), *cfg, m, opts.refresh); err != nil {
					return err
				}
			}

			printSuccess("%s is valid", args[0])
			if m.Skipped > 0 {
				printDetail("%d requirements · %d non-declaration lines skipped", len(m.Requirements), m.Skipped)
			} else {
				printDetail("%d requirements", len(m.Requirements))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "skip pip option and URL lines instead of rejecting them")
	cmd.Flags().BoolVar(&opts.pypi, "pypi", false, "verify existence and satisfiability against the package index")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

// checkIndex verifies every requirement against the package index.
// Findings are printed per package so one bad entry does not hide the
// rest; any finding fails the check.
func checkIndex(ctx context.Context, cfg config.Config, m *manifest.Manifest, refresh bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	reg, err := newRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer reg.Close() //nolint:errcheck

	rows, err := fetchLatest(ctx, reg, m, refresh)
	if err != nil {
		return err
	}

	findings := 0
	for _, row := range rows {
		switch {
		case errors.Is(row.err, pypi.ErrNotFound):
			findings++
			printError("%s: not on the index", row.req.Name)
		case row.err != nil:
			findings++
			printError("%s: %v", row.req.Name, row.err)
		case !row.satisfied():
			findings++
			printError("%s: latest release %s does not satisfy %s",
				row.req.Name, row.latest, row.req.Constraint())
		}
	}
	if findings > 0 {
		return fmt.Errorf("%d of %d packages fail against the index", findings, len(rows))
	}
	return nil
}
