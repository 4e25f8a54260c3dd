package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/config"
	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/pep440"
)

// outdatedOpts holds the command-line flags for the outdated command.
type outdatedOpts struct {
	lenient bool
	refresh bool // bypass the metadata cache
	all     bool // show up-to-date packages too
}

// outdatedRow is one package's comparison against the index.
type outdatedRow struct {
	req    *manifest.Requirement
	latest *pep440.Version
	err    error
}

func (r outdatedRow) satisfied() bool {
	return r.err == nil && r.req.Satisfied(r.latest)
}

// newOutdatedCmd creates the outdated command. It fetches the latest
// release of every requirement from the index and reports which
// constraints the latest release no longer satisfies.
func newOutdatedCmd(cfg *config.Config) *cobra.Command {
	var opts outdatedOpts

	cmd := &cobra.Command{
		Use:   "outdated <requirements-file>",
		Short: "Compare constraints against the latest index releases",
		Long: `Fetch the latest release of every requirement from the package index
and report which constraints the latest release no longer satisfies.

Examples:
  reqsmith outdated requirements.txt
  reqsmith outdated --all --refresh requirements.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			m, err := loadManifest(args[0], opts.lenient)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
			defer cancel()

			reg, err := newRegistry(ctx, *cfg)
			if err != nil {
				return err
			}
			defer reg.Close() //nolint:errcheck

			rows, err := fetchLatest(ctx, reg, m, opts.refresh)
			if err != nil {
				return err
			}
			return printOutdated(rows, opts.all)
		},
	}

	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "skip pip option and URL lines instead of rejecting them")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "show up-to-date packages too")

	return cmd
}

// fetchLatest queries the index for every requirement sequentially; a
// spinner shows progress. Lookup failures are recorded per row so one
// missing package does not hide the rest of the report.
func fetchLatest(ctx context.Context, reg *registry, m *manifest.Manifest, refresh bool) ([]outdatedRow, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Checking %d packages...", len(m.Requirements)))
	spinner.Start()
	defer spinner.Stop()

	rows := make([]outdatedRow, 0, len(m.Requirements))
	for _, req := range m.Requirements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		latest, err := reg.client.LatestVersion(ctx, req.Name, refresh)
		rows = append(rows, outdatedRow{req: req, latest: latest, err: err})
	}
	return rows, nil
}

func printOutdated(rows []outdatedRow, showAll bool) error {
	stale := 0
	for _, row := range rows {
		switch {
		case row.err != nil:
			printWarning("%s: %v", row.req.Name, row.err)
		case !row.satisfied():
			stale++
			constraint := row.req.Constraint()
			if constraint == "" {
				constraint = "any"
			}
			fmt.Println(styleIconWarning.Render(iconWarning) + " " +
				StyleValue.Render(row.req.Name) + " " +
				StyleDim.Render(constraint) + " " +
				StyleDim.Render(iconArrow) + " " +
				StyleHighlight.Render(row.latest.String()))
		case showAll:
			fmt.Println(styleIconSuccess.Render(iconSuccess) + " " +
				StyleValue.Render(row.req.Name) + " " +
				StyleDim.Render(row.latest.String()))
		}
	}

	printNewline()
	if stale == 0 {
		printSuccess("all %d constraints admit the latest release", len(rows))
		return nil
	}
	return fmt.Errorf("%d of %d constraints exclude the latest release", stale, len(rows))
}
