package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/config"
	"github.com/reqsmith/reqsmith/pkg/depgraph"
	"github.com/reqsmith/reqsmith/pkg/resolve"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	lenient  bool
	refresh  bool
	maxDepth int
	maxNodes int
	format   string // json, dot, svg, png (inferred from --output extension when empty)
	output   string
}

// newGraphCmd creates the graph command. It resolves the transitive
// dependency graph of a requirements file through the package index and
// exports it as JSON, DOT, SVG, or PNG.
func newGraphCmd(cfg *config.Config) *cobra.Command {
	opts := graphOpts{maxDepth: resolve.DefaultMaxDepth, maxNodes: resolve.DefaultMaxNodes}

	cmd := &cobra.Command{
		Use:   "graph <requirements-file>",
		Short: "Resolve and export the transitive dependency graph",
		Long: `Resolve the transitive dependency graph of a requirements file
through the package index and export it.

The format is inferred from the --output extension (.json, .dot, .svg,
.png) and defaults to JSON on stdout.

Examples:
  reqsmith graph requirements.txt
  reqsmith graph requirements.txt -o deps.svg
  reqsmith graph requirements.txt --format dot --max-depth 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			m, err := loadManifest(args[0], opts.lenient)
			if err != nil {
				return err
			}

			format, err := opts.resolveFormat()
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

			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %d requirements...", len(m.Requirements)))
			spinner.Start()
			g, err := resolve.Manifest(ctx, reg.client, m, resolve.Options{
				MaxDepth: opts.maxDepth,
				MaxNodes: opts.maxNodes,
				Refresh:  opts.refresh,
				Logger:   func(msg string, args ...any) { logger.Warnf(msg, args...) },
			})
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %d packages", g.NodeCount()))

			if err := writeGraph(ctx, g, format, opts.output); err != nil {
				return err
			}
			if opts.output != "" {
				printSuccess("wrote %s", opts.output)
				printStats(g.NodeCount(), g.EdgeCount(), false)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "skip pip option and URL lines instead of rejecting them")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", opts.maxDepth, "maximum dependency depth")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", opts.maxNodes, "maximum packages to fetch")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, dot, svg, or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// resolveFormat picks the export format from --format, falling back to
// the output file extension, then to JSON.
func (o *graphOpts) resolveFormat() (string, error) {
	format := o.format
	if format == "" && o.output != "" {
		format = strings.TrimPrefix(filepath.Ext(o.output), ".")
	}
	if format == "" {
		format = "json"
	}
	switch format {
	case "json", "dot", "svg", "png":
		return format, nil
	}
	return "", fmt.Errorf("unsupported format %q (want json, dot, svg, or png)", format)
}

func writeGraph(ctx context.Context, g *depgraph.Graph, format, output string) error {
	out, closeOut, err := openOutput(output)
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck

	switch format {
	case "json":
		return depgraph.WriteJSON(g, out)
	case "dot":
		_, err := fmt.Fprint(out, depgraph.ToDOT(g))
		return err
	case "svg":
		data, err := depgraph.RenderSVG(ctx, g)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "png":
		data, err := depgraph.RenderPNG(ctx, g)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	return fmt.Errorf("unsupported format %q", format)
}
