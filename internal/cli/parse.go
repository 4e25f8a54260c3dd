package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	lenient bool   // skip pip option lines instead of rejecting them
	asJSON  bool   // emit JSON instead of the table view
	output  string // output file path (stdout if empty)
}

// newParseCmd creates the parse command. It reads a requirements file and
// prints each requirement with its canonical name and constraint.
func newParseCmd() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <requirements-file>",
		Short: "Read a requirements file and print its requirements",
		Long: `Read a pip requirements file and print each requirement with its
normalized name and canonical constraint expression.

Use "-" to read from stdin.

Examples:
  reqsmith parse requirements.txt
  reqsmith parse requirements.txt --json
  cat requirements.txt | reqsmith parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			m, err := loadManifest(args[0], opts.lenient)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer closeOut() //nolint:errcheck

			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}

			for _, r := range m.Requirements {
				constraint := r.Constraint()
				if constraint == "" {
					constraint = StyleDim.Render("any")
				} else {
					constraint = StyleHighlight.Render(constraint)
				}
				fmt.Fprintf(out, "%s %s\n", StyleValue.Render(r.Name), constraint)
			}
			if out == os.Stdout {
				printNewline()
				if m.Skipped > 0 {
					printDetail("%d requirements · %d lines skipped", len(m.Requirements), m.Skipped)
				} else {
					printDetail("%d requirements", len(m.Requirements))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "skip pip option and URL lines instead of rejecting them")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
