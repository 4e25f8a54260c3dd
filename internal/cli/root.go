package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/buildinfo"
	"github.com/reqsmith/reqsmith/pkg/config"
)

// Execute runs the reqsmith CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)
	cfg := config.Default()

	root := &cobra.Command{
		Use:          "reqsmith",
		Short:        "reqsmith inspects and maintains pip requirements files",
		Long:         `reqsmith is a CLI tool for working with pip requirements manifests: parsing and validating them, rewriting them in canonical form, and comparing their constraints against the package index.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/reqsmith/config.toml)")

	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd(&cfg))
	root.AddCommand(newFmtCmd())
	root.AddCommand(newOutdatedCmd(&cfg))
	root.AddCommand(newGraphCmd(&cfg))
	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newCacheCmd(&cfg))
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
