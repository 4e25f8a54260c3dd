// Package cli implements the reqsmith command-line interface.
//
// This package provides commands for parsing pip requirements manifests,
// validating and formatting them, comparing pinned constraints against
// the package index, resolving transitive dependency graphs, and running
// the HTTP API. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Read a requirements file and print its requirements
//   - check: Validate a requirements file
//   - fmt: Rewrite a requirements file in canonical form
//   - outdated: Compare constraints against the latest index releases
//   - graph: Resolve and export the transitive dependency graph
//   - serve: Run the HTTP API
//   - cache: Manage the package metadata cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/reqsmith/reqsmith/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/reqsmith/reqsmith/pkg/cache"
	"github.com/reqsmith/reqsmith/pkg/config"
	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/pypi"
)

// registry bundles the index client with the cache backend behind it,
// so commands can close the backend when they finish.
type registry struct {
	client  *pypi.Client
	backend cache.Cache
}

// newRegistry opens the configured cache backend and wraps it in an
// index client. Callers must Close the returned registry.
func newRegistry(ctx context.Context, cfg config.Config) (*registry, error) {
	backend, err := cache.Open(ctx, cache.Config{
		Backend:  cfg.Cache.Backend,
		Dir:      cfg.Cache.Dir,
		RedisURL: cfg.Cache.RedisURL,
		MongoURL: cfg.Cache.MongoURL,
		MongoDB:  cfg.Cache.MongoDB,
	})
	if err != nil {
		return nil, err
	}
	return &registry{
		client:  pypi.NewClient(backend, cfg.Cache.TTLDuration(), cfg.Index.URL),
		backend: backend,
	}, nil
}

func (r *registry) Close() error { return r.backend.Close() }

// loadManifest parses a requirements file or pyproject.toml, or stdin
// when path is "-".
func loadManifest(path string, lenient bool) (*manifest.Manifest, error) {
	if path == "-" {
		parse := manifest.Parse
		if lenient {
			parse = manifest.ParseLenient
		}
		return parse(os.Stdin)
	}
	if isPyProject(path) {
		return manifest.ParsePyProject(path)
	}
	if lenient {
		return manifest.ParseFileLenient(path)
	}
	return manifest.ParseFile(path)
}

// isPyProject reports whether path names a PEP 621 pyproject.toml.
// Such files are parsed for their [project] dependencies but are never
// rewritten: serialization always produces requirements format.
func isPyProject(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), "pyproject.toml")
}

// openOutput opens path for writing, or returns stdout when path is empty.
// The returned closer is a no-op for stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// defaultTimeout bounds index-bound commands so a wedged registry does
// not hang the terminal forever.
const defaultTimeout = 5 * time.Minute
