// Package pkg provides the core libraries for reqsmith requirements tooling.
//
// # Overview
//
// reqsmith works with pip requirements manifests: parsing and validating
// them, comparing their constraints against the package index, and
// resolving transitive dependency graphs. The pkg directory is organized
// into these areas:
//
//  1. [manifest] - Requirements file parsing, validation, and canonical formatting
//  2. [pep440] - Version and specifier grammar (parsing, ordering, matching)
//  3. [pypi] - PyPI JSON API client with caching and retries
//  4. [resolve] - Concurrent transitive dependency crawler
//  5. [depgraph] - Dependency graph model and JSON/DOT/SVG/PNG export
//  6. [cache] - Pluggable metadata cache (file, Redis, MongoDB)
//  7. [config] - TOML configuration
//  8. [errors] - Structured error codes
//  9. [observability] - Optional metrics/tracing hooks
//
// # Architecture
//
// The typical data flow:
//
//	requirements.txt
//	         ↓
//	    [manifest] package (parse declarations)
//	         ↓
//	    [resolve] package (crawl the index via [pypi])
//	         ↓
//	    [depgraph] package (graph structure + export)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Parse a manifest and check a version against its constraints:
//
//	import (
//	    "github.com/reqsmith/reqsmith/pkg/manifest"
//	    "github.com/reqsmith/reqsmith/pkg/pep440"
//	)
//
//	m, err := manifest.ParseFile("requirements.txt")
//	if err != nil {
//	    return err
//	}
//	v := pep440.MustParse("1.26.0")
//	for _, req := range m.Requirements {
//	    fmt.Println(req.Name, req.Constraint(), req.Satisfied(v))
//	}
//
// Resolve the transitive dependency graph:
//
//	backend, _ := cache.Open(ctx, cache.Config{Backend: "file"})
//	client := pypi.NewClient(backend, 24*time.Hour, "")
//	g, err := resolve.Manifest(ctx, client, m, resolve.Options{})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/pep440/...       # Specific package
//
// [manifest]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/manifest
// [pep440]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/pep440
// [pypi]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/pypi
// [resolve]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/resolve
// [depgraph]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/depgraph
// [cache]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/cache
// [config]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/config
// [errors]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/errors
// [observability]: https://pkg.go.dev/github.com/reqsmith/reqsmith/pkg/observability
package pkg
