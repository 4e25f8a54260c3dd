package manifest

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// pyproject mirrors the PEP 621 [project] table, limited to the fields
// needed for dependency extraction.
type pyproject struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// ParsePyProject extracts the [project] dependencies of a pyproject.toml
// file as a Manifest. Each dependency string follows the same grammar as
// a requirements line. Optional dependency groups are annotated with a
// "group" comment so they survive re-serialization.
func ParsePyProject(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pp pyproject
	if err := toml.Unmarshal(data, &pp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	m := &Manifest{Path: path}
	seen := make(map[string]bool)

	add := func(decl, group string) error {
		req, reason := parseLine(decl)
		if req == nil {
			return &ParseError{Path: path, Input: decl, Reason: reason}
		}
		if seen[req.Name] {
			return &ParseError{Path: path, Input: decl,
				Reason: "duplicate package " + req.Name}
		}
		seen[req.Name] = true
		if group != "" {
			req.Comment = "group: " + group
		}
		m.Requirements = append(m.Requirements, req)
		return nil
	}

	for _, decl := range pp.Project.Dependencies {
		if err := add(decl, ""); err != nil {
			return nil, err
		}
	}
	for _, group := range slices.Sorted(maps.Keys(pp.Project.OptionalDependencies)) {
		for _, decl := range pp.Project.OptionalDependencies[group] {
			if err := add(decl, group); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// SupportsFile reports whether path looks like a manifest this package
// can read: requirements*.txt or pyproject.toml.
func SupportsFile(path string) bool {
	name := strings.ToLower(path)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if name == "pyproject.toml" {
		return true
	}
	return strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt")
}
