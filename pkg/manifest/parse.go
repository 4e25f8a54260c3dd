package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/reqsmith/reqsmith/pkg/pep440"
)

// requirementRE splits a declaration into name, optional extras, and the
// remainder (constraints). Names follow PEP 508: alphanumeric with
// interior ".", "-", "_".
var requirementRE = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(\[[^\]]*\])?\s*(.*)$`)

// Mode selects how non-declaration lines are handled.
type Mode int

const (
	// Strict rejects any line that is not blank, a comment, or a
	// dependency declaration.
	Strict Mode = iota
	// Lenient skips pip option lines ("-r", "-e", "--hash", ...) and URL
	// requirements, counting them in [Manifest.Skipped].
	Lenient
)

// ParseFile reads and parses the manifest at path in strict mode.
func ParseFile(path string) (*Manifest, error) {
	return parseFileMode(path, Strict)
}

// ParseFileLenient reads and parses the manifest at path, skipping lines
// that are not dependency declarations.
func ParseFileLenient(path string) (*Manifest, error) {
	return parseFileMode(path, Lenient)
}

func parseFileMode(path string, mode Mode) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := parse(f, path, mode)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse reads a manifest from r in strict mode: every line must be blank,
// a "#" comment, or a dependency declaration.
func Parse(r io.Reader) (*Manifest, error) {
	return parse(r, "", Strict)
}

// ParseLenient reads a manifest from r, skipping non-declaration lines.
func ParseLenient(r io.Reader) (*Manifest, error) {
	return parse(r, "", Lenient)
}

func parse(r io.Reader, path string, mode Mode) (*Manifest, error) {
	m := &Manifest{}
	seen := make(map[string]int) // normalized name -> line

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if isOptionOrURL(line) {
			if mode == Lenient {
				m.Skipped++
				continue
			}
			return nil, &ParseError{Path: path, Line: lineno, Input: line,
				Reason: "not a dependency declaration"}
		}

		req, reason := parseLine(line)
		if req == nil {
			return nil, &ParseError{Path: path, Line: lineno, Input: line, Reason: reason}
		}
		req.Line = lineno

		if prev, dup := seen[req.Name]; dup {
			return nil, &ParseError{Path: path, Line: lineno, Input: line,
				Reason: fmt.Sprintf("duplicate package %s (first declared on line %d)", req.Name, prev)}
		}
		seen[req.Name] = lineno
		m.Requirements = append(m.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// isOptionOrURL reports whether the line is a pip option ("-r", "-e",
// "--index-url", ...) or a direct URL/VCS requirement. These are valid
// for pip but are not (name, constraint) declarations.
func isOptionOrURL(line string) bool {
	return strings.HasPrefix(line, "-") ||
		strings.Contains(line, "://") ||
		strings.HasPrefix(line, "git+") ||
		strings.HasPrefix(line, "hg+") ||
		strings.HasPrefix(line, "svn+") ||
		strings.HasPrefix(line, "bzr+")
}

// parseLine parses a single dependency declaration. It returns nil and a
// reason when the line does not parse.
func parseLine(line string) (*Requirement, string) {
	decl, comment := splitComment(line)
	decl, marker := splitMarker(decl)

	groups := requirementRE.FindStringSubmatch(decl)
	if groups == nil || groups[1] == "" {
		return nil, "invalid package name"
	}
	rawName, extrasText, specText := groups[1], groups[2], strings.TrimSpace(groups[3])

	specs, err := pep440.ParseSpecifierSet(specText)
	if err != nil {
		return nil, err.Error()
	}

	req := &Requirement{
		Name:        NormalizeName(rawName),
		RawName:     rawName,
		Constraints: specs,
		Marker:      marker,
		Comment:     comment,
	}
	if extrasText != "" {
		extras, reason := parseExtras(extrasText)
		if reason != "" {
			return nil, reason
		}
		req.Extras = extras
	}
	return req, ""
}

// splitComment separates a trailing comment from the declaration. A "#"
// opens a comment at the start of the line or after whitespace, matching
// pip's reading of requirement lines.
func splitComment(line string) (decl, comment string) {
	for i, c := range line {
		if c == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
		}
	}
	return strings.TrimSpace(line), ""
}

func splitMarker(decl string) (rest, marker string) {
	if i := strings.Index(decl, ";"); i >= 0 {
		return strings.TrimSpace(decl[:i]), strings.TrimSpace(decl[i+1:])
	}
	return decl, ""
}

func parseExtras(text string) ([]string, string) {
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "["), "]"))
	if inner == "" {
		return nil, "empty extras list"
	}
	var extras []string
	for _, e := range strings.Split(inner, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			return nil, "empty extra name"
		}
		extras = append(extras, NormalizeName(e))
	}
	return extras, ""
}
