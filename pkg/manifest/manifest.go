package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/reqsmith/reqsmith/pkg/pep440"
)

// Requirement is a single dependency declaration from a manifest.
type Requirement struct {
	// Name is the normalized package name (PEP 503: lowercase, runs of
	// ".", "-", "_" collapsed to "-").
	Name string `json:"name"`
	// RawName is the package name exactly as written.
	RawName string `json:"raw_name,omitempty"`
	// Extras are requested optional feature sets, e.g. "requests[socks]".
	Extras []string `json:"extras,omitempty"`
	// Constraints restricts acceptable versions. Empty means any version.
	Constraints pep440.SpecifierSet `json:"-"`
	// Marker is the raw PEP 508 environment marker after ";", if any.
	Marker string `json:"marker,omitempty"`
	// Comment is the trailing rationale comment, without the "#".
	Comment string `json:"comment,omitempty"`
	// Line is the 1-based line number in the source manifest.
	Line int `json:"line,omitempty"`
}

// Constraint returns the canonical constraint expression, e.g. "~=1.26.0".
// Empty when the requirement accepts any version.
func (r *Requirement) Constraint() string { return r.Constraints.String() }

// Satisfied reports whether v satisfies the requirement's constraints.
func (r *Requirement) Satisfied(v *pep440.Version) bool { return r.Constraints.Check(v) }

// String renders the requirement as a canonical manifest line (without
// the trailing comment).
func (r *Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	b.WriteString(r.Constraints.String())
	if r.Marker != "" {
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}

// MarshalJSON includes the canonical constraint expression alongside the
// struct fields, so JSON consumers see "~=1.26.0" rather than the parsed
// clause list.
func (r *Requirement) MarshalJSON() ([]byte, error) {
	type plain Requirement
	return json.Marshal(struct {
		*plain
		Constraint string `json:"constraint,omitempty"`
	}{(*plain)(r), r.Constraint()})
}

// Manifest is an ordered collection of requirements read from a single
// source. Requirements keep their declaration order.
type Manifest struct {
	// Path is the source file path, empty when parsed from a reader.
	Path string `json:"path,omitempty"`
	// Requirements in declaration order.
	Requirements []*Requirement `json:"requirements"`
	// Skipped counts non-declaration lines dropped by lenient parsing.
	Skipped int `json:"skipped,omitempty"`
}

// Get returns the requirement for name (normalized before lookup), or nil.
func (m *Manifest) Get(name string) *Requirement {
	name = NormalizeName(name)
	for _, r := range m.Requirements {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Names returns the normalized package names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Requirements))
	for i, r := range m.Requirements {
		names[i] = r.Name
	}
	return names
}

// ParseError reports a manifest line that is neither blank, a comment,
// nor a valid dependency declaration.
type ParseError struct {
	Path   string // source file, may be empty
	Line   int    // 1-based line number
	Input  string // offending line as read
	Reason string // what was wrong with it
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "manifest"
	}
	return fmt.Sprintf("%s:%d: %s: %q", where, e.Line, e.Reason, e.Input)
}

var normalizeRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a package name per PEP 503: lowercase with
// runs of ".", "-", and "_" replaced by a single "-".
func NormalizeName(name string) string {
	return normalizeRE.ReplaceAllString(strings.ToLower(name), "-")
}
