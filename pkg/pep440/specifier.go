package pep440

import (
	"fmt"
	"strings"
)

// Operator is a version comparison operator as used in requirement
// specifiers.
type Operator string

// Comparison operators defined by PEP 440.
const (
	OpCompatible   Operator = "~=" // compatible release (approximate match)
	OpEqual        Operator = "==" // version matching (exact, zero-padded)
	OpNotEqual     Operator = "!=" // version exclusion
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpArbitrary    Operator = "===" // arbitrary string equality
)

// operators in match order: longer operators first so "==" does not
// shadow "===" and "<" does not shadow "<=".
var operators = []Operator{
	OpArbitrary, OpCompatible, OpEqual, OpNotEqual,
	OpLessEqual, OpGreaterEqual, OpLess, OpGreater,
}

// Specifier is a single version constraint clause, e.g. "~=1.26.0".
type Specifier struct {
	Op       Operator
	Version  string // version text as written (may end in ".*" for == and !=)
	wildcard bool
	parsed   *Version // nil for === and wildcard clauses
}

// ParseSpecifier parses a single constraint clause such as "==1.10" or
// ">= 2.0". Whitespace around the operator and version is ignored.
func ParseSpecifier(text string) (*Specifier, error) {
	clause := strings.TrimSpace(text)
	for _, op := range operators {
		if !strings.HasPrefix(clause, string(op)) {
			continue
		}
		verText := strings.TrimSpace(strings.TrimPrefix(clause, string(op)))
		if verText == "" {
			return nil, fmt.Errorf("invalid specifier %q: missing version", text)
		}
		return newSpecifier(op, verText)
	}
	return nil, fmt.Errorf("invalid specifier %q: no comparison operator", text)
}

func newSpecifier(op Operator, verText string) (*Specifier, error) {
	s := &Specifier{Op: op, Version: verText}

	if op == OpArbitrary {
		return s, nil // arbitrary equality takes any string
	}

	if strings.HasSuffix(verText, ".*") {
		if op != OpEqual && op != OpNotEqual {
			return nil, fmt.Errorf("invalid specifier %q%s: wildcard requires == or !=", op, verText)
		}
		s.wildcard = true
		verText = strings.TrimSuffix(verText, ".*")
	}

	v, err := Parse(verText)
	if err != nil {
		return nil, fmt.Errorf("invalid specifier %q%s: %w", op, s.Version, err)
	}
	if op == OpCompatible {
		if len(v.Release) < 2 {
			return nil, fmt.Errorf("invalid specifier ~=%s: requires at least two release segments", s.Version)
		}
		if v.Local != "" {
			return nil, fmt.Errorf("invalid specifier ~=%s: local versions not allowed", s.Version)
		}
	}
	s.parsed = v
	return s, nil
}

// String renders the clause in canonical form with no interior whitespace.
func (s *Specifier) String() string { return string(s.Op) + s.Version }

// Check reports whether v satisfies the constraint clause.
//
// Matching follows the PEP 440 clause semantics alone: ordered clauses
// admit pre-releases of unrelated versions (">=1.0" accepts "2.0a1").
// pip's default pre-release filtering is a candidate-selection step on
// top of the clause, so callers that want it must exclude
// [Version.IsPreRelease] candidates themselves.
func (s *Specifier) Check(v *Version) bool {
	switch s.Op {
	case OpArbitrary:
		return v.Original() == s.Version || v.String() == s.Version
	case OpCompatible:
		// ~=X.Y.Z means >=X.Y.Z together with ==X.Y.*
		if v.Compare(s.parsed) < 0 {
			return false
		}
		prefix := s.parsed.Release[:len(s.parsed.Release)-1]
		return s.parsed.Epoch == v.Epoch && releasePrefixMatch(v.Release, prefix)
	case OpEqual:
		return s.matchEqual(v)
	case OpNotEqual:
		return !s.matchEqual(v)
	case OpLessEqual:
		return stripLocal(v).Compare(s.parsed) <= 0
	case OpGreaterEqual:
		return stripLocal(v).Compare(s.parsed) >= 0
	case OpLess:
		// Exclusive ordering does not pull in pre-releases of the
		// specified version unless the clause itself names one.
		c := stripLocal(v)
		if c.Compare(s.parsed) >= 0 {
			return false
		}
		if s.parsed.Pre == nil && c.Pre != nil && c.BaseVersion() == s.parsed.BaseVersion() {
			return false
		}
		return true
	case OpGreater:
		c := stripLocal(v)
		if c.Compare(s.parsed) <= 0 {
			return false
		}
		if s.parsed.Post == nil && c.Post != nil && c.BaseVersion() == s.parsed.BaseVersion() {
			return false
		}
		return true
	}
	return false
}

func (s *Specifier) matchEqual(v *Version) bool {
	if s.wildcard {
		return s.parsed.Epoch == v.Epoch && releasePrefixMatch(v.Release, s.parsed.Release)
	}
	candidate := v
	if s.parsed.Local == "" {
		candidate = stripLocal(v)
	}
	return candidate.Compare(s.parsed) == 0
}

// releasePrefixMatch reports whether release starts with prefix, with the
// candidate zero-padded as needed (1.1 matches prefix [1,1,0]).
func releasePrefixMatch(release, prefix []int) bool {
	for i, want := range prefix {
		got := 0
		if i < len(release) {
			got = release[i]
		}
		if got != want {
			return false
		}
	}
	return true
}

func stripLocal(v *Version) *Version {
	if v.Local == "" {
		return v
	}
	c := *v
	c.Local = ""
	return &c
}

// SpecifierSet is a conjunction of constraint clauses, as written in a
// requirements manifest ("grpcio-tools~=1.26.0", "foo>=1.0,<2.0").
// An empty set is valid and matches every version.
type SpecifierSet []*Specifier

// ParseSpecifierSet parses a comma-separated list of constraint clauses.
// An empty or all-whitespace input yields an empty set.
func ParseSpecifierSet(text string) (SpecifierSet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var set SpecifierSet
	for _, clause := range strings.Split(text, ",") {
		spec, err := ParseSpecifier(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

// Check reports whether v satisfies every clause in the set.
func (s SpecifierSet) Check(v *Version) bool {
	for _, spec := range s {
		if !spec.Check(v) {
			return false
		}
	}
	return true
}

// String renders the set in canonical form, clauses joined by commas.
func (s SpecifierSet) String() string {
	parts := make([]string, len(s))
	for i, spec := range s {
		parts[i] = spec.String()
	}
	return strings.Join(parts, ",")
}
