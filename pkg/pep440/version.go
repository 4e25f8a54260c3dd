package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRE matches the full PEP 440 version grammar, including the
// alternate spellings ("alpha", "rev", "-1", ...) that normalize away.
var versionRE = regexp.MustCompile(`(?i)^v?` +
	`(?:(\d+)!)?` + // epoch
	`(\d+(?:\.\d+)*)` + // release
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d+)?)?` + // pre
	`(?:(?:-(\d+))|(?:[-_.]?(post|rev|r)[-_.]?(\d+)?))?` + // post
	`(?:[-_.]?(dev)[-_.]?(\d+)?)?` + // dev
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`) // local

// PreRelease is a pre-release segment (alpha, beta, or release candidate).
type PreRelease struct {
	Phase  string // normalized: "a", "b", or "rc"
	Number int
}

// Version is a parsed PEP 440 version identifier.
//
// The zero value is not meaningful; construct versions with [Parse] or
// [MustParse]. Versions are immutable after construction and safe for
// concurrent reads.
type Version struct {
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    *int
	Dev     *int
	Local   string

	original string
}

// Parse parses text as a PEP 440 version identifier.
// Alternate spellings are normalized: "1.0alpha2" parses the same as
// "1.0a2", "1.0-1" the same as "1.0.post1", and a leading "v" is ignored.
func Parse(text string) (*Version, error) {
	trimmed := strings.TrimSpace(text)
	m := versionRE.FindStringSubmatch(strings.ToLower(trimmed))
	if m == nil {
		return nil, fmt.Errorf("invalid version %q", text)
	}

	v := &Version{original: trimmed}

	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: release segment %q", text, part)
		}
		v.Release = append(v.Release, n)
	}
	if m[3] != "" {
		v.Pre = &PreRelease{Phase: normalizePhase(m[3]), Number: atoiDefault(m[4])}
	}
	if m[5] != "" {
		n := atoiDefault(m[5])
		v.Post = &n
	} else if m[6] != "" {
		n := atoiDefault(m[7])
		v.Post = &n
	}
	if m[8] != "" {
		n := atoiDefault(m[9])
		v.Dev = &n
	}
	if m[10] != "" {
		v.Local = normalizeLocal(m[10])
	}

	return v, nil
}

// MustParse is like [Parse] but panics on invalid input.
// Intended for static version literals in tests and initialization.
func MustParse(text string) *Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func normalizePhase(phase string) string {
	switch phase {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default: // c, rc, pre, preview
		return "rc"
	}
}

func normalizeLocal(local string) string {
	return strings.NewReplacer("-", ".", "_", ".").Replace(local)
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// String returns the normalized form of the version
// (e.g., "1.0ALPHA2" renders as "1.0a2").
func (v *Version) String() string {
	var b strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	b.WriteString(releaseString(v.Release))
	if v.Pre != nil {
		fmt.Fprintf(&b, "%s%d", v.Pre.Phase, v.Pre.Number)
	}
	if v.Post != nil {
		fmt.Fprintf(&b, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&b, ".dev%d", *v.Dev)
	}
	if v.Local != "" {
		fmt.Fprintf(&b, "+%s", v.Local)
	}
	return b.String()
}

// Original returns the version text as it appeared in the input,
// whitespace-trimmed but not otherwise normalized.
func (v *Version) Original() string { return v.original }

// IsPreRelease reports whether the version is a pre-release or dev release.
func (v *Version) IsPreRelease() bool { return v.Pre != nil || v.Dev != nil }

// IsPostRelease reports whether the version carries a post-release segment.
func (v *Version) IsPostRelease() bool { return v.Post != nil }

// BaseVersion returns the epoch and release portion without pre, post, dev,
// or local segments (e.g., "2!1.0rc1.post2" -> "2!1.0").
func (v *Version) BaseVersion() string {
	if v.Epoch != 0 {
		return fmt.Sprintf("%d!%s", v.Epoch, releaseString(v.Release))
	}
	return releaseString(v.Release)
}

func releaseString(release []int) string {
	parts := make([]string, len(release))
	for i, n := range release {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare returns -1, 0, or +1 as v orders before, equal to, or after o
// per the PEP 440 total ordering. Trailing zero release segments are
// insignificant: 1.10 equals 1.10.0. Local segments break ties last.
func (v *Version) Compare(o *Version) int {
	if c := cmpInt(v.Epoch, o.Epoch); c != 0 {
		return c
	}
	if c := cmpRelease(v.Release, o.Release); c != 0 {
		return c
	}
	// Within a release: dev < pre < final < post.
	if c := cmpInts(v.phaseKey(), o.phaseKey()); c != 0 {
		return c
	}
	if c := cmpInts(postKey(v.Post), postKey(o.Post)); c != 0 {
		return c
	}
	if c := cmpInts(devKey(v.Dev), devKey(o.Dev)); c != 0 {
		return c
	}
	return cmpLocal(v.Local, o.Local)
}

// Equal reports whether v and o are the same version under PEP 440
// ordering (including local segments).
func (v *Version) Equal(o *Version) bool { return v.Compare(o) == 0 }

// Less reports whether v orders strictly before o.
func (v *Version) Less(o *Version) bool { return v.Compare(o) < 0 }

// phaseKey orders the pre-release segment. A version with only a dev
// segment sorts before any pre-release of the same release; a version
// with no pre-release segment sorts after all of them.
func (v *Version) phaseKey() []int {
	if v.Pre == nil {
		if v.Post == nil && v.Dev != nil {
			return []int{-1} // 1.0.dev1 < 1.0a1
		}
		return []int{1} // final/post > any pre
	}
	return []int{0, phaseRank(v.Pre.Phase), v.Pre.Number}
}

func phaseRank(phase string) int {
	switch phase {
	case "a":
		return 0
	case "b":
		return 1
	default:
		return 2
	}
}

func postKey(post *int) []int {
	if post == nil {
		return []int{-1}
	}
	return []int{0, *post}
}

func devKey(dev *int) []int {
	if dev == nil {
		return []int{1} // non-dev > dev at same level
	}
	return []int{0, *dev}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpInt(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

func cmpRelease(a, b []int) int {
	n := max(len(a), len(b))
	for i := range n {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := cmpInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// cmpLocal compares local version segments: absent < present, numeric
// segments compare numerically and before alphanumeric ones.
func cmpLocal(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aNum := strconv.Atoi(as[i])
		bn, bNum := strconv.Atoi(bs[i])
		switch {
		case aNum == nil && bNum == nil:
			if c := cmpInt(an, bn); c != 0 {
				return c
			}
		case aNum == nil:
			return 1 // numeric > alphanumeric
		case bNum == nil:
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(as), len(bs))
}
