package pep440

import (
	"testing"
)

func TestParseSpecifier(t *testing.T) {
	tests := []struct {
		input   string
		wantOp  Operator
		wantVer string
	}{
		{"~=1.26.0", OpCompatible, "1.26.0"},
		{"==1.10", OpEqual, "1.10"},
		{"!=1.5", OpNotEqual, "1.5"},
		{">=2.0", OpGreaterEqual, "2.0"},
		{"<=3.1.4", OpLessEqual, "3.1.4"},
		{"<2", OpLess, "2"},
		{">1.0", OpGreater, "1.0"},
		{"===1.0-custom", OpArbitrary, "1.0-custom"},
		{"== 1.10", OpEqual, "1.10"},
		{" >= 2.0 ", OpGreaterEqual, "2.0"},
		{"==1.1.*", OpEqual, "1.1.*"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := ParseSpecifier(tt.input)
			if err != nil {
				t.Fatalf("ParseSpecifier(%q) error: %v", tt.input, err)
			}
			if s.Op != tt.wantOp {
				t.Errorf("Op = %q, want %q", s.Op, tt.wantOp)
			}
			if s.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", s.Version, tt.wantVer)
			}
		})
	}
}

func TestParseSpecifier_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"1.26.0",       // no operator
		"==",           // no version
		"~=1",          // single release segment
		"~=1.0+local",  // local version with compatible release
		">=1.1.*",      // wildcard only valid for == and !=
		"==not a ver*", // garbage version
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseSpecifier(input); err == nil {
				t.Errorf("ParseSpecifier(%q) succeeded, want error", input)
			}
		})
	}
}

func TestSpecifier_Check(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		// Compatible release: ~=1.26.0 means >=1.26.0, ==1.26.*
		{"~=1.26.0", "1.26.0", true},
		{"~=1.26.0", "1.26.5", true},
		{"~=1.26.0", "1.27.0", false},
		{"~=1.26.0", "1.25.9", false},
		{"~=1.4", "1.9", true},
		{"~=1.4", "2.0", false},

		// Version matching pads trailing zeros.
		{"==1.10", "1.10", true},
		{"==1.10", "1.10.0", true},
		{"==1.10", "1.10.1", false},
		{"==1.10", "1.100", false},

		// Wildcard matching.
		{"==1.1.*", "1.1", true},
		{"==1.1.*", "1.1.9", true},
		{"==1.1.*", "1.2.0", false},
		{"!=1.1.*", "1.2.0", true},
		{"!=1.1.*", "1.1.3", false},

		// Exclusion.
		{"!=1.5", "1.5", false},
		{"!=1.5", "1.5.1", true},

		// Inclusive ordered.
		{">=1.26", "1.26.0", true},
		{">=1.26", "1.25", false},
		{"<=1.26", "1.26.0", true},
		{"<=1.26", "1.26.1", false},

		// Exclusive ordered: no pre-releases of the named version for <,
		// no post-releases of it for >.
		{"<1.7", "1.6.9", true},
		{"<1.7", "1.7rc1", false},
		{"<1.7", "1.6rc1", true},
		{">1.7", "1.7.1", true},
		{">1.7", "1.7.post1", false},
		{">1.7.post1", "1.7.post2", true},

		// Arbitrary equality is plain string comparison.
		{"===1.10", "1.10", true},
		{"===1.10", "1.10.0", false},

		// Local versions are ignored unless the clause names one.
		{"==1.0", "1.0+local", true},
		{"==1.0+local", "1.0+local", true},
		{"==1.0+local", "1.0+other", false},
		{">=1.0", "1.0+local", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"/"+tt.version, func(t *testing.T) {
			s, err := ParseSpecifier(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpecifier(%q) error: %v", tt.spec, err)
			}
			if got := s.Check(MustParse(tt.version)); got != tt.want {
				t.Errorf("Check(%q, %q) = %v, want %v", tt.spec, tt.version, got, tt.want)
			}
		})
	}
}

func TestSpecifier_Check_OrderedAdmitsPreReleases(t *testing.T) {
	// Ordered clauses do no pre-release filtering of their own; callers
	// that want pip's default behavior screen with IsPreRelease.
	s, err := ParseSpecifier(">=1.0")
	if err != nil {
		t.Fatal(err)
	}
	v := MustParse("2.0a1")
	if !s.Check(v) {
		t.Error(">=1.0 should admit 2.0a1")
	}
	if !v.IsPreRelease() {
		t.Error("2.0a1 should report IsPreRelease for caller-side filtering")
	}
}

func TestParseSpecifierSet(t *testing.T) {
	set, err := ParseSpecifierSet(">=1.26, <2.0, !=1.30.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 3 {
		t.Fatalf("len = %d, want 3", len(set))
	}
	if got := set.String(); got != ">=1.26,<2.0,!=1.30.1" {
		t.Errorf("String() = %q", got)
	}

	tests := []struct {
		version string
		want    bool
	}{
		{"1.26.0", true},
		{"1.30.0", true},
		{"1.30.1", false},
		{"2.0", false},
		{"1.25", false},
	}
	for _, tt := range tests {
		if got := set.Check(MustParse(tt.version)); got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestParseSpecifierSet_Empty(t *testing.T) {
	set, err := ParseSpecifierSet("  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 0 {
		t.Fatalf("len = %d, want 0", len(set))
	}
	if !set.Check(MustParse("0.0.1")) {
		t.Error("empty set should match any version")
	}
}

func TestParseSpecifierSet_Invalid(t *testing.T) {
	if _, err := ParseSpecifierSet(">=1.0,bogus"); err == nil {
		t.Error("expected error for invalid clause")
	}
}
