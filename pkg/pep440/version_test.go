package pep440

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string // normalized form
	}{
		{"1.26.0", "1.26.0"},
		{"1.10", "1.10"},
		{"v1.2.3", "1.2.3"},
		{"2!1.0", "2!1.0"},
		{"1.0a1", "1.0a1"},
		{"1.0ALPHA2", "1.0a2"},
		{"1.0beta3", "1.0b3"},
		{"1.0pre4", "1.0rc4"},
		{"1.0c2", "1.0rc2"},
		{"1.0.post2", "1.0.post2"},
		{"1.0-2", "1.0.post2"},
		{"1.0rev3", "1.0.post3"},
		{"1.0.dev5", "1.0.dev5"},
		{"1.0dev", "1.0.dev0"},
		{"1.0+abc.5", "1.0+abc.5"},
		{"1.0+ubuntu-1", "1.0+ubuntu.1"},
		{" 1.26.0 ", "1.26.0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1.0.x", "1..0", "==1.0", "1.0 2.0"} {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", input)
			}
		})
	}
}

func TestParse_Fields(t *testing.T) {
	v, err := Parse("2!1.26.0rc1.post2.dev3+local.4")
	if err != nil {
		t.Fatal(err)
	}
	if v.Epoch != 2 {
		t.Errorf("Epoch = %d, want 2", v.Epoch)
	}
	if len(v.Release) != 3 || v.Release[0] != 1 || v.Release[1] != 26 || v.Release[2] != 0 {
		t.Errorf("Release = %v, want [1 26 0]", v.Release)
	}
	if v.Pre == nil || v.Pre.Phase != "rc" || v.Pre.Number != 1 {
		t.Errorf("Pre = %+v, want rc1", v.Pre)
	}
	if v.Post == nil || *v.Post != 2 {
		t.Errorf("Post = %v, want 2", v.Post)
	}
	if v.Dev == nil || *v.Dev != 3 {
		t.Errorf("Dev = %v, want 3", v.Dev)
	}
	if v.Local != "local.4" {
		t.Errorf("Local = %q, want %q", v.Local, "local.4")
	}
	if got := v.BaseVersion(); got != "2!1.26.0" {
		t.Errorf("BaseVersion() = %q, want %q", got, "2!1.26.0")
	}
}

func TestCompare_Ordering(t *testing.T) {
	// Ascending per PEP 440.
	ordered := []string{
		"0.9",
		"1.0.dev1",
		"1.0a1",
		"1.0a2.dev1",
		"1.0a2",
		"1.0b1",
		"1.0rc1",
		"1.0",
		"1.0+abc",
		"1.0.post1.dev1",
		"1.0.post1",
		"1.1.dev1",
		"1.1",
		"1.10",
		"2!0.1",
	}

	for i := 0; i < len(ordered)-1; i++ {
		a, b := MustParse(ordered[i]), MustParse(ordered[i+1])
		if !a.Less(b) {
			t.Errorf("expected %s < %s", ordered[i], ordered[i+1])
		}
		if b.Less(a) {
			t.Errorf("expected %s not < %s", ordered[i+1], ordered[i])
		}
	}
}

func TestCompare_TrailingZeros(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.10", "1.10.0", 0},
		{"1.10.0", "1.10", 0},
		{"1.0", "1.0.0.0", 0},
		{"1.10", "1.10.1", -1},
		{"1.26.0", "1.26", 0},
	}
	for _, tt := range tests {
		if got := MustParse(tt.a).Compare(MustParse(tt.b)); got != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVersion_Predicates(t *testing.T) {
	if !MustParse("1.0rc1").IsPreRelease() {
		t.Error("1.0rc1 should be a pre-release")
	}
	if !MustParse("1.0.dev1").IsPreRelease() {
		t.Error("1.0.dev1 should be a pre-release")
	}
	if MustParse("1.0.post1").IsPreRelease() {
		t.Error("1.0.post1 should not be a pre-release")
	}
	if !MustParse("1.0.post1").IsPostRelease() {
		t.Error("1.0.post1 should be a post-release")
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on invalid input")
		}
	}()
	MustParse("not-a-version")
}
