package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePyProject(t *testing.T) {
	content := `[project]
name = "widget"
dependencies = [
    "grpcio-tools~=1.26.0",
    "mypy-protobuf==1.10",
]

[project.optional-dependencies]
dev = ["pytest>=7.0"]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ParsePyProject(path)
	if err != nil {
		t.Fatalf("ParsePyProject failed: %v", err)
	}
	if len(m.Requirements) != 3 {
		t.Fatalf("got %d requirements, want 3", len(m.Requirements))
	}
	if r := m.Get("grpcio-tools"); r == nil || r.Constraint() != "~=1.26.0" {
		t.Errorf("grpcio-tools = %+v", r)
	}
	if r := m.Get("pytest"); r == nil || r.Comment != "group: dev" {
		t.Errorf("pytest = %+v", r)
	}
}

func TestParsePyProject_Duplicate(t *testing.T) {
	content := `[project]
name = "widget"
dependencies = ["requests>=2.0", "Requests==1.0"]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParsePyProject(path); err == nil {
		t.Error("expected duplicate error")
	}
}

func TestSupportsFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"requirements.txt", true},
		{"requirements-dev.txt", true},
		{"deps/requirements_test.txt", true},
		{"pyproject.toml", true},
		{"sub/pyproject.toml", true},
		{"poetry.lock", false},
		{"setup.py", false},
	}
	for _, tt := range tests {
		if got := SupportsFile(tt.path); got != tt.want {
			t.Errorf("SupportsFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
