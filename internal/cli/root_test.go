package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/reqsmith/reqsmith/pkg/config"
)

func writeRequirements(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePyProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testConfig builds a config with caching disabled, pointed at indexURL
// when one is given.
func testConfig(indexURL string) *config.Config {
	cfg := config.Default()
	cfg.Cache.Backend = "none"
	if indexURL != "" {
		cfg.Index.URL = indexURL
	}
	return &cfg
}

func TestParseCmd(t *testing.T) {
	path := writeRequirements(t, "# codegen deps\ngrpcio-tools~=1.26.0\nmypy-protobuf==1.10\n")

	cmd := newParseCmd()
	cmd.SetArgs([]string{path, "--json", "-o", filepath.Join(t.TempDir(), "out.json")})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
}

func TestParseCmd_InvalidFile(t *testing.T) {
	path := writeRequirements(t, "this is not a requirement ???\n")

	cmd := newParseCmd()
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for invalid manifest")
	}
}

func TestCheckCmd(t *testing.T) {
	good := writeRequirements(t, "grpcio-tools~=1.26.0\n")
	cmd := newCheckCmd(testConfig(""))
	cmd.SetArgs([]string{good})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("check failed on valid file: %v", err)
	}

	dup := writeRequirements(t, "requests\nRequests==2.0\n")
	cmd = newCheckCmd(testConfig(""))
	cmd.SetArgs([]string{dup})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for duplicate declaration")
	}
}

func TestCheckCmd_LenientSkipsOptions(t *testing.T) {
	path := writeRequirements(t, "-r base.txt\ngrpcio-tools~=1.26.0\n")

	cmd := newCheckCmd(testConfig(""))
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err == nil {
		t.Fatal("strict check should reject option lines")
	}

	cmd = newCheckCmd(testConfig(""))
	cmd.SetArgs([]string{path, "--lenient"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("lenient check failed: %v", err)
	}
}

func TestCheckCmd_PyPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/grpcio-tools/json":
			fmt.Fprint(w, `{"info":{"name":"grpcio-tools","version":"1.26.5"}}`)
		case "/requests/json":
			fmt.Fprint(w, `{"info":{"name":"requests","version":"2.31.0"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	good := writeRequirements(t, "grpcio-tools~=1.26.0\n")
	cmd := newCheckCmd(testConfig(srv.URL))
	cmd.SetArgs([]string{good, "--pypi"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("check --pypi failed on satisfiable file: %v", err)
	}

	stale := writeRequirements(t, "requests>=3.0\n")
	cmd = newCheckCmd(testConfig(srv.URL))
	cmd.SetArgs([]string{stale, "--pypi"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when the latest release fails the constraint")
	}

	ghost := writeRequirements(t, "no-such-pkg==1.0\n")
	cmd = newCheckCmd(testConfig(srv.URL))
	cmd.SetArgs([]string{ghost, "--pypi"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for package missing from the index")
	}
}

func TestFmtCmd_Write(t *testing.T) {
	path := writeRequirements(t, "GRPCIO_TOOLS ~= 1.26.0  # codegen\n")

	cmd := newFmtCmd()
	cmd.SetArgs([]string{path, "--write"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("fmt --write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "grpcio-tools~=1.26.0  # codegen\n"
	if string(got) != want {
		t.Errorf("formatted = %q, want %q", got, want)
	}
}

func TestFmtCmd_Check(t *testing.T) {
	canonical := writeRequirements(t, "grpcio-tools~=1.26.0\n")
	cmd := newFmtCmd()
	cmd.SetArgs([]string{canonical, "--check"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("fmt --check failed on canonical file: %v", err)
	}

	messy := writeRequirements(t, "grpcio-tools ~= 1.26.0\n")
	cmd = newFmtCmd()
	cmd.SetArgs([]string{messy, "--check"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for non-canonical file")
	}
}

func TestFmtCmd_PyProjectNeverRewritten(t *testing.T) {
	source := "[project]\nname = \"demo\"\ndependencies = [\"grpcio-tools~=1.26.0\"]\n"
	path := writePyProject(t, source)

	for _, flag := range []string{"--write", "--check"} {
		cmd := newFmtCmd()
		cmd.SetArgs([]string{path, flag})
		if err := cmd.Execute(); err == nil {
			t.Errorf("fmt %s accepted a pyproject.toml", flag)
		}
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != source {
		t.Errorf("pyproject.toml was modified:\n%s", got)
	}
}

func TestFmtCmd_Idempotent(t *testing.T) {
	path := writeRequirements(t, "Mypy.Protobuf == 1.10\ngrpcio-tools~=1.26.0\n")

	for range 2 {
		cmd := newFmtCmd()
		cmd.SetArgs([]string{path, "--write"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("fmt --write failed: %v", err)
		}
	}

	cmd := newFmtCmd()
	cmd.SetArgs([]string{path, "--check"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("file not canonical after two formats: %v", err)
	}
}

func TestGraphCmd_FormatInference(t *testing.T) {
	tests := []struct {
		opts    graphOpts
		want    string
		wantErr bool
	}{
		{opts: graphOpts{}, want: "json"},
		{opts: graphOpts{output: "deps.svg"}, want: "svg"},
		{opts: graphOpts{output: "deps.png"}, want: "png"},
		{opts: graphOpts{format: "dot", output: "deps.svg"}, want: "dot"},
		{opts: graphOpts{format: "pdf"}, wantErr: true},
		{opts: graphOpts{output: "deps.tiff"}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := tt.opts.resolveFormat()
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolveFormat(%+v) expected error", tt.opts)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolveFormat(%+v) = %q, %v; want %q", tt.opts, got, err, tt.want)
		}
	}
}
