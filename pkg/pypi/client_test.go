package pypi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reqsmith/reqsmith/pkg/cache"
)

const grpcioToolsJSON = `{
	"info": {
		"name": "grpcio-tools",
		"version": "1.26.0",
		"summary": "Protobuf code generator for gRPC",
		"license": "Apache License 2.0",
		"home_page": "https://grpc.io",
		"requires_dist": [
			"protobuf (>=3.5.0.post1)",
			"grpcio (>=1.26.0)",
			"setuptools (>=40.0) ; extra == 'dev'"
		]
	},
	"releases": {
		"1.25.0": [],
		"1.26.0": [],
		"1.26.0rc1": [],
		"not!a!version": []
	}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(backend, time.Hour, srv.URL), srv
}

func TestFetchPackage(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/grpcio-tools/json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(grpcioToolsJSON))
	}))

	info, err := client.FetchPackage(context.Background(), "GRPCIO_TOOLS", false)
	if err != nil {
		t.Fatalf("FetchPackage failed: %v", err)
	}
	if info.Name != "grpcio-tools" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Version != "1.26.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if len(info.Dependencies) != 2 || info.Dependencies[0] != "protobuf" || info.Dependencies[1] != "grpcio" {
		t.Errorf("Dependencies = %v, want [protobuf grpcio]", info.Dependencies)
	}
	// Releases sorted ascending, invalid version dropped.
	want := []string{"1.25.0", "1.26.0rc1", "1.26.0"}
	if len(info.Versions) != len(want) {
		t.Fatalf("Versions = %v, want %v", info.Versions, want)
	}
	for i := range want {
		if info.Versions[i] != want[i] {
			t.Errorf("Versions[%d] = %q, want %q", i, info.Versions[i], want[i])
		}
	}

	// Second fetch is served from cache.
	if _, err := client.FetchPackage(context.Background(), "grpcio-tools", false); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (cache miss)", got)
	}

	// Refresh bypasses the cache.
	if _, err := client.FetchPackage(context.Background(), "grpcio-tools", true); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2 after refresh", got)
	}
}

func TestFetchPackage_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	_, err := client.FetchPackage(context.Background(), "no-such-package", false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchPackage_ServerError(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := client.FetchPackage(ctx, "flaky", false)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
	if hits.Load() < 2 {
		t.Errorf("server hits = %d, want retries on 5xx", hits.Load())
	}
}

func TestLatestVersion(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(grpcioToolsJSON))
	}))
	v, err := client.LatestVersion(context.Background(), "grpcio-tools", false)
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if v.String() != "1.26.0" {
		t.Errorf("LatestVersion = %s, want 1.26.0", v)
	}
}

func TestExtractDeps(t *testing.T) {
	deps := extractDeps([]string{
		"protobuf (>=3.5.0.post1)",
		"Protobuf (>=3.5)", // duplicate after normalization
		"grpcio>=1.26.0",
		"pytest ; extra == 'test'",
	})
	if len(deps) != 2 || deps[0] != "protobuf" || deps[1] != "grpcio" {
		t.Errorf("deps = %v, want [protobuf grpcio]", deps)
	}
}
