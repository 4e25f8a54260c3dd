package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/reqsmith/reqsmith/pkg/cache"
	"github.com/reqsmith/reqsmith/pkg/httputil"
	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/observability"
	"github.com/reqsmith/reqsmith/pkg/pep440"
)

// DefaultBaseURL is the canonical PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

var (
	// ErrNotFound is returned when the registry has no such package.
	ErrNotFound = errors.New("package not found")
	// ErrNetwork is returned for HTTP failures (timeouts, 5xx responses).
	ErrNetwork = errors.New("network error")
)

var (
	depNameRE = regexp.MustCompile(`^([A-Za-z0-9][-A-Za-z0-9._]*)`)
	markerRE  = regexp.MustCompile(`;\s*(.+)`)
	extraRE   = regexp.MustCompile(`\bextra\s*==`)
)

// PackageInfo holds registry metadata for one package.
//
// Names are normalized per PEP 503. Dependencies lists only runtime
// dependencies; requirements guarded by an "extra ==" marker are
// excluded. Versions holds every release known to the registry,
// ascending per PEP 440.
type PackageInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"` // latest release
	Summary      string   `json:"summary,omitempty"`
	License      string   `json:"license,omitempty"`
	HomePage     string   `json:"home_page,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Versions     []string `json:"versions,omitempty"`
}

// Client talks to a PyPI-compatible JSON API with caching and retries.
// It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
}

// NewClient creates a Client backed by the given cache. A nil backend
// disables caching. An empty baseURL selects [DefaultBaseURL].
func NewClient(backend cache.Cache, ttl time.Duration, baseURL string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   backend,
		ttl:     ttl,
		baseURL: baseURL,
	}
}

// FetchPackage retrieves metadata for pkg, normalizing the name first.
// If refresh is true the cache is bypassed. Returns [ErrNotFound] when
// the registry does not know the package and [ErrNetwork] for transport
// failures.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	name := manifest.NormalizeName(pkg)
	key := "pypi:" + name

	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			var info PackageInfo
			if err := json.Unmarshal(data, &info); err == nil {
				observability.Cache().OnCacheHit(ctx, "pypi")
				return &info, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "pypi")
	}

	var info *PackageInfo
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		info, err = c.fetch(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(info); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
		observability.Cache().OnCacheSet(ctx, "pypi", len(data))
	}
	return info, nil
}

// LatestVersion returns the parsed latest release of pkg.
func (c *Client) LatestVersion(ctx context.Context, pkg string, refresh bool) (*pep440.Version, error) {
	info, err := c.FetchPackage(ctx, pkg, refresh)
	if err != nil {
		return nil, err
	}
	v, err := pep440.Parse(info.Version)
	if err != nil {
		return nil, fmt.Errorf("registry returned unparseable version %q for %s: %w",
			info.Version, pkg, err)
	}
	return v, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*PackageInfo, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path,
		resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)}
	default:
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	var data apiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return &PackageInfo{
		Name:         manifest.NormalizeName(data.Info.Name),
		Version:      data.Info.Version,
		Summary:      data.Info.Summary,
		License:      data.Info.License,
		HomePage:     data.Info.HomePage,
		Dependencies: extractDeps(data.Info.RequiresDist),
		Versions:     sortedVersions(data.Releases),
	}, nil
}

type apiResponse struct {
	Info     apiInfo                    `json:"info"`
	Releases map[string]json.RawMessage `json:"releases"`
}

type apiInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Summary      string   `json:"summary"`
	License      string   `json:"license"`
	HomePage     string   `json:"home_page"`
	RequiresDist []string `json:"requires_dist"`
}

// extractDeps pulls normalized runtime dependency names out of
// requires_dist entries, dropping extras-only requirements.
func extractDeps(requires []string) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, req := range requires {
		if m := markerRE.FindStringSubmatch(req); len(m) > 1 && extraRE.MatchString(m[1]) {
			continue
		}
		m := depNameRE.FindStringSubmatch(req)
		if len(m) < 2 {
			continue
		}
		dep := manifest.NormalizeName(m[1])
		if !seen[dep] {
			seen[dep] = true
			deps = append(deps, dep)
		}
	}
	return deps
}

// sortedVersions returns the release keys in ascending PEP 440 order,
// dropping any the grammar rejects.
func sortedVersions(releases map[string]json.RawMessage) []string {
	type rel struct {
		text   string
		parsed *pep440.Version
	}
	parsed := make([]rel, 0, len(releases))
	for text := range releases {
		if v, err := pep440.Parse(text); err == nil {
			parsed = append(parsed, rel{text, v})
		}
	}
	slices.SortFunc(parsed, func(a, b rel) int { return a.parsed.Compare(b.parsed) })

	out := make([]string, len(parsed))
	for i, r := range parsed {
		out[i] = r.text
	}
	return out
}
