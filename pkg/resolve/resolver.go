// Package resolve crawls the transitive dependencies of a manifest
// through a package registry and assembles them into a graph.
package resolve

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/reqsmith/reqsmith/pkg/depgraph"
	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/pypi"
)

const workers = 10

// Defaults for crawl limits.
const (
	DefaultMaxDepth = 10
	DefaultMaxNodes = 5000
)

// Fetcher retrieves package metadata from a registry.
// *pypi.Client satisfies this interface.
type Fetcher interface {
	FetchPackage(ctx context.Context, name string, refresh bool) (*pypi.PackageInfo, error)
}

// Options configures the crawl.
type Options struct {
	MaxDepth int                  // maximum dependency depth (default: 10)
	MaxNodes int                  // maximum packages to fetch (default: 5000)
	Refresh  bool                 // bypass the registry cache
	Logger   func(string, ...any) // warning callback (optional)
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Manifest crawls every requirement of m and its transitive dependencies,
// returning a graph rooted at [depgraph.Root]. Packages that fail to
// fetch stay in the graph as leaves and are reported through the logger;
// only context cancellation aborts the crawl.
func Manifest(ctx context.Context, f Fetcher, m *manifest.Manifest, opts Options) (*depgraph.Graph, error) {
	c := &crawler{
		ctx:     ctx,
		opts:    opts.withDefaults(),
		fetch:   f.FetchPackage,
		g:       depgraph.New(),
		meta:    make(map[string]depgraph.Metadata),
		visited: make(map[string]bool),
		jobs:    make(chan job, workers*2),
		results: make(chan result, workers*2),
	}

	_ = c.g.AddNode(depgraph.Node{ID: depgraph.Root, Meta: depgraph.Metadata{"virtual": true}})
	for _, r := range m.Requirements {
		_ = c.g.AddNode(depgraph.Node{ID: r.Name})
		_ = c.g.AddEdge(depgraph.Edge{From: depgraph.Root, To: r.Name})
		// Recorded on the node so exports show what the manifest asked for.
		if constraint := r.Constraint(); constraint != "" {
			c.meta[r.Name] = depgraph.Metadata{"constraint": constraint}
		}
	}

	return c.run(m)
}

type crawler struct {
	ctx   context.Context
	opts  Options
	fetch func(context.Context, string, bool) (*pypi.PackageInfo, error)

	g    *depgraph.Graph
	meta map[string]depgraph.Metadata

	jobs    chan job
	results chan result
	wg      sync.WaitGroup

	mu        sync.Mutex
	visited   map[string]bool
	pending   int64
	nodeCount int32
}

type job struct {
	name  string
	depth int
}

type result struct {
	job
	pkg *pypi.PackageInfo
	err error
}

func (c *crawler) run(m *manifest.Manifest) (*depgraph.Graph, error) {
	for range workers {
		c.wg.Add(1)
		go c.worker()
	}

	queued := false
	for _, r := range m.Requirements {
		if c.enqueue(job{name: r.Name, depth: 1}) {
			queued = true
		}
	}
	if queued {
		if err := c.collect(); err != nil {
			// Workers and producers unwind through ctx.Done.
			c.wg.Wait()
			return nil, err
		}
	}

	close(c.jobs)
	c.wg.Wait()
	c.applyMeta()

	return c.g, nil
}

func (c *crawler) worker() {
	defer c.wg.Done()
	for {
		select {
		case j, ok := <-c.jobs:
			if !ok {
				return
			}
			pkg, err := c.fetch(c.ctx, j.name, c.opts.Refresh)
			select {
			case c.results <- result{job: j, pkg: pkg, err: err}:
			case <-c.ctx.Done():
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *crawler) enqueue(j job) bool {
	c.mu.Lock()
	if c.visited[j.name] {
		c.mu.Unlock()
		return false
	}
	c.visited[j.name] = true
	c.mu.Unlock()

	atomic.AddInt64(&c.pending, 1)

	go func() {
		select {
		case c.jobs <- j:
		case <-c.ctx.Done():
		}
	}()
	return true
}

func (c *crawler) collect() error {
	for {
		select {
		case r := <-c.results:
			c.handle(r)
			if atomic.AddInt64(&c.pending, -1) == 0 {
				return nil
			}
		case <-c.ctx.Done():
			return c.ctx.Err()
		}
	}
}

func (c *crawler) handle(r result) {
	if r.err != nil {
		// Keep the package as a leaf; the manifest names it even if the
		// registry cannot describe it right now.
		c.opts.Logger("fetch failed: %s: %v", r.name, r.err)
		return
	}

	_ = c.g.AddNode(depgraph.Node{ID: r.name})
	atomic.AddInt32(&c.nodeCount, 1)

	c.mu.Lock()
	meta := c.meta[r.name]
	if meta == nil {
		meta = make(depgraph.Metadata)
		c.meta[r.name] = meta
	}
	meta["version"] = r.pkg.Version
	if r.pkg.Summary != "" {
		meta["summary"] = r.pkg.Summary
	}
	if r.pkg.License != "" {
		meta["license"] = r.pkg.License
	}
	c.mu.Unlock()

	c.enqueueDeps(r)
}

func (c *crawler) enqueueDeps(r result) {
	next := r.depth + 1
	count := atomic.LoadInt32(&c.nodeCount)

	for _, dep := range r.pkg.Dependencies {
		// Dependencies always land in the graph; crawling past them is
		// what the depth and node limits gate.
		_ = c.g.AddNode(depgraph.Node{ID: dep})
		_ = c.g.AddEdge(depgraph.Edge{From: r.name, To: dep})

		if r.depth < c.opts.MaxDepth && int(count) < c.opts.MaxNodes {
			c.enqueue(job{name: dep, depth: next})
		}
	}
}

func (c *crawler) applyMeta() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, m := range c.meta {
		c.g.SetMeta(id, m)
	}
}
