// Package pypi provides a read-only client for the PyPI JSON API.
//
// The client caches responses through a pluggable [cache.Cache] backend
// and retries transient failures with exponential backoff. It is used to
// answer questions about manifests (latest releases, available versions,
// declared dependencies); it never downloads or installs distributions.
package pypi
