// Package observability provides hooks for instrumenting distribution resolution.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. The engine receives its hooks explicitly
// (see distribution.Options.Hooks) and calls them at each stage:
//
//	hooks.OnDownloadStart(ctx, version, url)
//	// ... download ...
//	hooks.OnDownloadComplete(ctx, version, url, size, duration, err)
//
// [Noop] is the default. [Recorder] keeps counters in memory and is used by the
// CLI summary and by tests that need to observe whether network I/O happened.
package observability

import (
	"context"
	"sync"
	"time"
)

// ResolveHooks receives events from the fetch-and-extract engine.
type ResolveHooks interface {
	// Download events, once per remote file.
	OnDownloadStart(ctx context.Context, version, url string)
	OnDownloadComplete(ctx context.Context, version, url string, size int64, duration time.Duration, err error)

	// OnExtract records one archive entry written to the repository.
	OnExtract(ctx context.Context, version, artifactID string, size int64)

	// OnResolveComplete records the end of a resolution.
	OnResolveComplete(ctx context.Context, version string, artifacts int, duration time.Duration, err error)
}

// Noop is a no-op implementation of ResolveHooks.
type Noop struct{}

func (Noop) OnDownloadStart(context.Context, string, string) {}
func (Noop) OnDownloadComplete(context.Context, string, string, int64, time.Duration, error) {
}
func (Noop) OnExtract(context.Context, string, string, int64)                        {}
func (Noop) OnResolveComplete(context.Context, string, int, time.Duration, error) {}

// Recorder counts resolution events. It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	downloads  []string
	failures   int
	extracted  []string
	bytes      int64
	lastResult int
}

// OnDownloadStart implements ResolveHooks.
func (r *Recorder) OnDownloadStart(_ context.Context, _, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloads = append(r.downloads, url)
}

// OnDownloadComplete implements ResolveHooks.
func (r *Recorder) OnDownloadComplete(_ context.Context, _, _ string, size int64, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failures++
		return
	}
	r.bytes += size
}

// OnExtract implements ResolveHooks.
func (r *Recorder) OnExtract(_ context.Context, _, artifactID string, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extracted = append(r.extracted, artifactID)
}

// OnResolveComplete implements ResolveHooks.
func (r *Recorder) OnResolveComplete(_ context.Context, _ string, artifacts int, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastResult = artifacts
}

// Downloads returns the URLs requested so far, in order.
func (r *Recorder) Downloads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.downloads...)
}

// Extracted returns the artifact ids written so far, in order.
func (r *Recorder) Extracted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.extracted...)
}

// Bytes returns the total number of bytes downloaded successfully.
func (r *Recorder) Bytes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytes
}

// Failures returns the number of failed downloads.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// Resolved returns the artifact count reported by the last completed resolution.
func (r *Recorder) Resolved() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastResult
}

// Reset clears all counters.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloads, r.extracted = nil, nil
	r.failures, r.bytes, r.lastResult = 0, 0, 0
}

var (
	_ ResolveHooks = Noop{}
	_ ResolveHooks = (*Recorder)(nil)
)
