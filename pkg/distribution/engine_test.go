package distribution

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gradlerepo/pkg/errors"
	"github.com/matzehuels/gradlerepo/pkg/observability"
	"github.com/matzehuels/gradlerepo/pkg/repository"
)

// remote serves a synthetic distribution archive and companion jar and
// counts the requests it receives.
type remote struct {
	*httptest.Server
	archive []byte

	mu       sync.Mutex
	requests []string
}

func newRemote(t *testing.T, entries map[string]string) *remote {
	t.Helper()
	r := &remote{archive: buildZip(t, entries)}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.requests = append(r.requests, req.URL.Path)
		archive := r.archive
		r.mu.Unlock()

		switch req.URL.Path {
		case "/distributions/dist-1.0.zip":
			w.Write(archive)
		case "/releases/org/example/api/1.0/api-1.0.jar":
			io.WriteString(w, "companion-jar")
		default:
			http.NotFound(w, req)
		}
	}))
	t.Cleanup(r.Close)
	return r
}

func (r *remote) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *remote) layout() Layout {
	return Layout{
		Name:            "Example",
		GroupID:         "org.example",
		UmbrellaID:      "example-all",
		ArchivePattern:  "dist-%s.zip",
		DistributionURL: r.URL + "/distributions/",
		CompanionID:     "api",
		CompanionName:   "Example API",
		ReleasesURL:     r.URL + "/releases/",
	}
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf strings.Builder
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return []byte(buf.String())
}

var syntheticEntries = map[string]string{
	"dist-1.0/lib/foo-bar-1.0.jar":     "foo-bar-bytes",
	"dist-1.0/lib/baz-1.0.jar":         "baz-bytes",
	"dist-1.0/lib/plugins/api-1.0.jar": "bundled-api-bytes",
	"dist-1.0/lib/foo-bar-2.0.jar":     "other-version",
	"dist-1.0/README":                  "readme",
}

func newEngine(t *testing.T, r *remote, layout Layout, hooks observability.ResolveHooks) (*Engine, string) {
	t.Helper()
	base := t.TempDir()
	e, err := New(Options{
		Repository: base,
		Layout:     layout,
		Logger:     log.New(io.Discard),
		Hooks:      hooks,
	})
	require.NoError(t, err)
	return e, base
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestResolve_DiscoveryCompleteness(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, base := newEngine(t, r, r.layout(), nil)

	res, err := e.Resolve(context.Background(), Request{Version: "1.0"})
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "baz", "foo-bar"}, res.IDs())
	assert.True(t, res.Downloaded)

	group := filepath.Join(base, "org", "example")
	assert.Equal(t, "foo-bar-bytes", readFile(t, filepath.Join(group, "foo-bar", "1.0", "foo-bar-1.0.jar")))
	assert.Equal(t, "baz-bytes", readFile(t, filepath.Join(group, "baz", "1.0", "baz-1.0.jar")))
	assert.Equal(t, "companion-jar", readFile(t, filepath.Join(group, "api", "1.0", "api-1.0.jar")),
		"companion must come from the releases repository, not the archive")

	for _, id := range []string{"foo-bar", "baz", "api"} {
		want := repository.Descriptor{GroupID: "org.example", ArtifactID: id, Version: "1.0", Packaging: repository.PackagingJar}
		assert.Equal(t, string(want.Render()), readFile(t, filepath.Join(group, id, "1.0", id+"-1.0.pom")))
	}

	umbrella := repository.Descriptor{GroupID: "org.example", ArtifactID: "example-all", Version: "1.0", Packaging: repository.PackagingPOM}
	assert.Equal(t, string(umbrella.Render()), readFile(t, filepath.Join(group, "example-all", "1.0", "example-all-1.0.pom")))
	assert.FileExists(t, e.ArchivePath("1.0"))
	assert.NoFileExists(t, filepath.Join(group, "foo-bar", "2.0", "foo-bar-2.0.jar"))

	assert.Equal(t, filepath.Join(group, "baz", "1.0", "baz-1.0.jar"), res.Paths()[1])
	assert.Equal(t, "org.example:baz:1.0", res.Artifacts[1].Coordinate())
}

func TestResolve_WithoutCompanion(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout().WithoutCompanion(), nil)

	res, err := e.Resolve(context.Background(), Request{Version: "1.0"})
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "baz", "foo-bar"}, res.IDs())
	assert.Equal(t, "bundled-api-bytes", readFile(t, res.Paths()[0]))
	assert.Equal(t, 1, r.count(), "only the archive should be downloaded")
}

func TestResolve_Idempotent(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	rec := &observability.Recorder{}
	e, _ := newEngine(t, r, r.layout(), rec)
	ctx := context.Background()

	first, err := e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)
	requests := r.count()
	assert.Equal(t, 2, requests)

	rec.Reset()
	second, err := e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)

	assert.Equal(t, requests, r.count(), "second resolution must not touch the network")
	assert.Empty(t, rec.Downloads())
	assert.Empty(t, rec.Extracted())
	assert.False(t, second.Downloaded)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, 3, rec.Resolved())
}

func TestResolve_ForceRefresh(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout(), nil)
	ctx := context.Background()

	res, err := e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)
	before := r.count()

	for _, a := range res.Artifacts {
		require.NoError(t, os.WriteFile(a.Path, []byte("tampered"), 0o644))
		require.NoError(t, os.WriteFile(a.Descriptor, []byte("stale"), 0o644))
	}

	res, err = e.Resolve(ctx, Request{Version: "1.0", Force: true})
	require.NoError(t, err)

	assert.Equal(t, before+2, r.count(), "force must download archive and companion again")
	assert.True(t, res.Downloaded)
	for _, a := range res.Artifacts {
		assert.NotEqual(t, "tampered", readFile(t, a.Path), a.ArtifactID)
		want := repository.Descriptor{GroupID: "org.example", ArtifactID: a.ArtifactID, Version: "1.0", Packaging: repository.PackagingJar}
		assert.Equal(t, string(want.Render()), readFile(t, a.Descriptor))
	}
}

func TestResolve_RestoresMissingBinaryWithoutNetwork(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout(), nil)
	ctx := context.Background()

	res, err := e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)
	before := r.count()

	require.NoError(t, os.Remove(res.Paths()[1])) // baz
	require.NoError(t, os.WriteFile(res.Paths()[2], []byte("kept"), 0o644))

	res, err = e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)

	assert.Equal(t, before, r.count())
	assert.Equal(t, "baz-bytes", readFile(t, res.Paths()[1]))
	assert.Equal(t, "kept", readFile(t, res.Paths()[2]), "existing binaries are not rewritten without force")
}

func TestResolve_UnreadableArchiveIsDownloadedAgain(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout().WithoutCompanion(), nil)
	ctx := context.Background()

	_, err := e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.ArchivePath("1.0"), []byte("garbage"), 0o644))

	res, err := e.Resolve(ctx, Request{Version: "1.0"})
	require.NoError(t, err)
	assert.Equal(t, 2, r.count())
	assert.True(t, res.Downloaded)
	assert.Equal(t, []string{"api", "baz", "foo-bar"}, res.IDs())
}

func TestResolve_WantedMissing(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, base := newEngine(t, r, r.layout(), nil)

	_, err := e.Resolve(context.Background(), Request{Version: "1.0", Artifacts: []string{"foo-bar", "missing-one"}})
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrCodeMissingArtifact))
	assert.Contains(t, err.Error(), "missing-one-1.0.jar")
	assert.Contains(t, err.Error(), "--force")

	assert.Equal(t, "foo-bar-bytes", readFile(t, filepath.Join(base, "org", "example", "foo-bar", "1.0", "foo-bar-1.0.jar")))
	assert.NoFileExists(t, filepath.Join(base, "org", "example", "baz", "1.0", "baz-1.0.jar"), "only wanted artifacts are extracted")
}

func TestResolve_WantedPresentSkipsNetwork(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout(), nil)
	ctx := context.Background()

	res, err := e.Resolve(ctx, Request{Version: "1.0", Artifacts: []string{"baz", "foo-bar", "baz"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"baz", "foo-bar"}, res.IDs())
	before := r.count()
	assert.Equal(t, 1, before)

	require.NoError(t, os.Remove(e.ArchivePath("1.0")))
	res, err = e.Resolve(ctx, Request{Version: "1.0", Artifacts: []string{"foo-bar", "baz"}})
	require.NoError(t, err)
	assert.Equal(t, before, r.count())
	assert.False(t, res.Downloaded)
}

func TestResolve_WantedCompanionOnly(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout(), nil)

	res, err := e.Resolve(context.Background(), Request{Version: "1.0", Artifacts: []string{"api"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/releases/org/example/api/1.0/api-1.0.jar"}, r.requests)
	assert.Equal(t, "companion-jar", readFile(t, res.Paths()[0]))
	assert.NoFileExists(t, e.ArchivePath("1.0"))
}

func TestResolve_RetrievalFailure(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout(), nil)

	_, err := e.Resolve(context.Background(), Request{Version: "9.9"})
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrCodeRetrieval), "got %v", err)
	assert.Contains(t, err.Error(), "9.9")
	assert.Contains(t, err.Error(), "/distributions/dist-9.9.zip")
	assert.NoFileExists(t, e.ArchivePath("9.9"))
}

func TestResolve_InvalidArchive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>maintenance</html>")
	}))
	defer server.Close()

	layout := Layout{
		Name:            "Example",
		GroupID:         "org.example",
		UmbrellaID:      "example-all",
		ArchivePattern:  "dist-%s.zip",
		DistributionURL: server.URL + "/distributions/",
	}
	e, err := New(Options{Repository: t.TempDir(), Layout: layout, Logger: log.New(io.Discard)})
	require.NoError(t, err)

	_, err = e.Resolve(context.Background(), Request{Version: "1.0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeArchive), "got %v", err)
	assert.Contains(t, err.Error(), "1.0")
}

func TestResolve_InvalidInput(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, _ := newEngine(t, r, r.layout(), nil)
	ctx := context.Background()

	_, err := e.Resolve(ctx, Request{Version: ""})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidVersion))

	_, err = e.Resolve(ctx, Request{Version: "../1.0"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidVersion))

	_, err = e.Resolve(ctx, Request{Version: "1.0", Artifacts: []string{"a/b"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	assert.Zero(t, r.count())
}

func TestNew_Defaults(t *testing.T) {
	_, err := New(Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))

	e, err := New(Options{Repository: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "org.gradle", e.Layout().GroupID)
	assert.Equal(t,
		filepath.Join(e.Paths().Base(), "org", "gradle", "gradle-all", "8.5", "gradle-8.5-bin.zip"),
		e.ArchivePath("8.5"))
}

func TestResolve_SkipsEntriesEscapingGroup(t *testing.T) {
	entries := map[string]string{
		"dist-1.0/lib/baz-1.0.jar": "baz-bytes",
		"dist-1.0/lib/..-1.0.jar":  "escape",
	}
	r := newRemote(t, entries)
	e, base := newEngine(t, r, r.layout().WithoutCompanion(), nil)

	res, err := e.Resolve(context.Background(), Request{Version: "1.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"baz"}, res.IDs())

	_, err = os.Stat(filepath.Join(base, "org", "1.0", "..-1.0.jar"))
	assert.True(t, os.IsNotExist(err), "entry escaped the group directory")
}

func TestResolve_CanceledDuringExtraction(t *testing.T) {
	r := newRemote(t, syntheticEntries)
	e, base := newEngine(t, r, r.layout(), nil)

	_, err := e.Resolve(context.Background(), Request{Version: "1.0"})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(base, "org", "example", "baz", "1.0", "baz-1.0.jar")))
	before := r.count()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Resolve(ctx, Request{Version: "1.0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled), "got %v", err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, r.count(), "cancellation must not trigger a re-download")
}
