package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gradlerepo/pkg/repository"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.Resolver) {
	t.Helper()
	res := repository.NewResolver(t.TempDir(), "org.gradle")
	for _, id := range []string{"gradle-core", "gradle-tooling-api"} {
		require.NoError(t, os.MkdirAll(res.Dir(id, "8.5"), 0o755))
		require.NoError(t, os.WriteFile(res.BinaryPath(id, "8.5"), []byte("jar:"+id), 0o644))
		require.NoError(t, repository.WriteDescriptor(res.DescriptorPath(id, "8.5"), repository.Descriptor{
			GroupID: "org.gradle", ArtifactID: id, Version: "8.5", Packaging: repository.PackagingJar,
		}))
	}
	srv := httptest.NewServer(New(res, nil))
	t.Cleanup(srv.Close)
	return srv, res
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	status, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)
}

func TestServeFile(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := get(t, srv.URL+"/org/gradle/gradle-core/8.5/gradle-core-8.5.jar")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "jar:gradle-core", body)

	status, body = get(t, srv.URL+"/org/gradle/gradle-core/8.5/gradle-core-8.5.pom")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<artifactId>gradle-core</artifactId>")
}

func TestServeFile_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{
		"/org/gradle/gradle-core/9.0/gradle-core-9.0.jar",
		"/org/gradle/gradle-core/8.5/",
		"/org/gradle/",
	} {
		status, _ := get(t, srv.URL+path)
		assert.Equal(t, http.StatusNotFound, status, path)
	}
}

func TestServeFile_Head(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Head(srv.URL + "/org/gradle/gradle-core/8.5/gradle-core-8.5.jar")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(len("jar:gradle-core")), resp.ContentLength)
}

func TestArtifacts(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := get(t, srv.URL+"/artifacts/8.5")
	require.Equal(t, http.StatusOK, status)

	var got struct {
		GroupID   string   `json:"groupId"`
		Version   string   `json:"version"`
		Artifacts []string `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "org.gradle", got.GroupID)
	assert.Equal(t, []string{"gradle-core", "gradle-tooling-api"}, got.Artifacts)

	_, body = get(t, srv.URL+"/artifacts/1.0")
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Empty(t, got.Artifacts)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	res := repository.NewResolver(t.TempDir(), "org.gradle")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- New(res, nil).ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
