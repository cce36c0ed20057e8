package fileio

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abcSha1 = "a9993e364706816aba3e25717850c26c9cd0d89d"

func TestDownloadFile(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		_, _ = w.Write([]byte("abc"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "mods", "example.jar")

	err := DownloadFile(server.URL+"/example.jar", dest, "sha1", abcSha1)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))

	// already present with the right hash, no network traffic
	err = DownloadFile(server.URL+"/example.jar", dest, "sha1", abcSha1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestDownloadFileNoHashSkipsExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an existing destination without a hash")
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "example.jar")
	require.NoError(t, os.WriteFile(dest, []byte("already here"), 0o644))

	require.NoError(t, DownloadFile(server.URL, dest, "sha1", ""))
}

func TestDownloadFileIntegrityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("corrupted"))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "example.jar")

	err := DownloadFile(server.URL, dest, "sha1", abcSha1)
	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, abcSha1, integrityErr.Expected)

	// destination untouched, temp file cleaned up
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadFileKeepsExistingOnMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("corrupted"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "example.jar")
	require.NoError(t, os.WriteFile(dest, []byte("old content"), 0o644))

	err := DownloadFile(server.URL, dest, "sha1", abcSha1)
	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old content", string(data))
}

func TestDownloadFileHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	err := DownloadFile(server.URL, filepath.Join(dir, "example.jar"), "sha1", abcSha1)
	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRewriteMirrorURL(t *testing.T) {
	SetMirrorURL("https://mirror.example.com/cdn")
	defer SetMirrorURL("")

	rewritten := RewriteMirrorURL("https://edge.forgecdn.net/files/42/example.jar")
	assert.Equal(t, "https://mirror.example.com/cdn/edge.forgecdn.net/files/42/example.jar", rewritten)

	// applying twice must not double-prefix
	assert.Equal(t, rewritten, RewriteMirrorURL(rewritten))

	// unrelated hosts go direct
	direct := "https://cdn.modrinth.com/data/P7dR8mSH/fabric-api.jar"
	assert.Equal(t, direct, RewriteMirrorURL(direct))
}

func TestRewriteMirrorURLDisabled(t *testing.T) {
	SetMirrorURL("")
	url := "https://edge.forgecdn.net/files/42/example.jar"
	assert.Equal(t, url, RewriteMirrorURL(url))
}
