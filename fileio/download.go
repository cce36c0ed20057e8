package fileio

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/leocov-dev/modgrab/core"
)

// DownloadError wraps a transport or HTTP failure for one artifact.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// IntegrityError means the downloaded bytes did not match the expected hash.
// The destination file is left untouched when this is returned.
type IntegrityError struct {
	URL        string
	HashFormat string
	Expected   string
	Actual     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s hash mismatch for %s: expected %s, got %s", e.HashFormat, e.URL, e.Expected, e.Actual)
}

var (
	mirrorURL string

	// Hosts the mirror is willing to serve for; others always go direct
	mirrorableHosts = []string{
		"edge.forgecdn.net",
		"mediafiles.forgecdn.net",
		"media.forgecdn.net",
	}
)

// SetMirrorURL routes downloads from known CurseForge CDN hosts through a
// mirror prefix. Empty disables mirroring.
func SetMirrorURL(mirror string) {
	mirrorURL = strings.TrimSuffix(mirror, "/")
}

// RewriteMirrorURL applies the configured mirror to a download URL. Applying it
// twice yields the same URL.
func RewriteMirrorURL(downloadURL string) string {
	if mirrorURL == "" {
		return downloadURL
	}
	if strings.HasPrefix(downloadURL, mirrorURL+"/") {
		return downloadURL
	}
	parsed, err := url.Parse(downloadURL)
	if err != nil {
		return downloadURL
	}
	for _, host := range mirrorableHosts {
		if parsed.Host == host {
			return mirrorURL + "/" + parsed.Host + parsed.RequestURI()
		}
	}
	return downloadURL
}

var (
	downloadClientOnce sync.Once
	downloadClient     *http.Client
)

func getDownloadClient() *http.Client {
	downloadClientOnce.Do(func() {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = 3
		retryClient.RetryWaitMin = 1 * time.Second
		retryClient.RetryWaitMax = 10 * time.Second
		retryClient.Logger = nil
		retryClient.HTTPClient.Timeout = 5 * time.Minute
		downloadClient = retryClient.StandardClient()
	})
	return downloadClient
}

// DownloadFile fetches url to dest, verifying the payload against the given
// hash before the destination is written. If dest already exists with the
// expected hash the download is skipped entirely. The file appears at dest
// atomically via rename; a failed download never clobbers an existing dest.
func DownloadFile(downloadURL, dest, hashFormat, hash string) error {
	if upToDate(dest, hashFormat, hash) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return &DownloadError{URL: downloadURL, Err: err}
	}

	resp, err := getDownloadClient().Get(RewriteMirrorURL(downloadURL))
	if err != nil {
		return &DownloadError{URL: downloadURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: downloadURL, Err: fmt.Errorf("unexpected status %v", resp.StatusCode)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return &DownloadError{URL: downloadURL, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var body io.Reader = resp.Body
	var hasher core.HashStringer
	if hash != "" {
		hasher, err = core.GetHashImpl(hashFormat)
		if err != nil {
			tmp.Close()
			return err
		}
		body = io.TeeReader(resp.Body, hasher)
	}

	_, err = io.Copy(tmp, body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return &DownloadError{URL: downloadURL, Err: err}
	}

	if hasher != nil && !hexMatches(hasher.String(), hash) {
		return &IntegrityError{
			URL:        downloadURL,
			HashFormat: hashFormat,
			Expected:   hash,
			Actual:     hasher.String(),
		}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return &DownloadError{URL: downloadURL, Err: err}
	}
	return nil
}

// upToDate reports whether dest already holds the expected content. Without a
// hash to check, any existing file counts.
func upToDate(dest, hashFormat, hash string) bool {
	info, err := os.Stat(dest)
	if err != nil || info.IsDir() {
		return false
	}
	if hash == "" {
		return true
	}
	actual, err := HashFile(dest, hashFormat)
	if err != nil {
		return false
	}
	return hexMatches(actual, hash)
}
