package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, url, current string) *Checker {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Checker{
		ReleasesURL: url,
		CacheDir:    t.TempDir(),
		HTTPClient:  &http.Client{Timeout: time.Second},
		Current:     current,
		Now:         func() time.Time { return now },
	}
}

func TestCheckForUpdate(t *testing.T) {
	tcs := []struct {
		name       string
		current    string
		tag        string
		wantUpdate bool
	}{
		{name: "newer release", current: "v1.2.0", tag: "v1.3.0", wantUpdate: true},
		{name: "same release", current: "1.3.0", tag: "v1.3.0", wantUpdate: false},
		{name: "older release", current: "v2.0.0", tag: "v1.9.9", wantUpdate: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "autodev-cli", r.Header.Get("User-Agent"))
				_ = json.NewEncoder(w).Encode(githubRelease{TagName: tc.tag})
			}))
			defer srv.Close()

			c := newTestChecker(t, srv.URL, tc.current)
			latest, update, err := c.CheckForUpdate(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tc.tag, latest)
			assert.Equal(t, tc.wantUpdate, update)

			_, statErr := os.Stat(filepath.Join(c.CacheDir, cacheFileName))
			assert.NoError(t, statErr)
		})
	}
}

func TestCheckForUpdate_DevSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	latest, update, err := newTestChecker(t, srv.URL, "dev").CheckForUpdate(t.Context())
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.False(t, update)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCheckForUpdate_UsesFreshCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(githubRelease{TagName: "v9.9.9"})
	}))
	defer srv.Close()

	c := newTestChecker(t, srv.URL, "v1.0.0")
	data, err := json.Marshal(Cache{LatestVersion: "v1.1.0", CheckedAt: c.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(c.CacheDir, cacheFileName), data, 0o600))

	latest, update, err := c.CheckForUpdate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "v1.1.0", latest)
	assert.True(t, update)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCheckForUpdate_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(githubRelease{TagName: "v1.0.1"})
	}))
	defer srv.Close()

	latest, update, err := newTestChecker(t, srv.URL, "v1.0.0").CheckForUpdate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "v1.0.1", latest)
	assert.True(t, update)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheckForUpdate_ClientErrorIsSilent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	latest, update, err := newTestChecker(t, srv.URL, "v1.0.0").CheckForUpdate(t.Context())
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.False(t, update)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetFullVersion(t *testing.T) {
	assert.Contains(t, GetFullVersion(), "autodev "+Version)
}
