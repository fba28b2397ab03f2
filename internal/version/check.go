package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-version"
)

const (
	defaultReleasesURL = "https://api.github.com/repos/autodev/autodev/releases/latest"
	cacheFileName      = "version_cache.json"
	cacheDuration      = 24 * time.Hour
)

// Cache stores the last release seen on GitHub.
type Cache struct {
	LatestVersion string    `json:"latestVersion"`
	CheckedAt     time.Time `json:"checkedAt"`
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the latest published release, caching the answer on disk.
type Checker struct {
	ReleasesURL string
	CacheDir    string
	HTTPClient  *http.Client
	Current     string
	Now         func() time.Time
}

// NewChecker returns a Checker for the running binary, caching under ~/.autodev.
func NewChecker() *Checker {
	cacheDir := ".autodev"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".autodev")
	}
	return &Checker{
		ReleasesURL: defaultReleasesURL,
		CacheDir:    cacheDir,
		HTTPClient:  &http.Client{Timeout: 3 * time.Second},
		Current:     Version,
		Now:         time.Now,
	}
}

// CheckForUpdate returns the latest release tag and whether it is newer than Current.
// Network failures are not errors: the check is silently skipped.
func (c *Checker) CheckForUpdate(ctx context.Context) (latest string, updateAvailable bool, err error) {
	if c.Current == "dev" {
		return "", false, nil
	}

	if cached, ok := c.readCache(); ok {
		return c.compare(cached)
	}

	latest, err = c.fetchLatest(ctx)
	if err != nil {
		//nolint:nilerr // update checks never fail a command
		return "", false, nil
	}
	c.writeCache(latest)

	return c.compare(latest)
}

func (c *Checker) compare(latestTag string) (string, bool, error) {
	current, err := version.NewVersion(strings.TrimPrefix(c.Current, "v"))
	if err != nil {
		return latestTag, false, fmt.Errorf("invalid current version: %w", err)
	}

	latest, err := version.NewVersion(strings.TrimPrefix(latestTag, "v"))
	if err != nil {
		return latestTag, false, fmt.Errorf("invalid latest version: %w", err)
	}

	return latestTag, latest.GreaterThan(current), nil
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ReleasesURL, nil)
			if err != nil {
				return "", retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", "autodev-cli")

			resp, err := c.HTTPClient.Do(req)
			if err != nil {
				return "", err
			}
			//nolint:errcheck // Deferred close, error not actionable
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				statusErr := fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
				if resp.StatusCode < http.StatusInternalServerError {
					return "", retry.Unrecoverable(statusErr)
				}
				return "", statusErr
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", err
			}

			var release githubRelease
			if err := json.Unmarshal(body, &release); err != nil {
				return "", retry.Unrecoverable(err)
			}
			if release.TagName == "" {
				return "", retry.Unrecoverable(errors.New("release has no tag"))
			}
			return release.TagName, nil
		},
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

func (c *Checker) readCache() (string, bool) {
	data, err := os.ReadFile(filepath.Join(c.CacheDir, cacheFileName)) //nolint:gosec // Cache file in user's config directory
	if err != nil {
		return "", false
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return "", false
	}

	if c.Now().Sub(cache.CheckedAt) > cacheDuration {
		return "", false
	}
	return cache.LatestVersion, true
}

func (c *Checker) writeCache(latest string) {
	//nolint:errcheck,gosec // Best effort directory creation, error not actionable
	os.MkdirAll(c.CacheDir, 0755)

	data, err := json.Marshal(Cache{LatestVersion: latest, CheckedAt: c.Now()})
	if err != nil {
		return
	}

	//nolint:errcheck,gosec // Best effort cache write, error not actionable
	os.WriteFile(filepath.Join(c.CacheDir, cacheFileName), data, 0644)
}

// PrintUpdateNotification writes an upgrade hint to w when a newer release exists.
func PrintUpdateNotification(ctx context.Context, w io.Writer, skipVersionCheck bool) {
	if skipVersionCheck {
		return
	}

	latest, updateAvailable, err := NewChecker().CheckForUpdate(ctx)
	if err != nil || !updateAvailable {
		return
	}

	//nolint:errcheck // Writing to stderr, error not actionable
	fmt.Fprintf(w, "\n⚠️  A new version of autodev is available: %s (you have %s)\n"+
		"Download: https://github.com/autodev/autodev/releases/latest\n"+
		"To disable these notifications: autodev config set skip-version-check true\n\n",
		latest, Version)
}
