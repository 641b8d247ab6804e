// Package update checks GitHub releases for a newer newsvoice build.
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const releasesURL = "https://api.github.com/repos/matheuskafuri/newsvoice/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func NewChecker() *Checker {
	return &Checker{URL: releasesURL, Client: http.DefaultClient, Timeout: 5 * time.Second}
}

// Check reports a release newer than currentVersion.
// Returns nil on any error (non-fatal) and for development builds.
func (c *Checker) Check(ctx context.Context, currentVersion string) *Result {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || !newer(latest, current) {
		return nil
	}

	return &Result{LatestVersion: latest}
}

// newer compares dotted numeric versions; non-numeric parts compare as zero.
func newer(latest, current string) bool {
	l, c := parts(latest), parts(current)
	for i := 0; i < max(len(l), len(c)); i++ {
		var a, b int
		if i < len(l) {
			a = l[i]
		}
		if i < len(c) {
			b = c[i]
		}
		if a != b {
			return a > b
		}
	}
	return false
}

func parts(v string) []int {
	v, _, _ = strings.Cut(v, "-")
	var out []int
	for _, p := range strings.Split(v, ".") {
		n, _ := strconv.Atoi(p)
		out = append(out, n)
	}
	return out
}
