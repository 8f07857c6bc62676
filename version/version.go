// Package version tracks the application version and discovers newer releases.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/util"
	"github.com/tvxlabs/mediabridge/where"
)

// releasesURL is the endpoint queried for the latest release.
var releasesURL = "https://api.github.com/repos/" + constant.Repository + "/releases/latest"

var (
	cacher     *gache.Cache[string]
	cacherOnce sync.Once
)

func versionCache() *gache.Cache[string] {
	cacherOnce.Do(func() {
		cacher = gache.New[string](&gache.Options{
			Path:       filepath.Join(where.Cache(), "version.json"),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return cacher
}

// Latest returns the most recent released version, without the "v" prefix. Results are
// cached for two days.
func Latest(ctx context.Context) (string, error) {
	cached, expired, err := versionCache().Get()
	if err != nil {
		return "", err
	}
	if !expired && cached != "" {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	_ = versionCache().Set(latest)
	return latest, nil
}
