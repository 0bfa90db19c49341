// Package updater keeps the tinibar binary and its bundled helper current
// from GitHub Releases.
package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tini-presence/tinibar/internal/buildinfo"
)

// latestReleaseURL is a variable so tests can point the check at a stub.
var latestReleaseURL = "https://api.github.com/repos/tini-presence/tinibar/releases/latest"

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Release is the slice of the GitHub release object the updater reads.
type Release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Status is the outcome of an update check.
type Status struct {
	Available bool
	Current   string
	Latest    string
	URL       string
	Release   *Release
}

// Check fetches the latest published release and compares it against the
// running version. A version that does not parse (a dev build) counts as
// older than any release.
func Check() (*Status, error) {
	release, err := fetchLatest()
	if err != nil {
		return nil, err
	}

	status := &Status{Current: buildinfo.Version}
	if release == nil {
		return status, nil
	}
	status.Release = release
	status.URL = release.HTMLURL
	status.Latest = strings.TrimPrefix(release.TagName, "v")

	current, err := ParseSemver(buildinfo.Version)
	if err != nil {
		status.Available = true
		return status, nil
	}
	latest, err := ParseSemver(status.Latest)
	if err != nil {
		return nil, fmt.Errorf("parse release tag %q: %w", release.TagName, err)
	}
	status.Available = current.LessThan(latest)
	return status, nil
}

// fetchLatest returns nil without error when no release has been published.
func fetchLatest() (*Release, error) {
	req, err := http.NewRequest(http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "tinibar/"+buildinfo.Version)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	return &release, nil
}

// AppAssetName is the release asset carrying the tinibar binary for this
// platform.
func AppAssetName() string {
	return fmt.Sprintf("tinibar-%s-%s", runtime.GOOS, runtime.GOARCH)
}

// HelperAssetName is the release asset carrying the helper binary.
func HelperAssetName() string {
	return fmt.Sprintf("tini-presence-core-%s-%s", runtime.GOOS, runtime.GOARCH)
}

// InstallRelease swaps in the app binary from release and, when the release
// ships one, the helper binary next to it. The app asset is mandatory; a
// release without a helper asset updates the app alone. report, when
// non-nil, receives one line per step.
func InstallRelease(release *Release, appPath, helperName string, report func(string)) error {
	say := func(format string, args ...any) {
		if report != nil {
			report(fmt.Sprintf(format, args...))
		}
	}

	app := findAsset(release, AppAssetName())
	if app == nil {
		return fmt.Errorf("release %s has no %s asset", release.TagName, AppAssetName())
	}

	say("Downloading %s", app.Name)
	appTmp, err := download(app)
	if err != nil {
		return err
	}
	defer os.Remove(appTmp)
	if err := swapBinary(appPath, appTmp); err != nil {
		return err
	}
	say("Installed %s", filepath.Base(appPath))

	helper := findAsset(release, HelperAssetName())
	if helper == nil {
		say("Release ships no %s; helper left in place", HelperAssetName())
		return nil
	}
	say("Downloading %s", helper.Name)
	helperTmp, err := download(helper)
	if err != nil {
		return err
	}
	defer os.Remove(helperTmp)
	if err := swapBinary(filepath.Join(filepath.Dir(appPath), helperName), helperTmp); err != nil {
		return err
	}
	say("Installed %s", helperName)
	return nil
}

func findAsset(release *Release, name string) *Asset {
	for i := range release.Assets {
		if release.Assets[i].Name == name {
			return &release.Assets[i]
		}
	}
	return nil
}

// download fetches an asset into an executable temp file and returns its path.
func download(asset *Asset) (string, error) {
	resp, err := http.Get(asset.BrowserDownloadURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", asset.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", asset.Name, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", asset.Name+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_, copyErr := io.Copy(tmp, resp.Body)
	if err := errors.Join(copyErr, tmp.Close()); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", asset.Name, err)
	}
	if err := os.Chmod(tmp.Name(), 0755); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("mark %s executable: %w", asset.Name, err)
	}
	return tmp.Name(), nil
}

// swapBinary replaces target with the file at newPath using a backup rename
// so a failed install rolls back. A missing target (first helper install) is
// a plain move.
func swapBinary(target, newPath string) error {
	resolved, err := filepath.EvalSymlinks(target)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.Rename(newPath, target); err != nil {
			return fmt.Errorf("install %s: %w", target, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve %s: %w", target, err)
	}

	backup := resolved + ".bak"
	os.Remove(backup)
	if err := os.Rename(resolved, backup); err != nil {
		return fmt.Errorf("back up %s: %w", resolved, err)
	}
	if err := os.Rename(newPath, resolved); err != nil {
		if restoreErr := os.Rename(backup, resolved); restoreErr != nil {
			return fmt.Errorf("install %s (rollback failed: %v): %w", resolved, restoreErr, err)
		}
		return fmt.Errorf("install %s: %w", resolved, err)
	}
	os.Remove(backup)
	return nil
}
