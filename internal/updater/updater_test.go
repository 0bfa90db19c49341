package updater

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubLatestRelease(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	restore := latestReleaseURL
	latestReleaseURL = srv.URL
	t.Cleanup(func() { latestReleaseURL = restore })
}

func TestCheckReportsNewerRelease(t *testing.T) {
	stubLatestRelease(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v99.0.0","html_url":"https://example.com/rel","assets":[]}`)
	})

	status, err := Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	// The running version is a dev build, which counts as older.
	if !status.Available {
		t.Error("Available = false, want true")
	}
	if status.Latest != "99.0.0" {
		t.Errorf("Latest = %q, want 99.0.0", status.Latest)
	}
	if status.URL != "https://example.com/rel" {
		t.Errorf("URL = %q", status.URL)
	}
	if status.Release == nil {
		t.Error("Release not carried through for the install step")
	}
}

func TestCheckWithoutPublishedReleases(t *testing.T) {
	stubLatestRelease(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	status, err := Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status.Available || status.Release != nil {
		t.Errorf("status = %+v, want no update without releases", status)
	}
}

func TestInstallReleaseUpdatesAppAndHelper(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/app", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "new app")
	})
	mux.HandleFunc("/helper", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "new helper")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	appPath := filepath.Join(dir, "tinibar")
	if err := os.WriteFile(appPath, []byte("old app"), 0755); err != nil {
		t.Fatal(err)
	}
	// No helper on disk yet: the install is also the first helper deploy.

	release := &Release{
		TagName: "v9.9.9",
		Assets: []Asset{
			{Name: AppAssetName(), BrowserDownloadURL: srv.URL + "/app"},
			{Name: HelperAssetName(), BrowserDownloadURL: srv.URL + "/helper"},
		},
	}

	var steps []string
	err := InstallRelease(release, appPath, "tini-presence-core", func(line string) {
		steps = append(steps, line)
	})
	if err != nil {
		t.Fatalf("InstallRelease: %v", err)
	}

	if got, _ := os.ReadFile(appPath); string(got) != "new app" {
		t.Errorf("app binary = %q, want replaced content", got)
	}
	helperPath := filepath.Join(dir, "tini-presence-core")
	if got, _ := os.ReadFile(helperPath); string(got) != "new helper" {
		t.Errorf("helper binary = %q, want installed content", got)
	}
	if info, err := os.Stat(helperPath); err != nil || info.Mode()&0111 == 0 {
		t.Errorf("helper not executable: %v %v", info, err)
	}
	if _, err := os.Stat(appPath + ".bak"); !os.IsNotExist(err) {
		t.Error("backup left behind after a clean install")
	}
	if len(steps) == 0 {
		t.Error("no progress reported")
	}
}

func TestInstallReleaseAppOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "new app")
	}))
	defer srv.Close()

	dir := t.TempDir()
	appPath := filepath.Join(dir, "tinibar")
	if err := os.WriteFile(appPath, []byte("old app"), 0755); err != nil {
		t.Fatal(err)
	}
	helperPath := filepath.Join(dir, "tini-presence-core")
	if err := os.WriteFile(helperPath, []byte("existing helper"), 0755); err != nil {
		t.Fatal(err)
	}

	release := &Release{
		TagName: "v9.9.9",
		Assets:  []Asset{{Name: AppAssetName(), BrowserDownloadURL: srv.URL}},
	}

	var steps []string
	err := InstallRelease(release, appPath, "tini-presence-core", func(line string) {
		steps = append(steps, line)
	})
	if err != nil {
		t.Fatalf("InstallRelease: %v", err)
	}

	if got, _ := os.ReadFile(appPath); string(got) != "new app" {
		t.Errorf("app binary = %q, want replaced content", got)
	}
	// A release without a helper asset must leave the helper untouched.
	if got, _ := os.ReadFile(helperPath); string(got) != "existing helper" {
		t.Errorf("helper binary = %q, want it untouched", got)
	}
	joined := strings.Join(steps, "\n")
	if !strings.Contains(joined, "helper left in place") {
		t.Errorf("steps %q missing the skipped-helper note", joined)
	}
}

func TestInstallReleaseMissingAppAsset(t *testing.T) {
	release := &Release{TagName: "v9.9.9"}
	err := InstallRelease(release, filepath.Join(t.TempDir(), "tinibar"), "tini-presence-core", nil)
	if err == nil {
		t.Fatal("expected error for a release without the app asset")
	}
}

func TestSwapBinaryRestoresOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bin")
	if err := os.WriteFile(target, []byte("current"), 0755); err != nil {
		t.Fatal(err)
	}

	// The replacement path does not exist, so the second rename fails and
	// the original must come back.
	if err := swapBinary(target, filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for a missing replacement")
	}
	if got, err := os.ReadFile(target); err != nil || string(got) != "current" {
		t.Errorf("target after failed swap = %q (%v), want original restored", got, err)
	}
}
