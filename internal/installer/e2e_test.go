//go:build !windows

package installer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Mullenmaster/terraform-version-manager/internal/cache"
	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/db"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/Mullenmaster/terraform-version-manager/internal/pointer"
	"github.com/Mullenmaster/terraform-version-manager/internal/releases"
	"github.com/Mullenmaster/terraform-version-manager/internal/version"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaseServer struct {
	*httptest.Server
	downloads atomic.Int32
}

func newReleaseServer(t *testing.T, published []string) *releaseServer {
	t.Helper()

	rs := &releaseServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/terraform/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/terraform/" {
			var b strings.Builder
			b.WriteString("<html><body><ul>\n")
			for _, v := range published {
				fmt.Fprintf(&b, "<li><a href=\"/terraform/%s/\">terraform_%s</a></li>\n", v, v)
			}
			b.WriteString("</ul></body></html>")
			w.Write([]byte(b.String()))
			return
		}

		for _, v := range published {
			if r.URL.Path == fmt.Sprintf("/terraform/%s/terraform_%s_linux_amd64.zip", v, v) {
				rs.downloads.Add(1)
				w.Write(fakeArchive(t, v))
				return
			}
		}
		http.NotFound(w, r)
	})

	rs.Server = httptest.NewServer(mux)
	t.Cleanup(rs.Close)
	return rs
}

func fakeArchive(t *testing.T, v string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("terraform")
	require.NoError(t, err)
	fmt.Fprintf(w, "#!/bin/sh\necho 'Terraform v%s'\n", v)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type e2eEnv struct {
	dir       string
	installer *Installer
	history   *db.DB
	pointer   string
	cacheRoot string
}

func newE2E(t *testing.T, srv *releaseServer) *e2eEnv {
	t.Helper()

	dir := t.TempDir()
	fs := afero.NewOsFs()
	pointerPath := filepath.Join(dir, "bin", "terraform")
	cacheRoot := filepath.Dir(pointerPath)

	client := releases.NewClient(releases.Options{BaseURL: srv.URL}, nil)
	history, err := db.New(context.Background(), filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	// The archived "terraform" is a stub; answer -v from what the pointer links to.
	runner := &helpers.MockCommandRunner{
		RunCommandFunc: func(_ context.Context, name string, _ ...string) (string, error) {
			target, err := os.Readlink(name)
			if err != nil {
				return "", err
			}
			v := filepath.Base(filepath.Dir(target))
			return fmt.Sprintf("Terraform v%s\non linux_amd64\n", v), nil
		},
	}

	inst := New(Deps{
		Resolver: version.NewResolver(client, fs, nil),
		Detector: stubDetector{key: linuxAMD64},
		Cache:    cache.New(fs, cacheRoot, client, nil),
		Pointer:  pointer.New(fs, pointerPath, nil),
		Lister:   client,
		Runner:   runner,
		History:  history,
	})

	return &e2eEnv{dir: dir, installer: inst, history: history, pointer: pointerPath, cacheRoot: cacheRoot}
}

func TestEndToEnd_LockFileInstall(t *testing.T) {
	srv := newReleaseServer(t, []string{"1.5.7", "1.4.0"})
	env := newE2E(t, srv)

	lockPath := filepath.Join(env.dir, "terraform.lock.hcl")
	require.NoError(t, os.WriteFile(lockPath, []byte("terraform {\n  version = \"1.5.7\"\n}\n"), 0644))

	report, err := env.installer.Install(context.Background(), "", lockPath)
	require.NoError(t, err)

	exe := filepath.Join(env.cacheRoot, ".tfVersions", "1.5.7", "terraform")
	assert.Equal(t, "1.5.7", report.Version)
	assert.Equal(t, exe, report.ExecutablePath)
	assert.Equal(t, env.pointer, report.PointerPath)
	assert.Equal(t, "Terraform v1.5.7", report.VersionLine)
	assert.True(t, report.Verified)
	assert.False(t, report.CacheHit)

	info, err := os.Stat(exe)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0100, "cached binary must be executable")

	target, err := os.Readlink(env.pointer)
	require.NoError(t, err)
	assert.Equal(t, exe, target)

	leftovers, err := filepath.Glob(filepath.Join(env.cacheRoot, ".tfVersions", "*.zip"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	// Second install is served from the cache.
	report, err = env.installer.Install(context.Background(), "1.5.7", "")
	require.NoError(t, err)
	assert.True(t, report.CacheHit)
	assert.Equal(t, int32(1), srv.downloads.Load())

	records, err := env.history.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "explicit", records[0].Source)
	assert.Equal(t, "lockfile", records[1].Source)
}

func TestEndToEnd_Latest(t *testing.T) {
	srv := newReleaseServer(t, []string{"1.9.0", "1.10.0"})
	env := newE2E(t, srv)

	report, err := env.installer.Install(context.Background(), core.LatestVersion, "")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", report.Version)
	assert.Equal(t, filepath.Join(env.cacheRoot, ".tfVersions", "1.10.0", "terraform"), report.ExecutablePath)
	assert.Equal(t, "Terraform v1.10.0", report.VersionLine)
}

func TestEndToEnd_SwitchVersions(t *testing.T) {
	srv := newReleaseServer(t, []string{"1.9.0", "1.10.0"})
	env := newE2E(t, srv)

	_, err := env.installer.Install(context.Background(), "1.9.0", "")
	require.NoError(t, err)
	_, err = env.installer.Install(context.Background(), "1.10.0", "")
	require.NoError(t, err)

	target, err := os.Readlink(env.pointer)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cacheRoot, ".tfVersions", "1.10.0", "terraform"), target)

	detector := NewActiveDetector(afero.NewOsFs(), env.pointer, &helpers.MockCommandRunner{
		RunCommandFunc: func(_ context.Context, name string, _ ...string) (string, error) {
			target, err := os.Readlink(name)
			if err != nil {
				return "", err
			}
			return "Terraform v" + filepath.Base(filepath.Dir(target)) + "\n", nil
		},
	}, nil)
	active, ok := detector.DetectActive(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "1.10.0", active)
}

func TestEndToEnd_NotPublished(t *testing.T) {
	srv := newReleaseServer(t, []string{"1.5.7", "1.5.6"})
	env := newE2E(t, srv)

	_, err := env.installer.Install(context.Background(), "1.5.9", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrVersionNotAvailable)
	assert.Contains(t, err.Error(), "1.5.7")

	_, statErr := os.Lstat(env.pointer)
	assert.True(t, os.IsNotExist(statErr), "pointer must not be created on failure")
}

func TestEndToEnd_MissingLockFile(t *testing.T) {
	srv := newReleaseServer(t, []string{"1.5.7"})
	env := newE2E(t, srv)

	_, err := env.installer.Install(context.Background(), "", filepath.Join(env.dir, "missing.lock.hcl"))
	assert.ErrorIs(t, err, core.ErrNoVersionSpecified)
	assert.Equal(t, int32(0), srv.downloads.Load())
}
