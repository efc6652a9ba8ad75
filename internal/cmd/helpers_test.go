package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mullenmaster/terraform-version-manager/internal/config"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/Mullenmaster/terraform-version-manager/internal/platform"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	os      string
	machine string
	kernel  string
}

func (h fakeHost) OS() string { return h.os }

func (h fakeHost) Machine(context.Context) (string, error) { return h.machine, nil }

func (h fakeHost) KernelRelease(context.Context) (string, error) { return h.kernel, nil }

type stubSelector struct {
	pick  string
	err   error
	items []string
}

func (s *stubSelector) Select(_ string, items []string) (int, string, error) {
	s.items = items
	if s.err != nil {
		return -1, "", s.err
	}
	for i, it := range items {
		if it == s.pick {
			return i, it, nil
		}
	}
	return -1, "", errors.New("not offered")
}

type testServer struct {
	*httptest.Server
	downloads atomic.Int32
}

func newTestServer(t *testing.T, published ...string) *testServer {
	t.Helper()

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/terraform/" {
			for _, v := range published {
				fmt.Fprintf(w, "<a href=\"/terraform/%s/\">terraform_%s</a>\n", v, v)
			}
			return
		}
		for _, v := range published {
			if r.URL.Path == fmt.Sprintf("/terraform/%s/terraform_%s_linux_amd64.zip", v, v) {
				ts.downloads.Add(1)
				var buf bytes.Buffer
				zw := zip.NewWriter(&buf)
				f, _ := zw.Create("terraform")
				fmt.Fprintf(f, "#!/bin/sh\necho 'Terraform v%s'\n", v)
				zw.Close()
				w.Write(buf.Bytes())
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// terraformRunner answers "<pointer> -v" from the symlink target, so no real
// terraform binary is executed.
func terraformRunner(pointerPath string, onPath bool) *helpers.MockCommandRunner {
	return &helpers.MockCommandRunner{
		LookPathFunc: func(name string) (string, error) {
			if onPath {
				return pointerPath, nil
			}
			return "", fmt.Errorf("%s not found", name)
		},
		RunCommandFunc: func(_ context.Context, name string, _ ...string) (string, error) {
			target, err := os.Readlink(name)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Terraform v%s\non linux_amd64\n", filepath.Base(filepath.Dir(target))), nil
		},
	}
}

func newDetector(t *testing.T, goos, machine string) *platform.Detector {
	t.Helper()
	log := zerolog.New(io.Discard)
	return platform.NewDetectorWithHost(fakeHost{os: goos, machine: machine, kernel: "6.1.0"}, &log)
}

func newTestApp(t *testing.T, serverURL string) (*App, string) {
	t.Helper()
	ui.DisableColors()

	dir := t.TempDir()
	pointerPath := filepath.Join(dir, "bin", "terraform")
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Pointer:       pointerPath,
			CacheRoot:     dir,
			CacheStrategy: config.StrategyAuto,
			LockFile:      filepath.Join(dir, "terraform.lock.hcl"),
			DBFile:        filepath.Join(dir, "history.db"),
		},
		Releases: config.ReleasesConfig{
			BaseURL: serverURL,
			Timeout: 5 * time.Second,
		},
	}

	log := zerolog.New(io.Discard)
	app := NewApp(cfg, &log)
	app.Runner = terraformRunner(pointerPath, false)
	app.Detector = newDetector(t, "linux", "x86_64")
	app.Progress = false
	return app, dir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func cacheVersion(t *testing.T, dir, v string) string {
	t.Helper()
	exe := filepath.Join(dir, ".tfVersions", v, "terraform")
	require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0755))
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	return exe
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
