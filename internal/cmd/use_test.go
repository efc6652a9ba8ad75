//go:build !windows

package cmd

import (
	"errors"
	"os"
	"testing"

	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseCmd_Argument(t *testing.T) {
	srv := newTestServer(t)
	app, dir := newTestApp(t, srv.URL)
	exe := cacheVersion(t, dir, "1.3.0")

	out, err := execute(t, NewRootCmdWithApp(app, "dev"), "use", "1.3.0")
	require.NoError(t, err)
	assert.Contains(t, out, "Terraform v1.3.0")

	target, err := os.Readlink(app.Config.Paths.Pointer)
	require.NoError(t, err)
	assert.Equal(t, exe, target)
	assert.Equal(t, int32(0), srv.downloads.Load())
}

func TestUseCmd_Picker(t *testing.T) {
	srv := newTestServer(t)
	app, dir := newTestApp(t, srv.URL)
	cacheVersion(t, dir, "1.3.0")
	exe := cacheVersion(t, dir, "1.5.7")

	sel := &stubSelector{pick: "1.5.7"}
	app.Selector = sel

	_, err := execute(t, NewRootCmdWithApp(app, "dev"), "use")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.5.7", "1.3.0"}, sel.items)

	target, err := os.Readlink(app.Config.Paths.Pointer)
	require.NoError(t, err)
	assert.Equal(t, exe, target)
}

func TestUseCmd_PickerCancelled(t *testing.T) {
	app, dir := newTestApp(t, "http://127.0.0.1:0")
	cacheVersion(t, dir, "1.5.7")
	app.Selector = &stubSelector{err: ui.ErrSelectionCancelled}

	_, err := execute(t, NewRootCmdWithApp(app, "dev"), "use")
	require.NoError(t, err)

	_, err = os.Lstat(app.Config.Paths.Pointer)
	assert.True(t, os.IsNotExist(err))
}

func TestUseCmd_PickerError(t *testing.T) {
	app, dir := newTestApp(t, "http://127.0.0.1:0")
	cacheVersion(t, dir, "1.5.7")
	boom := errors.New("no tty")
	app.Selector = &stubSelector{err: boom}

	_, err := execute(t, NewRootCmdWithApp(app, "dev"), "use")
	assert.ErrorIs(t, err, boom)
}

func TestUseCmd_NothingCached(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:0")
	sel := &stubSelector{}
	app.Selector = sel

	_, err := execute(t, NewRootCmdWithApp(app, "dev"), "use")
	require.NoError(t, err)
	assert.Nil(t, sel.items)
}
