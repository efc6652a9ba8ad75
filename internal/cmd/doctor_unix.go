//go:build unix

package cmd

import (
	"github.com/Mullenmaster/terraform-version-manager/internal/fsops"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func dirWritable(app *App, dir string) error {
	// access(2) honours the effective uid without creating files; fall back
	// to a probe file for non-OS filesystems.
	if _, ok := app.Fs.(*afero.OsFs); ok {
		return unix.Access(dir, unix.W_OK|unix.X_OK)
	}
	return fsops.CheckWritable(app.Fs, dir)
}
