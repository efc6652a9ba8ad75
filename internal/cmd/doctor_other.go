//go:build !unix

package cmd

import "github.com/Mullenmaster/terraform-version-manager/internal/fsops"

func dirWritable(app *App, dir string) error {
	return fsops.CheckWritable(app.Fs, dir)
}
