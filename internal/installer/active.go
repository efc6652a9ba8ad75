package installer

import (
	"context"
	"regexp"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/fsops"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	terraformVersionPattern = regexp.MustCompile(`Terraform v([0-9]+\.[0-9]+\.[0-9]+)`)
	anyVersionPattern       = regexp.MustCompile(`([0-9]+\.[0-9]+\.[0-9]+)`)
)

// ActiveDetector reports which terraform version currently answers on the
// pointer path (or on PATH when the pointer does not exist).
type ActiveDetector struct {
	fs      afero.Fs
	pointer string
	runner  helpers.CommandRunner
	log     *zerolog.Logger
}

// NewActiveDetector creates an ActiveDetector.
func NewActiveDetector(fs afero.Fs, pointer string, runner helpers.CommandRunner, log *zerolog.Logger) *ActiveDetector {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &ActiveDetector{fs: fs, pointer: pointer, runner: runner, log: log}
}

// DetectActive returns the active version. Any failure is reported as
// ("", false).
func (d *ActiveDetector) DetectActive(ctx context.Context) (string, bool) {
	if d.runner == nil {
		return "", false
	}

	bin := d.pointer
	if bin == "" || !fsops.Exists(d.fs, bin) {
		path, err := d.runner.LookPath(core.BinaryName)
		if err != nil {
			d.log.Debug().Err(err).Msg("no terraform binary found")
			return "", false
		}
		bin = path
	}

	vctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	out, err := d.runner.RunCommand(vctx, bin, "-v")
	if err != nil {
		d.log.Debug().Err(err).Str("binary", bin).Msg("terraform -v failed")
		return "", false
	}

	v, ok := ParseVersionOutput(out)
	if ok {
		d.log.Debug().Str("binary", bin).Str("version", v).Msg("detected active terraform")
	}
	return v, ok
}

// ParseVersionOutput extracts X.Y.Z from "terraform -v" output, preferring
// the "Terraform vX.Y.Z" banner on the first line.
func ParseVersionOutput(out string) (string, bool) {
	line := firstLine(out)
	if m := terraformVersionPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := terraformVersionPattern.FindStringSubmatch(out); m != nil {
		return m[1], true
	}
	if m := anyVersionPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}
