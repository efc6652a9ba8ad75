// Package pointer manages the symlink through which the active terraform
// binary is invoked.
package pointer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Mullenmaster/terraform-version-manager/internal/fsops"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrSymlinkUnsupported is returned when the filesystem cannot create links.
var ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

// Pointer is the active-binary symlink at a fixed path.
type Pointer struct {
	fs   afero.Fs
	path string
	log  *zerolog.Logger
}

// New creates a Pointer for path.
func New(afs afero.Fs, path string, log *zerolog.Logger) *Pointer {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Pointer{fs: afs, path: path, log: log}
}

// Path returns the pointer location.
func (p *Pointer) Path() string {
	return p.path
}

// Activate replaces whatever sits at the pointer path with a symlink to
// target. The previous entry is removed first, so a failed link leaves no
// pointer behind. A relative target is made absolute against the working
// directory, since a relative link would resolve from the pointer's directory.
func (p *Pointer) Activate(target string) error {
	linker, ok := p.fs.(afero.Linker)
	if !ok {
		return ErrSymlinkUnsupported
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", target, err)
	}
	target = abs

	if p.present() {
		p.log.Debug().Str("path", p.path).Msg("removing existing pointer")
		if err := fsops.RemoveIfExists(p.fs, p.path); err != nil {
			return err
		}
	}

	if err := fsops.EnsureDir(p.fs, filepath.Dir(p.path), 0755); err != nil {
		return err
	}

	if err := linker.SymlinkIfPossible(target, p.path); err != nil {
		return fmt.Errorf("link %s -> %s: %w", p.path, target, err)
	}

	p.log.Debug().Str("path", p.path).Str("target", target).Msg("pointer activated")
	return nil
}

// Target returns the symlink destination, or false when no symlink exists.
func (p *Pointer) Target() (string, bool) {
	reader, ok := p.fs.(afero.LinkReader)
	if !ok {
		return "", false
	}
	target, err := reader.ReadlinkIfPossible(p.path)
	if err != nil {
		return "", false
	}
	return target, true
}

// present reports whether anything, including a dangling symlink, occupies
// the pointer path.
func (p *Pointer) present() bool {
	if lst, ok := p.fs.(afero.Lstater); ok {
		_, _, err := lst.LstatIfPossible(p.path)
		return err == nil
	}
	_, err := p.fs.Stat(p.path)
	return !errors.Is(err, fs.ErrNotExist)
}
