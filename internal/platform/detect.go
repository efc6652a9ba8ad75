package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/host"
)

// SystemHost reads host identifiers from the running system.
type SystemHost struct{}

// OS implements HostInfo.
func (SystemHost) OS() string {
	return runtime.GOOS
}

// Machine implements HostInfo. Falls back to GOARCH when the kernel cannot be queried.
func (SystemHost) Machine(context.Context) (string, error) {
	arch, err := host.KernelArch()
	if err != nil || arch == "" {
		return runtime.GOARCH, nil
	}
	return arch, nil
}

// KernelRelease implements HostInfo.
func (SystemHost) KernelRelease(ctx context.Context) (string, error) {
	return host.KernelVersionWithContext(ctx)
}

// Detector resolves the platform Key for the current host.
type Detector struct {
	host HostInfo
	log  *zerolog.Logger
}

// NewDetector creates a detector backed by the real host.
func NewDetector(log *zerolog.Logger) *Detector {
	return NewDetectorWithHost(SystemHost{}, log)
}

// NewDetectorWithHost creates a detector with an explicit HostInfo (useful for tests).
func NewDetectorWithHost(h HostInfo, log *zerolog.Logger) *Detector {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Detector{host: h, log: log}
}

// Detect returns the normalized platform key.
func (d *Detector) Detect(ctx context.Context) (Key, error) {
	rawOS := d.host.OS()
	rawArch, err := d.host.Machine(ctx)
	if err != nil {
		return Key{}, fmt.Errorf("read host architecture: %w", err)
	}

	d.log.Debug().
		Str("os", rawOS).
		Str("arch", rawArch).
		Msg("detected host platform")

	osName, err := NormalizeOS(rawOS)
	if err != nil {
		return Key{}, err
	}
	arch, err := NormalizeArch(rawArch)
	if err != nil {
		return Key{}, err
	}

	return Key{OS: osName, Arch: arch}, nil
}

// IsWSL reports whether the host is Linux running under Windows Subsystem for Linux.
// Detection failures are treated as "not WSL".
func (d *Detector) IsWSL(ctx context.Context) bool {
	if !strings.EqualFold(d.host.OS(), OSLinux) {
		return false
	}
	release, err := d.host.KernelRelease(ctx)
	if err != nil {
		d.log.Debug().Err(err).Msg("kernel release unavailable")
		return false
	}
	return strings.Contains(strings.ToLower(release), "microsoft")
}
