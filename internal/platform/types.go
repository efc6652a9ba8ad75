// Package platform maps the host operating system and CPU to the names used by
// the Terraform release server.
//
// Raw identifiers come from the kernel (via gopsutil) rather than GOARCH, so an
// amd64 build running under emulation still reports the real machine. Any
// machine outside {amd64, arm64} is rejected before a download URL is built.
package platform

import (
	"context"
	"fmt"
)

// Supported operating systems
const (
	OSDarwin  = "darwin"
	OSLinux   = "linux"
	OSWindows = "windows"
)

// Supported architectures
const (
	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// Key identifies a release artifact flavor: terraform_<v>_<OS>_<Arch>.zip.
type Key struct {
	OS   string
	Arch string
}

// String returns the key in release-server form, e.g. "linux_amd64".
func (k Key) String() string {
	return fmt.Sprintf("%s_%s", k.OS, k.Arch)
}

// IsWindows returns true for windows keys.
func (k Key) IsWindows() bool {
	return k.OS == OSWindows
}

// HostInfo provides raw host identifiers.
type HostInfo interface {
	// OS returns the raw operating system name (e.g. "Linux", "darwin").
	OS() string
	// Machine returns the raw CPU architecture (e.g. "x86_64", "AMD64", "aarch64").
	Machine(ctx context.Context) (string, error)
	// KernelRelease returns the kernel release string (e.g. "5.15.90.1-microsoft-standard-WSL2").
	KernelRelease(ctx context.Context) (string, error)
}
