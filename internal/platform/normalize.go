package platform

import (
	"fmt"
	"strings"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
)

// NormalizeArch converts a raw machine identifier to "amd64" or "arm64".
// It performs no I/O.
func NormalizeArch(raw string) (string, error) {
	switch {
	case raw == "x86_64" || raw == "AMD64" || raw == "amd64":
		return ArchAMD64, nil
	case strings.HasPrefix(raw, "arm") || strings.HasPrefix(raw, "aarch64"):
		return ArchARM64, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedArchitecture, raw)
	}
}

// NormalizeOS lower-cases a raw OS name and checks it against the release vocabulary.
func NormalizeOS(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case OSDarwin, OSLinux, OSWindows:
		return name, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedOS, raw)
	}
}
