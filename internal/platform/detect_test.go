package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	os         string
	machine    string
	machineErr error
	release    string
	releaseErr error
}

func (f fakeHost) OS() string { return f.os }

func (f fakeHost) Machine(context.Context) (string, error) { return f.machine, f.machineErr }

func (f fakeHost) KernelRelease(context.Context) (string, error) { return f.release, f.releaseErr }

func TestDetector_Detect(t *testing.T) {
	ctx := context.Background()

	t.Run("linux x86_64", func(t *testing.T) {
		d := NewDetectorWithHost(fakeHost{os: "linux", machine: "x86_64"}, nil)
		key, err := d.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, Key{OS: OSLinux, Arch: ArchAMD64}, key)
	})

	t.Run("apple silicon", func(t *testing.T) {
		d := NewDetectorWithHost(fakeHost{os: "Darwin", machine: "arm64"}, nil)
		key, err := d.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, Key{OS: OSDarwin, Arch: ArchARM64}, key)
	})

	t.Run("windows AMD64", func(t *testing.T) {
		d := NewDetectorWithHost(fakeHost{os: "windows", machine: "AMD64"}, nil)
		key, err := d.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, "windows_amd64", key.String())
	})

	t.Run("unsupported arch", func(t *testing.T) {
		d := NewDetectorWithHost(fakeHost{os: "linux", machine: "i686"}, nil)
		_, err := d.Detect(ctx)
		assert.ErrorIs(t, err, core.ErrUnsupportedArchitecture)
	})

	t.Run("unsupported os", func(t *testing.T) {
		d := NewDetectorWithHost(fakeHost{os: "plan9", machine: "amd64"}, nil)
		_, err := d.Detect(ctx)
		assert.ErrorIs(t, err, core.ErrUnsupportedOS)
	})

	t.Run("machine read error", func(t *testing.T) {
		d := NewDetectorWithHost(fakeHost{os: "linux", machineErr: errors.New("uname failed")}, nil)
		_, err := d.Detect(ctx)
		assert.Error(t, err)
	})
}

func TestDetector_IsWSL(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		host fakeHost
		want bool
	}{
		{"wsl2", fakeHost{os: "linux", release: "5.15.90.1-microsoft-standard-WSL2"}, true},
		{"wsl1", fakeHost{os: "linux", release: "4.4.0-19041-Microsoft"}, true},
		{"native linux", fakeHost{os: "linux", release: "6.8.0-45-generic"}, false},
		{"darwin", fakeHost{os: "darwin", release: "microsoft"}, false},
		{"release error", fakeHost{os: "linux", releaseErr: errors.New("nope")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetectorWithHost(tt.host, nil)
			assert.Equal(t, tt.want, d.IsWSL(ctx))
		})
	}
}

func TestSystemHost(t *testing.T) {
	h := SystemHost{}
	assert.NotEmpty(t, h.OS())
	machine, err := h.Machine(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, machine)
}
