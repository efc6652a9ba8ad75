package installer

import (
	"context"
	"errors"
	"testing"

	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{"banner", "Terraform v1.5.7\non linux_amd64\n", "1.5.7", true},
		{"outdated notice", "Terraform v1.4.0\non darwin_arm64\n\nYour version of Terraform is out of date! The latest version\nis 1.10.0.", "1.4.0", true},
		{"banner after warning", "Warning: something\nTerraform v1.9.0\n", "1.9.0", true},
		{"bare version", "1.2.5\n", "1.2.5", true},
		{"garbage", "command not found", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersionOutput(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectActive_Pointer(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/usr/local/bin/terraform", []byte("bin"), 0755)

	var ran string
	runner := &helpers.MockCommandRunner{
		RunCommandFunc: func(_ context.Context, name string, _ ...string) (string, error) {
			ran = name
			return "Terraform v1.5.7\n", nil
		},
		LookPathFunc: func(string) (string, error) {
			t.Error("PATH lookup must not happen when the pointer exists")
			return "", errors.New("unexpected")
		},
	}

	d := NewActiveDetector(fs, "/usr/local/bin/terraform", runner, nil)
	v, ok := d.DetectActive(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "1.5.7", v)
	assert.Equal(t, "/usr/local/bin/terraform", ran)
}

func TestDetectActive_FallsBackToPath(t *testing.T) {
	var ran string
	runner := &helpers.MockCommandRunner{
		LookPathFunc: func(string) (string, error) { return "/home/dev/bin/terraform", nil },
		RunCommandFunc: func(_ context.Context, name string, _ ...string) (string, error) {
			ran = name
			return "Terraform v1.9.0\n", nil
		},
	}

	d := NewActiveDetector(afero.NewMemMapFs(), "/usr/local/bin/terraform", runner, nil)
	v, ok := d.DetectActive(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "1.9.0", v)
	assert.Equal(t, "/home/dev/bin/terraform", ran)
}

func TestDetectActive_NotInstalled(t *testing.T) {
	d := NewActiveDetector(afero.NewMemMapFs(), "/usr/local/bin/terraform", &helpers.MockCommandRunner{}, nil)
	v, ok := d.DetectActive(context.Background())
	assert.False(t, ok)
	assert.Empty(t, v)

	d = NewActiveDetector(afero.NewMemMapFs(), "", nil, nil)
	_, ok = d.DetectActive(context.Background())
	assert.False(t, ok)
}

func TestDetectActive_ExecutionFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/usr/local/bin/terraform", []byte("bin"), 0755)

	runner := &helpers.MockCommandRunner{
		RunCommandFunc: func(context.Context, string, ...string) (string, error) {
			return "", errors.New("exit status 1")
		},
	}

	d := NewActiveDetector(fs, "/usr/local/bin/terraform", runner, nil)
	_, ok := d.DetectActive(context.Background())
	assert.False(t, ok)
}
