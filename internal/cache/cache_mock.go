package cache

import (
	"context"
	"io"

	"github.com/Mullenmaster/terraform-version-manager/internal/platform"
)

// MockFetcher is a mock implementation of Fetcher for testing
type MockFetcher struct {
	DownloadFunc func(ctx context.Context, version string, key platform.Key, w io.Writer) error
	Calls        int
}

// Download implements Fetcher.Download
func (m *MockFetcher) Download(ctx context.Context, version string, key platform.Key, w io.Writer) error {
	m.Calls++
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, version, key, w)
	}
	return nil
}
