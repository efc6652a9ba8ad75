// Package releases talks to the Terraform release server: it scrapes the HTML
// index for published versions and downloads platform archives.
package releases

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/platform"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public HashiCorp release server.
	DefaultBaseURL = "https://releases.hashicorp.com"
	// DefaultTimeout bounds a single HTTP request, including the body transfer.
	DefaultTimeout = 60 * time.Second
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "tvm/1.0"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Progress draws a progress bar on stderr during archive downloads.
	Progress bool
	// HTTPClient overrides the default client (Timeout is then ignored).
	HTTPClient *http.Client
}

// Client fetches the version listing and archives.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	progress  bool
	log       *zerolog.Logger
}

// NewClient creates a release server client.
func NewClient(opts Options, log *zerolog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}

	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		progress:  opts.Progress,
		log:       log,
	}
}

// IndexURL returns the URL of the HTML version listing.
func (c *Client) IndexURL() string {
	return c.baseURL + "/terraform/"
}

// ArchiveURL returns the zip URL for a version and platform.
func (c *Client) ArchiveURL(version string, key platform.Key) string {
	return fmt.Sprintf("%s/terraform/%s/terraform_%s_%s_%s.zip", c.baseURL, version, version, key.OS, key.Arch)
}

// ListVersions returns every stable X.Y.Z version on the index, in page order.
func (c *Client) ListVersions(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, c.IndexURL())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: unexpected status %d", core.ErrDownloadFailed, c.IndexURL(), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read release index: %w", core.ErrDownloadFailed, err)
	}

	versions := ParseIndex(string(body))
	c.log.Debug().Int("count", len(versions)).Msg("fetched release index")
	return versions, nil
}

// Download streams the archive for version/key into w. A 404 yields
// core.ErrVersionNotAvailable; any other failure yields core.ErrDownloadFailed.
func (c *Client) Download(ctx context.Context, version string, key platform.Key, w io.Writer) error {
	url := c.ArchiveURL(version, key)
	c.log.Debug().Str("url", url).Msg("downloading archive")

	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: terraform %s for %s", core.ErrVersionNotAvailable, version, key)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: GET %s: unexpected status %d", core.ErrDownloadFailed, url, resp.StatusCode)
	}

	pw := ui.NewProgressWriter(w, resp.ContentLength, fmt.Sprintf("terraform %s", version), c.progress)
	defer pw.Close()

	n, err := io.Copy(pw, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: copy response body: %w", core.ErrDownloadFailed, err)
	}

	c.log.Debug().Int64("bytes", n).Str("version", version).Msg("archive downloaded")
	return nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", core.ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", core.ErrDownloadFailed, url, err)
	}
	return resp, nil
}
