package ui

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps progressbar/v3 with tvm styling
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBarBytes creates a byte-counting bar for downloads. A max of -1
// renders a spinner when the server sends no Content-Length.
func NewProgressBarBytes(max int64, description string, visible bool) *ProgressBar {
	bar := progressbar.NewOptions64(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(visible),
	)
	return &ProgressBar{bar: bar}
}

// Add64 increments the progress bar by n
func (p *ProgressBar) Add64(n int64) error {
	return p.bar.Add64(n)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() error {
	return p.bar.Finish()
}

// ProgressWriter wraps an io.Writer with a progress bar
type ProgressWriter struct {
	writer io.Writer
	bar    *ProgressBar
}

// NewProgressWriter creates a new writer with progress tracking
func NewProgressWriter(writer io.Writer, max int64, description string, visible bool) *ProgressWriter {
	return &ProgressWriter{
		writer: writer,
		bar:    NewProgressBarBytes(max, description, visible),
	}
}

// Write implements io.Writer with progress tracking
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	if n > 0 {
		_ = pw.bar.Add64(int64(n))
	}
	return n, err
}

// Close finishes the progress bar. The wrapped writer is left open.
func (pw *ProgressWriter) Close() error {
	return pw.bar.Finish()
}

// IsTerminal reports whether stderr is attached to a terminal, which is where
// progress bars are drawn.
func IsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
