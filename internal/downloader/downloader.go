// Package downloader streams remote files to disk with an in-place progress
// display.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/cheesypeas/stemfetch/internal/logctx"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

const (
	dirPerm = 0755

	// downloadTimeout bounds one whole file transfer.
	downloadTimeout = 180 * time.Second

	// copyBufferSize is the chunk size for streaming response bodies.
	copyBufferSize = 1 << 20

	// maxErrorBody caps how much of an error response body is kept for reporting.
	maxErrorBody = 512
)

// Downloader streams HTTP responses to local files.
type Downloader struct {
	httpClient  *http.Client
	accessToken string
	progressOut io.Writer
}

// New creates a Downloader. The access token, when non-empty, is forwarded as
// a query parameter on every request. Progress is rendered to progressOut;
// pass nil to disable the display.
func New(accessToken string, progressOut io.Writer) *Downloader {
	if progressOut == nil {
		progressOut = io.Discard
	}

	return &Downloader{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		accessToken: accessToken,
		progressOut: progressOut,
	}
}

// Download streams url into targetPath, creating parent directories as
// needed, and returns the number of bytes written. A non-success HTTP status
// surfaces as a *fetch.RemoteError before the target file is created; a
// mid-stream failure leaves the truncated file in place.
func (d *Downloader) Download(ctx context.Context, url, targetPath string) (int64, error) {
	logger := logctx.LoggerFromContext(ctx).With("target", targetPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if d.accessToken != "" {
		q := req.URL.Query()
		q.Set("access_token", d.accessToken)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("non-success response", "url", url, "status", resp.StatusCode)

		return 0, &fetch.RemoteError{
			Operation:  "download file",
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), dirPerm); err != nil {
		return 0, fmt.Errorf("failed to create target directory: %w", err)
	}

	out, err := os.Create(targetPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create target file: %w", err)
	}
	defer out.Close()

	if resp.ContentLength > 0 {
		logger.Debug("downloading file", "file_size", humanize.Bytes(uint64(resp.ContentLength)))
	} else {
		logger.Debug("downloading file", "file_size", "unknown")
	}

	bar := d.newBar(resp.ContentLength, "Downloading "+filepath.Base(targetPath))

	buf := make([]byte, copyBufferSize)

	written, err := io.CopyBuffer(io.MultiWriter(out, bar), resp.Body, buf)
	if err != nil {
		_ = bar.Exit()

		return written, fmt.Errorf("failed to copy file: %w", err)
	}

	_ = bar.Close()

	logger.Info("downloaded and saved file", "bytes", written)

	return written, nil
}

// newBar builds a byte-counting progress bar rendered in place on the
// configured writer, finished with a newline. An unknown total (size < 0)
// renders a spinner with a byte count and no percentage.
func (d *Downloader) newBar(size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(d.progressOut),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(d.progressOut, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}
