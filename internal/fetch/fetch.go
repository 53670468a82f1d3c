// Package fetch drives the per-dataset pipeline: list a repository record,
// select stem files by name, download them, and optionally decode containers
// into per-stem audio files.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheesypeas/stemfetch/internal/logctx"
)

const dirPerm = 0755

// ListingClient lists the files of a repository record.
type ListingClient interface {
	ListRecordFiles(ctx context.Context, recordID string) ([]File, error)
}

// FileDownloader streams a remote file to a local path and reports the bytes
// written.
type FileDownloader interface {
	Download(ctx context.Context, url, targetPath string) (int64, error)
}

// StemExtractor splits a downloaded stems container into per-stem audio files
// named from the given output prefix.
type StemExtractor interface {
	Extract(ctx context.Context, containerPath, outPrefix string) error
}

// Result is one successfully downloaded file.
type Result struct {
	Dataset string `json:"dataset"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
}

// Fetcher fetches stem files for datasets into a local output directory.
type Fetcher struct {
	Client    ListingClient
	Downloads FileDownloader
	Extractor StemExtractor
	OutputDir string
}

// Fetch lists the dataset's record, selects up to num matching files, and
// downloads each into <OutputDir>/<dataset-name>/. Files without a resolvable
// address and failed decode steps are logged and skipped; listing, selection,
// and download errors abort the dataset. Returns the results accumulated
// before any error.
func (f *Fetcher) Fetch(ctx context.Context, ds Dataset, num int) ([]Result, error) {
	logger := logctx.LoggerFromContext(ctx).With("dataset", ds.Name, "record_id", ds.RecordID)
	ctx = logctx.WithLogger(ctx, logger)

	logger.Info("listing record files")

	files, err := f.Client.ListRecordFiles(ctx, ds.RecordID)
	if err != nil {
		return nil, err
	}

	selected, err := SelectFiles(ds.RecordID, files, ds.Patterns, num)
	if err != nil {
		return nil, err
	}

	logger.Debug("selected files", "listed", len(files), "selected", len(selected))

	targetDir := filepath.Join(f.OutputDir, ds.Name)
	if err := os.MkdirAll(targetDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	results := make([]Result, 0, len(selected))

	for _, file := range selected {
		name := file.DisplayName()

		url, ok := file.DownloadURL()
		if !ok {
			logger.Warn("skipping file", "err", &UnresolvableAddressError{Name: name})

			continue
		}

		logger.Info("fetching file", "file", name)

		dest := filepath.Join(targetDir, name)

		written, err := f.Downloads.Download(ctx, url, dest)
		if err != nil {
			return results, err
		}

		results = append(results, Result{Dataset: ds.Name, Path: dest, Size: written})

		if ds.Decode {
			prefix := strings.TrimSuffix(dest, filepath.Ext(dest))
			if err := f.Extractor.Extract(ctx, dest, prefix); err != nil {
				logger.Warn("stem extraction failed", "file", name, "err", err)
			}
		}
	}

	return results, nil
}
