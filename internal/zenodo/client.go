// Package zenodo lists record files through the Zenodo records REST API.
package zenodo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/cheesypeas/stemfetch/internal/logctx"
	"github.com/cheesypeas/stemfetch/internal/version"
)

// listTimeout bounds one record metadata request.
const listTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response body is kept for reporting.
const maxErrorBody = 512

// Client is a Zenodo records API client.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a records API client for the given repository base URL.
// The access token, when non-empty, is forwarded as a query parameter on
// every request.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: listTimeout,
		},
	}
}

// recordResponse covers the record metadata shapes Zenodo has served: a flat
// top-level files array, or search hits each carrying their own files.
type recordResponse struct {
	Files []fetch.File `json:"files"`
	Hits  struct {
		Hits []struct {
			Files []fetch.File `json:"files"`
		} `json:"hits"`
	} `json:"hits"`
}

// ListRecordFiles fetches a record's metadata and returns its file listing as
// a flat sequence. Returns a *fetch.RemoteError on a non-success HTTP status
// and a *fetch.EmptyResultError when the record carries no files.
func (c *Client) ListRecordFiles(ctx context.Context, recordID string) ([]fetch.File, error) {
	logger := logctx.LoggerFromContext(ctx).With("record_id", recordID)

	endpoint := fmt.Sprintf("%s/api/records/%s", c.baseURL, recordID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stemfetch/"+version.Version)

	if c.accessToken != "" {
		q := req.URL.Query()
		q.Set("access_token", c.accessToken)
		req.URL.RawQuery = q.Encode()
	}

	logger.Debug("listing record files", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list record %s: %w", recordID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("non-success response", "status", resp.StatusCode, "body", string(b))

		return nil, &fetch.RemoteError{
			Operation:  "list record",
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	var record recordResponse
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", recordID, err)
	}

	files := record.Files
	if len(files) == 0 {
		for _, hit := range record.Hits.Hits {
			files = append(files, hit.Files...)
		}
	}

	if len(files) == 0 {
		return nil, &fetch.EmptyResultError{RecordID: recordID}
	}

	logger.Debug("record listed", "files", len(files))

	return files, nil
}
