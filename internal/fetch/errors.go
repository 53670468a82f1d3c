package fetch

import (
	"fmt"
	"strings"
)

// RemoteError represents a non-success HTTP status from the repository, on
// either the record listing or a file download. Listing and download failures
// abort the dataset they belong to.
type RemoteError struct {
	Operation  string // The operation that failed (e.g. "list record", "download file")
	URL        string // Request URL, with credentials already stripped
	StatusCode int    // HTTP status code
	Body       string // Response body snippet, if any
}

func (e *RemoteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("remote error during %s (HTTP %d): %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("remote error during %s (HTTP %d)", e.Operation, e.StatusCode)
}

// EmptyResultError reports a record listing that contained no files at all,
// which points at a wrong record ID or an upstream change.
type EmptyResultError struct {
	RecordID string // The record that was listed
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no files found in record %s", e.RecordID)
}

// NoMatchError reports that none of a record's files matched the selection
// patterns. Samples holds up to ten of the listed filenames to aid diagnosis.
type NoMatchError struct {
	RecordID string
	Samples  []string
}

func (e *NoMatchError) Error() string {
	if len(e.Samples) == 0 {
		return fmt.Sprintf("no files matched the selection patterns in record %s", e.RecordID)
	}
	return fmt.Sprintf("no files matched the selection patterns in record %s, sample names: %s",
		e.RecordID, strings.Join(e.Samples, ", "))
}

// UnresolvableAddressError reports a file descriptor that carries no usable
// download reference. The item is skipped; the batch continues.
type UnresolvableAddressError struct {
	Name string // Display name of the file that could not be resolved
}

func (e *UnresolvableAddressError) Error() string {
	return fmt.Sprintf("no download address for %s", e.Name)
}

// DecodeUnavailableError reports that the stem decoding capability is missing,
// typically because ffmpeg or ffprobe is not installed. Non-fatal to the batch.
type DecodeUnavailableError struct {
	Tool string // Name of the missing tool
	Err  error  // Underlying lookup error, if any
}

func (e *DecodeUnavailableError) Error() string {
	return fmt.Sprintf("stem decoding unavailable: %s not found", e.Tool)
}

func (e *DecodeUnavailableError) Unwrap() error {
	return e.Err
}

// DecodeFailureError reports that the decode capability was present but failed
// while processing a container. Non-fatal to the batch.
type DecodeFailureError struct {
	Source string // Base name of the container being decoded
	Err    error  // Underlying error, if any
}

func (e *DecodeFailureError) Error() string {
	return fmt.Sprintf("failed to decode stems from %s: %v", e.Source, e.Err)
}

func (e *DecodeFailureError) Unwrap() error {
	return e.Err
}
