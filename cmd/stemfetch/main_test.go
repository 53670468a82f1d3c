package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cheesypeas/stemfetch/internal/config"
	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nightOwlContent = "night owl stems container"
	childContent    = "child stems container data"
)

// newZenodoServer serves a MUSDB18-shaped record listing with two matching
// containers among five files, plus the file bodies themselves.
func newZenodoServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/records/1117372", func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host

		fmt.Fprintf(w, `{
			"files": [
				{"key": "README.md", "size": 120},
				{"key": "A Classic Education - NightOwl STEMS.mp4", "size": 25, "links": {"download": "%s/files/nightowl.mp4"}},
				{"key": "cover.png", "size": 9000},
				{"key": "Aimee Norwich - Child STEMS.mp4", "size": 26, "links": {"download": "%s/files/child.mp4"}},
				{"key": "checksums.sha256", "size": 410}
			]
		}`, base, base)
	})

	mux.HandleFunc("/files/nightowl.mp4", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, nightOwlContent)
	})
	mux.HandleFunc("/files/child.mp4", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, childContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func testOptions(outputDir string) options {
	return options{
		source:           fetch.SourceMusdb,
		num:              2,
		output:           outputDir,
		musdbRecordID:    config.DefaultMusdbRecordID,
		medleydbRecordID: config.DefaultMedleydbRecordID,
		out:              "json",
	}
}

func TestRun(t *testing.T) {
	srv := newZenodoServer(t)
	outputDir := t.TempDir()

	cfg := &config.Config{
		BaseURL:     srv.URL,
		FFmpegPath:  "stemfetch-missing-ffmpeg",
		FFprobePath: "stemfetch-missing-ffprobe",
	}

	var buf bytes.Buffer

	err := run(context.Background(), cfg, testOptions(outputDir), &buf)
	require.NoError(t, err)

	nightOwl := filepath.Join(outputDir, "musdb18", "A Classic Education - NightOwl STEMS.mp4")
	child := filepath.Join(outputDir, "musdb18", "Aimee Norwich - Child STEMS.mp4")

	got, err := os.ReadFile(nightOwl)
	require.NoError(t, err)
	assert.Equal(t, nightOwlContent, string(got))

	got, err = os.ReadFile(child)
	require.NoError(t, err)
	assert.Equal(t, childContent, string(got))

	var results []fetch.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 2)

	assert.Equal(t, fetch.Result{Dataset: "musdb18", Path: nightOwl, Size: int64(len(nightOwlContent))}, results[0])
	assert.Equal(t, fetch.Result{Dataset: "musdb18", Path: child, Size: int64(len(childContent))}, results[1])
}

func TestRun_TextSummary(t *testing.T) {
	srv := newZenodoServer(t)

	cfg := &config.Config{BaseURL: srv.URL}

	opts := testOptions(t.TempDir())
	opts.out = "text"

	var buf bytes.Buffer

	err := run(context.Background(), cfg, opts, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Downloading A Classic Education - NightOwl STEMS.mp4")
	assert.Contains(t, out, "DATASET")
	assert.Contains(t, out, "musdb18")
}

func TestRun_SkipsUnresolvableFiles(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/records/1117372", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"files": [
				{"key": "A Classic Education - NightOwl STEMS.mp4", "size": 25, "links": {"download": "http://%s/files/nightowl.mp4"}},
				{"key": "Aimee Norwich - Child STEMS.mp4", "size": 26}
			]
		}`, r.Host)
	})
	mux.HandleFunc("/files/nightowl.mp4", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, nightOwlContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	outputDir := t.TempDir()

	cfg := &config.Config{BaseURL: srv.URL}

	var buf bytes.Buffer

	err := run(context.Background(), cfg, testOptions(outputDir), &buf)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(outputDir, "musdb18", "Aimee Norwich - Child STEMS.mp4"))

	var results []fetch.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(outputDir, "musdb18", "A Classic Education - NightOwl STEMS.mp4"), results[0].Path)
}

func TestRun_ContinuesAfterDatasetFailure(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/records/1117372", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status": 410, "message": "record gone"}`, http.StatusGone)
	})
	mux.HandleFunc("/api/records/3677432", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"files": [
				{"key": "AClassicEducation_Multitrack.zip", "size": 18, "links": {"self": "http://%s/files/multitrack.zip"}}
			]
		}`, r.Host)
	})
	mux.HandleFunc("/files/multitrack.zip", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "multitrack archive")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	outputDir := t.TempDir()

	cfg := &config.Config{BaseURL: srv.URL}

	opts := testOptions(outputDir)
	opts.source = fetch.SourceBoth

	var buf bytes.Buffer

	err := run(context.Background(), cfg, opts, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "musdb18")

	var remoteErr *fetch.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusGone, remoteErr.StatusCode)

	// The MedleyDB half of the run still completed.
	assert.FileExists(t, filepath.Join(outputDir, "medleydb", "AClassicEducation_Multitrack.zip"))

	var results []fetch.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "medleydb", results[0].Dataset)
}

func TestRun_InvalidArguments(t *testing.T) {
	cfg := &config.Config{BaseURL: "http://zenodo.invalid"}

	testCases := []struct {
		name    string
		mutate  func(*options)
		wantErr string
	}{
		{
			name:    "zero num",
			mutate:  func(o *options) { o.num = 0 },
			wantErr: "invalid --num",
		},
		{
			name:    "negative num",
			mutate:  func(o *options) { o.num = -3 },
			wantErr: "invalid --num",
		},
		{
			name:    "unknown output format",
			mutate:  func(o *options) { o.out = "yaml" },
			wantErr: "unknown output format",
		},
		{
			name:    "unknown source",
			mutate:  func(o *options) { o.source = "all" },
			wantErr: "unknown source",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions(t.TempDir())
			tc.mutate(&opts)

			err := run(context.Background(), cfg, opts, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
