package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cheesypeas/stemfetch/internal/config"
	"github.com/cheesypeas/stemfetch/internal/downloader"
	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/cheesypeas/stemfetch/internal/logctx"
	"github.com/cheesypeas/stemfetch/internal/stems"
	"github.com/cheesypeas/stemfetch/internal/version"
	"github.com/cheesypeas/stemfetch/internal/zenodo"
	"github.com/spf13/cobra"
)

var (
	cmdUse   = "stemfetch"
	cmdShort = "Fetch audio stem files from MUSDB18 and MedleyDB via Zenodo"
	cmdLong  = `stemfetch downloads per-track stem files from the MUSDB18 (compressed STEMS)
and MedleyDB v2 Zenodo records, and can split downloaded STEMS containers
into per-stem WAV files.

Examples:
  stemfetch --source musdb --num 5 --output ./data --extract
  stemfetch --source medleydb --num 5 --output ./data
  stemfetch --num 3 --extract

Record IDs can change upstream; override them with --musdb-record-id and
--medleydb-record-id. Respect the dataset licenses: most are restricted to
non-commercial research use.`
)

type options struct {
	source           string
	num              int
	output           string
	accessToken      string
	musdbRecordID    string
	medleydbRecordID string
	extract          bool
	out              string
	verbose          bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	var opts options

	cmd := &cobra.Command{
		Use:          cmdUse,
		Short:        cmdShort,
		Long:         cmdLong,
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s\n(build %s)", version.Version, version.GitCommit),
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := cfg.SlogLevel()
			if opts.verbose {
				level = slog.LevelDebug
			}

			// stdout carries progress and the summary; logs go to stderr.
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			return run(logctx.WithLogger(cmd.Context(), logger), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.SetVersionTemplate("stemfetch version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.source, "source", fetch.SourceBoth,
		"Source dataset(s) to fetch. Options: musdb, medleydb, both.",
	)
	flags.IntVar(&opts.num, "num", 0,
		"Number of items (tracks/files) to fetch per source.",
	)
	flags.StringVar(&opts.output, "output", cfg.OutputDir,
		"Root output directory, created if absent.",
	)
	flags.StringVar(&opts.accessToken, "access-token", cfg.AccessToken,
		"Zenodo access token, forwarded on every repository request.",
	)
	flags.StringVar(&opts.musdbRecordID, "musdb-record-id", cfg.MusdbRecordID,
		"Zenodo record id for MUSDB18 (compressed STEMS).",
	)
	flags.StringVar(&opts.medleydbRecordID, "medleydb-record-id", cfg.MedleydbRecordID,
		"Zenodo record id for MedleyDB v2.",
	)
	flags.BoolVar(&opts.extract, "extract", false,
		"Extract WAV stems from downloaded MUSDB containers.",
	)
	flags.StringVarP(&opts.out, "out", "o", "text",
		"Output format for the summary. Options: text, json.",
	)
	flags.BoolVar(&opts.verbose, "verbose", false, "turn on verbose logging")

	_ = cmd.MarkFlagRequired("num")

	if err := cmd.ExecuteContext(newContext()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer) error {
	logger := logctx.LoggerFromContext(ctx)

	if opts.num < 1 {
		return fmt.Errorf("invalid --num %d: must be a positive integer", opts.num)
	}

	if opts.out != "text" && opts.out != "json" {
		return fmt.Errorf("unknown output format: %s", opts.out)
	}

	datasets, err := fetch.DatasetsForSource(opts.source, opts.musdbRecordID, opts.medleydbRecordID, opts.extract)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// The progress display shares the output stream with the summary, so it
	// is silenced for machine-readable output.
	var progressOut io.Writer
	if opts.out == "text" {
		progressOut = out
	}

	fetcher := &fetch.Fetcher{
		Client:    zenodo.NewClient(cfg.BaseURL, opts.accessToken),
		Downloads: downloader.New(opts.accessToken, progressOut),
		Extractor: stems.Resolve(cfg.FFmpegPath, cfg.FFprobePath),
		OutputDir: opts.output,
	}

	var (
		results []fetch.Result
		errs    []error
	)

	// Datasets are fetched one after another; a failed dataset does not stop
	// the remaining ones, but fails the run.
	for _, ds := range datasets {
		dsResults, err := fetcher.Fetch(ctx, ds, opts.num)
		results = append(results, dsResults...)

		if err != nil {
			logger.Error("dataset fetch failed", "dataset", ds.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", ds.Name, err))
		}
	}

	switch opts.out {
	case "json":
		if err := renderJSON(out, results); err != nil {
			errs = append(errs, err)
		}
	default:
		renderTable(out, results)
	}

	return errors.Join(errs...)
}

// newContext returns a context canceled on the first interrupt; a second
// interrupt exits immediately.
func newContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	go func() {
		for range signals {
			if ctx.Err() != nil {
				os.Exit(1)
			}

			cancel()
		}
	}()

	return ctx
}
