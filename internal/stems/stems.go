// Package stems splits multi-stream STEMS containers into per-stem WAV files
// plus a JSON manifest describing the mapping.
package stems

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/cheesypeas/stemfetch/internal/logctx"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// stemBitDepth is the bit depth of extracted WAV files.
	stemBitDepth = 16

	// wavFormatPCM is the WAV audio format tag for uncompressed PCM.
	wavFormatPCM = 1
)

// Stem is one decoded audio stream of a container, in source order.
type Stem struct {
	Data *audio.IntBuffer
}

// StemReader decodes a stems container into its ordered audio streams.
type StemReader interface {
	ReadStems(ctx context.Context, containerPath string) ([]Stem, error)
}

// Extractor writes the streams of a container out as individual WAV files
// named <prefix>_stem<N>.wav (1-indexed) next to a <prefix>_stems.json
// manifest.
type Extractor struct {
	reader StemReader
}

// NewExtractor creates an Extractor on top of the given reader.
func NewExtractor(reader StemReader) *Extractor {
	return &Extractor{reader: reader}
}

// Extract decodes containerPath and writes one WAV file per stream plus the
// manifest. Any processing failure surfaces as a *fetch.DecodeFailureError.
func (e *Extractor) Extract(ctx context.Context, containerPath, outPrefix string) error {
	logger := logctx.LoggerFromContext(ctx)
	source := filepath.Base(containerPath)

	logger.Info("extracting stems", "source", source)

	decoded, err := e.reader.ReadStems(ctx, containerPath)
	if err != nil {
		return &fetch.DecodeFailureError{Source: source, Err: err}
	}

	if len(decoded) == 0 {
		return &fetch.DecodeFailureError{Source: source, Err: errors.New("container has no audio streams")}
	}

	mapping := make(map[string]string, len(decoded))

	for i, stem := range decoded {
		wavPath := fmt.Sprintf("%s_stem%d.wav", outPrefix, i+1)
		if err := writeStemFile(wavPath, stem); err != nil {
			return &fetch.DecodeFailureError{Source: source, Err: err}
		}

		mapping[strconv.Itoa(i+1)] = filepath.Base(wavPath)
	}

	manifest := Manifest{Stems: mapping, Source: source}
	if err := writeManifest(outPrefix+"_stems.json", manifest); err != nil {
		return &fetch.DecodeFailureError{Source: source, Err: err}
	}

	logger.Info("extracted stems", "source", source, "stems", len(decoded))

	return nil
}

func writeStemFile(path string, stem Stem) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create stem file: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out,
		stem.Data.Format.SampleRate,
		stemBitDepth,
		stem.Data.Format.NumChannels,
		wavFormatPCM,
	)

	if err := enc.Write(stem.Data); err != nil {
		return fmt.Errorf("failed to encode stem audio: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize stem file: %w", err)
	}

	return nil
}
