package stems

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/go-audio/audio"
)

const toolLogLevel = "error"

// Resolve probes the search path for the decode tooling and returns the
// matching capability variant: a working extractor, or one whose Extract
// always reports a *fetch.DecodeUnavailableError.
func Resolve(ffmpegPath, ffprobePath string) fetch.StemExtractor {
	for _, tool := range []string{ffmpegPath, ffprobePath} {
		if _, err := exec.LookPath(tool); err != nil {
			return &unavailableExtractor{
				err: &fetch.DecodeUnavailableError{Tool: tool, Err: err},
			}
		}
	}

	return NewExtractor(&ffmpegReader{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath})
}

// unavailableExtractor is the capability variant used when the decode tooling
// is missing.
type unavailableExtractor struct {
	err error
}

func (u *unavailableExtractor) Extract(ctx context.Context, containerPath, outPrefix string) error {
	return u.err
}

// ffmpegReader decodes container streams by shelling out to ffprobe for
// stream discovery and ffmpeg for PCM decoding.
type ffmpegReader struct {
	ffmpegPath  string
	ffprobePath string
}

type probeStream struct {
	Index      int    `json:"index"`
	CodecType  string `json:"codec_type"`
	Channels   int    `json:"channels"`
	SampleRate string `json:"sample_rate"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

// ReadStems enumerates the audio streams of containerPath and decodes each
// one to 16-bit PCM, in stream order.
func (r *ffmpegReader) ReadStems(ctx context.Context, containerPath string) ([]Stem, error) {
	streams, err := r.probeAudioStreams(ctx, containerPath)
	if err != nil {
		return nil, err
	}

	decoded := make([]Stem, 0, len(streams))

	for i, info := range streams {
		buf, err := r.decodeStream(ctx, containerPath, i, info)
		if err != nil {
			return nil, err
		}

		decoded = append(decoded, Stem{Data: buf})
	}

	return decoded, nil
}

func (r *ffmpegReader) probeAudioStreams(ctx context.Context, containerPath string) ([]probeStream, error) {
	cmd := exec.CommandContext(ctx, r.ffprobePath,
		"-v", toolLogLevel,
		"-select_streams", "a",
		"-show_streams",
		"-of", "json",
		containerPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run ffprobe: %w", commandError(err))
	}

	return parseProbeOutput(output)
}

// parseProbeOutput extracts the audio streams from ffprobe JSON output,
// keeping stream order.
func parseProbeOutput(data []byte) ([]probeStream, error) {
	var probe probeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]probeStream, 0, len(probe.Streams))

	for _, s := range probe.Streams {
		if s.CodecType != "audio" {
			continue
		}

		streams = append(streams, s)
	}

	return streams, nil
}

func (r *ffmpegReader) decodeStream(ctx context.Context, containerPath string, ordinal int, info probeStream) (*audio.IntBuffer, error) {
	sampleRate, err := strconv.Atoi(info.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("stream %d has unusable sample rate %q", info.Index, info.SampleRate)
	}

	if info.Channels <= 0 {
		return nil, fmt.Errorf("stream %d has unusable channel count %d", info.Index, info.Channels)
	}

	cmd := exec.CommandContext(ctx, r.ffmpegPath,
		"-v", toolLogLevel,
		"-i", containerPath,
		"-map", fmt.Sprintf("0:a:%d", ordinal),
		"-c:a", "pcm_s16le",
		"-ac", strconv.Itoa(info.Channels),
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-",
	)

	raw, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream %d: %w", ordinal, commandError(err))
	}

	return pcmBuffer(raw, info.Channels, sampleRate), nil
}

// pcmBuffer wraps interleaved little-endian 16-bit PCM bytes in an audio
// buffer carrying the stream's format.
func pcmBuffer(raw []byte, channels, sampleRate int) *audio.IntBuffer {
	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: stemBitDepth,
	}
}

// commandError surfaces captured stderr from a failed command invocation.
func commandError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}

	return err
}
