package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

const (
	standardSampleRate = 48000
	transcodeTimeout   = 120 * time.Second
)

type ffmpegTranscoder struct {
	logger outbound.LoggerPort

	availOnce sync.Once
	available bool
}

func NewFFMPEGTranscoder(logger outbound.LoggerPort) outbound.TranscoderPort {
	return &ffmpegTranscoder{logger: logger}
}

func (t *ffmpegTranscoder) Available() bool {
	t.availOnce.Do(func() {
		t.available = exec.Command("ffmpeg", "-version").Run() == nil
	})
	return t.available
}

func (t *ffmpegTranscoder) Standardize(ctx context.Context, inputPath string, outputPath string) error {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(standardSampleRate),
		"-acodec", "pcm_s16le",
		outputPath,
	}
	return t.run(ctx, args)
}

func (t *ffmpegTranscoder) Transcode(ctx context.Context, req outbound.TranscodeRequest) error {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", req.InputPath, "-vn"}
	if len(req.Filters) > 0 {
		args = append(args, "-af", strings.Join(req.Filters, ","))
	}
	if req.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(req.SampleRate))
	}
	switch req.Format {
	case "mp3":
		bitrate := req.Bitrate
		if bitrate == "" {
			bitrate = "192k"
		}
		args = append(args, "-acodec", "libmp3lame", "-b:a", bitrate)
	case "wav", "":
		args = append(args, "-acodec", "pcm_s16le")
	default:
		return fmt.Errorf("unsupported transcode format %q", req.Format)
	}
	args = append(args, req.OutputPath)
	return t.run(ctx, args)
}

func (t *ffmpegTranscoder) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, transcodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		t.logger.ErrorWithFields(err, "ffmpeg invocation failed", map[string]interface{}{
			"args":   strings.Join(args, " "),
			"output": detail,
		})
		if detail != "" {
			return fmt.Errorf("ffmpeg: %s: %w", detail, err)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
