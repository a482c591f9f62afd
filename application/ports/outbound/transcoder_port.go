package outbound

import "context"

// TranscodeRequest describes one external transcode invocation. Filters are
// raw audio-filter expressions joined into a single filter chain.
type TranscodeRequest struct {
	InputPath  string
	OutputPath string
	Format     string
	SampleRate int
	Bitrate    string
	Filters    []string
}

// TranscoderPort wraps the external transcode tool. Callers must treat an
// unavailable transcoder as a degraded path, not an error: steps check
// Available before invoking it.
type TranscoderPort interface {
	Available() bool
	// Standardize normalizes any input media into mono fixed-rate WAV,
	// extracting the audio track first when the input is video.
	Standardize(ctx context.Context, inputPath string, outputPath string) error
	Transcode(ctx context.Context, req TranscodeRequest) error
}

// DurationProberPort reports a media file's duration in seconds. A nil
// duration with a nil error means the container carries no duration field.
type DurationProberPort interface {
	Available() bool
	ProbeDuration(ctx context.Context, path string) (*float64, error)
}
