package services

import (
	"context"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
)

const standardSampleRate = 48000

// StandardizeStep normalizes arbitrary input media into mono 48 kHz WAV,
// extracting the audio track when the input is video. It never fails the
// pipeline: on any problem it passes the original artifact through and
// records the reason.
type standardizeStep struct {
	transcoder outbound.TranscoderPort
	prober     outbound.DurationProberPort
	logger     outbound.LoggerPort
}

func NewStandardizeStep(transcoder outbound.TranscoderPort, prober outbound.DurationProberPort, logger outbound.LoggerPort) Step {
	return &standardizeStep{
		transcoder: transcoder,
		prober:     prober,
		logger:     logger,
	}
}

func (s *standardizeStep) Name() string {
	return "standardize"
}

func (s *standardizeStep) Run(artifact domain.Artifact, ctx *domain.TaskContext) (domain.Artifact, error) {
	if err := ctx.EnsureDirs(); err != nil {
		return domain.Artifact{}, err
	}

	// No input file yet: debug/no-file invocations pass straight through.
	if artifact.Path == "" {
		ctx.Debug.SetStandardize(true, "no input")
		return artifact, nil
	}

	s.probeInput(artifact.Path, ctx)

	if !s.transcoder.Available() {
		ctx.Debug.SetStandardize(true, "transcoder unavailable")
		return artifact, nil
	}

	outputPath, err := ctx.Path("standardized.wav")
	if err != nil {
		return domain.Artifact{}, err
	}

	if err := s.transcoder.Standardize(context.Background(), artifact.Path, outputPath); err != nil {
		s.logger.ErrorWithFields(err, "standardize failed, passing input through", map[string]interface{}{
			"task_id": ctx.TaskID,
			"input":   artifact.Path,
		})
		ctx.Debug.SetStandardize(true, "standardize failed")
		ctx.Debug.AppendError(domain.StepFailure{
			Step:  s.Name(),
			Error: err.Error(),
			Kind:  "absorbed",
		})
		return artifact, nil
	}

	ctx.Register(outputPath)

	return domain.NewArtifact(outputPath, "audio/wav", domain.MergeMeta(artifact.Meta, map[string]interface{}{
		"sample_rate": standardSampleRate,
		"channels":    1,
		"source":      artifact.Path,
	})), nil
}

// probeInput records the input duration for diagnostics; probe failures are
// ignored here because the validator already enforced duration limits.
func (s *standardizeStep) probeInput(path string, ctx *domain.TaskContext) {
	if s.prober == nil || !s.prober.Available() {
		return
	}
	duration, err := s.prober.ProbeDuration(context.Background(), path)
	if err != nil || duration == nil {
		return
	}
	ctx.Debug.SetProbeDuration(*duration)
}
