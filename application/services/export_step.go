package services

import (
	"context"
	"fmt"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
)

// exportStep produces the caller-requested container format from the
// converted WAV and publishes a copy under a deterministic public name.
// A missing encoder or a failed transcode degrades to WAV instead of failing;
// the step always returns a usable artifact with a non-empty public URL.
type exportStep struct {
	transcoder outbound.TranscoderPort
	publisher  outbound.OutputPublisherPort
	logger     outbound.LoggerPort
}

func NewExportStep(transcoder outbound.TranscoderPort, publisher outbound.OutputPublisherPort, logger outbound.LoggerPort) Step {
	return &exportStep{
		transcoder: transcoder,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *exportStep) Name() string {
	return "export"
}

func (s *exportStep) Run(artifact domain.Artifact, ctx *domain.TaskContext) (domain.Artifact, error) {
	if !fileExists(artifact.Path) {
		return domain.Artifact{}, fmt.Errorf("export source missing: %s", artifact.Path)
	}

	if ctx.OutputFormat == "mp3" {
		if !s.transcoder.Available() {
			return s.exportWav(artifact, ctx, "mp3", "encoder not available; produced WAV instead", "")
		}

		outPath, err := ctx.Path("output.mp3")
		if err != nil {
			return domain.Artifact{}, err
		}
		if err := s.transcoder.Transcode(context.Background(), outbound.TranscodeRequest{
			InputPath:  artifact.Path,
			OutputPath: outPath,
			Format:     "mp3",
		}); err != nil {
			s.logger.ErrorWithFields(err, "mp3 encode failed, degrading to wav", map[string]interface{}{
				"task_id": ctx.TaskID,
			})
			return s.exportWav(artifact, ctx, "mp3", "", err.Error())
		}

		published, err := s.publish(ctx, outPath, "mp3", "audio/mpeg")
		if err != nil {
			return domain.Artifact{}, err
		}
		ctx.RegisterOutput(outPath)

		return domain.NewArtifact(outPath, "audio/mpeg", domain.MergeMeta(artifact.Meta, map[string]interface{}{
			"requested_format": "mp3",
			"produced_format":  "mp3",
			"public_name":      published.PublicName,
			"public_url":       published.PublicURL,
		})), nil
	}

	return s.exportWav(artifact, ctx, ctx.OutputFormat, "", "")
}

// exportWav copies the source WAV as the final output. note and encodeErr are
// set when this is a degradation from a requested mp3.
func (s *exportStep) exportWav(artifact domain.Artifact, ctx *domain.TaskContext,
	requested string, note string, encodeErr string) (domain.Artifact, error) {
	outPath, err := ctx.Path("output.wav")
	if err != nil {
		return domain.Artifact{}, err
	}
	if err := copyFile(artifact.Path, outPath); err != nil {
		return domain.Artifact{}, err
	}

	published, err := s.publish(ctx, outPath, "wav", "audio/wav")
	if err != nil {
		return domain.Artifact{}, err
	}
	ctx.RegisterOutput(outPath)

	meta := map[string]interface{}{
		"requested_format": requested,
		"produced_format":  "wav",
		"public_name":      published.PublicName,
		"public_url":       published.PublicURL,
	}
	if note != "" {
		meta["note"] = note
	}
	if encodeErr != "" {
		meta["error"] = encodeErr
	}
	return domain.NewArtifact(outPath, "audio/wav", domain.MergeMeta(artifact.Meta, meta)), nil
}

func (s *exportStep) publish(ctx *domain.TaskContext, sourcePath string, format string, mime string) (*outbound.PublishOutputResult, error) {
	return s.publisher.Publish(context.Background(), outbound.PublishOutputRequest{
		SourcePath: sourcePath,
		PublicName: fmt.Sprintf("%s.%s", ctx.TaskID, format),
		Mime:       mime,
	})
}
