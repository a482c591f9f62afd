package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"
	"github.com/Gmy-678/voice-changer/domain"

	"github.com/google/uuid"
)

// voiceChangerService composes the request-time flow: upload validation,
// voice resolution, then the fixed Standardize -> VoiceChange -> Export
// pipeline. Step order is sealed here; nothing configurable can reorder it.
type voiceChangerService struct {
	pipelineConfig *config.PipelineConfig
	validator      *UploadValidator
	resolver       *VoiceResolver
	pipeline       *Pipeline
	logger         outbound.LoggerPort
}

func NewVoiceChangerService(
	pipelineConfig *config.PipelineConfig,
	validator *UploadValidator,
	resolver *VoiceResolver,
	standardize Step,
	voiceChange Step,
	export Step,
	logger outbound.LoggerPort) inbound.VoiceChangerPort {
	return &voiceChangerService{
		pipelineConfig: pipelineConfig,
		validator:      validator,
		resolver:       resolver,
		pipeline:       NewPipeline(standardize, voiceChange, export),
		logger:         logger,
	}
}

func (s *voiceChangerService) Convert(ctx context.Context, params inbound.ConvertParams) (*inbound.ConvertResult, error) {
	if params.OutputFormat != "mp3" && params.OutputFormat != "wav" {
		return nil, apperrors.BadRequest("invalid_output_format",
			fmt.Sprintf("invalid output_format: %q, must be mp3 or wav", params.OutputFormat))
	}
	if params.Stability < 1 || params.Stability > 10 {
		return nil, apperrors.BadRequest("invalid_stability", "stability must be between 1 and 10")
	}
	if params.Similarity < 1 || params.Similarity > 10 {
		return nil, apperrors.BadRequest("invalid_similarity", "similarity must be between 1 and 10")
	}

	taskID := uuid.NewString()
	task, err := domain.NewTaskContext(taskID, filepath.Join(s.pipelineConfig.RunsDir, taskID))
	if err != nil {
		return nil, err
	}
	task.VoiceID = params.VoiceID
	task.Stability = params.Stability
	task.Similarity = params.Similarity
	task.OutputFormat = params.OutputFormat
	task.PresetID = params.PresetID
	task.WebhookURL = params.WebhookURL
	task.CleanupMode = s.pipelineConfig.CleanupMode
	if params.Options != nil {
		task.Options = params.Options
	}

	initial := domain.NewArtifact("", "application/octet-stream", map[string]interface{}{"source": "none"})
	if params.Upload != nil {
		initial, err = s.validator.Validate(ctx, params.Upload, task)
		if err != nil {
			return nil, err
		}
	} else {
		task.Debug.SetUpload(domain.UploadInfo{Note: "no file provided"})
	}

	if err := s.resolver.Resolve(ctx, params.UserID, task); err != nil {
		return nil, err
	}

	final, err := s.pipeline.Run(initial, task)
	if err != nil {
		// Full detail stays server-side; the caller gets an opaque failure.
		s.logger.ErrorWithFields(err, "pipeline failed", map[string]interface{}{
			"task_id": taskID,
			"errors":  task.Debug.Errors,
		})
		return nil, apperrors.New(http.StatusInternalServerError, "pipeline_failed", "Pipeline failed")
	}

	producedFormat := stringMeta(final.Meta, "produced_format", task.OutputFormat)
	publicName := stringMeta(final.Meta, "public_name", fmt.Sprintf("%s.%s", taskID, producedFormat))
	outputURL := stringMeta(final.Meta, "public_url", "/outputs/"+publicName)

	artifactMeta := domain.MergeMeta(final.Meta, map[string]interface{}{
		"requested_format": task.OutputFormat,
		"produced_format":  producedFormat,
		"public_name":      publicName,
		"public_url":       outputURL,
	})

	task.Cleanup()

	return &inbound.ConvertResult{
		TaskID:       taskID,
		Status:       "success",
		OutputURL:    outputURL,
		ArtifactMeta: artifactMeta,
		Debug:        task.Debug,
	}, nil
}

func stringMeta(meta map[string]interface{}, key string, fallback string) string {
	if v, ok := meta[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
