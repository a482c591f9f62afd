package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"
	"github.com/Gmy-678/voice-changer/domain"
)

const uploadChunkSize = 1 << 20

// UploadValidator gatekeeps an inbound file before it becomes the initial
// pipeline artifact. The gates run in fixed order and each one can reject:
// content-type whitelist, streaming byte cap, then duration bounds probed
// from the saved file. Duration probing is fail-closed; without a measured
// duration the limits cannot be enforced, so the upload is rejected.
type UploadValidator struct {
	uploadConfig *config.UploadConfig
	prober       outbound.DurationProberPort
	logger       outbound.LoggerPort
}

func NewUploadValidator(uploadConfig *config.UploadConfig, prober outbound.DurationProberPort, logger outbound.LoggerPort) *UploadValidator {
	return &UploadValidator{
		uploadConfig: uploadConfig,
		prober:       prober,
		logger:       logger,
	}
}

// Validate runs all gates and returns the initial artifact, registered with
// the task context together with its upload/probe debug records.
func (v *UploadValidator) Validate(ctx context.Context, upload *inbound.Upload, task *domain.TaskContext) (domain.Artifact, error) {
	if upload == nil {
		return domain.Artifact{}, apperrors.BadRequest("missing_file", "missing upload payload")
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if _, allowed := v.uploadConfig.AllowedContentTypes[contentType]; !allowed {
		return domain.Artifact{}, apperrors.New(http.StatusUnsupportedMediaType, "unsupported_media_type",
			fmt.Sprintf("content type %q is not allowed", contentType)).WithExtra(map[string]interface{}{
			"content_type": contentType,
			"allowed":      v.uploadConfig.AllowedList(),
		})
	}

	inPath, err := task.Path("input" + uploadExtension(upload.Filename))
	if err != nil {
		return domain.Artifact{}, err
	}

	total, err := v.saveBounded(upload.Reader, inPath)
	if err != nil {
		return domain.Artifact{}, err
	}

	duration, err := v.probeDuration(ctx, inPath)
	if err != nil {
		return domain.Artifact{}, err
	}
	task.Debug.SetProbeDuration(duration)

	minDur := v.uploadConfig.MinDurationSeconds
	maxDur := v.uploadConfig.MaxDurationSeconds
	if duration <= minDur {
		return domain.Artifact{}, apperrors.BadRequest("duration_too_short",
			fmt.Sprintf("file too short: %.2fs; must exceed %.0fs", duration, minDur)).WithExtra(map[string]interface{}{
			"duration_sec": duration,
			"min_sec":      minDur,
		})
	}
	if duration >= maxDur {
		return domain.Artifact{}, apperrors.BadRequest("duration_too_long",
			fmt.Sprintf("file too long: %.2fs; max is %.0fs", duration, maxDur)).WithExtra(map[string]interface{}{
			"duration_sec": duration,
			"max_sec":      maxDur,
		})
	}

	task.Register(inPath)
	task.Debug.SetUpload(domain.UploadInfo{
		Filename:            upload.Filename,
		Size:                total,
		ContentType:         upload.ContentType,
		MaxBytes:            v.uploadConfig.MaxBytes,
		AllowedContentTypes: v.uploadConfig.AllowedList(),
	})

	return domain.NewArtifact(inPath, upload.ContentType, map[string]interface{}{
		"source":   "upload",
		"filename": upload.Filename,
		"size":     total,
	}), nil
}

// saveBounded streams the upload to disk, cutting it off the moment the
// cumulative size exceeds the cap. The partial file never survives a breach.
func (v *UploadValidator) saveBounded(reader io.Reader, path string) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	var total int64
	buf := make([]byte, uploadChunkSize)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			total += int64(n)
			if total > v.uploadConfig.MaxBytes {
				out.Close()
				if rmErr := os.Remove(path); rmErr != nil {
					v.logger.Error(rmErr, "failed to remove oversized partial upload")
				}
				return 0, apperrors.New(http.StatusRequestEntityTooLarge, "file_too_large",
					"upload exceeds size limit").WithExtra(map[string]interface{}{
					"received_bytes": total,
					"max_bytes":      v.uploadConfig.MaxBytes,
				})
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				_ = os.Remove(path)
				return 0, writeErr
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			_ = os.Remove(path)
			return 0, readErr
		}
	}

	return total, out.Close()
}

func (v *UploadValidator) probeDuration(ctx context.Context, path string) (float64, error) {
	duration, err := v.prober.ProbeDuration(ctx, path)
	if err != nil {
		return 0, apperrors.BadRequest("probe_failed", fmt.Sprintf("cannot read media duration: %v", err))
	}
	if duration == nil {
		return 0, apperrors.BadRequest("duration_unknown", "media duration could not be determined")
	}
	return *duration, nil
}

func uploadExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ".bin"
	}
	return ext
}
