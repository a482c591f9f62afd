package controllers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"
	"github.com/Gmy-678/voice-changer/infrastructure/gin_interface/dto"
	"github.com/Gmy-678/voice-changer/middleware"

	"github.com/gin-gonic/gin"
)

type VoiceChangerController interface {
	Convert(c *gin.Context)
	DownloadFile(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type voiceChangerController struct {
	logger         outbound.LoggerPort
	voiceChanger   inbound.VoiceChangerPort
	voiceLibrary   inbound.VoiceLibraryPort
	pipelineConfig *config.PipelineConfig
}

func NewVoiceChangerController(
	logger outbound.LoggerPort,
	voiceChanger inbound.VoiceChangerPort,
	voiceLibrary inbound.VoiceLibraryPort,
	pipelineConfig *config.PipelineConfig,
) VoiceChangerController {
	return &voiceChangerController{
		logger:         logger,
		voiceChanger:   voiceChanger,
		voiceLibrary:   voiceLibrary,
		pipelineConfig: pipelineConfig,
	}
}

// Convert handles both input modes: multipart/form-data with a 'file' part
// plus a 'payload' JSON string, or a plain JSON body.
func (v *voiceChangerController) Convert(c *gin.Context) {
	var request dto.VoiceChangerRequest
	var upload *inbound.Upload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		payload := c.PostForm("payload")
		if payload == "" {
			respondError(c, apperrors.BadRequest("missing_payload", "Missing payload in form data"))
			return
		}
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			respondError(c, apperrors.BadRequest("invalid_payload", "Invalid payload: "+err.Error()))
			return
		}
		if request.VoiceID == "" {
			respondError(c, apperrors.BadRequest("missing_voice_id", "voice_id is required"))
			return
		}

		fileHeader, err := c.FormFile("file")
		if err == nil && fileHeader != nil {
			file, err := fileHeader.Open()
			if err != nil {
				respondError(c, apperrors.BadRequest("invalid_file", "Cannot read uploaded file"))
				return
			}
			defer func() {
				if err := file.Close(); err != nil {
					v.logger.Error(err, "failed to close uploaded file")
				}
			}()
			upload = &inbound.Upload{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Reader:      file,
			}
		}
	} else {
		if err := c.ShouldBindJSON(&request); err != nil {
			respondError(c, apperrors.BadRequest("invalid_request", "Invalid request: "+err.Error()))
			return
		}
	}

	userID := middleware.UserID(c)
	params := inbound.ConvertParams{
		VoiceID:      request.VoiceID,
		Stability:    7,
		Similarity:   8,
		OutputFormat: "mp3",
		PresetID:     request.PresetID,
		WebhookURL:   request.WebhookURL,
		Options:      request.Options,
		UserID:       userID,
		Upload:       upload,
	}
	if request.Stability != nil {
		params.Stability = *request.Stability
	}
	if request.Similarity != nil {
		params.Similarity = *request.Similarity
	}
	if request.OutputFormat != "" {
		params.OutputFormat = strings.ToLower(strings.TrimSpace(request.OutputFormat))
	}

	result, err := v.voiceChanger.Convert(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	v.voiceLibrary.RecordVoiceUsed(c.Request.Context(), userID, request.VoiceID)

	c.JSON(http.StatusOK, dto.VoiceChangerResponse{
		TaskID:    result.TaskID,
		Status:    result.Status,
		OutputURL: result.OutputURL,
		Meta: map[string]interface{}{
			"echo":     request,
			"artifact": result.ArtifactMeta,
			"debug":    result.Debug,
		},
	})
}

// DownloadFile serves a file out of one run directory. Primary downloads go
// through /outputs; this is the debug path.
func (v *voiceChangerController) DownloadFile(c *gin.Context) {
	taskID := c.Param("task_id")
	filename := c.Param("filename")

	base := v.pipelineConfig.RunsDir
	candidate, err := filepath.Abs(filepath.Join(base, taskID, filename))
	if err != nil || !strings.HasPrefix(candidate, filepath.Join(base, taskID)+string(os.PathSeparator)) {
		respondError(c, apperrors.BadRequest("invalid_path", "Invalid file path"))
		return
	}
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		respondError(c, apperrors.NotFound("file_not_found", "File not found"))
		return
	}
	c.File(candidate)
}

func (v *voiceChangerController) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (v *voiceChangerController) RegisterRoutes(g *gin.Engine) {
	g.POST("/voice-changer", v.Convert)
	g.GET("/voice-changer/files/:task_id/:filename", v.DownloadFile)
	g.GET("/healthz", v.Healthz)
}
