package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
	"github.com/Gmy-678/voice-changer/infrastructure/gin_interface/dto"
	"github.com/Gmy-678/voice-changer/middleware"

	"github.com/gin-gonic/gin"
)

const defaultBaseVoiceID = "anime_uncle"

type VoiceLibraryController interface {
	RegisterRoutes(g *gin.Engine)
}

type voiceLibraryController struct {
	logger  outbound.LoggerPort
	library inbound.VoiceLibraryPort
	preview inbound.VoicePreviewPort
}

func NewVoiceLibraryController(
	logger outbound.LoggerPort,
	library inbound.VoiceLibraryPort,
	preview inbound.VoicePreviewPort,
) VoiceLibraryController {
	return &voiceLibraryController{
		logger:  logger,
		library: library,
		preview: preview,
	}
}

func (v *voiceLibraryController) TopFixedVoices(c *gin.Context) {
	language := strings.TrimSpace(c.Query("language"))
	if language == "" {
		respondError(c, apperrors.BadRequest("missing_language", "language query parameter is required"))
		return
	}

	page, err := v.library.TopFixedVoices(c.Request.Context(), language, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(listData(page)))
}

func (v *voiceLibraryController) Explore(c *gin.Context) {
	page, err := v.library.Explore(c.Request.Context(), exploreParamsFromQuery(c, "mostUsers"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(listData(page)))
}

func (v *voiceLibraryController) MyVoices(c *gin.Context) {
	page, err := v.library.MyVoices(c.Request.Context(), exploreParamsFromQuery(c, "latest"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(listData(page)))
}

func (v *voiceLibraryController) CreateMyVoice(c *gin.Context) {
	var request dto.CreateMyVoiceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.BadRequest("invalid_request", "Invalid request: "+err.Error()))
		return
	}

	base := strings.TrimSpace(request.BaseVoiceID)
	if base == "" {
		base = defaultBaseVoiceID
	}

	voice, err := v.library.CreateUserVoice(c.Request.Context(), middleware.UserID(c), inbound.CreateUserVoiceParams{
		DisplayName:  request.DisplayName,
		BaseVoiceID:  base,
		Description:  request.Description,
		LanguageType: request.LanguageType,
		Age:          request.Age,
		Gender:       request.Gender,
		Scene:        request.Scene,
		Emotion:      request.Emotion,
		Labels:       request.Labels,
		Meta:         request.Meta,
		IsPublic:     request.IsPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.CreateMyVoiceData{Voice: *voice}))
}

func (v *voiceLibraryController) Favorites(c *gin.Context) {
	page, err := v.library.Favorites(c.Request.Context(), exploreParamsFromQuery(c, "latest"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(listData(page)))
}

func (v *voiceLibraryController) UpdateFavorites(c *gin.Context) {
	var request dto.FavoritesUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.BadRequest("invalid_request", "Invalid request: "+err.Error()))
		return
	}

	result, err := v.library.UpdateFavorites(c.Request.Context(), middleware.UserID(c), request.VoiceIDs, *request.IsFavorite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.FavoritesUpdateData{
		SuccessCount:   result.SuccessCount,
		FailedCount:    result.FailedCount,
		FailedVoiceIDs: result.FailedVoiceIDs,
	}))
}

func (v *voiceLibraryController) RecentUsed(c *gin.Context) {
	limit := intQuery(c, "limit", 5)
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	page, err := v.library.RecentUsed(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(listData(page)))
}

// Preview serves a lazily rendered mp3 preview. Built-in voices are public;
// user voices need identity to resolve their base voice.
func (v *voiceLibraryController) Preview(c *gin.Context) {
	file := c.Param("file")
	voiceID := strings.TrimSuffix(file, ".mp3")
	if voiceID == "" || voiceID == file {
		respondError(c, apperrors.NotFound("voice_not_found", "Voice not found"))
		return
	}

	path, err := v.preview.EnsurePreviewMP3(c.Request.Context(), voiceID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(path, voiceID+".mp3")
}

func (v *voiceLibraryController) RegisterRoutes(g *gin.Engine) {
	group := g.Group("/api/v1/voice-library")
	group.GET("/top-fixed-voices", v.TopFixedVoices)
	group.GET("/explore", v.Explore)
	group.GET("/my-voices", v.MyVoices)
	group.POST("/my-voices", v.CreateMyVoice)
	group.GET("/favorites", v.Favorites)
	group.POST("/favorites", v.UpdateFavorites)
	group.GET("/recent-used", v.RecentUsed)
	group.GET("/preview/:file", v.Preview)
	group.HEAD("/preview/:file", v.Preview)
}

func listData(page *domain.VoicePage) dto.VoicesListData {
	voices := page.Voices
	if voices == nil {
		voices = []domain.Voice{}
	}
	return dto.VoicesListData{TotalCount: page.TotalCount, Voices: voices}
}

func exploreParamsFromQuery(c *gin.Context, defaultSort string) domain.ExploreParams {
	limit := intQuery(c, "limit", 20)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	skip := intQuery(c, "skip", 0)
	if skip < 0 {
		skip = 0
	}
	sort := c.DefaultQuery("sort", defaultSort)

	return domain.ExploreParams{
		Keyword:      strings.TrimSpace(c.Query("keyword")),
		VoiceIDs:     csvQuery(c, "voice_ids"),
		Language:     strings.ToLower(strings.TrimSpace(c.Query("language"))),
		LanguageType: strings.TrimSpace(c.Query("language_type")),
		Age:          strings.TrimSpace(c.Query("age")),
		Gender:       strings.TrimSpace(c.Query("gender")),
		Scene:        csvQuery(c, "scene"),
		Emotion:      csvQuery(c, "emotion"),
		Sort:         sort,
		Skip:         skip,
		Limit:        limit,
	}
}

func csvQuery(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
