package controllers

import (
	"context"

	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
	"github.com/Gmy-678/voice-changer/middleware"

	"github.com/gin-gonic/gin"
)

type nopLogger struct{}

func (nopLogger) Info(msg string)                                                 {}
func (nopLogger) InfoWithFields(msg string, fields map[string]interface{})        {}
func (nopLogger) Error(err error, msg string)                                     {}
func (nopLogger) ErrorWithFields(err error, msg string, f map[string]interface{}) {}
func (nopLogger) Debug(msg string)                                                {}
func (nopLogger) DebugWithFields(msg string, fields map[string]interface{})       {}
func (nopLogger) Warn(msg string)                                                 {}
func (nopLogger) WarnWithFields(msg string, fields map[string]interface{})        {}

func testLogger() outbound.LoggerPort { return nopLogger{} }

type fakeVoiceChanger struct {
	params *inbound.ConvertParams
	result *inbound.ConvertResult
	err    error
}

func (f *fakeVoiceChanger) Convert(ctx context.Context, params inbound.ConvertParams) (*inbound.ConvertResult, error) {
	f.params = &params
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &inbound.ConvertResult{
		TaskID:    "task-1",
		Status:    "success",
		OutputURL: "/outputs/task-1.mp3",
	}, nil
}

type fakeVoiceLibrary struct {
	page         *domain.VoicePage
	err          error
	lastParams   domain.ExploreParams
	lastUserID   string
	lastLanguage string
	recorded     []string
	created      *inbound.CreateUserVoiceParams
	favoriteIDs  []string
	favoriteSet  bool
}

func newFakeVoiceLibrary() *fakeVoiceLibrary {
	return &fakeVoiceLibrary{page: &domain.VoicePage{}}
}

func (f *fakeVoiceLibrary) TopFixedVoices(ctx context.Context, language string, userID string) (*domain.VoicePage, error) {
	f.lastLanguage = language
	f.lastUserID = userID
	return f.page, f.err
}

func (f *fakeVoiceLibrary) Explore(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error) {
	f.lastParams = params
	f.lastUserID = userID
	return f.page, f.err
}

func (f *fakeVoiceLibrary) MyVoices(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error) {
	f.lastParams = params
	f.lastUserID = userID
	return f.page, f.err
}

func (f *fakeVoiceLibrary) Favorites(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error) {
	f.lastParams = params
	f.lastUserID = userID
	return f.page, f.err
}

func (f *fakeVoiceLibrary) UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) (*inbound.FavoritesUpdateResult, error) {
	f.lastUserID = userID
	f.favoriteIDs = voiceIDs
	f.favoriteSet = favorite
	if f.err != nil {
		return nil, f.err
	}
	return &inbound.FavoritesUpdateResult{SuccessCount: len(voiceIDs)}, nil
}

func (f *fakeVoiceLibrary) RecentUsed(ctx context.Context, userID string, limit int) (*domain.VoicePage, error) {
	f.lastUserID = userID
	f.lastParams = domain.ExploreParams{Limit: limit}
	return f.page, f.err
}

func (f *fakeVoiceLibrary) RecordVoiceUsed(ctx context.Context, userID string, voiceID string) {
	f.recorded = append(f.recorded, userID+":"+voiceID)
}

func (f *fakeVoiceLibrary) CreateUserVoice(ctx context.Context, userID string, params inbound.CreateUserVoiceParams) (*domain.Voice, error) {
	f.lastUserID = userID
	f.created = &params
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Voice{VoiceID: "user_new", DisplayName: params.DisplayName}, nil
}

type fakePreview struct {
	path       string
	err        error
	lastVoice  string
	lastUserID string
}

func (f *fakePreview) EnsurePreviewMP3(ctx context.Context, voiceID string, userID string) (string, error) {
	f.lastVoice = voiceID
	f.lastUserID = userID
	return f.path, f.err
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	identity, _ := middleware.NewIdentityHandler("")
	router.Use(identity.IdentityMiddleware())
	return router
}
