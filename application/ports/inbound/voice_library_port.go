package inbound

import (
	"context"

	"github.com/Gmy-678/voice-changer/domain"
)

type FavoritesUpdateResult struct {
	SuccessCount   int
	FailedCount    int
	FailedVoiceIDs []string
}

type CreateUserVoiceParams struct {
	DisplayName  string
	BaseVoiceID  string
	Description  string
	LanguageType string
	Age          string
	Gender       string
	Scene        []string
	Emotion      []string
	Labels       []string
	Meta         map[string]interface{}
	IsPublic     bool
}

// VoiceLibraryPort is the catalog/favorites/search surface. userID may be
// empty for the public listings; operations that need identity return an
// unauthorized error without it.
type VoiceLibraryPort interface {
	TopFixedVoices(ctx context.Context, language string, userID string) (*domain.VoicePage, error)
	Explore(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error)
	MyVoices(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error)
	Favorites(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error)
	UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) (*FavoritesUpdateResult, error)
	CreateUserVoice(ctx context.Context, userID string, params CreateUserVoiceParams) (*domain.Voice, error)
	RecentUsed(ctx context.Context, userID string, limit int) (*domain.VoicePage, error)
	// RecordVoiceUsed notes a successful conversion with the voice so it
	// shows up in the caller's recent-used list. Best effort.
	RecordVoiceUsed(ctx context.Context, userID string, voiceID string)
}

// VoicePreviewPort lazily renders and caches mp3 previews for voices.
type VoicePreviewPort interface {
	EnsurePreviewMP3(ctx context.Context, voiceID string, userID string) (string, error)
}
