package outbound

import (
	"context"

	"github.com/Gmy-678/voice-changer/domain"
)

// VoiceRepositoryPort serves the public voice catalog: built-in presets plus
// whatever public user voices the backing store knows about.
type VoiceRepositoryPort interface {
	// TopFixedVoiceIDs returns the pinned ordering for a language code,
	// falling back to the English list for unknown codes.
	TopFixedVoiceIDs(language string) []string
	GetByVoiceIDs(ctx context.Context, voiceIDs []string) ([]domain.Voice, error)
	// Explore filters, sorts and paginates. ownerUserID narrows the result
	// to one owner's voices; empty means the public catalog.
	Explore(ctx context.Context, params domain.ExploreParams, ownerUserID string) (int, []domain.Voice, error)
}
