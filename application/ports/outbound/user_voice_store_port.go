package outbound

import (
	"context"

	"github.com/Gmy-678/voice-changer/domain"
)

// UserVoiceStorePort persists user-created voices, keyed by owner.
type UserVoiceStorePort interface {
	List(ctx context.Context, userID string) ([]domain.Voice, error)
	GetByIDs(ctx context.Context, userID string, voiceIDs []string) ([]domain.Voice, error)
	Upsert(ctx context.Context, userID string, voice domain.Voice) (domain.Voice, error)
}
