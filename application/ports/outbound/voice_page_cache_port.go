package outbound

import (
	"time"

	"github.com/Gmy-678/voice-changer/domain"
)

// VoicePageCachePort caches library listing pages. Entries expire after the
// TTL handed to Set; Get never returns a stale page.
type VoicePageCachePort interface {
	Get(key string) (*domain.VoicePage, bool)
	Set(key string, page domain.VoicePage, ttl time.Duration)
}
