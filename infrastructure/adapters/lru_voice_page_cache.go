package adapters

import (
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

type voicePageEntry struct {
	page     domain.VoicePage
	storedAt time.Time
	ttl      time.Duration
}

type lruVoicePageCache struct {
	cache *lru.Cache[string, voicePageEntry]
}

// NewLRUVoicePageCache bounds the listing cache by entry count; staleness is
// checked per entry against the TTL recorded at Set time.
func NewLRUVoicePageCache(maxSize int) (outbound.VoicePageCachePort, error) {
	cache, err := lru.New[string, voicePageEntry](maxSize)
	if err != nil {
		return nil, err
	}
	return &lruVoicePageCache{cache: cache}, nil
}

func (c *lruVoicePageCache) Get(key string) (*domain.VoicePage, bool) {
	entry, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if entry.ttl > 0 && time.Since(entry.storedAt) > entry.ttl {
		c.cache.Remove(key)
		return nil, false
	}
	page := entry.page
	return &page, true
}

func (c *lruVoicePageCache) Set(key string, page domain.VoicePage, ttl time.Duration) {
	c.cache.Add(key, voicePageEntry{
		page:     page,
		storedAt: time.Now(),
		ttl:      ttl,
	})
}
