package adapters

import (
	"testing"
	"time"

	"github.com/Gmy-678/voice-changer/domain"
)

func TestLRUVoicePageCacheHitAndExpiry(t *testing.T) {
	cache, err := NewLRUVoicePageCache(8)
	if err != nil {
		t.Fatal("cache init failed:", err)
	}

	page := domain.VoicePage{TotalCount: 1, Voices: []domain.Voice{{VoiceID: "mamba"}}}
	cache.Set("k", page, time.Hour)

	got, ok := cache.Get("k")
	if !ok || got.TotalCount != 1 || got.Voices[0].VoiceID != "mamba" {
		t.Fatalf("cache miss or wrong page: %v, %v", got, ok)
	}

	cache.Set("stale", page, time.Nanosecond)
	time.Sleep(2 * time.Millisecond)
	if _, ok := cache.Get("stale"); ok {
		t.Fatal("expired entry must miss")
	}

	if _, ok := cache.Get("missing"); ok {
		t.Fatal("unknown key must miss")
	}
}

func TestLRUVoicePageCacheEvictsOldest(t *testing.T) {
	cache, err := NewLRUVoicePageCache(2)
	if err != nil {
		t.Fatal("cache init failed:", err)
	}

	cache.Set("a", domain.VoicePage{}, time.Hour)
	cache.Set("b", domain.VoicePage{}, time.Hour)
	cache.Set("c", domain.VoicePage{}, time.Hour)

	if _, ok := cache.Get("a"); ok {
		t.Fatal("oldest entry must be evicted at capacity")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatal("newest entry must survive")
	}
}

func TestLRUVoicePageCacheRejectsNonPositiveSize(t *testing.T) {
	if _, err := NewLRUVoicePageCache(0); err == nil {
		t.Fatal("zero size must be rejected")
	}
}
