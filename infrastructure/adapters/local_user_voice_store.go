package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
)

type localUserVoiceStore struct {
	dir    string
	mutex  sync.Mutex
	logger outbound.LoggerPort
}

// NewLocalUserVoiceStore keeps one JSON file per user under dir, newest voice
// first.
func NewLocalUserVoiceStore(dir string, logger outbound.LoggerPort) outbound.UserVoiceStorePort {
	return &localUserVoiceStore{
		dir:    filepath.Join(dir, "user_voices"),
		logger: logger,
	}
}

func (s *localUserVoiceStore) List(ctx context.Context, userID string) ([]domain.Voice, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.load(userID)
}

func (s *localUserVoiceStore) GetByIDs(ctx context.Context, userID string, voiceIDs []string) ([]domain.Voice, error) {
	wanted := make(map[string]struct{}, len(voiceIDs))
	for _, id := range voiceIDs {
		if id != "" {
			wanted[id] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	voices, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	var out []domain.Voice
	for _, voice := range voices {
		if _, ok := wanted[voice.VoiceID]; ok {
			out = append(out, voice)
		}
	}
	return out, nil
}

func (s *localUserVoiceStore) Upsert(ctx context.Context, userID string, voice domain.Voice) (domain.Voice, error) {
	if voice.VoiceID == "" {
		return domain.Voice{}, fmt.Errorf("voice_id is required")
	}
	if voice.CreateTime == 0 {
		voice.CreateTime = time.Now().Unix()
	}
	if voice.ID == 0 {
		voice.ID = time.Now().UnixMilli()
	}
	voice.OwnerUserID = userID

	s.mutex.Lock()
	defer s.mutex.Unlock()

	voices, err := s.load(userID)
	if err != nil {
		return domain.Voice{}, err
	}

	replaced := false
	for i := range voices {
		if voices[i].VoiceID == voice.VoiceID {
			voices[i] = voice
			replaced = true
			break
		}
	}
	if !replaced {
		voices = append([]domain.Voice{voice}, voices...)
	}

	if err := s.save(userID, voices); err != nil {
		return domain.Voice{}, err
	}
	return voice, nil
}

func (s *localUserVoiceStore) load(userID string) ([]domain.Voice, error) {
	raw, err := os.ReadFile(s.pathFor(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read user voices: %w", err)
	}
	var voices []domain.Voice
	if err := json.Unmarshal(raw, &voices); err != nil {
		s.logger.ErrorWithFields(err, "corrupt user voices file, starting empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil
	}
	for i := range voices {
		voices[i].OwnerUserID = userID
	}
	return voices, nil
}

func (s *localUserVoiceStore) save(userID string, voices []domain.Voice) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create user voices dir: %w", err)
	}
	raw, err := json.Marshal(voices)
	if err != nil {
		return fmt.Errorf("marshal user voices: %w", err)
	}
	if err := os.WriteFile(s.pathFor(userID), raw, 0o644); err != nil {
		return fmt.Errorf("write user voices: %w", err)
	}
	return nil
}

func (s *localUserVoiceStore) pathFor(userID string) string {
	return filepath.Join(s.dir, sanitizeUserID(userID)+".json")
}

// sanitizeUserID keeps only filename-safe characters of a user id.
func sanitizeUserID(userID string) string {
	var b strings.Builder
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "anonymous"
	}
	return b.String()
}
