package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

const maxRecentEntries = 100

type favoritesState struct {
	Favorites []string      `json:"favorites"`
	Recent    []recentEntry `json:"recent"`
}

type recentEntry struct {
	VoiceID string `json:"voice_id"`
	UsedAt  int64  `json:"used_at"`
}

type localFavoritesStore struct {
	dir    string
	mutex  sync.Mutex
	logger outbound.LoggerPort
}

// NewLocalFavoritesStore keeps per-user favorites and recently-used voice ids
// in one JSON file per user under dir.
func NewLocalFavoritesStore(dir string, logger outbound.LoggerPort) outbound.FavoritesStorePort {
	return &localFavoritesStore{
		dir:    filepath.Join(dir, "favorites"),
		logger: logger,
	}
}

func (s *localFavoritesStore) Favorites(ctx context.Context, userID string) (map[string]struct{}, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(state.Favorites))
	for _, id := range state.Favorites {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *localFavoritesStore) UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, err := s.load(userID)
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(state.Favorites))
	for _, id := range state.Favorites {
		current[id] = struct{}{}
	}
	for _, id := range voiceIDs {
		if id == "" {
			continue
		}
		if favorite {
			current[id] = struct{}{}
		} else {
			delete(current, id)
		}
	}

	state.Favorites = state.Favorites[:0]
	for id := range current {
		state.Favorites = append(state.Favorites, id)
	}
	return s.save(userID, state)
}

func (s *localFavoritesStore) AddRecent(ctx context.Context, userID string, voiceID string) error {
	if voiceID == "" {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, err := s.load(userID)
	if err != nil {
		return err
	}

	recent := make([]recentEntry, 0, len(state.Recent)+1)
	recent = append(recent, recentEntry{VoiceID: voiceID, UsedAt: time.Now().Unix()})
	for _, entry := range state.Recent {
		if entry.VoiceID == voiceID {
			continue
		}
		recent = append(recent, entry)
	}
	if len(recent) > maxRecentEntries {
		recent = recent[:maxRecentEntries]
	}
	state.Recent = recent
	return s.save(userID, state)
}

func (s *localFavoritesStore) RecentIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, limit)
	for _, entry := range state.Recent {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, entry.VoiceID)
	}
	return out, nil
}

func (s *localFavoritesStore) load(userID string) (*favoritesState, error) {
	raw, err := os.ReadFile(s.pathFor(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return &favoritesState{}, nil
		}
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	var state favoritesState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.ErrorWithFields(err, "corrupt favorites file, starting empty", map[string]interface{}{
			"user_id": userID,
		})
		return &favoritesState{}, nil
	}
	return &state, nil
}

func (s *localFavoritesStore) save(userID string, state *favoritesState) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	if err := os.WriteFile(s.pathFor(userID), raw, 0o644); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

func (s *localFavoritesStore) pathFor(userID string) string {
	return filepath.Join(s.dir, sanitizeUserID(userID)+".json")
}
