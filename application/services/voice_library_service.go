package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"

	"github.com/google/uuid"
)

const (
	topFixedCacheTTL       = 5 * time.Minute
	exploreFilteredTTL     = 30 * time.Second
	exploreUnfilteredTTL   = 5 * time.Minute
	exploreLatestTTL       = time.Minute
	maxFavoritesPerRequest = 50
)

type voiceLibraryService struct {
	repo         outbound.VoiceRepositoryPort
	userVoices   outbound.UserVoiceStorePort
	favorites    outbound.FavoritesStorePort
	cache        outbound.VoicePageCachePort
	effectEngine outbound.EffectEnginePort
	logger       outbound.LoggerPort
}

func NewVoiceLibraryService(
	repo outbound.VoiceRepositoryPort,
	userVoices outbound.UserVoiceStorePort,
	favorites outbound.FavoritesStorePort,
	cache outbound.VoicePageCachePort,
	effectEngine outbound.EffectEnginePort,
	logger outbound.LoggerPort) inbound.VoiceLibraryPort {
	return &voiceLibraryService{
		repo:         repo,
		userVoices:   userVoices,
		favorites:    favorites,
		cache:        cache,
		effectEngine: effectEngine,
		logger:       logger,
	}
}

func (s *voiceLibraryService) TopFixedVoices(ctx context.Context, language string, userID string) (*domain.VoicePage, error) {
	lang := normalizeLanguage(language)
	cacheKey := "top_fixed:" + lang

	page, cached := s.cache.Get(cacheKey)
	if !cached {
		ids := s.repo.TopFixedVoiceIDs(lang)
		fetched, err := s.repo.GetByVoiceIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := voicesByID(fetched)
		ordered := make([]domain.Voice, 0, len(ids))
		for _, id := range ids {
			if v, ok := byID[id]; ok {
				ordered = append(ordered, v)
			}
		}
		page = &domain.VoicePage{TotalCount: len(ordered), Voices: ordered}
		s.cache.Set(cacheKey, *page, topFixedCacheTTL)
	}

	return s.decorate(ctx, *page, userID)
}

func (s *voiceLibraryService) Explore(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error) {
	cacheKey := exploreCacheKey(params)

	page, cached := s.cache.Get(cacheKey)
	if !cached {
		total, voices, err := s.repo.Explore(ctx, params, "")
		if err != nil {
			return nil, err
		}

		// Browsing a language without filters would duplicate the pinned
		// entries from the top-fixed list; drop them here.
		if !params.HasFilters() && params.Language != "" {
			pinned := map[string]struct{}{}
			for _, id := range s.repo.TopFixedVoiceIDs(normalizeLanguage(params.Language)) {
				pinned[id] = struct{}{}
			}
			kept := voices[:0]
			for _, v := range voices {
				if _, isPinned := pinned[v.VoiceID]; !isPinned {
					kept = append(kept, v)
				}
			}
			voices = kept
		}

		page = &domain.VoicePage{TotalCount: total, Voices: voices}
		s.cache.Set(cacheKey, *page, exploreTTL(params))
	}

	return s.decorate(ctx, *page, userID)
}

func (s *voiceLibraryService) MyVoices(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("my-voices requires identity")
	}

	total, voices, err := s.repo.Explore(ctx, params, userID)
	if err != nil {
		return nil, err
	}

	return s.decorate(ctx, domain.VoicePage{TotalCount: total, Voices: voices}, userID)
}

func (s *voiceLibraryService) Favorites(ctx context.Context, params domain.ExploreParams, userID string) (*domain.VoicePage, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("favorites require identity")
	}

	favoriteIDs, err := s.favorites.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favoriteIDs))
	for id := range favoriteIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	voices, err := s.voicesKnownToUser(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	voices = applyFavoritesFilters(voices, params)

	if params.Sort == "latest" {
		sort.SliceStable(voices, func(i, j int) bool { return voices[i].CreateTime > voices[j].CreateTime })
	} else {
		sort.SliceStable(voices, func(i, j int) bool { return voices[i].VoiceID < voices[j].VoiceID })
	}

	total := len(voices)
	voices = pageSlice(voices, params.Skip, params.Limit)
	return s.decorate(ctx, domain.VoicePage{TotalCount: total, Voices: voices}, userID)
}

func (s *voiceLibraryService) RecentUsed(ctx context.Context, userID string, limit int) (*domain.VoicePage, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("recent-used requires identity")
	}

	ids, err := s.favorites.RecentIDs(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	voices, err := s.voicesKnownToUser(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	order := make(map[string]int, len(ids))
	for i, id := range ids {
		order[id] = i
	}
	sort.SliceStable(voices, func(i, j int) bool { return order[voices[i].VoiceID] < order[voices[j].VoiceID] })

	return s.decorate(ctx, domain.VoicePage{TotalCount: len(voices), Voices: voices}, userID)
}

func (s *voiceLibraryService) RecordVoiceUsed(ctx context.Context, userID string, voiceID string) {
	if userID == "" || voiceID == "" {
		return
	}
	if err := s.favorites.AddRecent(ctx, userID, voiceID); err != nil {
		s.logger.ErrorWithFields(err, "failed to record recent voice use", map[string]interface{}{
			"voice_id": voiceID,
		})
	}
}

func (s *voiceLibraryService) UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) (*inbound.FavoritesUpdateResult, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("favorites require identity")
	}
	if len(voiceIDs) == 0 || len(voiceIDs) > maxFavoritesPerRequest {
		return nil, apperrors.BadRequest("invalid_voice_ids",
			fmt.Sprintf("voice_ids must contain 1..%d entries", maxFavoritesPerRequest))
	}

	known, err := s.knownVoiceIDs(ctx, userID, voiceIDs)
	if err != nil {
		return nil, err
	}

	accepted := make([]string, 0, len(voiceIDs))
	var failed []string
	for _, id := range voiceIDs {
		if _, ok := known[id]; ok {
			accepted = append(accepted, id)
		} else {
			failed = append(failed, id)
		}
	}

	if len(accepted) > 0 {
		if err := s.favorites.UpdateFavorites(ctx, userID, accepted, favorite); err != nil {
			return nil, err
		}
	}

	return &inbound.FavoritesUpdateResult{
		SuccessCount:   len(accepted),
		FailedCount:    len(failed),
		FailedVoiceIDs: failed,
	}, nil
}

func (s *voiceLibraryService) CreateUserVoice(ctx context.Context, userID string, params inbound.CreateUserVoiceParams) (*domain.Voice, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("creating a voice requires identity")
	}
	displayName := strings.TrimSpace(params.DisplayName)
	if displayName == "" {
		return nil, apperrors.BadRequest("invalid_display_name", "display_name is required")
	}
	base := strings.TrimSpace(params.BaseVoiceID)
	if base == "" || !s.effectEngine.Supports(base) {
		return nil, apperrors.BadRequest("invalid_base_voice_id",
			fmt.Sprintf("base_voice_id must be one of %v", s.effectEngine.VoiceIDs()))
	}

	meta := map[string]interface{}{}
	for k, v := range params.Meta {
		meta[k] = v
	}
	meta["base_voice_id"] = base

	creationMode := "private"
	if params.IsPublic {
		creationMode = "public"
	}

	voice := domain.Voice{
		VoiceID:      userVoicePrefix + uuid.NewString(),
		DisplayName:  displayName,
		VoiceType:    domain.UserVoiceType,
		Labels:       params.Labels,
		Meta:         meta,
		IsPublic:     params.IsPublic,
		Language:     params.LanguageType,
		Age:          params.Age,
		Gender:       params.Gender,
		Scene:        params.Scene,
		Emotion:      params.Emotion,
		Description:  params.Description,
		CreationMode: creationMode,
		CanDelete:    true,
		CreateTime:   time.Now().Unix(),
		OwnerUserID:  userID,
	}

	created, err := s.userVoices.Upsert(ctx, userID, voice)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// decorate applies caller-specific favorite flags and fills preview URLs on a
// copy of the cached page.
func (s *voiceLibraryService) decorate(ctx context.Context, page domain.VoicePage, userID string) (*domain.VoicePage, error) {
	var favorites map[string]struct{}
	if userID != "" {
		var err error
		favorites, err = s.favorites.Favorites(ctx, userID)
		if err != nil {
			s.logger.Error(err, "failed to load favorites, listing without them")
		}
	}

	out := make([]domain.Voice, len(page.Voices))
	for i, v := range page.Voices {
		if favorites != nil {
			_, v.IsFavorited = favorites[v.VoiceID]
		}
		if v.URL == "" {
			v.URL = previewURLFor(v)
		}
		out[i] = v
	}

	return &domain.VoicePage{TotalCount: page.TotalCount, Voices: out}, nil
}

// voicesKnownToUser fetches catalog voices by id and fills the gaps from the
// caller's own voices.
func (s *voiceLibraryService) voicesKnownToUser(ctx context.Context, userID string, voiceIDs []string) ([]domain.Voice, error) {
	if len(voiceIDs) == 0 {
		return nil, nil
	}
	fetched, err := s.repo.GetByVoiceIDs(ctx, voiceIDs)
	if err != nil {
		return nil, err
	}
	known := map[string]struct{}{}
	for _, v := range fetched {
		known[v.VoiceID] = struct{}{}
	}

	var missing []string
	for _, id := range voiceIDs {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		owned, err := s.userVoices.GetByIDs(ctx, userID, missing)
		if err != nil {
			return nil, err
		}
		fetched = append(fetched, owned...)
	}
	return fetched, nil
}

func applyFavoritesFilters(voices []domain.Voice, params domain.ExploreParams) []domain.Voice {
	languageType := strings.ToLower(strings.TrimSpace(params.LanguageType))
	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
	if languageType == "" && keyword == "" {
		return voices
	}

	out := voices[:0]
	for _, v := range voices {
		if languageType != "" && strings.ToLower(v.Language) != languageType {
			continue
		}
		if keyword != "" {
			var sample string
			if v.Meta != nil {
				sample, _ = v.Meta["text"].(string)
			}
			hay := strings.ToLower(v.DisplayName + " " + v.Description + " " + sample)
			if !strings.Contains(hay, keyword) {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func pageSlice(voices []domain.Voice, skip int, limit int) []domain.Voice {
	if skip < 0 {
		skip = 0
	}
	if skip > len(voices) {
		skip = len(voices)
	}
	end := len(voices)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return voices[skip:end]
}

func (s *voiceLibraryService) knownVoiceIDs(ctx context.Context, userID string, voiceIDs []string) (map[string]struct{}, error) {
	fetched, err := s.repo.GetByVoiceIDs(ctx, voiceIDs)
	if err != nil {
		return nil, err
	}
	known := map[string]struct{}{}
	for _, v := range fetched {
		known[v.VoiceID] = struct{}{}
	}

	var missing []string
	for _, id := range voiceIDs {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		owned, err := s.userVoices.GetByIDs(ctx, userID, missing)
		if err != nil {
			return nil, err
		}
		for _, v := range owned {
			known[v.VoiceID] = struct{}{}
		}
	}
	return known, nil
}

// previewURLFor points user voices at their base voice preview so the file
// can be fetched without auth headers.
func previewURLFor(v domain.Voice) string {
	id := v.VoiceID
	if strings.HasPrefix(id, userVoicePrefix) {
		if base := v.BaseVoiceID(); base != "" {
			id = base
		}
	}
	return "/api/v1/voice-library/preview/" + id + ".mp3"
}

func normalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "en"
	}
	return lang
}

func exploreCacheKey(p domain.ExploreParams) string {
	return fmt.Sprintf("explore:%s:%s:%s:%s:%s:%s:%s:%s:%s:%d:%d",
		p.Keyword, strings.Join(p.VoiceIDs, ","), p.Language, p.LanguageType,
		p.Age, p.Gender, strings.Join(p.Scene, ","), strings.Join(p.Emotion, ","),
		p.Sort, p.Skip, p.Limit)
}

func exploreTTL(p domain.ExploreParams) time.Duration {
	if p.Sort == "latest" && !p.HasFilters() {
		return exploreLatestTTL
	}
	if p.HasFilters() {
		return exploreFilteredTTL
	}
	return exploreUnfilteredTTL
}

func voicesByID(voices []domain.Voice) map[string]domain.Voice {
	out := make(map[string]domain.Voice, len(voices))
	for _, v := range voices {
		out[v.VoiceID] = v
	}
	return out
}
