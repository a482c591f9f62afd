package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/inbound"
	"github.com/Gmy-678/voice-changer/domain"
)

type libraryFixture struct {
	repo      *fakeVoiceRepository
	userStore *fakeUserVoiceStore
	favorites *fakeFavoritesStore
	cache     *fakePageCache
	service   inbound.VoiceLibraryPort
}

func newLibraryFixture() *libraryFixture {
	userStore := newFakeUserVoiceStore()
	repo := &fakeVoiceRepository{
		voices: []domain.Voice{
			builtinVoice("anime_uncle"),
			builtinVoice("uwu_anime"),
			builtinVoice("gender_swap"),
			builtinVoice("mamba"),
			builtinVoice("nerd_bro"),
		},
		topFixed: []string{"mamba", "uwu_anime"},
		owned:    userStore,
	}
	favorites := newFakeFavoritesStore()
	cache := newFakePageCache()
	return &libraryFixture{
		repo:      repo,
		userStore: userStore,
		favorites: favorites,
		cache:     cache,
		service:   NewVoiceLibraryService(repo, userStore, favorites, cache, newFakeEffectEngine(), testLogger()),
	}
}

func TestTopFixedVoicesPreservesConfiguredOrder(t *testing.T) {
	f := newLibraryFixture()

	page, err := f.service.TopFixedVoices(context.Background(), "en", "")
	if err != nil {
		t.Fatal("top fixed failed:", err)
	}
	if page.TotalCount != 2 || len(page.Voices) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Voices[0].VoiceID != "mamba" || page.Voices[1].VoiceID != "uwu_anime" {
		t.Fatalf("pinned order not preserved: %v", page.Voices)
	}
	if page.Voices[0].URL != "/api/v1/voice-library/preview/mamba.mp3" {
		t.Fatalf("preview url not filled: %q", page.Voices[0].URL)
	}
}

func TestTopFixedVoicesServedFromCache(t *testing.T) {
	f := newLibraryFixture()

	if _, err := f.service.TopFixedVoices(context.Background(), "en", ""); err != nil {
		t.Fatal("top fixed failed:", err)
	}
	if f.cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", f.cache.sets)
	}

	// A repo change must not be visible while the page is cached.
	f.repo.topFixed = []string{"nerd_bro"}
	page, err := f.service.TopFixedVoices(context.Background(), "en", "")
	if err != nil {
		t.Fatal("top fixed failed:", err)
	}
	if f.cache.sets != 1 {
		t.Fatal("cached page must not be rebuilt")
	}
	if page.Voices[0].VoiceID != "mamba" {
		t.Fatalf("stale read expected while cached, got %v", page.Voices)
	}
}

func TestExploreDropsPinnedOnUnfilteredLanguageBrowse(t *testing.T) {
	f := newLibraryFixture()

	page, err := f.service.Explore(context.Background(), domain.ExploreParams{Language: "en"}, "")
	if err != nil {
		t.Fatal("explore failed:", err)
	}
	for _, v := range page.Voices {
		if v.VoiceID == "mamba" || v.VoiceID == "uwu_anime" {
			t.Fatalf("pinned voice duplicated in browse: %s", v.VoiceID)
		}
	}
}

func TestExploreKeepsPinnedWhenFiltered(t *testing.T) {
	f := newLibraryFixture()

	page, err := f.service.Explore(context.Background(), domain.ExploreParams{Language: "en", Keyword: "mamba"}, "")
	if err != nil {
		t.Fatal("explore failed:", err)
	}
	found := false
	for _, v := range page.Voices {
		if v.VoiceID == "mamba" {
			found = true
		}
	}
	if !found {
		t.Fatal("filtered explore must not drop pinned voices")
	}
}

func TestMyVoicesRequiresIdentity(t *testing.T) {
	f := newLibraryFixture()

	_, err := f.service.MyVoices(context.Background(), domain.ExploreParams{}, "")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Status != 401 {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestUpdateFavoritesCountsUnknownIDsAsFailed(t *testing.T) {
	f := newLibraryFixture()

	result, err := f.service.UpdateFavorites(context.Background(), "u1", []string{"mamba", "ghost", "uwu_anime"}, true)
	if err != nil {
		t.Fatal("update favorites failed:", err)
	}
	if result.SuccessCount != 2 || result.FailedCount != 1 {
		t.Fatalf("unexpected accounting: %+v", result)
	}
	if len(result.FailedVoiceIDs) != 1 || result.FailedVoiceIDs[0] != "ghost" {
		t.Fatalf("unexpected failed ids: %v", result.FailedVoiceIDs)
	}

	stored, _ := f.favorites.Favorites(context.Background(), "u1")
	if _, ok := stored["mamba"]; !ok {
		t.Fatal("accepted favorite not persisted")
	}
	if _, ok := stored["ghost"]; ok {
		t.Fatal("unknown id must not be persisted")
	}
}

func TestUpdateFavoritesValidation(t *testing.T) {
	f := newLibraryFixture()

	if _, err := f.service.UpdateFavorites(context.Background(), "", []string{"mamba"}, true); err == nil {
		t.Fatal("expected unauthorized without identity")
	}
	if _, err := f.service.UpdateFavorites(context.Background(), "u1", nil, true); err == nil {
		t.Fatal("expected rejection for empty voice_ids")
	}
	tooMany := make([]string, maxFavoritesPerRequest+1)
	for i := range tooMany {
		tooMany[i] = "mamba"
	}
	_, err := f.service.UpdateFavorites(context.Background(), "u1", tooMany, true)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "invalid_voice_ids" {
		t.Fatalf("expected invalid_voice_ids, got %v", err)
	}
}

func TestUpdateFavoritesAcceptsOwnVoices(t *testing.T) {
	f := newLibraryFixture()
	f.userStore.voices["u1"] = []domain.Voice{{
		VoiceID:   "user_abc",
		VoiceType: domain.UserVoiceType,
		Meta:      map[string]interface{}{"base_voice_id": "mamba"},
	}}

	result, err := f.service.UpdateFavorites(context.Background(), "u1", []string{"user_abc"}, true)
	if err != nil {
		t.Fatal("update favorites failed:", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 0 {
		t.Fatalf("own voice must be accepted: %+v", result)
	}
}

func TestCreateUserVoice(t *testing.T) {
	f := newLibraryFixture()

	_, err := f.service.CreateUserVoice(context.Background(), "", inbound.CreateUserVoiceParams{DisplayName: "x", BaseVoiceID: "mamba"})
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Status != 401 {
		t.Fatalf("expected 401 without identity, got %v", err)
	}

	_, err = f.service.CreateUserVoice(context.Background(), "u1", inbound.CreateUserVoiceParams{DisplayName: "  ", BaseVoiceID: "mamba"})
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "invalid_display_name" {
		t.Fatalf("expected invalid_display_name, got %v", err)
	}

	_, err = f.service.CreateUserVoice(context.Background(), "u1", inbound.CreateUserVoiceParams{DisplayName: "My Voice", BaseVoiceID: "not_a_voice"})
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "invalid_base_voice_id" {
		t.Fatalf("expected invalid_base_voice_id, got %v", err)
	}

	voice, err := f.service.CreateUserVoice(context.Background(), "u1", inbound.CreateUserVoiceParams{
		DisplayName: "My Voice",
		BaseVoiceID: "mamba",
		Meta:        map[string]interface{}{"text": "hello"},
	})
	if err != nil {
		t.Fatal("create failed:", err)
	}
	if !strings.HasPrefix(voice.VoiceID, "user_") {
		t.Fatalf("user voice id must carry the user_ prefix: %q", voice.VoiceID)
	}
	if voice.BaseVoiceID() != "mamba" || voice.Meta["text"] != "hello" {
		t.Fatalf("meta not preserved: %v", voice.Meta)
	}
	if !voice.CanDelete || voice.VoiceType != domain.UserVoiceType || voice.CreationMode != "private" {
		t.Fatalf("unexpected voice attributes: %+v", voice)
	}

	stored, _ := f.userStore.List(context.Background(), "u1")
	if len(stored) != 1 {
		t.Fatal("created voice not persisted")
	}
}

func TestFavoritesListingDecoratesAndPages(t *testing.T) {
	f := newLibraryFixture()
	f.userStore.voices["u1"] = []domain.Voice{{
		VoiceID:   "user_abc",
		VoiceType: domain.UserVoiceType,
		Language:  "en",
		Meta:      map[string]interface{}{"base_voice_id": "uwu_anime"},
	}}
	if err := f.favorites.UpdateFavorites(context.Background(), "u1", []string{"mamba", "user_abc"}, true); err != nil {
		t.Fatal("seed favorites:", err)
	}

	_, err := f.service.Favorites(context.Background(), domain.ExploreParams{}, "")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Status != 401 {
		t.Fatalf("expected 401 without identity, got %v", err)
	}

	page, err := f.service.Favorites(context.Background(), domain.ExploreParams{}, "u1")
	if err != nil {
		t.Fatal("favorites listing failed:", err)
	}
	if page.TotalCount != 2 || len(page.Voices) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	for _, v := range page.Voices {
		if !v.IsFavorited {
			t.Fatalf("favorite flag not set on %s", v.VoiceID)
		}
	}
	// User voice previews resolve to the base effect.
	for _, v := range page.Voices {
		if v.VoiceID == "user_abc" && v.URL != "/api/v1/voice-library/preview/uwu_anime.mp3" {
			t.Fatalf("user voice preview must point at base: %q", v.URL)
		}
	}

	paged, err := f.service.Favorites(context.Background(), domain.ExploreParams{Skip: 1, Limit: 5}, "u1")
	if err != nil {
		t.Fatal("paged favorites failed:", err)
	}
	if paged.TotalCount != 2 || len(paged.Voices) != 1 {
		t.Fatalf("paging wrong: total %d, got %d voices", paged.TotalCount, len(paged.Voices))
	}
}

func TestRecentUsedKeepsRecencyOrder(t *testing.T) {
	f := newLibraryFixture()

	f.service.RecordVoiceUsed(context.Background(), "u1", "mamba")
	f.service.RecordVoiceUsed(context.Background(), "u1", "uwu_anime")
	f.service.RecordVoiceUsed(context.Background(), "u1", "mamba") // moves to front

	page, err := f.service.RecentUsed(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal("recent used failed:", err)
	}
	if len(page.Voices) != 2 {
		t.Fatalf("expected two recent voices, got %d", len(page.Voices))
	}
	if page.Voices[0].VoiceID != "mamba" || page.Voices[1].VoiceID != "uwu_anime" {
		t.Fatalf("recency order wrong: %v", page.Voices)
	}
}

func TestRecordVoiceUsedIgnoresAnonymous(t *testing.T) {
	f := newLibraryFixture()

	f.service.RecordVoiceUsed(context.Background(), "", "mamba")
	f.service.RecordVoiceUsed(context.Background(), "u1", "")
	if len(f.favorites.recent) != 0 {
		t.Fatalf("anonymous or empty use must not be recorded: %v", f.favorites.recent)
	}
}
