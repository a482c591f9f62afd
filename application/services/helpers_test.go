package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                          {}
func (nopLogger) InfoWithFields(string, map[string]interface{})        {}
func (nopLogger) Error(error, string)                                  {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                         {}
func (nopLogger) DebugWithFields(string, map[string]interface{})       {}
func (nopLogger) Warn(string)                                          {}
func (nopLogger) WarnWithFields(string, map[string]interface{})        {}

func testLogger() outbound.LoggerPort { return nopLogger{} }

func newServiceTestTask(t *testing.T) *domain.TaskContext {
	t.Helper()
	task, err := domain.NewTaskContext("task-test", filepath.Join(t.TempDir(), "task-test"))
	if err != nil {
		t.Fatal("failed to create task context:", err)
	}
	return task
}

func writeTaskFile(t *testing.T, task *domain.TaskContext, name string, content string) string {
	t.Helper()
	path, err := task.Path(name)
	if err != nil {
		t.Fatal("failed to resolve path:", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal("failed to write file:", err)
	}
	return path
}

// fakeTranscoder copies input bytes into the output path, recording calls.
type fakeTranscoder struct {
	available       bool
	standardizeErr  error
	transcodeErr    error
	transcodeCalls  []outbound.TranscodeRequest
	standardizeCnt  int
}

func (f *fakeTranscoder) Available() bool { return f.available }

func (f *fakeTranscoder) Standardize(ctx context.Context, inputPath string, outputPath string) error {
	f.standardizeCnt++
	if f.standardizeErr != nil {
		return f.standardizeErr
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func (f *fakeTranscoder) Transcode(ctx context.Context, req outbound.TranscodeRequest) error {
	f.transcodeCalls = append(f.transcodeCalls, req)
	if f.transcodeErr != nil {
		return f.transcodeErr
	}
	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(req.OutputPath, data, 0o644)
}

type fakeProber struct {
	available bool
	duration  *float64
	err       error
}

func (f *fakeProber) Available() bool { return f.available }

func (f *fakeProber) ProbeDuration(ctx context.Context, path string) (*float64, error) {
	return f.duration, f.err
}

func durationPtr(v float64) *float64 { return &v }

type fakeEffectEngine struct {
	ids      []string
	applyErr error

	mu      sync.Mutex
	applied []string
}

func newFakeEffectEngine() *fakeEffectEngine {
	return &fakeEffectEngine{ids: []string{"anime_uncle", "uwu_anime", "gender_swap", "mamba", "nerd_bro"}}
}

func (f *fakeEffectEngine) Supports(voiceID string) bool {
	for _, id := range f.ids {
		if id == voiceID {
			return true
		}
	}
	return false
}

func (f *fakeEffectEngine) VoiceIDs() []string { return f.ids }

func (f *fakeEffectEngine) Apply(ctx context.Context, effectID string, inputPath string, outputFormat string) (*outbound.EffectResult, error) {
	f.mu.Lock()
	f.applied = append(f.applied, effectID)
	f.mu.Unlock()
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return &outbound.EffectResult{
		Audio: []byte("effect:" + effectID),
		Meta:  map[string]interface{}{"effect": effectID},
	}, nil
}

type fakeProvider struct {
	err   error
	calls []outbound.ConvertVoiceRequest
}

func (f *fakeProvider) Convert(ctx context.Context, req outbound.ConvertVoiceRequest) (*outbound.ConvertVoiceResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &outbound.ConvertVoiceResult{
		Audio: []byte("provider-audio"),
		Meta:  map[string]interface{}{"provider": "fake"},
	}, nil
}

type fakeToneSynth struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeToneSynth) SynthesizeTone(path string, durationSec float64) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return os.WriteFile(path, []byte("tone"), 0o644)
}

type fakePublisher struct {
	published []outbound.PublishOutputRequest
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, req outbound.PublishOutputRequest) (*outbound.PublishOutputResult, error) {
	f.published = append(f.published, req)
	if f.err != nil {
		return nil, f.err
	}
	return &outbound.PublishOutputResult{
		PublicName: req.PublicName,
		PublicURL:  "/outputs/" + req.PublicName,
	}, nil
}

type fakeUserVoiceStore struct {
	voices map[string][]domain.Voice
}

func newFakeUserVoiceStore() *fakeUserVoiceStore {
	return &fakeUserVoiceStore{voices: map[string][]domain.Voice{}}
}

func (f *fakeUserVoiceStore) List(ctx context.Context, userID string) ([]domain.Voice, error) {
	return f.voices[userID], nil
}

func (f *fakeUserVoiceStore) GetByIDs(ctx context.Context, userID string, voiceIDs []string) ([]domain.Voice, error) {
	wanted := map[string]struct{}{}
	for _, id := range voiceIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.Voice
	for _, v := range f.voices[userID] {
		if _, ok := wanted[v.VoiceID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeUserVoiceStore) Upsert(ctx context.Context, userID string, voice domain.Voice) (domain.Voice, error) {
	for i, existing := range f.voices[userID] {
		if existing.VoiceID == voice.VoiceID {
			f.voices[userID][i] = voice
			return voice, nil
		}
	}
	f.voices[userID] = append([]domain.Voice{voice}, f.voices[userID]...)
	return voice, nil
}

type fakeFavoritesStore struct {
	favorites map[string]map[string]struct{}
	recent    map[string][]string
}

func newFakeFavoritesStore() *fakeFavoritesStore {
	return &fakeFavoritesStore{
		favorites: map[string]map[string]struct{}{},
		recent:    map[string][]string{},
	}
}

func (f *fakeFavoritesStore) Favorites(ctx context.Context, userID string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for id := range f.favorites[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (f *fakeFavoritesStore) UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) error {
	set := f.favorites[userID]
	if set == nil {
		set = map[string]struct{}{}
		f.favorites[userID] = set
	}
	for _, id := range voiceIDs {
		if favorite {
			set[id] = struct{}{}
		} else {
			delete(set, id)
		}
	}
	return nil
}

func (f *fakeFavoritesStore) AddRecent(ctx context.Context, userID string, voiceID string) error {
	kept := []string{voiceID}
	for _, id := range f.recent[userID] {
		if id != voiceID {
			kept = append(kept, id)
		}
	}
	f.recent[userID] = kept
	return nil
}

func (f *fakeFavoritesStore) RecentIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	ids := f.recent[userID]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakePageCache struct {
	entries map[string]domain.VoicePage
	sets    int
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{entries: map[string]domain.VoicePage{}}
}

func (f *fakePageCache) Get(key string) (*domain.VoicePage, bool) {
	page, ok := f.entries[key]
	if !ok {
		return nil, false
	}
	return &page, true
}

func (f *fakePageCache) Set(key string, page domain.VoicePage, ttl time.Duration) {
	f.sets++
	f.entries[key] = page
}

type fakeVoiceRepository struct {
	voices   []domain.Voice
	topFixed []string
	owned    *fakeUserVoiceStore
}

func (f *fakeVoiceRepository) TopFixedVoiceIDs(language string) []string {
	return f.topFixed
}

func (f *fakeVoiceRepository) GetByVoiceIDs(ctx context.Context, voiceIDs []string) ([]domain.Voice, error) {
	wanted := map[string]struct{}{}
	for _, id := range voiceIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.Voice
	for _, v := range f.voices {
		if _, ok := wanted[v.VoiceID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoiceRepository) Explore(ctx context.Context, params domain.ExploreParams, ownerUserID string) (int, []domain.Voice, error) {
	if ownerUserID != "" {
		owned := f.owned.voices[ownerUserID]
		return len(owned), owned, nil
	}
	return len(f.voices), f.voices, nil
}

func builtinVoice(id string) domain.Voice {
	return domain.Voice{
		VoiceID:     id,
		DisplayName: id,
		VoiceType:   domain.BuiltInVoiceType,
		IsPublic:    true,
		Language:    "en",
		CreateTime:  time.Now().Unix(),
	}
}

type namedStep struct {
	name string
	run  func(domain.Artifact, *domain.TaskContext) (domain.Artifact, error)
}

func (s namedStep) Name() string { return s.name }

func (s namedStep) Run(artifact domain.Artifact, ctx *domain.TaskContext) (domain.Artifact, error) {
	return s.run(artifact, ctx)
}

func stepArtifact(name string) domain.Artifact {
	return domain.NewArtifact("/tmp/"+name, "audio/wav", map[string]interface{}{"from": name})
}

var errBoom = fmt.Errorf("boom")
