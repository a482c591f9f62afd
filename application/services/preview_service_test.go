package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/domain"
)

type goroutineDispatcher struct{}

func (goroutineDispatcher) Submit(task func()) error {
	go task()
	return nil
}

func newPreviewFixture(t *testing.T) (*PreviewService, *fakeEffectEngine, *fakeUserVoiceStore) {
	t.Helper()
	engine := newFakeEffectEngine()
	store := newFakeUserVoiceStore()
	service := NewPreviewService(engine, store, &fakeToneSynth{}, t.TempDir(), t.TempDir(), testLogger())
	return service, engine, store
}

func TestEnsurePreviewMP3RendersAndCaches(t *testing.T) {
	service, engine, _ := newPreviewFixture(t)
	ctx := context.Background()

	path, err := service.EnsurePreviewMP3(ctx, "mamba", "")
	if err != nil {
		t.Fatal("preview failed:", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal("read preview:", err)
	}
	if string(data) != "effect:mamba" {
		t.Fatalf("unexpected preview content: %q", data)
	}
	if filepath.Base(path) != "mamba.mp3" {
		t.Fatalf("unexpected preview name: %s", path)
	}

	// Second call must serve the cached file, not re-render.
	renders := len(engine.applied)
	again, err := service.EnsurePreviewMP3(ctx, "mamba", "")
	if err != nil || again != path {
		t.Fatalf("cached preview wrong: %s, %v", again, err)
	}
	if len(engine.applied) != renders {
		t.Fatal("cached preview must not re-render")
	}
}

func TestEnsurePreviewMP3UserVoiceResolvesBase(t *testing.T) {
	service, _, store := newPreviewFixture(t)
	ctx := context.Background()
	store.voices["u1"] = []domain.Voice{{
		VoiceID: "user_abc",
		Meta:    map[string]interface{}{"base_voice_id": "uwu_anime"},
	}}

	_, err := service.EnsurePreviewMP3(ctx, "user_abc", "")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Status != 401 {
		t.Fatalf("user voice preview without identity must 401, got %v", err)
	}

	path, err := service.EnsurePreviewMP3(ctx, "user_abc", "u1")
	if err != nil {
		t.Fatal("preview failed:", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "effect:uwu_anime" {
		t.Fatalf("preview must render the base effect: %q", data)
	}
	if filepath.Base(path) != "user_abc.mp3" {
		t.Fatalf("preview file keeps the requested id: %s", path)
	}
}

func TestEnsurePreviewMP3Errors(t *testing.T) {
	service, _, store := newPreviewFixture(t)
	ctx := context.Background()

	_, err := service.EnsurePreviewMP3(ctx, "", "")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "missing_voice_id" {
		t.Fatalf("expected missing_voice_id, got %v", err)
	}

	_, err = service.EnsurePreviewMP3(ctx, "ghost", "")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "voice_not_found" {
		t.Fatalf("expected voice_not_found, got %v", err)
	}

	_, err = service.EnsurePreviewMP3(ctx, "user_missing", "u1")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "voice_not_found" {
		t.Fatalf("expected voice_not_found for unknown user voice, got %v", err)
	}

	store.voices["u1"] = []domain.Voice{{VoiceID: "user_nobase"}}
	_, err = service.EnsurePreviewMP3(ctx, "user_nobase", "u1")
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "invalid_user_voice" {
		t.Fatalf("expected invalid_user_voice, got %v", err)
	}
}

func TestWarmupRendersAllBuiltins(t *testing.T) {
	engine := newFakeEffectEngine()
	outputsDir := t.TempDir()
	service := NewPreviewService(engine, newFakeUserVoiceStore(), &fakeToneSynth{}, outputsDir, t.TempDir(), testLogger())

	service.Warmup(goroutineDispatcher{})

	previewDir := filepath.Join(outputsDir, "voice_previews")
	deadline := time.Now().Add(5 * time.Second)
	for {
		entries, _ := os.ReadDir(previewDir)
		if len(entries) == len(engine.ids) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("warmup incomplete: %d of %d previews", len(entries), len(engine.ids))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
