package services

import (
	"context"
	"testing"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/config"
	"github.com/Gmy-678/voice-changer/domain"
)

func demoOn(strategy domain.DemoStrategy) *config.DemoConfig {
	return &config.DemoConfig{Enabled: true, Strategy: strategy}
}

func demoOff() *config.DemoConfig {
	return &config.DemoConfig{}
}

func TestResolveBuiltinVoice(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOff(), false)
	task := newServiceTestTask(t)
	task.VoiceID = "mamba"

	if err := resolver.Resolve(context.Background(), "", task); err != nil {
		t.Fatal("builtin resolution failed:", err)
	}
	if task.VoiceID != "mamba" || task.Debug.VoiceResolution.Source != "builtin" {
		t.Fatalf("unexpected resolution: %+v", task.Debug.VoiceResolution)
	}
}

func TestResolveEmptyVoiceID(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOff(), false)
	task := newServiceTestTask(t)

	err := resolver.Resolve(context.Background(), "", task)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "missing_voice_id" {
		t.Fatalf("expected missing_voice_id, got %v", err)
	}
}

func TestResolveUserVoice(t *testing.T) {
	store := newFakeUserVoiceStore()
	store.voices["alice"] = []domain.Voice{{
		VoiceID: "user_abc",
		Meta:    map[string]interface{}{"base_voice_id": "uwu_anime"},
	}}
	resolver := NewVoiceResolver(newFakeEffectEngine(), store, demoOff(), false)

	task := newServiceTestTask(t)
	task.VoiceID = "user_abc"
	if err := resolver.Resolve(context.Background(), "alice", task); err != nil {
		t.Fatal("user voice resolution failed:", err)
	}
	if task.VoiceID != "uwu_anime" || task.Debug.VoiceResolution.Source != "user" {
		t.Fatalf("unexpected resolution: voice=%q %+v", task.VoiceID, task.Debug.VoiceResolution)
	}
}

func TestResolveUserVoiceRequiresIdentity(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOff(), false)
	task := newServiceTestTask(t)
	task.VoiceID = "user_abc"

	err := resolver.Resolve(context.Background(), "", task)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Status != 401 {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestResolveUserVoiceNotFound(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOff(), false)
	task := newServiceTestTask(t)
	task.VoiceID = "user_missing"

	err := resolver.Resolve(context.Background(), "alice", task)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "voice_not_found" {
		t.Fatalf("expected voice_not_found, got %v", err)
	}
}

func TestResolveUserVoiceInvalidBase(t *testing.T) {
	store := newFakeUserVoiceStore()
	store.voices["alice"] = []domain.Voice{
		{VoiceID: "user_nobase", Meta: map[string]interface{}{}},
		{VoiceID: "user_badbase", Meta: map[string]interface{}{"base_voice_id": "nonexistent"}},
	}
	resolver := NewVoiceResolver(newFakeEffectEngine(), store, demoOff(), false)

	for _, id := range []string{"user_nobase", "user_badbase"} {
		task := newServiceTestTask(t)
		task.VoiceID = id
		err := resolver.Resolve(context.Background(), "alice", task)
		if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "invalid_user_voice" {
			t.Fatalf("%s: expected invalid_user_voice, got %v", id, err)
		}
	}
}

func TestResolveExternalDemoHashMapIsDeterministic(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOn(domain.DemoHashMap), false)

	var first string
	for i := 0; i < 5; i++ {
		task := newServiceTestTask(t)
		task.VoiceID = "21m00Tcm4TlvDq8ikWAM"
		if err := resolver.Resolve(context.Background(), "", task); err != nil {
			t.Fatal("demo resolution failed:", err)
		}
		if !newFakeEffectEngine().Supports(task.VoiceID) {
			t.Fatalf("demo mapping must land on a builtin, got %q", task.VoiceID)
		}
		if first == "" {
			first = task.VoiceID
		} else if task.VoiceID != first {
			t.Fatalf("mapping not deterministic: %q vs %q", task.VoiceID, first)
		}
		if task.Debug.VoiceResolution.Source != "demo_map" {
			t.Fatalf("unexpected source: %+v", task.Debug.VoiceResolution)
		}
	}
}

func TestResolveExternalDemoPassthrough(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOn(domain.DemoPassthrough), false)
	task := newServiceTestTask(t)
	task.VoiceID = "external_voice"

	if err := resolver.Resolve(context.Background(), "", task); err != nil {
		t.Fatal("passthrough resolution failed:", err)
	}
	if !task.Options.DemoForcePassthrough() {
		t.Fatal("passthrough strategy must set the force flag")
	}
	if task.Debug.VoiceResolution.Source != "demo_passthrough" {
		t.Fatalf("unexpected source: %+v", task.Debug.VoiceResolution)
	}
}

func TestResolveExternalRejectedWithoutProvider(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOff(), false)
	task := newServiceTestTask(t)
	task.VoiceID = "external_voice"

	err := resolver.Resolve(context.Background(), "", task)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != "unsupported_voice_id" {
		t.Fatalf("expected unsupported_voice_id, got %v", err)
	}
}

func TestResolveExternalWithProvider(t *testing.T) {
	resolver := NewVoiceResolver(newFakeEffectEngine(), newFakeUserVoiceStore(), demoOff(), true)
	task := newServiceTestTask(t)
	task.VoiceID = "external_voice"

	if err := resolver.Resolve(context.Background(), "", task); err != nil {
		t.Fatal("provider resolution failed:", err)
	}
	if task.VoiceID != "external_voice" || task.Debug.VoiceResolution.Source != "provider" {
		t.Fatalf("unexpected resolution: voice=%q %+v", task.VoiceID, task.Debug.VoiceResolution)
	}
}
