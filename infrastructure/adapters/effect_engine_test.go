package adapters

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEffectEngineCatalog(t *testing.T) {
	engine := NewFFMPEGEffectEngine(&copyTranscoder{available: true}, testLogger())

	ids := engine.VoiceIDs()
	if len(ids) != 5 || ids[0] != "anime_uncle" || ids[4] != "nerd_bro" {
		t.Fatalf("unexpected effect catalog: %v", ids)
	}
	for _, id := range ids {
		if !engine.Supports(id) {
			t.Fatalf("catalog id %q not supported", id)
		}
	}
	if engine.Supports("ghost") {
		t.Fatal("unknown effect must not be supported")
	}

	// Returned slice must not alias the internal ordering.
	ids[0] = "mutated"
	if engine.VoiceIDs()[0] == "mutated" {
		t.Fatal("catalog leaked internal slice")
	}
}

func TestEffectDisplayName(t *testing.T) {
	if got := EffectDisplayName("mamba"); got != "Mamba Mode" {
		t.Fatalf("display name %q", got)
	}
	if got := EffectDisplayName("ghost"); got != "ghost" {
		t.Fatalf("unknown effect must echo the id, got %q", got)
	}
}

func TestPitchShiftFiltersKeepTempoInRange(t *testing.T) {
	for _, spec := range effectSpecs {
		var hasTempo bool
		for _, f := range spec.filters {
			if strings.HasPrefix(f, "atempo=") {
				hasTempo = true
			}
		}
		if !hasTempo {
			t.Fatalf("effect %q misses tempo correction: %v", spec.displayName, spec.filters)
		}
	}

	filters := pitchShiftFilters(2.0)
	if filters[0] != "asetrate=48000*2" || filters[1] != "aresample=48000" || filters[2] != "atempo=0.500000" {
		t.Fatalf("unexpected filter chain: %v", filters)
	}
}

func TestEffectEngineApply(t *testing.T) {
	transcoder := &copyTranscoder{available: true}
	engine := NewFFMPEGEffectEngine(transcoder, testLogger())
	input := filepath.Join(t.TempDir(), "input.wav")
	if err := os.WriteFile(input, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := engine.Apply(context.Background(), "mamba", input, "")
	if err != nil {
		t.Fatal("apply failed:", err)
	}
	if string(result.Audio) != "audio-bytes" {
		t.Fatalf("audio not read back: %q", result.Audio)
	}
	if result.Meta["voice_id"] != "mamba" || result.Meta["effect"] != "Mamba Mode" {
		t.Fatalf("unexpected meta: %v", result.Meta)
	}
	if transcoder.last == nil || transcoder.last.SampleRate != standardSampleRate {
		t.Fatalf("transcode request wrong: %+v", transcoder.last)
	}
	if len(transcoder.last.Filters) == 0 || !strings.HasPrefix(transcoder.last.Filters[0], "asetrate=") {
		t.Fatalf("effect filters not passed: %v", transcoder.last.Filters)
	}
	if _, err := os.Stat(transcoder.last.OutputPath); !os.IsNotExist(err) {
		t.Fatal("temp effect file must be removed")
	}
}

func TestEffectEngineApplyErrors(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.wav")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := NewFFMPEGEffectEngine(&copyTranscoder{available: true}, testLogger())
	if _, err := engine.Apply(context.Background(), "ghost", input, "wav"); err == nil {
		t.Fatal("unknown effect must fail")
	}
	if _, err := engine.Apply(context.Background(), "mamba", filepath.Join(t.TempDir(), "missing.wav"), "wav"); err == nil {
		t.Fatal("missing input must fail")
	}

	unavailable := NewFFMPEGEffectEngine(&copyTranscoder{available: false}, testLogger())
	if _, err := unavailable.Apply(context.Background(), "mamba", input, "wav"); err == nil {
		t.Fatal("unavailable transcoder must fail")
	}
}
