package services

import (
	"context"
	"io"
	"os"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
)

// voiceChangeStep produces converted audio by choosing among four strategies
// in strict priority order: demo forced passthrough, the built-in effect
// catalog, the local fallback when no provider is configured or no input
// exists, then the real external provider. Exactly one strategy executes per
// invocation, and provider failures are absorbed into degraded output rather
// than aborting the pipeline.
type voiceChangeStep struct {
	effectEngine outbound.EffectEnginePort
	provider     outbound.ConversionProviderPort
	toneSynth    outbound.ToneSynthesizerPort
	toneSeconds  float64
	logger       outbound.LoggerPort
}

func NewVoiceChangeStep(
	effectEngine outbound.EffectEnginePort,
	provider outbound.ConversionProviderPort,
	toneSynth outbound.ToneSynthesizerPort,
	toneSeconds float64,
	logger outbound.LoggerPort) Step {
	return &voiceChangeStep{
		effectEngine: effectEngine,
		provider:     provider,
		toneSynth:    toneSynth,
		toneSeconds:  toneSeconds,
		logger:       logger,
	}
}

func (s *voiceChangeStep) Name() string {
	return "voice_change"
}

func (s *voiceChangeStep) Run(artifact domain.Artifact, ctx *domain.TaskContext) (domain.Artifact, error) {
	if err := ctx.EnsureDirs(); err != nil {
		return domain.Artifact{}, err
	}

	convertedPath, err := ctx.Path("converted.wav")
	if err != nil {
		return domain.Artifact{}, err
	}

	inputPath := artifact.Path
	inputMissing := inputPath == "" || !fileExists(inputPath)

	if ctx.Options.DemoForcePassthrough() {
		return s.runPassthrough(artifact, ctx, inputPath, convertedPath, inputMissing)
	}

	if s.effectEngine != nil && s.effectEngine.Supports(ctx.VoiceID) {
		return s.runBuiltInEffect(artifact, ctx, inputPath, convertedPath, inputMissing)
	}

	providerDisabled := s.provider == nil
	if providerDisabled || inputMissing {
		return s.runLocalFallback(artifact, ctx, inputPath, convertedPath, providerDisabled, inputMissing)
	}

	return s.runProvider(artifact, ctx, inputPath, convertedPath)
}

func (s *voiceChangeStep) runPassthrough(artifact domain.Artifact, ctx *domain.TaskContext,
	inputPath string, convertedPath string, inputMissing bool) (domain.Artifact, error) {
	if inputMissing {
		if err := s.toneSynth.SynthesizeTone(convertedPath, s.toneSeconds); err != nil {
			return domain.Artifact{}, err
		}
	} else {
		if err := copyFile(inputPath, convertedPath); err != nil {
			return domain.Artifact{}, err
		}
	}
	ctx.Register(convertedPath)

	ctx.Debug.MergeProvider(domain.ProviderInfo{Name: "passthrough", Status: "demo_force_passthrough"})

	return domain.NewArtifact(convertedPath, "audio/wav", domain.MergeMeta(artifact.Meta, map[string]interface{}{
		"provider":        "passthrough",
		"provider_status": "demo_force_passthrough",
		"note":            "demo mode passthrough: voice not applied",
	})), nil
}

func (s *voiceChangeStep) runBuiltInEffect(artifact domain.Artifact, ctx *domain.TaskContext,
	inputPath string, convertedPath string, inputMissing bool) (domain.Artifact, error) {
	if inputMissing {
		if err := s.toneSynth.SynthesizeTone(convertedPath, s.toneSeconds); err != nil {
			return domain.Artifact{}, err
		}
		ctx.Register(convertedPath)
		ctx.Debug.MergeProvider(domain.ProviderInfo{Name: "effect_engine", Status: "no_input"})
		return domain.NewArtifact(convertedPath, "audio/wav", domain.MergeMeta(artifact.Meta, map[string]interface{}{
			"provider":        "effect_engine",
			"provider_status": "no_input",
			"note":            "no input file provided, generated placeholder",
		})), nil
	}

	result, err := s.effectEngine.Apply(context.Background(), ctx.VoiceID, inputPath, "wav")
	if err != nil {
		// Absorbed: degrade to a raw copy so the pipeline continues to
		// Export with unconverted audio.
		if copyErr := copyFile(inputPath, convertedPath); copyErr != nil {
			return domain.Artifact{}, copyErr
		}
		ctx.Register(convertedPath)
		ctx.Debug.MergeProvider(domain.ProviderInfo{Name: "effect_engine", Status: "error", Error: err.Error()})
		ctx.Debug.AppendError(domain.StepFailure{Step: s.Name(), Error: err.Error(), Kind: "absorbed"})
		return domain.NewArtifact(convertedPath, "audio/wav", domain.MergeMeta(artifact.Meta, map[string]interface{}{
			"provider":        "effect_engine",
			"provider_status": "error_fallback",
			"note":            err.Error(),
		})), nil
	}

	if err := os.WriteFile(convertedPath, result.Audio, 0o644); err != nil {
		return domain.Artifact{}, err
	}
	ctx.Register(convertedPath)

	effect, _ := result.Meta["effect"].(string)
	if effect == "" {
		effect = ctx.VoiceID
	}
	ctx.Debug.MergeProvider(domain.ProviderInfo{Name: "effect_engine", Status: "ok", Effect: effect})

	meta := domain.MergeMeta(artifact.Meta, result.Meta)
	meta = domain.MergeMeta(meta, map[string]interface{}{
		"provider":        "effect_engine",
		"provider_status": "ok",
		"converted_path":  convertedPath,
	})
	return domain.NewArtifact(convertedPath, "audio/wav", meta), nil
}

func (s *voiceChangeStep) runLocalFallback(artifact domain.Artifact, ctx *domain.TaskContext,
	inputPath string, convertedPath string, providerDisabled bool, inputMissing bool) (domain.Artifact, error) {
	if inputMissing {
		if err := s.toneSynth.SynthesizeTone(convertedPath, s.toneSeconds); err != nil {
			return domain.Artifact{}, err
		}
	} else {
		if err := copyFile(inputPath, convertedPath); err != nil {
			return domain.Artifact{}, err
		}
	}
	ctx.Register(convertedPath)

	name, status, note := "passthrough", "no_input", "no input; synthesized/used fallback"
	if providerDisabled {
		name, status, note = "mock", "disabled_no_api_key", "provider credentials not set; bypassed voice conversion"
	}
	ctx.Debug.MergeProvider(domain.ProviderInfo{Name: name, Status: status})

	return domain.NewArtifact(convertedPath, "audio/wav", domain.MergeMeta(artifact.Meta, map[string]interface{}{
		"provider":        name,
		"provider_status": status,
		"note":            note,
	})), nil
}

func (s *voiceChangeStep) runProvider(artifact domain.Artifact, ctx *domain.TaskContext,
	inputPath string, convertedPath string) (domain.Artifact, error) {
	result, err := s.provider.Convert(context.Background(), outbound.ConvertVoiceRequest{
		VoiceID:               ctx.VoiceID,
		AudioPath:             inputPath,
		Stability:             scaleVoiceSetting(ctx.Stability),
		Similarity:            scaleVoiceSetting(ctx.Similarity),
		OutputFormat:          "wav",
		RemoveBackgroundNoise: ctx.Options.RemoveBackgroundNoise(),
	})
	if err != nil {
		// Absorbed: fall back to a synthesized placeholder.
		if synthErr := s.toneSynth.SynthesizeTone(convertedPath, s.toneSeconds); synthErr != nil {
			return domain.Artifact{}, synthErr
		}
		ctx.Register(convertedPath)
		ctx.Debug.MergeProvider(domain.ProviderInfo{Name: "elevenlabs", Status: "error", Error: err.Error()})
		ctx.Debug.AppendError(domain.StepFailure{Step: s.Name(), Error: err.Error(), Kind: "absorbed"})
		return domain.NewArtifact(convertedPath, "audio/wav", domain.MergeMeta(artifact.Meta, map[string]interface{}{
			"provider":        "elevenlabs",
			"provider_status": "error_fallback",
			"note":            err.Error(),
		})), nil
	}

	if err := os.WriteFile(convertedPath, result.Audio, 0o644); err != nil {
		return domain.Artifact{}, err
	}
	ctx.Register(convertedPath)
	ctx.Debug.MergeProvider(domain.ProviderInfo{Name: "elevenlabs", Status: "ok"})

	meta := domain.MergeMeta(artifact.Meta, result.Meta)
	meta = domain.MergeMeta(meta, map[string]interface{}{
		"provider":        "elevenlabs",
		"provider_status": "ok",
		"converted_path":  convertedPath,
	})
	return domain.NewArtifact(convertedPath, "audio/wav", meta), nil
}

// scaleVoiceSetting rescales the 1-10 UI integer range into the provider's
// native 0.1-1.0 float range, clamping out-of-range inputs first.
func scaleVoiceSetting(value int) float64 {
	if value < 1 {
		value = 1
	}
	if value > 10 {
		value = 10
	}
	return float64(value) / 10.0
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
