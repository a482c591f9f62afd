package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"

	"github.com/google/uuid"
)

type effectSpec struct {
	displayName string
	filters     []string
}

// pitchShiftFilters approximates a pitch-only shift: asetrate changes pitch
// and speed together, atempo corrects the speed back. All factors used here
// stay inside atempo's 0.5..2.0 range.
func pitchShiftFilters(factor float64) []string {
	return []string{
		fmt.Sprintf("asetrate=%d*%g", standardSampleRate, factor),
		fmt.Sprintf("aresample=%d", standardSampleRate),
		fmt.Sprintf("atempo=%.6f", 1.0/factor),
	}
}

var effectOrder = []string{"anime_uncle", "uwu_anime", "gender_swap", "mamba", "nerd_bro"}

var effectSpecs = map[string]effectSpec{
	"anime_uncle": {
		displayName: "Anime Uncle",
		filters: append(pitchShiftFilters(0.75),
			"volume=1.4",
			"aecho=0.8:0.88:80:0.25",
		),
	},
	"uwu_anime": {
		displayName: "UwU Anime",
		filters: append(pitchShiftFilters(1.4),
			"volume=1.2",
		),
	},
	"gender_swap": {
		displayName: "Gender Swap",
		filters: append(pitchShiftFilters(1.25),
			"highpass=f=120",
			"lowpass=f=12000",
		),
	},
	"mamba": {
		displayName: "Mamba Mode",
		filters: append(pitchShiftFilters(0.9),
			"volume=1.5",
			"acompressor=threshold=-18dB:ratio=3:attack=20:release=200",
		),
	},
	"nerd_bro": {
		displayName: "Nerd Bro",
		filters: append(pitchShiftFilters(1.1),
			"tremolo=f=120:d=0.15",
		),
	},
}

// EffectDisplayName returns the human name of a built-in effect, or the id
// itself when the effect is unknown.
func EffectDisplayName(effectID string) string {
	if spec, ok := effectSpecs[effectID]; ok {
		return spec.displayName
	}
	return effectID
}

type ffmpegEffectEngine struct {
	transcoder outbound.TranscoderPort
	logger     outbound.LoggerPort
}

func NewFFMPEGEffectEngine(transcoder outbound.TranscoderPort, logger outbound.LoggerPort) outbound.EffectEnginePort {
	return &ffmpegEffectEngine{transcoder: transcoder, logger: logger}
}

func (e *ffmpegEffectEngine) Supports(voiceID string) bool {
	_, ok := effectSpecs[voiceID]
	return ok
}

func (e *ffmpegEffectEngine) VoiceIDs() []string {
	ids := make([]string, len(effectOrder))
	copy(ids, effectOrder)
	return ids
}

func (e *ffmpegEffectEngine) Apply(ctx context.Context, effectID string, inputPath string, outputFormat string) (*outbound.EffectResult, error) {
	spec, ok := effectSpecs[effectID]
	if !ok {
		return nil, fmt.Errorf("unsupported effect %q", effectID)
	}
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("effect input missing: %w", err)
	}
	if !e.transcoder.Available() {
		return nil, fmt.Errorf("transcoder unavailable, cannot apply effect %q", effectID)
	}
	if outputFormat == "" {
		outputFormat = "wav"
	}

	tmpPath := filepath.Join(os.TempDir(), "effect_"+uuid.NewString()+"."+outputFormat)
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			e.logger.Error(err, "error removing effect temp file")
		}
	}()

	err := e.transcoder.Transcode(ctx, outbound.TranscodeRequest{
		InputPath:  inputPath,
		OutputPath: tmpPath,
		Format:     outputFormat,
		SampleRate: standardSampleRate,
		Filters:    spec.filters,
	})
	if err != nil {
		return nil, fmt.Errorf("apply effect %q: %w", effectID, err)
	}

	audio, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read effect output: %w", err)
	}

	filters := make([]string, len(spec.filters))
	copy(filters, spec.filters)
	return &outbound.EffectResult{
		Audio: audio,
		Meta: map[string]interface{}{
			"voice_id": effectID,
			"effect":   spec.displayName,
			"filters":  filters,
		},
	}, nil
}
