package outbound

import "context"

type EffectResult struct {
	Audio []byte
	Meta  map[string]interface{}
}

// EffectEnginePort applies one of the fixed built-in voice effects locally,
// with no network provider involved.
type EffectEnginePort interface {
	Supports(voiceID string) bool
	// VoiceIDs returns the full built-in effect catalog in stable order.
	VoiceIDs() []string
	Apply(ctx context.Context, effectID string, inputPath string, outputFormat string) (*EffectResult, error)
}
