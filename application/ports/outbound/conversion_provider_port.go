package outbound

import "context"

// ConvertVoiceRequest carries provider-native parameters: stability and
// similarity are already rescaled into the provider's 0.1-1.0 float range.
type ConvertVoiceRequest struct {
	VoiceID               string
	AudioPath             string
	Stability             float64
	Similarity            float64
	OutputFormat          string
	RemoveBackgroundNoise *bool
}

type ConvertVoiceResult struct {
	Audio []byte
	Meta  map[string]interface{}
}

// ConversionProviderPort is the real external voice-conversion service.
type ConversionProviderPort interface {
	Convert(ctx context.Context, req ConvertVoiceRequest) (*ConvertVoiceResult, error)
}
