package config

import (
	"fmt"
	"os"
)

type ElevenLabsConfig struct {
	ApiUrl  string
	ApiKey  string
	ModelId string
}

// ElevenLabsConfigured reports whether real-provider credentials are present.
// Without them the voice-change step degrades to local strategies.
func ElevenLabsConfigured() bool {
	return os.Getenv("ELEVEN_LABS_API_KEY") != ""
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set")
	}
	apiUrl := os.Getenv("ELEVEN_LABS_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.elevenlabs.io/v1/speech-to-speech"
	}
	modelId := os.Getenv("ELEVEN_LABS_MODEL_ID")
	if modelId == "" {
		modelId = "eleven_english_sts_v2"
	}

	return &ElevenLabsConfig{
		ApiUrl:  apiUrl,
		ApiKey:  apiKey,
		ModelId: modelId,
	}, nil
}
