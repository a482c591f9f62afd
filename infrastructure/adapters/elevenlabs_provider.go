package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"
)

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsProvider struct {
	ContentFetcher
	elevenLabsConfig *config.ElevenLabsConfig
	logger           outbound.LoggerPort
}

// NewElevenLabsProvider builds the speech-to-speech conversion provider. The
// endpoint takes the source audio as multipart form data plus JSON-encoded
// voice settings.
func NewElevenLabsProvider(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig, logger outbound.LoggerPort) outbound.ConversionProviderPort {
	return &elevenLabsProvider{
		ContentFetcher:   contentFetcher,
		elevenLabsConfig: elevenLabsConfig,
		logger:           logger,
	}
}

func (p *elevenLabsProvider) Convert(ctx context.Context, convertReq outbound.ConvertVoiceRequest) (*outbound.ConvertVoiceResult, error) {
	req, err := p.getRequest(ctx, convertReq)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to construct the voice conversion request", map[string]interface{}{
			"voice_id": convertReq.VoiceID,
		})
		return nil, err
	}

	audio, err := p.FetchContent(req)
	if err != nil {
		return nil, err
	}

	return &outbound.ConvertVoiceResult{
		Audio: audio,
		Meta: map[string]interface{}{
			"provider": "elevenlabs",
			"model_id": p.elevenLabsConfig.ModelId,
			"voice_id": convertReq.VoiceID,
		},
	}, nil
}

func (p *elevenLabsProvider) getRequest(ctx context.Context, convertReq outbound.ConvertVoiceRequest) (*http.Request, error) {
	audioFile, err := os.Open(convertReq.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open conversion input: %w", err)
	}
	defer func() {
		if err := audioFile.Close(); err != nil {
			p.logger.Error(err, "error closing conversion input file")
		}
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", filepath.Base(convertReq.AudioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy conversion input: %w", err)
	}

	settings, err := json.Marshal(elevenLabsVoiceSettings{
		Stability:       convertReq.Stability,
		SimilarityBoost: convertReq.Similarity,
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"model_id":       p.elevenLabsConfig.ModelId,
		"voice_settings": string(settings),
	}
	if convertReq.OutputFormat == "mp3" {
		fields["output_format"] = "mp3_44100_128"
	}
	if convertReq.RemoveBackgroundNoise != nil {
		fields["remove_background_noise"] = fmt.Sprintf("%t", *convertReq.RemoveBackgroundNoise)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := p.elevenLabsConfig.ApiUrl + "/" + convertReq.VoiceID
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to create the HTTP POST request", map[string]interface{}{
			"URL": url,
		})
		return nil, err
	}

	req.Header.Add("Accept", "audio/mpeg")
	req.Header.Add("xi-api-key", p.elevenLabsConfig.ApiKey)
	req.Header.Add("Content-Type", writer.FormDataContentType())

	return req, nil
}
