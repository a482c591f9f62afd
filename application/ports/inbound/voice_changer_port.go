package inbound

import (
	"context"
	"io"

	"github.com/Gmy-678/voice-changer/domain"
)

// Upload is the raw inbound file before validation. The reader is consumed
// incrementally so oversized uploads are cut off mid-stream.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type ConvertParams struct {
	VoiceID      string
	Stability    int
	Similarity   int
	OutputFormat string
	PresetID     string
	WebhookURL   string
	Options      domain.Options
	UserID       string
	Upload       *Upload
}

type ConvertResult struct {
	TaskID       string
	Status       string
	OutputURL    string
	ArtifactMeta map[string]interface{}
	Debug        domain.Debug
}

// VoiceChangerPort runs one synchronous conversion task end to end:
// validation, voice resolution, then the three-step pipeline.
type VoiceChangerPort interface {
	Convert(ctx context.Context, params ConvertParams) (*ConvertResult, error)
}
