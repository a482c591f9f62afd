package dto

type VoiceChangerRequest struct {
	VoiceID      string                 `json:"voice_id" binding:"required"`
	Stability    *int                   `json:"stability"`
	Similarity   *int                   `json:"similarity"`
	OutputFormat string                 `json:"output_format"`
	PresetID     string                 `json:"preset_id"`
	WebhookURL   string                 `json:"webhook_url"`
	Options      map[string]interface{} `json:"options"`
}
