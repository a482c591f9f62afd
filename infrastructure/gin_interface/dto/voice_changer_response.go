package dto

type VoiceChangerResponse struct {
	TaskID    string                 `json:"task_id"`
	Status    string                 `json:"status"`
	OutputURL string                 `json:"output_url"`
	Meta      map[string]interface{} `json:"meta"`
}
