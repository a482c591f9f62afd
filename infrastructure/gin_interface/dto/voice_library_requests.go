package dto

type FavoritesUpdateRequest struct {
	VoiceIDs   []string `json:"voice_ids" binding:"required,min=1,max=50"`
	IsFavorite *bool    `json:"is_favorite" binding:"required"`
}

type CreateMyVoiceRequest struct {
	DisplayName  string                 `json:"display_name" binding:"required,max=80"`
	BaseVoiceID  string                 `json:"base_voice_id"`
	Description  string                 `json:"voice_description" binding:"max=400"`
	LanguageType string                 `json:"language_type"`
	Age          string                 `json:"age"`
	Gender       string                 `json:"gender"`
	Scene        []string               `json:"scene"`
	Emotion      []string               `json:"emotion"`
	Labels       []string               `json:"labels"`
	Meta         map[string]interface{} `json:"meta"`
	IsPublic     bool                   `json:"is_public"`
}
