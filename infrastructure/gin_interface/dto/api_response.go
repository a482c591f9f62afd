package dto

import "github.com/Gmy-678/voice-changer/domain"

// APIResponse is the voice library envelope: code 0 means success.
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(data interface{}) APIResponse {
	return APIResponse{Code: 0, Message: "success", Data: data}
}

type VoicesListData struct {
	TotalCount int            `json:"total_count"`
	Voices     []domain.Voice `json:"voices"`
}

type FavoritesUpdateData struct {
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	FailedVoiceIDs []string `json:"failed_voice_ids,omitempty"`
}

type CreateMyVoiceData struct {
	Voice domain.Voice `json:"voice"`
}
