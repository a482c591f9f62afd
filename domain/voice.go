package domain

type VoiceType string

const (
	BuiltInVoiceType VoiceType = "built-in"
	UserVoiceType    VoiceType = "user"
)

// Voice is one entry of the voice library: either a built-in effect preset or
// a user-created voice layered on top of a built-in base effect.
type Voice struct {
	ID          int64     `json:"id"`
	VoiceID     string    `json:"voice_id"`
	DisplayName string    `json:"display_name"`
	VoiceType   VoiceType `json:"voice_type"`

	Labels []string               `json:"labels"`
	Meta   map[string]interface{} `json:"meta"`

	IsPublic    bool   `json:"is_public"`
	URL         string `json:"url,omitempty"`
	FallbackURL string `json:"fallbackurl,omitempty"`

	IsFavorited bool `json:"is_favorited"`

	Language string   `json:"language,omitempty"`
	Age      string   `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Scene    []string `json:"scene"`
	Emotion  []string `json:"emotion"`

	Description  string `json:"voice_description,omitempty"`
	CreationMode string `json:"creation_mode"`
	CanDelete    bool   `json:"can_delete"`
	CreateTime   int64  `json:"create_time"`

	// OwnerUserID is set for user voices only and never serialized.
	OwnerUserID string `json:"-"`
}

// BaseVoiceID returns the built-in effect a user voice is declared on, or ""
// when the voice carries no base.
func (v Voice) BaseVoiceID() string {
	if v.Meta == nil {
		return ""
	}
	if base, ok := v.Meta["base_voice_id"].(string); ok && base != "" {
		return base
	}
	if base, ok := v.Meta["baseVoiceId"].(string); ok && base != "" {
		return base
	}
	return ""
}
