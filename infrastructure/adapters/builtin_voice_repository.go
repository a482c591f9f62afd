package adapters

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/domain"
)

var defaultTopFixedVoices = map[string][]string{
	"en": {"anime_uncle", "uwu_anime", "gender_swap", "mamba", "nerd_bro"},
	"zh": {"mamba", "nerd_bro", "anime_uncle", "uwu_anime", "gender_swap"},
	"ja": {"uwu_anime", "anime_uncle", "gender_swap", "mamba", "nerd_bro"},
}

type builtinVoiceTags struct {
	description string
	gender      string
	age         string
	scene       []string
	emotion     []string
}

var builtinVoiceCatalog = map[string]builtinVoiceTags{
	"anime_uncle": {
		description: "A dramatic, punchy low voice (anime uncle vibe)",
		gender:      "male",
		age:         "middle_age",
		scene:       []string{"Social Video", "Podcast", "Audiobook", "Gaming & Fiction"},
		emotion:     []string{"Surprise", "joyful", "Calm"},
	},
	"uwu_anime": {
		description: "A cute, sparkly higher voice (uwu anime)",
		gender:      "female",
		age:         "young",
		scene:       []string{"Social Video", "Gaming & Fiction", "Advertising / Commercial"},
		emotion:     []string{"joyful", "Surprise", "Calm"},
	},
	"gender_swap": {
		description: "A noticeable pitch shift (gender swap)",
		gender:      "unknown",
		age:         "young",
		scene:       []string{"Social Video", "eCommerce", "Education"},
		emotion:     []string{"Surprise", "Calm"},
	},
	"mamba": {
		description: "An energetic, hype voice (mamba mode)",
		gender:      "male",
		age:         "young",
		scene:       []string{"Social Video", "Podcast", "Advertising / Commercial"},
		emotion:     []string{"joyful", "Angry", "Surprise"},
	},
	"nerd_bro": {
		description: "A slightly nasal, snappy voice (nerd bro)",
		gender:      "male",
		age:         "young",
		scene:       []string{"Social Video", "Education", "Podcast"},
		emotion:     []string{"Calm", "joyful"},
	},
}

type builtinVoiceRepository struct {
	effectEngine outbound.EffectEnginePort
	userVoices   outbound.UserVoiceStorePort
	topFixed     map[string][]string
	logger       outbound.LoggerPort
}

// NewBuiltinVoiceRepository serves the built-in effect presets as the public
// catalog. TOP_FIXED_VOICES_JSON overrides the pinned per-language ordering,
// e.g. {"en":["anime_uncle","uwu_anime"],"zh":["mamba"]}.
func NewBuiltinVoiceRepository(effectEngine outbound.EffectEnginePort, userVoices outbound.UserVoiceStorePort, logger outbound.LoggerPort) outbound.VoiceRepositoryPort {
	topFixed := defaultTopFixedVoices
	if raw := os.Getenv("TOP_FIXED_VOICES_JSON"); raw != "" {
		parsed := map[string][]string{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil || len(parsed) == 0 {
			logger.Warn("invalid TOP_FIXED_VOICES_JSON, using default pinned ordering")
		} else {
			topFixed = parsed
		}
	}
	return &builtinVoiceRepository{
		effectEngine: effectEngine,
		userVoices:   userVoices,
		topFixed:     topFixed,
		logger:       logger,
	}
}

func (r *builtinVoiceRepository) TopFixedVoiceIDs(language string) []string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = "en"
	}
	ids, ok := r.topFixed[lang]
	if !ok {
		ids = r.topFixed["en"]
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (r *builtinVoiceRepository) GetByVoiceIDs(ctx context.Context, voiceIDs []string) ([]domain.Voice, error) {
	wanted := make(map[string]struct{}, len(voiceIDs))
	for _, id := range voiceIDs {
		if id != "" {
			wanted[id] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return nil, nil
	}
	var out []domain.Voice
	for _, voice := range r.listBuiltins("") {
		if _, ok := wanted[voice.VoiceID]; ok {
			out = append(out, voice)
		}
	}
	return out, nil
}

func (r *builtinVoiceRepository) Explore(ctx context.Context, params domain.ExploreParams, ownerUserID string) (int, []domain.Voice, error) {
	var voices []domain.Voice
	if ownerUserID != "" {
		var err error
		voices, err = r.userVoices.List(ctx, ownerUserID)
		if err != nil {
			return 0, nil, err
		}
	} else {
		// Builtin voices default to the requested language so language_type
		// filters still match.
		lang := params.LanguageType
		if lang == "" {
			lang = params.Language
		}
		voices = r.listBuiltins(lang)
	}

	voices = applyExploreFilters(voices, params)
	total := len(voices)

	start := params.Skip
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if params.Limit > 0 && start+params.Limit < total {
		end = start + params.Limit
	}
	return total, voices[start:end], nil
}

func (r *builtinVoiceRepository) listBuiltins(language string) []domain.Voice {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = "en"
	}
	ids := r.effectEngine.VoiceIDs()
	out := make([]domain.Voice, 0, len(ids))
	for _, id := range ids {
		tags, ok := builtinVoiceCatalog[id]
		if !ok {
			tags = builtinVoiceTags{gender: "unknown", age: "unknown", scene: []string{"Social Video"}, emotion: []string{"Calm"}}
		}
		out = append(out, domain.Voice{
			ID:          stableVoiceID(id),
			VoiceID:     id,
			DisplayName: EffectDisplayName(id),
			VoiceType:   domain.BuiltInVoiceType,
			Labels:      []string{},
			Meta: map[string]interface{}{
				"text":     "Hello, nice to meet you.",
				"language": lang,
				"gender":   tags.gender,
				"age":      tags.age,
			},
			IsPublic:     true,
			Language:     lang,
			Age:          tags.age,
			Gender:       tags.gender,
			Scene:        append([]string(nil), tags.scene...),
			Emotion:      append([]string(nil), tags.emotion...),
			Description:  tags.description,
			CreationMode: "public",
			CanDelete:    false,
			CreateTime:   time.Now().Unix(),
		})
	}
	return out
}

// stableVoiceID derives a stable positive numeric id from the voice id.
func stableVoiceID(voiceID string) int64 {
	h := fnv.New32a()
	h.Write([]byte("voice:" + voiceID))
	return int64(h.Sum32()) % 1_000_000_000
}

func applyExploreFilters(voices []domain.Voice, params domain.ExploreParams) []domain.Voice {
	out := make([]domain.Voice, 0, len(voices))

	wantedIDs := make(map[string]struct{}, len(params.VoiceIDs))
	for _, id := range params.VoiceIDs {
		if id != "" {
			wantedIDs[id] = struct{}{}
		}
	}
	tokens := keywordTokens(params.Keyword)
	languageType := strings.ToLower(strings.TrimSpace(params.LanguageType))
	age := strings.ToLower(strings.TrimSpace(params.Age))
	gender := strings.ToLower(strings.TrimSpace(params.Gender))
	scenes := lowerSet(params.Scene)
	emotions := lowerSet(params.Emotion)

	for _, voice := range voices {
		if len(wantedIDs) > 0 {
			if _, ok := wantedIDs[voice.VoiceID]; !ok {
				continue
			}
		}
		if len(tokens) > 0 && !matchesKeyword(voice, tokens) {
			continue
		}
		if languageType != "" && strings.ToLower(voice.Language) != languageType {
			continue
		}
		if age != "" && strings.ToLower(voice.Age) != age {
			continue
		}
		if gender != "" && strings.ToLower(voice.Gender) != gender {
			continue
		}
		if len(scenes) > 0 && !intersectsLower(voice.Scene, scenes) {
			continue
		}
		if len(emotions) > 0 && !intersectsLower(voice.Emotion, emotions) {
			continue
		}
		out = append(out, voice)
	}

	if params.Sort == "latest" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreateTime > out[j].CreateTime })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].VoiceID < out[j].VoiceID })
	}
	return out
}

// matchesKeyword requires every token to appear in the searchable text.
func matchesKeyword(voice domain.Voice, tokens []string) bool {
	var sample string
	if voice.Meta != nil {
		sample, _ = voice.Meta["text"].(string)
	}
	hay := strings.ToLower(voice.DisplayName + " " + voice.Description + " " + sample)
	for _, token := range tokens {
		if !strings.Contains(hay, token) {
			return false
		}
	}
	return true
}

func keywordTokens(keyword string) []string {
	var out []string
	for _, field := range strings.Fields(strings.ToLower(keyword)) {
		if field != "" {
			out = append(out, field)
		}
	}
	return out
}

func lowerSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func intersectsLower(values []string, wanted map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := wanted[strings.ToLower(v)]; ok {
			return true
		}
	}
	return false
}
