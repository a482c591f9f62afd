package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"
	"github.com/Gmy-678/voice-changer/domain"
)

const userVoicePrefix = "user_"

// VoiceResolver maps an inbound voice selection onto an executable effect id
// before the pipeline runs. Built-in ids resolve to themselves, user-owned
// ids resolve through the store to their declared base effect, and anything
// else falls under the demo-mode policy: deterministic hash mapping onto a
// built-in effect, forced passthrough, or rejection when no real provider is
// configured to take the id as-is.
type VoiceResolver struct {
	effectEngine      outbound.EffectEnginePort
	userVoices        outbound.UserVoiceStorePort
	demoConfig        *config.DemoConfig
	providerAvailable bool
}

func NewVoiceResolver(
	effectEngine outbound.EffectEnginePort,
	userVoices outbound.UserVoiceStorePort,
	demoConfig *config.DemoConfig,
	providerAvailable bool) *VoiceResolver {
	return &VoiceResolver{
		effectEngine:      effectEngine,
		userVoices:        userVoices,
		demoConfig:        demoConfig,
		providerAvailable: providerAvailable,
	}
}

// Resolve rewrites task.VoiceID (and, for forced passthrough, task.Options)
// and records the decision in the task's debug state.
func (r *VoiceResolver) Resolve(ctx context.Context, userID string, task *domain.TaskContext) error {
	requested := strings.TrimSpace(task.VoiceID)
	if requested == "" {
		return apperrors.BadRequest("missing_voice_id", "voice_id is required")
	}

	if r.effectEngine.Supports(requested) {
		task.Debug.SetResolution(domain.ResolutionInfo{
			RequestedVoiceID: requested,
			ResolvedVoiceID:  requested,
			Source:           "builtin",
		})
		return nil
	}

	if strings.HasPrefix(requested, userVoicePrefix) {
		return r.resolveUserVoice(ctx, userID, requested, task)
	}

	return r.resolveExternal(requested, task)
}

func (r *VoiceResolver) resolveUserVoice(ctx context.Context, userID string, requested string, task *domain.TaskContext) error {
	if userID == "" {
		return apperrors.Unauthorized("user voice requires identity")
	}

	found, err := r.userVoices.GetByIDs(ctx, userID, []string{requested})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return apperrors.NotFound("voice_not_found", fmt.Sprintf("user voice %q not found", requested))
	}

	base := found[0].BaseVoiceID()
	if base == "" {
		return apperrors.BadRequest("invalid_user_voice", "user voice has no base_voice_id")
	}
	if !r.effectEngine.Supports(base) {
		return apperrors.BadRequest("invalid_user_voice",
			fmt.Sprintf("user voice base %q is not a supported effect", base))
	}

	task.VoiceID = base
	task.Debug.SetResolution(domain.ResolutionInfo{
		RequestedVoiceID: requested,
		ResolvedVoiceID:  base,
		Source:           "user",
	})
	return nil
}

func (r *VoiceResolver) resolveExternal(requested string, task *domain.TaskContext) error {
	if r.demoConfig.Enabled {
		switch r.demoConfig.Strategy {
		case domain.DemoHashMap:
			mapped := r.mapToBuiltIn(requested)
			task.VoiceID = mapped
			task.Debug.SetResolution(domain.ResolutionInfo{
				RequestedVoiceID: requested,
				ResolvedVoiceID:  mapped,
				Source:           "demo_map",
			})
			task.Debug.SetDemo(domain.DemoInfo{
				Enabled:       true,
				Strategy:      r.demoConfig.Strategy.String(),
				MappedVoiceID: mapped,
			})
			return nil
		case domain.DemoPassthrough:
			task.Options.SetDemoForcePassthrough()
			task.Debug.SetResolution(domain.ResolutionInfo{
				RequestedVoiceID: requested,
				ResolvedVoiceID:  requested,
				Source:           "demo_passthrough",
			})
			task.Debug.SetDemo(domain.DemoInfo{
				Enabled:          true,
				Strategy:         r.demoConfig.Strategy.String(),
				ForcePassthrough: true,
			})
			return nil
		}
	}

	if !r.providerAvailable {
		return apperrors.BadRequest("unsupported_voice_id",
			fmt.Sprintf("voice %q is not supported and no conversion provider is configured", requested))
	}

	// A real provider takes the external id as-is.
	task.Debug.SetResolution(domain.ResolutionInfo{
		RequestedVoiceID: requested,
		ResolvedVoiceID:  requested,
		Source:           "provider",
	})
	return nil
}

// mapToBuiltIn hashes the external id onto the built-in catalog. FNV keeps
// the mapping stable across calls and across processes.
func (r *VoiceResolver) mapToBuiltIn(voiceID string) string {
	builtins := r.effectEngine.VoiceIDs()
	h := fnv.New32a()
	_, _ = h.Write([]byte(voiceID))
	return builtins[int(h.Sum32())%len(builtins)]
}
