package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Gmy-678/voice-changer/apperrors"
	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/channel_utils"
)

const previewRefSeconds = 2.2

var unsafePreviewChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// PreviewService lazily renders mp3 previews for library voices from a
// deterministic reference tone. Built-in voices are public; user voices
// resolve through their base effect and require identity.
type PreviewService struct {
	effectEngine outbound.EffectEnginePort
	userVoices   outbound.UserVoiceStorePort
	toneSynth    outbound.ToneSynthesizerPort
	previewDir   string
	refPath      string
	logger       outbound.LoggerPort
}

func NewPreviewService(
	effectEngine outbound.EffectEnginePort,
	userVoices outbound.UserVoiceStorePort,
	toneSynth outbound.ToneSynthesizerPort,
	outputsDir string,
	workDir string,
	logger outbound.LoggerPort) *PreviewService {
	return &PreviewService{
		effectEngine: effectEngine,
		userVoices:   userVoices,
		toneSynth:    toneSynth,
		previewDir:   filepath.Join(outputsDir, "voice_previews"),
		refPath:      filepath.Join(workDir, "preview_ref.wav"),
		logger:       logger,
	}
}

func (s *PreviewService) EnsurePreviewMP3(ctx context.Context, voiceID string, userID string) (string, error) {
	effectID, sourceID, err := s.resolvePreviewVoice(ctx, voiceID, userID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.previewDir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(s.previewDir, safePreviewName(sourceID)+".mp3")
	if info, statErr := os.Stat(outPath); statErr == nil && info.Size() > 0 {
		return outPath, nil
	}

	if err := s.ensureRefWav(); err != nil {
		return "", err
	}

	result, err := s.effectEngine.Apply(ctx, effectID, s.refPath, "mp3")
	if err != nil {
		return "", err
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, result.Audio, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// Warmup pre-renders every built-in preview on the worker pool so first
// listings do not pay the render cost. Errors are logged, never fatal.
func (s *PreviewService) Warmup(dispatcher outbound.TaskDispatcher) {
	voiceIDs := s.effectEngine.VoiceIDs()
	errChans := make([]<-chan error, 0, len(voiceIDs))

	for _, voiceID := range voiceIDs {
		id := voiceID
		errCh := make(chan error, 1)
		errChans = append(errChans, errCh)
		if err := dispatcher.Submit(func() {
			defer close(errCh)
			if _, err := s.EnsurePreviewMP3(context.Background(), id, ""); err != nil {
				errCh <- fmt.Errorf("preview %s: %w", id, err)
			}
		}); err != nil {
			errCh <- err
			close(errCh)
		}
	}

	merged, err := channel_utils.MergeChannels(dispatcher, errChans...)
	if err != nil {
		s.logger.Error(err, "failed to merge preview warmup channels")
		return
	}
	if err := dispatcher.Submit(func() {
		for warmupErr := range merged {
			s.logger.Error(warmupErr, "preview warmup failed")
		}
	}); err != nil {
		s.logger.Error(err, "failed to drain preview warmup errors")
	}
}

func (s *PreviewService) resolvePreviewVoice(ctx context.Context, voiceID string, userID string) (effectID string, sourceID string, err error) {
	id := strings.TrimSpace(voiceID)
	if id == "" {
		return "", "", apperrors.BadRequest("missing_voice_id", "voice_id is required")
	}

	if s.effectEngine.Supports(id) {
		return id, id, nil
	}

	if strings.HasPrefix(id, userVoicePrefix) {
		if userID == "" {
			return "", "", apperrors.Unauthorized("user voice preview requires identity")
		}
		found, lookupErr := s.userVoices.GetByIDs(ctx, userID, []string{id})
		if lookupErr != nil {
			return "", "", lookupErr
		}
		if len(found) == 0 {
			return "", "", apperrors.NotFound("voice_not_found", "user voice not found")
		}
		base := found[0].BaseVoiceID()
		if base == "" {
			return "", "", apperrors.BadRequest("invalid_user_voice", "user voice has no base_voice_id")
		}
		if !s.effectEngine.Supports(base) {
			return "", "", apperrors.BadRequest("invalid_user_voice",
				fmt.Sprintf("user voice base %q is not a supported effect", base))
		}
		return base, id, nil
	}

	return "", "", apperrors.NotFound("voice_not_found", fmt.Sprintf("unsupported voice %q", id))
}

func (s *PreviewService) ensureRefWav() error {
	if info, err := os.Stat(s.refPath); err == nil && info.Size() > 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.refPath), 0o755); err != nil {
		return err
	}
	return s.toneSynth.SynthesizeTone(s.refPath, previewRefSeconds)
}

func safePreviewName(voiceID string) string {
	name := strings.TrimSpace(voiceID)
	if name == "" {
		name = "voice"
	}
	return unsafePreviewChars.ReplaceAllString(name, "_")
}
