package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Gmy-678/voice-changer/domain"
)

// PipelineConfig owns the task workspace layout and pipeline-wide policy:
// where run directories live, where public outputs are published, the
// synthesized-tone fallback duration, the cleanup mode, and how long finished
// run directories are retained before the sweeper removes them.
type PipelineConfig struct {
	RunsDir             string
	OutputsDir          string
	FallbackToneSeconds float64
	CleanupMode         domain.CleanupMode
	RunTTL              time.Duration
}

func GetPipelineConfig() (*PipelineConfig, error) {
	runsDir := os.Getenv("VC_RUN_DIR")
	if runsDir == "" {
		runsDir = "runs"
	}
	absRuns, err := filepath.Abs(runsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve VC_RUN_DIR: %w", err)
	}
	outputsDir := filepath.Join(absRuns, "outputs")
	if err := os.MkdirAll(outputsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create outputs dir: %w", err)
	}

	toneSeconds := 1.0
	if raw := os.Getenv("VC_FALLBACK_DURATION"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid VC_FALLBACK_DURATION: %q", raw)
		}
		toneSeconds = parsed
	}

	cleanupMode, err := domain.ParseCleanupMode(os.Getenv("VC_CLEANUP_MODE"))
	if err != nil {
		return nil, err
	}

	var runTTL time.Duration
	if raw := os.Getenv("VC_RUN_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return nil, fmt.Errorf("invalid VC_RUN_TTL_MINUTES: %q", raw)
		}
		runTTL = time.Duration(minutes) * time.Minute
	}

	return &PipelineConfig{
		RunsDir:             absRuns,
		OutputsDir:          outputsDir,
		FallbackToneSeconds: toneSeconds,
		CleanupMode:         cleanupMode,
		RunTTL:              runTTL,
	}, nil
}
