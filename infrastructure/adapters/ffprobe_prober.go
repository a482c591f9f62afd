package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

const probeTimeout = 10 * time.Second

type ffprobeProber struct {
	logger outbound.LoggerPort

	availOnce sync.Once
	available bool
}

func NewFFProbeProber(logger outbound.LoggerPort) outbound.DurationProberPort {
	return &ffprobeProber{logger: logger}
}

func (p *ffprobeProber) Available() bool {
	p.availOnce.Do(func() {
		p.available = exec.Command("ffprobe", "-version").Run() == nil
	})
	return p.available
}

func (p *ffprobeProber) ProbeDuration(ctx context.Context, path string) (*float64, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		p.logger.ErrorWithFields(err, "ffprobe invocation failed", map[string]interface{}{
			"path": path,
		})
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	raw := strings.TrimSpace(payload.Format.Duration)
	if raw == "" || raw == "N/A" {
		return nil, nil
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("parse ffprobe duration %q: %w", raw, err)
	}
	return &duration, nil
}
