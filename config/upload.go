package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

const defaultMaxUploadBytes = 10 * 1024 * 1024

var defaultAllowedContentTypes = []string{
	"audio/wav",
	"audio/x-wav",
	"audio/mpeg",
	"audio/mp3",
	"application/octet-stream",
	"video/mp4",
}

type UploadConfig struct {
	AllowedContentTypes map[string]struct{}
	MaxBytes            int64
	MinDurationSeconds  float64
	MaxDurationSeconds  float64
}

func GetUploadConfig() (*UploadConfig, error) {
	allowed := map[string]struct{}{}
	if raw := os.Getenv("ALLOWED_CONTENT_TYPES"); raw != "" {
		for _, ct := range strings.Split(raw, ",") {
			if ct = strings.ToLower(strings.TrimSpace(ct)); ct != "" {
				allowed[ct] = struct{}{}
			}
		}
	}
	if len(allowed) == 0 {
		for _, ct := range defaultAllowedContentTypes {
			allowed[ct] = struct{}{}
		}
	}

	maxBytes := int64(defaultMaxUploadBytes)
	if raw := os.Getenv("UPLOAD_MAX_BYTES"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %q", raw)
		}
		maxBytes = parsed
	}

	minDur, err := floatEnv("MIN_DURATION_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	maxDur, err := floatEnv("MAX_DURATION_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	if minDur >= maxDur {
		return nil, fmt.Errorf("MIN_DURATION_SECONDS (%v) must be below MAX_DURATION_SECONDS (%v)", minDur, maxDur)
	}

	return &UploadConfig{
		AllowedContentTypes: allowed,
		MaxBytes:            maxBytes,
		MinDurationSeconds:  minDur,
		MaxDurationSeconds:  maxDur,
	}, nil
}

// AllowedList returns the whitelist in stable order for error payloads.
func (c *UploadConfig) AllowedList() []string {
	out := make([]string, 0, len(c.AllowedContentTypes))
	for ct := range c.AllowedContentTypes {
		out = append(out, ct)
	}
	sort.Strings(out)
	return out
}

func floatEnv(name string, fallback float64) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return parsed, nil
}
