package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type VoiceLibraryConfig struct {
	LocalDir     string
	CacheMaxSize int
}

func GetVoiceLibraryConfig() (*VoiceLibraryConfig, error) {
	localDir := os.Getenv("VOICE_LIBRARY_LOCAL_DIR")
	if localDir == "" {
		localDir = filepath.Join("tmp", "voice_library")
	}
	absDir, err := filepath.Abs(localDir)
	if err != nil {
		return nil, fmt.Errorf("resolve VOICE_LIBRARY_LOCAL_DIR: %w", err)
	}

	cacheMaxSize := 256
	if raw := os.Getenv("VOICE_LIBRARY_CACHE_SIZE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid VOICE_LIBRARY_CACHE_SIZE: %q", raw)
		}
		cacheMaxSize = parsed
	}

	return &VoiceLibraryConfig{
		LocalDir:     absDir,
		CacheMaxSize: cacheMaxSize,
	}, nil
}
