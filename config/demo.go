package config

import (
	"os"

	"github.com/Gmy-678/voice-changer/domain"
)

type DemoConfig struct {
	Enabled  bool
	Strategy domain.DemoStrategy
}

func GetDemoConfig() (*DemoConfig, error) {
	enabled := os.Getenv("VC_DEMO_ENABLED") == "true" || os.Getenv("VC_DEMO_ENABLED") == "1"

	strategy, err := domain.ParseDemoStrategy(os.Getenv("VC_DEMO_STRATEGY"))
	if err != nil {
		return nil, err
	}

	return &DemoConfig{
		Enabled:  enabled,
		Strategy: strategy,
	}, nil
}
