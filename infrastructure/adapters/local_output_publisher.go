package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

type localOutputPublisher struct {
	outputsDir string
	logger     outbound.LoggerPort
}

// NewLocalOutputPublisher serves outputs from the local outputs directory,
// which the HTTP server exposes under /outputs.
func NewLocalOutputPublisher(outputsDir string, logger outbound.LoggerPort) outbound.OutputPublisherPort {
	return &localOutputPublisher{outputsDir: outputsDir, logger: logger}
}

func (p *localOutputPublisher) Publish(ctx context.Context, req outbound.PublishOutputRequest) (*outbound.PublishOutputResult, error) {
	if err := os.MkdirAll(p.outputsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create outputs dir: %w", err)
	}
	destPath := filepath.Join(p.outputsDir, req.PublicName)

	src, err := os.Open(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open output source: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			p.logger.Error(err, "error closing output source file")
		}
	}()

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create published output: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, fmt.Errorf("copy published output: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close published output: %w", err)
	}

	return &outbound.PublishOutputResult{
		PublicName: req.PublicName,
		PublicURL:  "/outputs/" + req.PublicName,
	}, nil
}
