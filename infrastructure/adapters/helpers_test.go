package adapters

import (
	"context"
	"os"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

type nopLogger struct{}

func (nopLogger) Info(msg string)                                                 {}
func (nopLogger) InfoWithFields(msg string, fields map[string]interface{})        {}
func (nopLogger) Error(err error, msg string)                                     {}
func (nopLogger) ErrorWithFields(err error, msg string, f map[string]interface{}) {}
func (nopLogger) Debug(msg string)                                                {}
func (nopLogger) DebugWithFields(msg string, fields map[string]interface{})       {}
func (nopLogger) Warn(msg string)                                                 {}
func (nopLogger) WarnWithFields(msg string, fields map[string]interface{})        {}

func testLogger() outbound.LoggerPort { return nopLogger{} }

// copyTranscoder copies input bytes to output, recording the last request.
type copyTranscoder struct {
	available bool
	err       error
	last      *outbound.TranscodeRequest
}

func (f *copyTranscoder) Available() bool { return f.available }

func (f *copyTranscoder) Standardize(ctx context.Context, inputPath string, outputPath string) error {
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func (f *copyTranscoder) Transcode(ctx context.Context, req outbound.TranscodeRequest) error {
	f.last = &req
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(req.OutputPath, data, 0o644)
}
