package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TaskContext owns the working state of one voice changer task: its workspace
// directory, the stable request parameters, the extensible options and debug
// bags, and the bookkeeping needed for cleanup. One inbound request creates
// exactly one TaskContext; it is single-owner and never shared between
// requests, so it needs no locking.
type TaskContext struct {
	TaskID  string
	TaskDir string

	VoiceID      string
	Stability    int
	Similarity   int
	OutputFormat string
	PresetID     string
	WebhookURL   string

	Options Options
	Debug   Debug

	CleanupMode CleanupMode

	generated map[string]struct{}
	outputs   map[string]struct{}
}

// NewTaskContext normalizes the task directory to an absolute path and makes
// sure it exists before any step runs.
func NewTaskContext(taskID string, taskDir string) (*TaskContext, error) {
	absDir, err := filepath.Abs(taskDir)
	if err != nil {
		return nil, fmt.Errorf("resolve task dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create task dir: %w", err)
	}
	return &TaskContext{
		TaskID:       taskID,
		TaskDir:      absDir,
		Stability:    7,
		Similarity:   8,
		OutputFormat: "mp3",
		Options:      Options{},
		generated:    map[string]struct{}{},
		outputs:      map[string]struct{}{},
	}, nil
}

// EnsureDirs recreates the task directory if something removed it mid-task.
func (c *TaskContext) EnsureDirs() error {
	return os.MkdirAll(c.TaskDir, 0o755)
}

// Path resolves filename inside the task directory. A name that escapes the
// directory is rejected outright, never clamped.
func (c *TaskContext) Path(filename string) (string, error) {
	candidate, err := filepath.Abs(filepath.Join(c.TaskDir, filename))
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if !strings.HasPrefix(candidate, c.TaskDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("filename escapes task dir: %s", filename)
	}
	return candidate, nil
}

// Register records a file generated during the task. Paths outside the task
// directory are ignored; they are not ours to clean up.
func (c *TaskContext) Register(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	if strings.HasPrefix(abs, c.TaskDir+string(os.PathSeparator)) {
		c.generated[abs] = struct{}{}
	}
}

// RegisterOutput marks a file as a final deliverable. Outputs survive
// CleanupIntermediates and are implicitly generated files.
func (c *TaskContext) RegisterOutput(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	if strings.HasPrefix(abs, c.TaskDir+string(os.PathSeparator)) {
		c.outputs[abs] = struct{}{}
		c.generated[abs] = struct{}{}
	}
}

func (c *TaskContext) GeneratedFiles() []string {
	out := make([]string, 0, len(c.generated))
	for p := range c.generated {
		out = append(out, p)
	}
	return out
}

func (c *TaskContext) OutputFiles() []string {
	out := make([]string, 0, len(c.outputs))
	for p := range c.outputs {
		out = append(out, p)
	}
	return out
}

// Cleanup applies the task's cleanup mode. Cleanup failures never fail the
// task itself.
func (c *TaskContext) Cleanup() {
	switch c.CleanupMode {
	case CleanupNone:
		return
	case CleanupAll:
		_ = os.RemoveAll(c.TaskDir)
	case CleanupIntermediates:
		for p := range c.generated {
			if _, isOutput := c.outputs[p]; isOutput {
				continue
			}
			if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
				_ = os.Remove(p)
			}
		}
	}
}

// PublicSummary is the externally safe view of the task parameters. Internal
// file paths stay out of it.
func (c *TaskContext) PublicSummary() map[string]interface{} {
	return map[string]interface{}{
		"task_id":       c.TaskID,
		"voice_id":      c.VoiceID,
		"stability":     c.Stability,
		"similarity":    c.Similarity,
		"output_format": c.OutputFormat,
		"preset_id":     c.PresetID,
		"webhook_url":   c.WebhookURL,
		"options":       c.Options,
	}
}
