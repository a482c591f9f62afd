package services

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

// RunSweeper periodically deletes run directories older than the configured
// TTL. The shared outputs directory is never touched: published artifacts
// outlive their task workspace.
type RunSweeper struct {
	runsDir    string
	outputsDir string
	ttl        time.Duration
	interval   time.Duration
	logger     outbound.LoggerPort
	stop       chan struct{}
}

func NewRunSweeper(runsDir string, outputsDir string, ttl time.Duration, logger outbound.LoggerPort) *RunSweeper {
	return &RunSweeper{
		runsDir:    runsDir,
		outputsDir: outputsDir,
		ttl:        ttl,
		interval:   10 * time.Minute,
		logger:     logger,
		stop:       make(chan struct{}),
	}
}

// Start schedules the sweep loop on the worker pool. A zero TTL disables
// sweeping entirely.
func (s *RunSweeper) Start(dispatcher outbound.TaskDispatcher) error {
	if s.ttl <= 0 {
		return nil
	}
	return dispatcher.Submit(func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.SweepOnce()
		for {
			select {
			case <-ticker.C:
				s.SweepOnce()
			case <-s.stop:
				return
			}
		}
	})
}

func (s *RunSweeper) Stop() {
	close(s.stop)
}

// SweepOnce removes expired run directories and returns how many were
// deleted.
func (s *RunSweeper) SweepOnce() int {
	entries, err := os.ReadDir(s.runsDir)
	if err != nil {
		s.logger.Error(err, "failed to read runs dir for sweeping")
		return 0
	}

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.runsDir, entry.Name())
		if dir == s.outputsDir {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			s.logger.ErrorWithFields(err, "failed to remove expired run dir", map[string]interface{}{
				"dir": dir,
			})
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.InfoWithFields("swept expired run dirs", map[string]interface{}{
			"removed": removed,
		})
	}
	return removed
}
