package domain

import "fmt"

// CleanupMode decides what happens to a task's workspace when the caller
// explicitly asks for cleanup. It is never applied automatically, so a crashed
// task leaves its directory behind for forensics.
type CleanupMode int

const (
	// CleanupNone keeps everything (good for local debugging).
	CleanupNone CleanupMode = iota
	// CleanupIntermediates deletes generated files except registered outputs.
	CleanupIntermediates
	// CleanupAll deletes the entire task directory (useful after uploading
	// the outputs to object storage).
	CleanupAll
)

func (m CleanupMode) String() string {
	switch m {
	case CleanupNone:
		return "none"
	case CleanupIntermediates:
		return "intermediates"
	case CleanupAll:
		return "all"
	}
	return fmt.Sprintf("CleanupMode(%d)", int(m))
}

// ParseCleanupMode maps a configured name to a CleanupMode. Unknown names are
// a configuration error, not a silent default.
func ParseCleanupMode(name string) (CleanupMode, error) {
	switch name {
	case "", "none":
		return CleanupNone, nil
	case "intermediates":
		return CleanupIntermediates, nil
	case "all":
		return CleanupAll, nil
	}
	return CleanupNone, fmt.Errorf("unknown cleanup mode: %q", name)
}
