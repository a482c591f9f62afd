package outbound

// TaskDispatcher abstracts the worker pool used for background work (preview
// warmup, run-dir sweeping). Submit returns an error when the pool rejects
// the task.
type TaskDispatcher interface {
	Submit(task func()) error
}
