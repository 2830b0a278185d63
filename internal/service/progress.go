package service

// ProgressEvent is one step of assistant provisioning, reported in
// order so clients can render incremental setup UI. Message is the
// human-readable line for the current step.
type ProgressEvent struct {
	Step    string
	Message string
	Current int
	Total   int
}

// ProgressFunc receives provisioning progress. Implementations must be
// fast; emits happen while the per-user provisioning lock is held.
type ProgressFunc func(ProgressEvent)

// emit is nil-safe so callers that don't care about progress can pass nil.
func (f ProgressFunc) emit(ev ProgressEvent) {
	if f != nil {
		f(ev)
	}
}
