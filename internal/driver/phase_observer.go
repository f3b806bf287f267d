package driver

// ProgressStage reports what happened to a document.
type ProgressStage int

const (
	// ProgressStarted indicates that a document has been picked up by a worker.
	ProgressStarted ProgressStage = iota
	ProgressChecked
	ProgressCached
	ProgressFailed
)

func (s ProgressStage) String() string {
	switch s {
	case ProgressStarted:
		return "started"
	case ProgressChecked:
		return "checked"
	case ProgressCached:
		return "cached"
	case ProgressFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressEvent describes a document boundary.
type ProgressEvent struct {
	Path  string
	Stage ProgressStage
	// Done counts finished documents, Total all documents of the run.
	Done  int
	Total int
	// Literals and Invalid are set on the final event of a document.
	Literals int
	Invalid  int
}

// ProgressObserver receives events from worker goroutines; implementations
// must be safe for concurrent use.
type ProgressObserver func(ProgressEvent)
