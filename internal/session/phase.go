package session

// Phase is the position of the upload workflow.
//
//	Idle -> Uploading -> Refreshing -> Ready
//	           \-> Failed
//
// Ready and Failed stay put until the next upload begins.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseRefreshing
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUploading:
		return "uploading"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Busy reports whether a request of the upload workflow is in flight.
func (p Phase) Busy() bool {
	return p == PhaseUploading || p == PhaseRefreshing
}
