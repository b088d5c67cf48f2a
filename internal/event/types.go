package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "upload.started").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeStateChanged     = "state.changed"
	TypeUploadStarted    = "upload.started"
	TypeUploadCompleted  = "upload.completed"
	TypeUploadFailed     = "upload.failed"
	TypeHistoryRefreshed = "history.refreshed"
	TypeHistoryFailed    = "history.failed"
	TypeReportLaunched   = "report.launched"
	TypeReportFailed     = "report.failed"
)

// Base provides the common fields for all events. Embed it in concrete
// event types, including ones declared in other packages such as the
// session store's state.changed event.
type Base struct {
	eventType string
	timestamp time.Time
}

func (e Base) EventType() string    { return e.eventType }
func (e Base) Timestamp() time.Time { return e.timestamp }

// NewBase creates a Base stamped with the current time.
func NewBase(eventType string) Base {
	return Base{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Upload Events
// -----------------------------------------------------------------------------

// UploadStartedEvent is emitted when an upload request is issued.
type UploadStartedEvent struct {
	Base
	RequestID string
	FileName  string
}

// NewUploadStartedEvent creates an UploadStartedEvent.
func NewUploadStartedEvent(requestID, fileName string) UploadStartedEvent {
	return UploadStartedEvent{
		Base:      NewBase(TypeUploadStarted),
		RequestID: requestID,
		FileName:  fileName,
	}
}

// UploadCompletedEvent is emitted when the service accepted an upload and
// returned an analysis result.
type UploadCompletedEvent struct {
	Base
	RequestID  string
	FileName   string
	Categories int // number of equipment types in the distribution
}

// NewUploadCompletedEvent creates an UploadCompletedEvent.
func NewUploadCompletedEvent(requestID, fileName string, categories int) UploadCompletedEvent {
	return UploadCompletedEvent{
		Base:       NewBase(TypeUploadCompleted),
		RequestID:  requestID,
		FileName:   fileName,
		Categories: categories,
	}
}

// UploadFailedEvent is emitted when an upload failed. Stale is set when the
// request had already been superseded by a newer upload, in which case the
// failure did not reach the store.
type UploadFailedEvent struct {
	Base
	RequestID  string
	FileName   string
	StatusCode int // 0 when no response was received
	Err        error
	Stale      bool
}

// NewUploadFailedEvent creates an UploadFailedEvent.
func NewUploadFailedEvent(requestID, fileName string, status int, err error, stale bool) UploadFailedEvent {
	return UploadFailedEvent{
		Base:       NewBase(TypeUploadFailed),
		RequestID:  requestID,
		FileName:   fileName,
		StatusCode: status,
		Err:        err,
		Stale:      stale,
	}
}

// -----------------------------------------------------------------------------
// History Events
// -----------------------------------------------------------------------------

// HistoryRefreshedEvent is emitted after a history fetch replaced the list.
type HistoryRefreshedEvent struct {
	Base
	Sequence uint64
	Entries  int
}

// NewHistoryRefreshedEvent creates a HistoryRefreshedEvent.
func NewHistoryRefreshedEvent(seq uint64, entries int) HistoryRefreshedEvent {
	return HistoryRefreshedEvent{
		Base:     NewBase(TypeHistoryRefreshed),
		Sequence: seq,
		Entries:  entries,
	}
}

// HistoryFailedEvent is emitted when a history fetch failed. These failures
// are never shown as a user-facing error.
type HistoryFailedEvent struct {
	Base
	Sequence uint64
	Err      error
}

// NewHistoryFailedEvent creates a HistoryFailedEvent.
func NewHistoryFailedEvent(seq uint64, err error) HistoryFailedEvent {
	return HistoryFailedEvent{
		Base:     NewBase(TypeHistoryFailed),
		Sequence: seq,
		Err:      err,
	}
}

// -----------------------------------------------------------------------------
// Report Events
// -----------------------------------------------------------------------------

// ReportLaunchedEvent is emitted when a report was handed to the OS viewer.
// Path is empty in browser mode.
type ReportLaunchedEvent struct {
	Base
	ReportID string
	URL      string
	Path     string
}

// NewReportLaunchedEvent creates a ReportLaunchedEvent.
func NewReportLaunchedEvent(reportID, url, path string) ReportLaunchedEvent {
	return ReportLaunchedEvent{
		Base:     NewBase(TypeReportLaunched),
		ReportID: reportID,
		URL:      url,
		Path:     path,
	}
}

// ReportFailedEvent is emitted when a report could not be fetched or opened.
type ReportFailedEvent struct {
	Base
	ReportID string
	URL      string
	Err      error
}

// NewReportFailedEvent creates a ReportFailedEvent.
func NewReportFailedEvent(reportID, url string, err error) ReportFailedEvent {
	return ReportFailedEvent{
		Base:     NewBase(TypeReportFailed),
		ReportID: reportID,
		URL:      url,
		Err:      err,
	}
}
