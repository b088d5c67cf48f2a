// Package event provides a pub-sub event bus for decoupled communication
// between the chemviz session store, the workflow controllers and the
// terminal UI.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Store:
//   - state.changed: published by the session store after every observable
//     mutation; the event type itself lives in package session because it
//     carries a store snapshot
//
// Upload:
//   - [UploadStartedEvent], [UploadCompletedEvent], [UploadFailedEvent]
//
// History:
//   - [HistoryRefreshedEvent], [HistoryFailedEvent]
//
// Report:
//   - [ReportLaunchedEvent], [ReportFailedEvent]
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and protected against panics.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	bus.Subscribe(event.TypeHistoryFailed, func(e event.Event) {
//	    failed := e.(event.HistoryFailedEvent)
//	    logger.Warn("history refresh failed", "error", failed.Err)
//	})
//
//	bus.Publish(event.NewHistoryFailedEvent(seq, err))
package event
