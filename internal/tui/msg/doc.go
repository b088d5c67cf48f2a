// Package msg defines the messages exchanged inside the TUI and the
// command factories that run workflow operations off the UI goroutine.
//
// Workflow results reach the model twice: the operation's own completion
// message, and the store's state.changed snapshot relayed by the App. The
// model renders from snapshots only; completion messages carry errors and
// notices.
package msg
