package msg

import (
	"github.com/chemviz/chemviz/internal/event"
	"github.com/chemviz/chemviz/internal/session"
)

// StateMsg carries a store snapshot published after a mutation.
type StateMsg struct {
	Snapshot session.Snapshot
}

// EventMsg relays a workflow event from the bus.
type EventMsg struct {
	Event event.Event
}

// Op names a workflow operation.
type Op string

const (
	OpSelect  Op = "select"
	OpUpload  Op = "upload"
	OpHistory Op = "history"
	OpReport  Op = "report"
)

// OpDoneMsg reports that a workflow operation returned.
type OpDoneMsg struct {
	Op  Op
	Err error
}

// ChartExportedMsg reports the outcome of a PNG export.
type ChartExportedMsg struct {
	Path string
	Err  error
}
