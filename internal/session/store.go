// Package session holds the client's in-memory state for one program run:
// the selected file, the latest analysis result, the upload history and the
// UI flags derived from them.
//
// The Store performs no I/O. Every observable change is published
// synchronously as a StateChangedEvent so that renderers can redraw from
// the carried Snapshot.
package session

import (
	"os"
	"sync"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/chart"
	"github.com/chemviz/chemviz/internal/event"
)

// SelectedFile is a local file chosen for upload.
type SelectedFile struct {
	Name string // base name sent to the service
	Path string
	Size int64
}

// Open returns the file content.
func (f SelectedFile) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// IsZero reports whether no file is described.
func (f SelectedFile) IsZero() bool { return f.Path == "" }

// Snapshot is a copy of the store state. Results and history entries are
// shared and must be treated as read-only.
type Snapshot struct {
	File        SelectedFile
	Result      *analysis.Result
	Chart       *chart.Series // nil when Result has no distribution
	History     []analysis.HistoryEntry
	ShowHistory bool
	Error       string
	Phase       Phase
	RequestID   string // most recently issued upload
	Version     uint64 // incremented on every published change
}

// HasFile reports whether a file is selected.
func (s Snapshot) HasFile() bool { return !s.File.IsZero() }

// StateChangedEvent carries the store state after a mutation.
type StateChangedEvent struct {
	event.Base
	Snapshot Snapshot
}

// Store is the single owner of session state. It is safe for concurrent
// use. Event handlers may read the store but must not mutate it.
type Store struct {
	// pubMu orders publications so that subscribers observe versions in
	// increasing order even when mutations race.
	pubMu sync.Mutex
	mu    sync.RWMutex
	state Snapshot

	historyIssued  uint64
	historyApplied uint64

	bus *event.Bus
}

// NewStore creates an empty store publishing on bus. A nil bus disables
// notifications.
func NewStore(bus *event.Bus) *Store {
	return &Store{
		bus:   bus,
		state: Snapshot{History: []analysis.HistoryEntry{}, Phase: PhaseIdle},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Snapshot {
	snap := s.state
	snap.History = append([]analysis.HistoryEntry(nil), s.state.History...)
	if snap.History == nil {
		snap.History = []analysis.HistoryEntry{}
	}
	return snap
}

// Subscribe calls fn with the new snapshot after every change. It returns
// the bus subscription ID, or "" without a bus.
func (s *Store) Subscribe(fn func(Snapshot)) string {
	if s.bus == nil {
		return ""
	}
	return s.bus.Subscribe(event.TypeStateChanged, func(e event.Event) {
		if sc, ok := e.(StateChangedEvent); ok {
			fn(sc.Snapshot)
		}
	})
}

// update applies mutate under the lock and publishes the result when
// mutate reports a change. It returns what mutate returned.
func (s *Store) update(mutate func(st *Snapshot) bool) bool {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	changed := mutate(&s.state)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.state.Version++
	snap := s.copyLocked()
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(StateChangedEvent{Base: event.NewBase(event.TypeStateChanged), Snapshot: snap})
	}
	return true
}

// SelectFile replaces the selected file and clears the error banner.
func (s *Store) SelectFile(f SelectedFile) {
	s.update(func(st *Snapshot) bool {
		st.File = f
		st.Error = ""
		return true
	})
}

// SetError shows msg in the error banner.
func (s *Store) SetError(msg string) {
	s.update(func(st *Snapshot) bool {
		if st.Error == msg {
			return false
		}
		st.Error = msg
		return true
	})
}

// ClearError hides the error banner.
func (s *Store) ClearError() {
	s.SetError("")
}

// BeginUpload marks requestID as the current upload. Any upload issued
// earlier becomes stale.
func (s *Store) BeginUpload(requestID string) {
	s.update(func(st *Snapshot) bool {
		st.RequestID = requestID
		st.Phase = PhaseUploading
		st.Error = ""
		return true
	})
}

// CompleteUpload stores result for requestID and moves to Refreshing. It
// returns false, leaving the state untouched, when requestID is stale.
func (s *Store) CompleteUpload(requestID string, result *analysis.Result) bool {
	return s.update(func(st *Snapshot) bool {
		if st.RequestID != requestID || st.Phase != PhaseUploading {
			return false
		}
		st.Result = result
		st.Chart, _ = chart.Project(result)
		st.Phase = PhaseRefreshing
		st.Error = ""
		return true
	})
}

// FailUpload shows msg and moves to Failed. Result and history are kept.
// It returns false when requestID is stale.
func (s *Store) FailUpload(requestID, msg string) bool {
	return s.update(func(st *Snapshot) bool {
		if st.RequestID != requestID || st.Phase != PhaseUploading {
			return false
		}
		st.Error = msg
		st.Phase = PhaseFailed
		return true
	})
}

// FinishRefresh ends the post-upload history refresh of requestID,
// whatever its outcome, and moves to Ready.
func (s *Store) FinishRefresh(requestID string) bool {
	return s.update(func(st *Snapshot) bool {
		if st.RequestID != requestID || st.Phase != PhaseRefreshing {
			return false
		}
		st.Phase = PhaseReady
		return true
	})
}

// BeginHistoryFetch allocates the sequence number of a new history fetch.
func (s *Store) BeginHistoryFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyIssued++
	return s.historyIssued
}

// ReplaceHistory swaps in entries fetched by fetch seq. Responses to
// fetches issued before the last applied one are dropped and false is
// returned.
func (s *Store) ReplaceHistory(seq uint64, entries []analysis.HistoryEntry) bool {
	return s.update(func(st *Snapshot) bool {
		if seq < s.historyApplied {
			return false
		}
		s.historyApplied = seq
		st.History = append(make([]analysis.HistoryEntry, 0, len(entries)), entries...)
		return true
	})
}

// ToggleHistory flips the history panel and returns the new value.
func (s *Store) ToggleHistory() bool {
	var shown bool
	s.update(func(st *Snapshot) bool {
		st.ShowHistory = !st.ShowHistory
		shown = st.ShowHistory
		return true
	})
	return shown
}

// SetShowHistory sets the history panel visibility.
func (s *Store) SetShowHistory(show bool) {
	s.update(func(st *Snapshot) bool {
		if st.ShowHistory == show {
			return false
		}
		st.ShowHistory = show
		return true
	})
}
