// Package tui is the terminal dashboard: a bubbletea program that renders
// session snapshots and drives the workflow controller from key presses.
package tui

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz/internal/event"
	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	store   *session.Store
	bus     *event.Bus
}

// New creates a new TUI application
func New(ctx context.Context, w msg.Workflow, store *session.Store, bus *event.Bus, opts Options) *App {
	return &App{
		model: NewModel(ctx, w, store, opts),
		store: store,
		bus:   bus,
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	r := newRelay(a.program.Send)
	defer r.stop()

	subs := []string{
		a.store.Subscribe(func(s session.Snapshot) { r.push(msg.StateMsg{Snapshot: s}) }),
	}
	if a.bus != nil {
		for _, t := range []string{event.TypeUploadStarted, event.TypeReportLaunched} {
			subs = append(subs, a.bus.Subscribe(t, func(e event.Event) { r.push(msg.EventMsg{Event: e}) }))
		}
		defer func() {
			for _, id := range subs {
				a.bus.Unsubscribe(id)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)
	return err
}

// relay forwards messages into the program from any goroutine without
// blocking the publisher. Store handlers run synchronously, sometimes on
// the UI goroutine itself, where a direct program.Send would deadlock.
// Consecutive state messages are coalesced to the newest.
type relay struct {
	send   func(tea.Msg)
	mu     sync.Mutex
	queue  []tea.Msg
	wake   chan struct{}
	done   chan struct{}
	closed sync.Once
}

func newRelay(send func(tea.Msg)) *relay {
	r := &relay{
		send: send,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *relay) push(m tea.Msg) {
	r.mu.Lock()
	if _, isState := m.(msg.StateMsg); isState && len(r.queue) > 0 {
		if _, lastState := r.queue[len(r.queue)-1].(msg.StateMsg); lastState {
			r.queue[len(r.queue)-1] = m
			r.mu.Unlock()
			r.notify()
			return
		}
	}
	r.queue = append(r.queue, m)
	r.mu.Unlock()
	r.notify()
}

func (r *relay) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *relay) loop() {
	for {
		select {
		case <-r.done:
			return
		case <-r.wake:
		}
		for {
			r.mu.Lock()
			if len(r.queue) == 0 {
				r.mu.Unlock()
				break
			}
			next := r.queue[0]
			r.queue = r.queue[1:]
			r.mu.Unlock()
			r.send(next)
		}
	}
}

func (r *relay) stop() {
	r.closed.Do(func() { close(r.done) })
}
