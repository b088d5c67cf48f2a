// Package workflow drives the upload, history and report operations and
// records their outcome in the session store.
//
// Failures are converted into store mutations or operator-log entries at
// the boundary of each operation. Only upload failures and input errors
// reach the user-visible error banner; history and report failures are
// logged and published as events.
package workflow

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/errors"
	"github.com/chemviz/chemviz/internal/event"
	"github.com/chemviz/chemviz/internal/logging"
	"github.com/chemviz/chemviz/internal/report"
	"github.com/chemviz/chemviz/internal/session"
)

// User-visible messages.
const (
	MsgNoFileSelected = "Please select a CSV file first"
	MsgUploadFailed   = "Failed to upload CSV (check authentication)"
	msgCannotOpen     = "Cannot open "
)

// Service is the part of the API client the controller needs.
type Service interface {
	Upload(ctx context.Context, fileName string, content io.Reader) (*analysis.Result, error)
	History(ctx context.Context) ([]analysis.HistoryEntry, error)
}

// Launcher opens a report for a history entry.
type Launcher interface {
	Launch(ctx context.Context, id analysis.EntryID) (*report.Launched, error)
}

// Controller coordinates the client workflow. Its methods block on network
// I/O and are meant to be run off the UI goroutine; they may be called
// concurrently.
type Controller struct {
	store    *session.Store
	service  Service
	reports  Launcher
	bus      *event.Bus
	logger   *logging.Logger
	matches  func(name string) bool
	newReqID func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithBus publishes workflow events on bus.
func WithBus(bus *event.Bus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithLogger sets the operator logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithFilePattern installs the file-name hint. Selecting a file that does
// not match only logs a warning.
func WithFilePattern(matches func(name string) bool) Option {
	return func(c *Controller) { c.matches = matches }
}

// WithRequestIDs replaces the upload request ID generator.
func WithRequestIDs(gen func() string) Option {
	return func(c *Controller) { c.newReqID = gen }
}

// New creates a Controller. reports may be nil when reports are never
// launched.
func New(store *session.Store, service Service, reports Launcher, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		service:  service,
		reports:  reports,
		logger:   logging.NopLogger(),
		matches:  func(string) bool { return true },
		newReqID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Store returns the session store the controller writes to.
func (c *Controller) Store() *session.Store { return c.store }

func (c *Controller) publish(e event.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

// HandleFileChange selects f and clears the error banner.
func (c *Controller) HandleFileChange(f session.SelectedFile) {
	c.store.SelectFile(f)
	c.logger.Debug("file selected", "file", f.Name, "path", f.Path, "size", f.Size)
}

// SelectPath selects the file at path. A path that cannot be used sets the
// banner to "Cannot open <name>" and keeps the previous selection.
func (c *Controller) SelectPath(path string) (session.SelectedFile, error) {
	name := filepath.Base(path)

	abs, err := filepath.Abs(path)
	if err == nil {
		var info os.FileInfo
		info, err = os.Stat(abs)
		if err == nil && !info.Mode().IsRegular() {
			err = errors.NewValidationError("not a regular file").WithField("file").WithValue(path)
		}
		if err == nil {
			f := session.SelectedFile{Name: name, Path: abs, Size: info.Size()}
			if !c.matches(name) {
				c.logger.Warn("selected file does not match the upload pattern", "file", name)
			}
			c.HandleFileChange(f)
			return f, nil
		}
	}

	c.store.SetError(msgCannotOpen + name)
	c.logger.Warn("cannot select file", "path", path, "error", err)
	return session.SelectedFile{}, errors.NewNotFoundError("file", name).WithCause(err)
}

// HandleUpload uploads the selected file. On success the result is stored
// and the history is refreshed before the call returns; the refresh
// outcome never changes the upload's outcome. Any failure sets the fixed
// upload-failure message and leaves result and history untouched.
//
// Only the most recently issued upload may change the store. An upload
// superseded while in flight returns an error wrapping
// errors.ErrStaleResponse and its response is dropped.
func (c *Controller) HandleUpload(ctx context.Context) error {
	snap := c.store.Snapshot()
	if !snap.HasFile() {
		c.store.SetError(MsgNoFileSelected)
		return errors.NewValidationError(MsgNoFileSelected).WithField("file").WithCause(errors.ErrNoFileSelected)
	}
	file := snap.File

	reqID := c.newReqID()
	log := c.logger.WithComponent("upload").WithRequest(reqID)

	c.store.BeginUpload(reqID)
	c.publish(event.NewUploadStartedEvent(reqID, file.Name))
	log.Info("upload started", "file", file.Name, "size", file.Size)

	result, err := c.upload(ctx, file)
	if err != nil {
		stale := !c.store.FailUpload(reqID, MsgUploadFailed)
		c.publish(event.NewUploadFailedEvent(reqID, file.Name, errors.StatusCode(err), err, stale))
		log.Error("upload failed",
			"file", file.Name,
			"status", errors.StatusCode(err),
			"retryable", errors.IsRetryable(err),
			"stale", stale,
			"error", err)
		uerr := errors.NewUploadError("upload failed", err).WithFileName(file.Name).WithRequestID(reqID)
		if stale {
			return errors.Join(uerr, errors.ErrStaleResponse)
		}
		return uerr
	}

	if !c.store.CompleteUpload(reqID, result) {
		log.Info("discarding result of superseded upload", "file", file.Name)
		return errors.NewUploadError("upload superseded", errors.ErrStaleResponse).
			WithFileName(file.Name).WithRequestID(reqID)
	}
	c.publish(event.NewUploadCompletedEvent(reqID, file.Name, len(result.TypeDistribution)))
	log.Info("upload completed", "file", file.Name, "categories", len(result.TypeDistribution))

	// Failures are reported on the history channel only.
	_ = c.FetchHistory(ctx)

	c.store.FinishRefresh(reqID)
	return nil
}

func (c *Controller) upload(ctx context.Context, file session.SelectedFile) (*analysis.Result, error) {
	f, err := file.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open selected file")
	}
	defer f.Close()
	return c.service.Upload(ctx, file.Name, f)
}

// FetchHistory replaces the history with the service's list. Failures are
// logged and published but never shown in the error banner, and the last
// good list stays in place. A response to a fetch that was overtaken by a
// newer one is dropped.
func (c *Controller) FetchHistory(ctx context.Context) error {
	seq := c.store.BeginHistoryFetch()
	log := c.logger.WithComponent("history").With("seq", seq)

	entries, err := c.service.History(ctx)
	if err != nil {
		herr := errors.NewHistoryError("failed to fetch history", err).WithSequence(seq)
		c.publish(event.NewHistoryFailedEvent(seq, herr))
		log.Warn("history fetch failed", "status", errors.StatusCode(err), "error", err)
		return herr
	}

	if !c.store.ReplaceHistory(seq, entries) {
		log.Debug("dropping out-of-date history response")
		return nil
	}
	c.publish(event.NewHistoryRefreshedEvent(seq, len(entries)))
	log.Debug("history refreshed", "entries", len(entries))
	return nil
}

// DownloadPDF launches the report of upload id. The outcome is logged and
// published; it never touches the store.
func (c *Controller) DownloadPDF(ctx context.Context, id analysis.EntryID) error {
	log := c.logger.WithComponent("report").With("report_id", id.String())

	if c.reports == nil {
		err := errors.NewReportError("reports are not configured", nil).WithReportID(id.String())
		c.publish(event.NewReportFailedEvent(id.String(), "", err))
		log.Warn("report launch failed", "error", err)
		return err
	}

	launched, err := c.reports.Launch(ctx, id)
	if err != nil {
		var rerr *errors.ReportError
		url := ""
		if errors.As(err, &rerr) {
			url = rerr.URL
		}
		c.publish(event.NewReportFailedEvent(id.String(), url, err))
		log.Warn("report launch failed", "url", url, "error", err)
		return err
	}

	c.publish(event.NewReportLaunchedEvent(id.String(), launched.URL, launched.Path))
	log.Info("report launched", "url", launched.URL, "path", launched.Path)
	return nil
}

// LatestEntryID returns the ID of the first history entry, which the
// service lists newest first.
func (c *Controller) LatestEntryID() (analysis.EntryID, error) {
	history := c.store.Snapshot().History
	if len(history) == 0 {
		return analysis.EntryID{}, errors.NewNotFoundError("report", "latest")
	}
	return history[0].ID, nil
}

// LatestReport launches the report of the newest upload.
func (c *Controller) LatestReport(ctx context.Context) error {
	id, err := c.LatestEntryID()
	if err != nil {
		c.logger.WithComponent("report").Info("no uploads to report on")
		return err
	}
	return c.DownloadPDF(ctx, id)
}
