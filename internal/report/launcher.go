// Package report launches the PDF report of a past upload.
//
// In download mode the report is fetched with the client credential, saved
// under the download directory and opened from disk. In browser mode the
// report URL is handed to the system browser, which must authenticate on
// its own.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/api"
	"github.com/chemviz/chemviz/internal/config"
	"github.com/chemviz/chemviz/internal/errors"
	"github.com/chemviz/chemviz/internal/logging"
)

// Fetcher is the part of the API client the launcher needs.
type Fetcher interface {
	ReportURL(id analysis.EntryID) string
	DownloadReport(ctx context.Context, id analysis.EntryID, w io.Writer) (*api.Report, error)
}

// Launched describes a report handed to the opener.
type Launched struct {
	ID   analysis.EntryID
	URL  string
	Path string // saved file; empty in browser mode
}

// Launcher opens reports for history entries.
type Launcher struct {
	fetcher Fetcher
	mode    string
	dir     string
	open    Opener
	logger  *logging.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithOpener replaces the system opener.
func WithOpener(open Opener) Option {
	return func(l *Launcher) { l.open = open }
}

// WithLogger sets the operator logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// NewLauncher creates a Launcher. mode is config.ReportModeDownload or
// config.ReportModeBrowser; dir is where downloads are saved.
func NewLauncher(fetcher Fetcher, mode, dir string, opts ...Option) *Launcher {
	l := &Launcher{
		fetcher: fetcher,
		mode:    mode,
		dir:     dir,
		open:    OpenWithSystem,
		logger:  logging.NopLogger(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Mode returns the launch mode.
func (l *Launcher) Mode() string { return l.mode }

// Launch opens the report for id.
func (l *Launcher) Launch(ctx context.Context, id analysis.EntryID) (*Launched, error) {
	url := l.fetcher.ReportURL(id)
	launched := &Launched{ID: id, URL: url}

	if l.mode == config.ReportModeBrowser {
		if err := l.open(url); err != nil {
			return nil, errors.NewReportError("failed to open browser", err).
				WithReportID(id.String()).WithURL(url)
		}
		l.logger.Info("report opened in browser", "report_id", id.String(), "url", url)
		return launched, nil
	}

	path, err := l.Save(ctx, id)
	if err != nil {
		return nil, err
	}
	launched.Path = path

	if err := l.open(path); err != nil {
		return nil, errors.NewReportError("failed to open report", err).
			WithReportID(id.String()).WithURL(url)
	}
	l.logger.Info("report opened", "report_id", id.String(), "path", path)
	return launched, nil
}

// Save downloads the report for id into the download directory and returns
// the file path. The file is named after the service's Content-Disposition
// or equipment_report_<id>.pdf. A partial download never replaces an
// existing file.
func (l *Launcher) Save(ctx context.Context, id analysis.EntryID) (string, error) {
	url := l.fetcher.ReportURL(id)
	fail := func(msg string, cause error) error {
		return errors.NewReportError(msg, cause).WithReportID(id.String()).WithURL(url)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fail("failed to create download directory", err)
	}

	tmp, err := os.CreateTemp(l.dir, ".equipment_report_*.part")
	if err != nil {
		return "", fail("failed to create download file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tmpName)
	}()

	rep, err := l.fetcher.DownloadReport(ctx, id, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", fail("failed to download report", err)
	}

	name := DefaultFileName(id)
	var size int64
	if rep != nil {
		size = rep.Size
		if rep.FileName != "" {
			name = rep.FileName
		}
	}
	path := filepath.Join(l.dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fail("failed to save report", err)
	}

	l.logger.Debug("report saved", "report_id", id.String(), "path", path, "bytes", size)
	return path, nil
}

// DefaultFileName is the name the service gives report downloads.
func DefaultFileName(id analysis.EntryID) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id.String())
	return fmt.Sprintf("equipment_report_%s.pdf", safe)
}
