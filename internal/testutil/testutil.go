// Package testutil provides testing utilities for chemviz tests, most
// notably an in-process fake of the equipment analysis service.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Credentials accepted by a Backend unless overridden.
const (
	Username = "Fossee"
	Password = "fossee123"
)

// DefaultUploadBody is the analysis returned by a fresh Backend.
const DefaultUploadBody = `{"type_distribution": {"Pump": 3, "Valve": 5}}`

// Request is one request seen by the Backend, recorded before the
// credential check so that rejected requests are visible too.
type Request struct {
	Method        string
	Path          string
	Authorization string
	UserAgent     string
	// FileName and FileContent hold the multipart "file" part of an upload.
	FileName    string
	FileContent []byte
}

type scripted struct {
	status int
	body   []byte
}

// Backend is a fake analysis service backed by echo. Responses are
// scripted per endpoint and every request is recorded.
type Backend struct {
	Echo   *echo.Echo
	Server *httptest.Server

	mu       sync.Mutex
	requests []Request
	upload   scripted
	history  scripted
	report   scripted
	onUpload func(Request)
}

// NewBackend starts a Backend and registers its shutdown with t.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		Echo:    echo.New(),
		upload:  scripted{http.StatusOK, []byte(DefaultUploadBody)},
		history: scripted{http.StatusOK, []byte(`[]`)},
		report:  scripted{http.StatusOK, []byte("%PDF-1.4\n% chemviz test report\n")},
	}
	b.Echo.HideBanner = true
	b.Echo.HidePort = true

	b.Echo.Use(b.record)
	b.Echo.Use(middleware.BasicAuth(func(user, pass string, _ echo.Context) (bool, error) {
		return user == Username && pass == Password, nil
	}))

	b.Echo.POST("/api/upload-csv/", b.handleUpload)
	b.Echo.GET("/api/history/", b.handleHistory)
	b.Echo.GET("/api/report/:id/", b.handleReport)

	b.Server = httptest.NewServer(b.Echo)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake service.
func (b *Backend) URL() string { return b.Server.URL }

// SetUpload scripts the upload endpoint's response.
func (b *Backend) SetUpload(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upload = scripted{status, []byte(body)}
}

// SetHistory scripts the history endpoint's response.
func (b *Backend) SetHistory(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = scripted{status, []byte(body)}
}

// SetReport scripts the report endpoint's response.
func (b *Backend) SetReport(status int, body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report = scripted{status, body}
}

// OnUpload installs a hook that runs inside the upload handler after the
// file has been read and before the response is written. Tests use it to
// hold a request open or to vary the response per file.
func (b *Backend) OnUpload(hook func(Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onUpload = hook
}

// Requests returns a copy of every recorded request.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests hit method and path.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

const requestIndexKey = "testutil.request_index"

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		b.mu.Lock()
		c.Set(requestIndexKey, len(b.requests))
		b.requests = append(b.requests, Request{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			UserAgent:     req.UserAgent(),
		})
		b.mu.Unlock()
		return next(c)
	}
}

func (b *Backend) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable file"})
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable file"})
	}

	b.mu.Lock()
	idx, _ := c.Get(requestIndexKey).(int)
	b.requests[idx].FileName = fh.Filename
	b.requests[idx].FileContent = content
	rec := b.requests[idx]
	hook := b.onUpload
	b.mu.Unlock()

	if hook != nil {
		hook(rec)
	}

	b.mu.Lock()
	resp := b.upload
	b.mu.Unlock()
	return c.Blob(resp.status, echo.MIMEApplicationJSON, resp.body)
}

func (b *Backend) handleHistory(c echo.Context) error {
	b.mu.Lock()
	resp := b.history
	b.mu.Unlock()
	return c.Blob(resp.status, echo.MIMEApplicationJSON, resp.body)
}

func (b *Backend) handleReport(c echo.Context) error {
	b.mu.Lock()
	resp := b.report
	b.mu.Unlock()

	if resp.status >= 200 && resp.status < 300 {
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="equipment_report_%s.pdf"`, c.Param("id")))
		return c.Blob(resp.status, "application/pdf", resp.body)
	}
	return c.Blob(resp.status, echo.MIMETextPlainCharsetUTF8, resp.body)
}

// WriteCSV writes content to name inside a temporary directory and returns
// the absolute path.
func WriteCSV(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SampleCSV is a small equipment table in the service's input format.
const SampleCSV = `Equipment Name,Type,Flowrate,Pressure,Temperature
Pump-1,Pump,120.5,5.2,110.0
Valve-1,Valve,60.1,4.1,105.3
`
