// Package api is the HTTP client for the equipment analysis service.
//
// Every request carries the Basic credential the client was constructed
// with. Non-success statuses become *errors.APIError and the response body
// is never parsed on failure.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/errors"
)

// Service endpoints, relative to the base URL.
const (
	UploadPath  = "/api/upload-csv/"
	HistoryPath = "/api/history/"
	reportPath  = "/api/report/%s/"
)

// UploadField is the multipart field name the service reads the CSV from.
const UploadField = "file"

// maxJSONBody caps how much of an upload or history response is read.
const maxJSONBody = 32 << 20

// Credential is the Basic authentication pair sent with every request.
type Credential struct {
	Username string
	Password string
}

// Client talks to one analysis service.
type Client struct {
	baseURL    string
	credential Credential
	httpClient *http.Client
	userAgent  string
}

// Option configures the client.
type Option func(*Client)

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for baseURL, e.g. "http://127.0.0.1:8000".
func New(baseURL string, cred Credential, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: cred,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "chemviz",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ReportURL returns the absolute URL of the PDF report for id.
func (c *Client) ReportURL(id analysis.EntryID) string {
	return c.baseURL + fmt.Sprintf(reportPath, id.PathSegment())
}

// Upload posts a CSV as the multipart field "file" and decodes the
// analysis result.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) (*analysis.Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(UploadField, fileName)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, UploadPath, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	data, err := c.doJSON(req, UploadPath)
	if err != nil {
		return nil, err
	}
	return analysis.ParseResult(data)
}

// History fetches the list of past uploads in server order.
func (c *Client) History(ctx context.Context) ([]analysis.HistoryEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, HistoryPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.doJSON(req, HistoryPath)
	if err != nil {
		return nil, err
	}
	return analysis.ParseHistory(data)
}

// Report describes a downloaded PDF.
type Report struct {
	// FileName is the name suggested by Content-Disposition, if any.
	FileName    string
	ContentType string
	Size        int64
}

// DownloadReport streams the PDF report for id into w, authenticated with
// the client credential.
func (c *Client) DownloadReport(ctx context.Context, id analysis.EntryID, w io.Writer) (*Report, error) {
	path := fmt.Sprintf(reportPath, id.PathSegment())
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.do(req, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return nil, c.transportError(req, path, err)
	}

	return &Report{
		FileName:    attachmentName(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        n,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.SetBasicAuth(c.credential.Username, c.credential.Password)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// do sends req and turns non-2xx responses into *errors.APIError. On
// success the caller owns resp.Body.
func (c *Client) do(req *http.Request, path string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(req, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, errors.NewAPIError(req.Method, path, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) doJSON(req *http.Request, path string) ([]byte, error) {
	resp, err := c.do(req, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody+1))
	if err != nil {
		return nil, c.transportError(req, path, err)
	}
	if len(data) > maxJSONBody {
		return nil, errors.Wrapf(errors.ErrInvalidPayload, "%s %s: response exceeds %d bytes", req.Method, path, maxJSONBody)
	}
	return data, nil
}

// transportError classifies failures that happened before or while
// reading a response.
func (c *Client) transportError(req *http.Request, path string, err error) error {
	op := req.Method + " " + path
	if errors.Is(err, context.Canceled) {
		return errors.Wrapf(errors.ErrCanceled, "%s: %v", op, err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.NewTimeoutError(op, c.httpClient.Timeout).WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// attachmentName extracts the filename parameter of a Content-Disposition
// header, reduced to its base name.
func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := params["filename"]
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." {
		return ""
	}
	return name
}
