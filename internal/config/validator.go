package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "server.base_url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

const (
	minChartWidth = 10
	maxChartWidth = 200
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateUpload()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.Server.BaseURL)
	switch {
	case c.Server.BaseURL == "":
		errors = append(errors, ValidationError{
			Field:   "server.base_url",
			Value:   c.Server.BaseURL,
			Message: "must not be empty",
		})
	case err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "":
		errors = append(errors, ValidationError{
			Field:   "server.base_url",
			Value:   c.Server.BaseURL,
			Message: "must be an absolute http or https URL",
		})
	}

	if c.Server.Username == "" {
		errors = append(errors, ValidationError{
			Field:   "server.username",
			Value:   c.Server.Username,
			Message: "must not be empty",
		})
	}

	if c.Server.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.timeout",
			Value:   c.Server.Timeout,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	return errors
}

func (c *Config) validateUpload() []ValidationError {
	if c.Upload.FilePattern == "" {
		return nil
	}
	if _, err := glob.Compile(c.Upload.FilePattern); err != nil {
		return []ValidationError{{
			Field:   "upload.file_pattern",
			Value:   c.Upload.FilePattern,
			Message: fmt.Sprintf("invalid glob: %v", err),
		}}
	}
	return nil
}

func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidReportModes(), c.Report.Mode) {
		errors = append(errors, ValidationError{
			Field:   "report.mode",
			Value:   c.Report.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidReportModes(), ", ")),
		})
	}

	if strings.ContainsRune(c.Report.DownloadDir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "report.download_dir",
			Value:   c.Report.DownloadDir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	if c.TUI.ChartWidth < minChartWidth || c.TUI.ChartWidth > maxChartWidth {
		return []ValidationError{{
			Field:   "tui.chart_width",
			Value:   c.TUI.ChartWidth,
			Message: fmt.Sprintf("must be between %d and %d", minChartWidth, maxChartWidth),
		}}
	}
	return nil
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	} else if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
