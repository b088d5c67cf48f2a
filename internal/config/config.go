package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"
)

// Built-in connection defaults. They match the demo deployment of the
// analysis service and can be overridden in the config file or through
// CHEMVIZ_SERVER_* environment variables.
const (
	DefaultBaseURL  = "http://127.0.0.1:8000"
	DefaultUsername = "Fossee"
	DefaultPassword = "fossee123"
)

// Report launch modes
const (
	ReportModeDownload = "download"
	ReportModeBrowser  = "browser"
)

// Config represents the complete chemviz configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Report  ReportConfig  `mapstructure:"report"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig describes how to reach the analysis service
type ServerConfig struct {
	// BaseURL is the scheme and host of the service, without a trailing path
	BaseURL string `mapstructure:"base_url"`
	// Username and Password form the Basic credential sent with every request
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// Timeout bounds each request (0 = no timeout)
	Timeout time.Duration `mapstructure:"timeout"`
}

// UploadConfig controls file selection
type UploadConfig struct {
	// FilePattern is the glob shown as a hint next to the file input and used
	// to warn (never block) when a selected file does not match
	FilePattern string `mapstructure:"file_pattern"`
}

// ReportConfig controls how PDF reports are launched
type ReportConfig struct {
	// Mode is "download" (authenticated fetch, then open the saved file) or
	// "browser" (hand the URL to the system browser)
	Mode string `mapstructure:"mode"`
	// DownloadDir is where reports are saved in download mode.
	// Empty means ~/Downloads when it exists, otherwise the temp dir.
	DownloadDir string `mapstructure:"download_dir"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// ChartWidth is the maximum bar length in columns
	ChartWidth int `mapstructure:"chart_width"`
	// HistoryExpanded shows the history panel on startup
	HistoryExpanded bool `mapstructure:"history_expanded"`
}

// LoggingConfig controls the operator log
type LoggingConfig struct {
	// Enabled turns the operator log on. When false nothing is written.
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum level written: debug, info, warn, error
	Level string `mapstructure:"level"`
	// MaxSizeMB is the size at which debug.log is rotated
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files kept
	MaxBackups int `mapstructure:"max_backups"`
	// Dir holds debug.log. Empty means <config dir>/logs.
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:  DefaultBaseURL,
			Username: DefaultUsername,
			Password: DefaultPassword,
			Timeout:  30 * time.Second,
		},
		Upload: UploadConfig{
			FilePattern: "*.csv",
		},
		Report: ReportConfig{
			Mode: ReportModeDownload,
		},
		TUI: TUIConfig{
			ChartWidth:      40,
			HistoryExpanded: false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("server.base_url", defaults.Server.BaseURL)
	viper.SetDefault("server.username", defaults.Server.Username)
	viper.SetDefault("server.password", defaults.Server.Password)
	viper.SetDefault("server.timeout", defaults.Server.Timeout)

	viper.SetDefault("upload.file_pattern", defaults.Upload.FilePattern)

	viper.SetDefault("report.mode", defaults.Report.Mode)
	viper.SetDefault("report.download_dir", defaults.Report.DownloadDir)

	viper.SetDefault("tui.chart_width", defaults.TUI.ChartWidth)
	viper.SetDefault("tui.history_expanded", defaults.TUI.HistoryExpanded)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chemviz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chemviz"
	}
	return filepath.Join(home, ".config", "chemviz")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ResolveDir returns the directory that holds debug.log.
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(l.Dir)
}

// ResolveDownloadDir returns the directory reports are saved into.
func (r *ReportConfig) ResolveDownloadDir() string {
	if r.DownloadDir != "" {
		return expandHome(r.DownloadDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		downloads := filepath.Join(home, "Downloads")
		if info, err := os.Stat(downloads); err == nil && info.IsDir() {
			return downloads
		}
	}
	return os.TempDir()
}

// Matches reports whether name matches the file pattern hint. An empty or
// malformed pattern matches everything.
func (u *UploadConfig) Matches(name string) bool {
	if u.FilePattern == "" {
		return true
	}
	g, err := glob.Compile(strings.ToLower(u.FilePattern))
	if err != nil {
		return true
	}
	return g.Match(strings.ToLower(filepath.Base(name)))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// ValidReportModes returns the list of valid report.mode values
func ValidReportModes() []string {
	return []string{ReportModeDownload, ReportModeBrowser}
}
