package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Server.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Server.BaseURL = %q, want %q", cfg.Server.BaseURL, "http://127.0.0.1:8000")
	}
	if cfg.Server.Username != DefaultUsername || cfg.Server.Password != DefaultPassword {
		t.Errorf("Server credential = %q/%q, want the built-in default", cfg.Server.Username, cfg.Server.Password)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
	}
	if cfg.Upload.FilePattern != "*.csv" {
		t.Errorf("Upload.FilePattern = %q, want *.csv", cfg.Upload.FilePattern)
	}
	if cfg.Report.Mode != ReportModeDownload {
		t.Errorf("Report.Mode = %q, want %q", cfg.Report.Mode, ReportModeDownload)
	}
	if cfg.TUI.HistoryExpanded {
		t.Error("TUI.HistoryExpanded should be false by default")
	}
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got, want := ConfigDir(), "/custom/config/chemviz"; got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
		if got, want := ConfigFile(), "/custom/config/chemviz/config.yaml"; got != want {
			t.Errorf("ConfigFile() = %q, want %q", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got, want := ConfigDir(), filepath.Join(home, ".config", "chemviz"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestLoggingConfig_ResolveDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	l := LoggingConfig{}
	if got, want := l.ResolveDir(), "/xdg/chemviz/logs"; got != want {
		t.Errorf("ResolveDir() = %q, want %q", got, want)
	}

	l.Dir = "/var/log/chemviz"
	if got := l.ResolveDir(); got != "/var/log/chemviz" {
		t.Errorf("ResolveDir() = %q, want explicit dir", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	l.Dir = "~/chemviz-logs"
	if got, want := l.ResolveDir(), filepath.Join(home, "chemviz-logs"); got != want {
		t.Errorf("ResolveDir() = %q, want %q", got, want)
	}
}

func TestReportConfig_ResolveDownloadDir(t *testing.T) {
	dir := t.TempDir()
	r := ReportConfig{DownloadDir: dir}
	if got := r.ResolveDownloadDir(); got != dir {
		t.Errorf("ResolveDownloadDir() = %q, want %q", got, dir)
	}

	r.DownloadDir = ""
	if got := r.ResolveDownloadDir(); got == "" {
		t.Error("ResolveDownloadDir() returned empty path for default")
	}
}

func TestUploadConfig_Matches(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*.csv", "pumps.csv", true},
		{"*.csv", "/data/plant/PUMPS.CSV", true},
		{"*.csv", "pumps.xlsx", false},
		{"*.{csv,txt}", "notes.txt", true},
		{"", "anything.bin", true},
		{"[", "malformed.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			u := UploadConfig{FilePattern: tt.pattern}
			if got := u.Matches(tt.name); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Timeout != 30*time.Second {
			t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()
		viper.SetEnvPrefix("CHEMVIZ")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		t.Setenv("CHEMVIZ_SERVER_BASE_URL", "https://analysis.example.com")
		t.Setenv("CHEMVIZ_SERVER_TIMEOUT", "5s")
		t.Setenv("CHEMVIZ_REPORT_MODE", "browser")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.BaseURL != "https://analysis.example.com" {
			t.Errorf("Server.BaseURL = %q", cfg.Server.BaseURL)
		}
		if cfg.Server.Timeout != 5*time.Second {
			t.Errorf("Server.Timeout = %v, want 5s", cfg.Server.Timeout)
		}
		if cfg.Report.Mode != ReportModeBrowser {
			t.Errorf("Report.Mode = %q, want browser", cfg.Report.Mode)
		}
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()
		viper.Set("report.mode", "fax")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() should fail for an invalid report mode")
		}
		verrs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("Load() error type = %T, want ValidationErrors", err)
		}
		if verrs[0].Field != "report.mode" {
			t.Errorf("Field = %q, want report.mode", verrs[0].Field)
		}
	})
}

func TestGet(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("tui.chart_width", 1)

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.TUI.ChartWidth != Default().TUI.ChartWidth {
		t.Errorf("Get() should fall back to defaults on invalid config, got chart_width=%d", cfg.TUI.ChartWidth)
	}
}
