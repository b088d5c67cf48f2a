package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/chemviz/chemviz/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify chemviz configuration",
	Long: `View or modify chemviz configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  chemviz config set server.base_url http://127.0.0.1:8000
  chemviz config set report.mode browser
  chemviz config set tui.chart_width 60

Valid keys:
  server.base_url        - Analysis service base URL
  server.username        - Basic auth user
  server.password        - Basic auth password
  server.timeout         - Per-request timeout (e.g. 30s, 0 disables)
  upload.file_pattern    - File name hint for the picker (e.g. *.csv)
  report.mode            - download or browser
  report.download_dir    - Where downloaded reports and charts are saved
  tui.chart_width        - Width of the terminal bar chart
  tui.history_expanded   - Show the history list on startup (true/false)
  logging.enabled        - Write the operator log (true/false)
  logging.level          - debug, info, warn or error
  logging.max_size_mb    - Rotate the log at this size
  logging.max_backups    - Rotated logs to keep
  logging.dir            - Directory of debug.log`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/chemviz/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

const maskedSecret = "<redacted>"

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	settings := fileSettings()
	if server, ok := settings["server"].(map[string]any); ok {
		if pw, _ := server["password"].(string); pw != "" {
			server["password"] = maskedSecret
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// fileSettings returns the resolved settings in config file form. The
// flag-bound "config" key is dropped and durations are spelled out.
func fileSettings() map[string]any {
	settings := viper.AllSettings()
	delete(settings, "config")
	normalizeDurations(settings)
	return settings
}

func normalizeDurations(m map[string]any) {
	for k, v := range m {
		switch v := v.(type) {
		case time.Duration:
			m[k] = v.String()
		case map[string]any:
			normalizeDurations(v)
		}
	}
}

// settableKeys maps each key accepted by "config set" to its value kind.
var settableKeys = map[string]string{
	"server.base_url":      "string",
	"server.username":      "string",
	"server.password":      "string",
	"server.timeout":       "duration",
	"upload.file_pattern":  "string",
	"report.mode":          "string",
	"report.download_dir":  "string",
	"tui.chart_width":      "int",
	"tui.history_expanded": "bool",
	"logging.enabled":      "bool",
	"logging.level":        "string",
	"logging.max_size_mb":  "int",
	"logging.max_backups":  "int",
	"logging.dir":          "string",
}

// parseSetting validates value for key and converts it to the type stored
// in the config file.
func parseSetting(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'chemviz config set --help' to see valid keys", key)
	}

	switch kind {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case "duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return d.String(), nil
	}

	switch key {
	case "report.mode":
		if !slices.Contains(config.ValidReportModes(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidReportModes(), ", "))
		}
	case "logging.level":
		if !slices.Contains(config.ValidLogLevels(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
	}
	return value, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value, err := parseSetting(key, args[1])
	if err != nil {
		return err
	}

	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, value)

	// Every resolved value is written, not just the one being set.
	data, err := yaml.Marshal(fileSettings())
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	configFile := config.ConfigFile()
	if used := viper.ConfigFileUsed(); used != "" {
		configFile = used
	}
	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	shown := value
	if key == "server.password" {
		shown = maskedSecret
	}
	fmt.Fprintf(out, "Set %s = %v\n", key, shown)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

const configTemplate = `# chemviz configuration

# Analysis service
server:
  base_url: %s
  # Basic auth credential sent with every request, report downloads included
  username: %s
  password: %s
  # Per-request timeout; 0 disables it
  timeout: 30s

upload:
  # Name hint for the file picker; other files are accepted with a warning
  file_pattern: "*.csv"

report:
  # download: fetch the PDF with the credential and open the saved file
  # browser: open the report URL in the system browser
  mode: download
  # Defaults to ~/Downloads when it exists, else the temp directory
  download_dir: ""

# Terminal dashboard
tui:
  chart_width: 40
  history_expanded: false

# Operator log (debug.log), inspected with 'chemviz logs'
logging:
  enabled: true
  level: info
  max_size_mb: 5
  max_backups: 3
  # Defaults to <config dir>/logs
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'chemviz config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(configTemplate, config.DefaultBaseURL, config.DefaultUsername, config.DefaultPassword)
	if err := os.WriteFile(configFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to point chemviz at your analysis service.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: CHEMVIZ_* (e.g., CHEMVIZ_SERVER_BASE_URL)")
	return nil
}
