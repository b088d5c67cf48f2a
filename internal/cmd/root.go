package cmd

import (
	"context"
	"strings"

	"github.com/chemviz/chemviz/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is stamped at build time via
// -ldflags "-X github.com/chemviz/chemviz/internal/cmd.version=v1.2.3".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "chemviz",
	Short: "Chemical equipment parameter visualizer",
	Long: `chemviz uploads chemical-equipment CSV files to an analysis service,
charts the equipment type distribution, and browses past uploads and their
PDF reports.

Without a subcommand it launches the dashboard.`,
	Version:      version,
	Args:         cobra.NoArgs,
	RunE:         runStart,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/chemviz/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CHEMVIZ")
	// e.g. CHEMVIZ_SERVER_BASE_URL for server.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
