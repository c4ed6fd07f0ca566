package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toolate28/spiralsafe-mono/internal/logging"
)

var (
	cfgFile  string
	logDir   string
	logLevel string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "spiralsafe",
	Short: "SpiralSafe — session log viewer and coherence toolkit",
	Long: `SpiralSafe watches append-only session logs written by assistant
lifecycle hooks, serves them live to a web dashboard and the terminal,
and exposes the coherence scoring and provenance gate tools over MCP.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.spiralsafe.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logDir, "log-dir", "d", "", "session log directory (default: $HOME/.spiralsafe/logs)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "diagnostic log level: debug, info, warn, error")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".spiralsafe")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SPIRALSAFE")
	viper.AutomaticEnv()

	viper.SetDefault("port", "8787")
	viper.SetDefault("poll_interval_ms", 500)
	viper.SetDefault("session", "")

	_ = viper.ReadInConfig()
}

// resolveLogDir returns the session log directory: flag, then config/env,
// then $HOME/.spiralsafe/logs.
func resolveLogDir() string {
	if logDir != "" {
		return logDir
	}
	if dir := viper.GetString("log_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".spiralsafe", "logs")
}

// resolveCounterPath returns the tag counter database path.
func resolveCounterPath() string {
	if path := viper.GetString("counter_path"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".spiralsafe", "counters.db")
}

func pollInterval() time.Duration {
	return time.Duration(viper.GetInt("poll_interval_ms")) * time.Millisecond
}

// setupLogging initializes slog. jsonOutput keeps stderr machine-readable
// when stdout carries a protocol (hook responses, MCP stdio).
func setupLogging(jsonOutput bool) {
	logging.Init(jsonOutput, logging.ParseLevel(logLevel))
}
