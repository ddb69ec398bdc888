package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fpick/internal/config"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	globalConfig *config.Config
)

// LogDir receives the logs of the terminal commands
const LogDir = "/tmp/fpick"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fpick [path]",
	Short: "Pick files from a directory tree in the terminal or the browser",
	Long: `fpick browses a directory tree held by a server, confined to a root
directory, and returns the files the user picked. The tree can be the local
file system, an S3 compatible bucket or a remote host over SFTP.

Example usage:
  fpick                           # Pick a file under the configured root
  fpick pick ~/photos --multiple --accept .jpg,.png
  fpick list ~/photos
  fpick confirm "Deploy now?" --timeout 30
  fpick serve                     # Run the picker in the browser`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a subcommand, open the picker with the configured defaults
		return runPick(cmd, args)
	},
	SilenceUsage: true,
}

// exitError ends the process with a specific status and no message
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	os.Exit(1)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.fpick/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")

	addPickFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command) error {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Configure logging
	setupLogging(usesTerminalUI(cmd))

	return nil
}

// usesTerminalUI reports whether cmd draws a full screen UI
func usesTerminalUI(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case serveCmd.Name(), listCmd.Name(), hashPasswordCmd.Name():
		return false
	}
	return true
}

// setupLogging configures the global logger based on config and flags.
// Full screen commands log to a file so the UI is not disturbed.
func setupLogging(toFile bool) {
	// Set log level
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	if toFile {
		if err := os.MkdirAll(LogDir, 0755); err != nil {
			// Fallback to stderr if can't create log directory
			logrus.Warnf("Failed to create log directory %s: %v", LogDir, err)
		} else {
			logFile := filepath.Join(LogDir, "app.log")
			file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				logrus.Warnf("Failed to open log file %s: %v", logFile, err)
			} else {
				logrus.SetOutput(file)
			}
		}
	} else {
		logrus.SetOutput(os.Stderr)
	}

	// Set log format
	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}
