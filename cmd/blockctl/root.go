package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockalloc/internal/logger"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	backingName string
	logLevel    string
	logJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "blockctl",
	Short: "Replay and inspect owner-tagged block allocations",
	Long: `blockctl replays allocation scripts against a first-fit block allocator
and reports the offset granted to every request, the bytes returned by every
release, and the final layout of the buffer.

Scripts contain one operation per line:
  create <capacity>
  alloc <size> <owner>
  free <owner>
  destroy`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&backingName, "backing", "heap", "Backing buffer: heap or mmap")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "off", "Log level: off, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setupLogging configures the global logger from the flags. Logs go to stderr
// so they never mix with command output.
func setupLogging() error {
	if logLevel == "off" {
		if verbose {
			logger.Init(logger.Options{Enabled: true, Level: slog.LevelDebug, JSON: logJSON})
			return nil
		}
		logger.Init(logger.Options{Enabled: false})
		return nil
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{Enabled: true, Level: level, JSON: logJSON})
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
