package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nandtest",
		Short: "Stress test raw flash and inspect the results.",
		Long: `nandtest runs destructive erase/write/verify passes or read-only ` +
			`passes over a flash image, tracking the bitflips ECC corrected ` +
			`along the way.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := loadEnv(envFile); err != nil {
				return err
			}
			return applyEnv(cmd)
		},
	}

	rootCmd.PersistentFlags().String("env-file", ".env", "File with NANDTEST_* defaults")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newImageCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// Execute runs the command line and exits. Exit status is 0 on success and 1
// on invalid arguments or a failed run.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// loadEnv loads path into the environment without overriding variables that
// are already set. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// envFlags maps flag names to the environment variables providing their
// defaults.
var envFlags = map[string]string{
	"verbose":    "NANDTEST_VERBOSE",
	"markbad":    "NANDTEST_MARKBAD",
	"seed":       "NANDTEST_SEED",
	"iterations": "NANDTEST_ITERATIONS",
	"record":     "NANDTEST_RECORD",
	"page-size":  "NANDTEST_PAGE_SIZE",
	"oob-size":   "NANDTEST_OOB_SIZE",
	"erase-size": "NANDTEST_ERASE_SIZE",
	"size":       "NANDTEST_SIZE",
}

// applyEnv sets every flag of cmd that was not given on the command line
// from its environment variable.
func applyEnv(cmd *cobra.Command) error {
	for name, env := range envFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		value, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}

// newLogger returns the logger for cmd, honoring --verbose.
func newLogger(cmd *cobra.Command) *slogLogger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(handler)}
}

// slogLogger adapts slog to flash.Logger.
type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, kv ...interface{}) {
	l.logger.Debug(msg, kv...)
}

func (l *slogLogger) Info(msg string, kv ...interface{}) {
	l.logger.Info(msg, kv...)
}

func (l *slogLogger) Error(msg string, kv ...interface{}) {
	l.logger.Error(msg, kv...)
}
