package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kidevu123/expense-release/internal/config"
	"github.com/kidevu123/expense-release/internal/logger"
	"github.com/kidevu123/expense-release/internal/service/release"
	"github.com/kidevu123/expense-release/internal/version"
)

var (
	// configPath stores the path to the settings YAML file.
	configPath string
	// repoPath optionally overrides the repository working tree.
	repoPath string
	// versionFile optionally overrides the version record location.
	versionFile string
	// logLevel sets the minimum level for log output.
	logLevel string

	// rootCmd represents the base command of the release manager.
	rootCmd = &cobra.Command{
		Use:   "expense-release",
		Short: "Release manager for the Trade Show Expense Tracker.",
		Long: `Manages the expense tracker's version record: semantic version bumps,
build numbering, annotated git tags, release history and deployment guidance.

The version record is a JSON document (version.json by default) shared with
the tracker's UI badge; releases tag the repository first and only then
persist the new record, so the recorded version always matches a real tag.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
	}
)

// Execute runs the expense-release CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags shared by every subcommand.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&repoPath, "repo", "r", "", "path to the repository working tree (overrides config)")
	rootCmd.PersistentFlags().
		StringVar(&versionFile, "version-file", "", "path to the version record JSON (overrides config)")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, fatal)")
}

// commandContext returns a context canceled on SIGTERM/SIGINT.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// baseOptions builds release options from the persistent flags.
func baseOptions() *release.Options {
	return &release.Options{
		ConfigPath:  configPath,
		RepoPath:    repoPath,
		VersionFile: versionFile,
	}
}
