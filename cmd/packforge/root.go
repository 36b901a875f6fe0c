// Package main provides the CLI entrypoint for packforge.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/packforge/internal/config"
	"github.com/jmylchreest/packforge/internal/provider"
	"github.com/jmylchreest/packforge/internal/transcode"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	creds      config.Credentials
	logger     *slog.Logger
	logFile    *os.File
	globalOpts struct {
		verbose    bool
		configPath string
	}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "packforge",
	Short: "Curate notification sound packs from audio-clip providers",
	Long: `packforge curates notification sound packs.

It searches audio-clip providers (pixabay, freesound), downloads the
matching clips, normalizes them to one canonical format (AIFF, 16-bit
big-endian PCM) with ffmpeg, and assembles a pack directory holding a
pack.json manifest that maps notification events to sound files.

Each pipeline stage is also available as its own subcommand for manual
or partial workflows.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Credentials come from the environment only
		creds = config.CredentialsFromEnv()

		setupLogger()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/packforge/config.toml)")
}

// setupLogger configures the global slog logger. Log lines go to stderr
// so stdout stays clean for command output, and are appended to the
// process log file as well.
func setupLogger() {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr

	logPath := cfg.Log.File
	if logPath == "" {
		if err := config.EnsureStateDir(); err == nil {
			logPath = config.LogPath()
		}
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot open log file %s: %v\n", logPath, err)
		} else {
			logFile = f
			w = io.MultiWriter(os.Stderr, f)
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newProvider builds the adapter registered under name with the shared
// rate limiter and credentials.
func newProvider(name string) (provider.Provider, error) {
	return provider.New(name, provider.Options{
		Credentials: creds,
		Limiter:     provider.NewLimiter(cfg.RateLimits),
		Logger:      logger,
	})
}

// newTranscoder builds the ffmpeg wrapper from config.
func newTranscoder() *transcode.Transcoder {
	return transcode.New(cfg.Transcode.FFmpegPath, logger)
}
