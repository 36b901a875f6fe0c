package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/packforge/internal/transcode"
)

var convertOpts struct {
	watch bool
}

var convertCmd = &cobra.Command{
	Use:   "convert <inputDir> <outputDir>",
	Short: "Normalize audio files to the canonical format",
	Long: `Convert every supported audio file found recursively under inputDir
into outputDir as AIFF (16-bit big-endian PCM) using ffmpeg.

A failed conversion is logged and skipped; it never aborts the batch.

With --watch the command keeps running after the initial pass and
converts new files as they appear in inputDir (until interrupted).

Examples:
  packforge convert ./downloads ./normalized
  packforge convert ./incoming ./normalized --watch`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVarP(&convertOpts.watch, "watch", "w", false,
		"Keep converting files as they appear in inputDir")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]
	tr := newTranscoder()

	outputs, err := tr.NormalizeDir(cmd.Context(), inputDir, outputDir)
	if err != nil {
		return err
	}
	logger.Info("conversion complete", "converted", len(outputs), "output", outputDir)

	if !convertOpts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchAndConvert(ctx, tr, inputDir, outputDir)
}

// watchAndConvert converts supported files as they land in inputDir.
func watchAndConvert(ctx context.Context, tr *transcode.Transcoder, inputDir, outputDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(inputDir); err != nil {
		return err
	}
	logger.Info("watching for new audio files", "dir", inputDir)

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !transcode.Supported(event.Name) {
				continue
			}

			out := filepath.Join(outputDir, transcode.OutputName(event.Name))
			if err := tr.Normalize(ctx, event.Name, out); err != nil {
				logger.Warn("skipping file", "input", event.Name, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
